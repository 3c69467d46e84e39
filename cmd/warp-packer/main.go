// Package main provides the entry point for warp-packer, the build-time
// half of warp: it bundles an application directory and a patched runner
// stub into one self-contained output binary.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgiagio/warp/internal/archive"
	"github.com/dgiagio/warp/internal/assembler"
	"github.com/dgiagio/warp/internal/cache"
	"github.com/dgiagio/warp/internal/filesystem"
	"github.com/dgiagio/warp/internal/gc"
	"github.com/dgiagio/warp/internal/logger"
	"github.com/dgiagio/warp/internal/marker"
	"github.com/dgiagio/warp/internal/pack"
	"github.com/dgiagio/warp/internal/stub"
	"github.com/dgiagio/warp/internal/triple"
	"github.com/dgiagio/warp/internal/validation"
)

func main() {
	rootCmd := newRootCmd()
	rootCmd.AddCommand(newGCCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the root command, which is itself the pack
// operation: warp-packer has no verb, matching the original CLI's flat
// flag set.
func newRootCmd() *cobra.Command {
	var arch, inputDir, entryName, outputPath string

	cmd := &cobra.Command{
		Use:   "warp-packer",
		Short: "Package an application directory into one self-contained binary",
		Long: `warp-packer bundles an input directory and a chosen entry point into a
single native binary for a target architecture. The result embeds a
runner that extracts the bundled files into a per-application cache
directory and runs the entry point from there.`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger.SetVerbose(verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPack(arch, inputDir, entryName, outputPath)
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.Flags().StringVarP(&arch, "arch", "a", "", "Target architecture (linux-x64, macos-x64, windows-x64)")
	cmd.Flags().StringVarP(&inputDir, "input_dir", "i", "", "Directory to package")
	cmd.Flags().StringVarP(&entryName, "exec", "e", "", "Entry point to run, relative to input_dir")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to write the packaged binary to")

	for _, name := range []string{"arch", "input_dir", "exec", "output"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	return cmd
}

// runPack validates the CLI-provided flags and wires the real C1-C4
// collaborators into a Packer for one pack run.
func runPack(archFlag, inputDir, entryName, outputPath string) error {
	fs := &filesystem.OSFileSystem{}

	t, err := triple.Parse(archFlag)
	if err != nil {
		return fmt.Errorf("%q: %w", archFlag, err)
	}

	if err := validation.ValidateInputDir(fs, inputDir); err != nil {
		return err
	}

	if err := validation.ValidateOutputPath(fs, outputPath, inputDir); err != nil {
		return err
	}

	if err := validation.ValidateEntryName(entryName); err != nil {
		return err
	}

	if err := validation.ValidateEntryExists(fs, inputDir, entryName); err != nil {
		return err
	}

	builder := archive.NewBuilder(fs, archive.DefaultProcessor{})
	packer := pack.New(fs, stub.Default(), builder, marker.Patch, assembler.New(fs))

	return packer.Run(pack.Options{
		InputDir:   inputDir,
		OutputPath: outputPath,
		EntryName:  entryName,
		Arch:       t,
	})
}

// newGCCmd builds the additive `gc` subcommand that removes cache
// directories no longer associated with any binary still being run,
// using age as the only signal available without a manifest.
func newGCCmd() *cobra.Command {
	var olderThan time.Duration

	var dryRun bool

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Remove cache directories older than a threshold",
		Long: `gc scans every packaged application's cache directory and removes the
ones whose contents have not been refreshed within --older-than, since
there is no record mapping a cache directory back to a still-existing
producer binary.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			collector := gc.New(&filesystem.OSFileSystem{})

			results, err := collector.Run(cache.Root(), olderThan, dryRun)
			if err != nil {
				return err
			}

			removed := 0

			for _, entry := range results {
				if entry.Removed {
					removed++
				}
			}

			if dryRun {
				fmt.Printf("%d cache director(ies) would be removed\n", len(results))
			} else {
				fmt.Printf("%d cache director(ies) removed\n", removed)
			}

			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", gc.DefaultOlderThan, "Remove cache directories not refreshed within this duration")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be removed without removing anything")

	return cmd
}
