package pack

import (
	"bufio"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/dgiagio/warp/internal/archive"
	"github.com/dgiagio/warp/internal/logger"
)

const progressThrottle = 65 * time.Millisecond

// ignoreFileName is the optional ignore spec read from the root of
// input_dir before the archive is built.
const ignoreFileName = ".warpignore"

// Run executes one end-to-end pack: build opts.InputDir into an archive,
// patch a runner stub for opts.Arch with opts.EntryName, and assemble the
// result at opts.OutputPath. On any failure, no partial output file is
// left behind.
func (p *Packer) Run(opts Options) error {
	stageHeader("Compressing input directory...")

	ignoreSpec, err := p.loadIgnoreSpec(opts.InputDir)
	if err != nil {
		return err
	}

	archivePath := opts.OutputPath + ".warp-archive-" + uuid.NewString()

	defer func() { _ = p.fs.RemoveAll(archivePath) }()

	p.builder.SetProgress(newProgressReporter(opts.InputDir, ignoreSpec))

	if err := p.builder.Build(opts.InputDir, archivePath, ignoreSpec); err != nil {
		return err
	}

	stageHeader("Creating self-contained application...")

	stubImage, err := p.stubs.ImageFor(opts.Arch)
	if err != nil {
		return err
	}

	patched, err := p.patch(stubImage, opts.EntryName)
	if err != nil {
		return err
	}

	if err := p.assemble.Assemble(patched, archivePath, opts.OutputPath, opts.Arch); err != nil {
		return err
	}

	logger.Infof("wrote %s", opts.OutputPath)

	return nil
}

// loadIgnoreSpec reads <inputDir>/.warpignore if it exists; its absence
// is not an error and simply means "ignore nothing".
func (p *Packer) loadIgnoreSpec(inputDir string) (*archive.IgnoreSpec, error) {
	path := filepath.Join(inputDir, ignoreFileName)

	file, err := p.fs.Open(path)
	if err != nil {
		if p.fs.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}
	defer func() { _ = file.Close() }()

	var lines []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return archive.ParseIgnoreSpec(lines)
}

// newProgressReporter counts the files Build will visit (first pass) and
// returns a callback that advances a progress bar as Build visits them
// again for real (second pass).
func newProgressReporter(inputDir string, ignoreSpec *archive.IgnoreSpec) func(relPath string) {
	total := countEntries(inputDir, ignoreSpec)

	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription("Packing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(progressThrottle),
		progressbar.OptionOnCompletion(func() { _, _ = os.Stderr.WriteString("\n") }),
	)

	return func(string) { _ = bar.Add(1) }
}

// countEntries walks inputDir once to size the progress bar; walk errors
// are swallowed here since Build will surface them properly on its own
// pass.
func countEntries(inputDir string, ignoreSpec *archive.IgnoreSpec) int64 {
	var count int64

	_ = filepath.WalkDir(inputDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil || path == inputDir {
			return nil //nolint:nilerr
		}

		rel, relErr := filepath.Rel(inputDir, path)
		if relErr != nil {
			return nil
		}

		rel = filepath.ToSlash(rel)

		if ignoreSpec.Ignore(rel, entry.IsDir()) {
			if entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		count++

		return nil
	})

	return count
}

// stageHeader prints a colored status line the way warp-packer's original
// plain println staging messages did, with the ecosystem's idiomatic
// colorized CLI output layered on top.
func stageHeader(msg string) {
	color.New(color.FgCyan, color.Bold).Fprintln(os.Stderr, msg) //nolint:errcheck
}
