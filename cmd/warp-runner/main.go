// Package main provides the entry point for warp-runner: the stub image
// patched and embedded by warp-packer into every output binary. It takes
// no CLI of its own; every argument is forwarded verbatim to the
// packaged entry point.
package main

import (
	"os"

	"github.com/dgiagio/warp/internal/archive"
	"github.com/dgiagio/warp/internal/cache"
	"github.com/dgiagio/warp/internal/executor"
	"github.com/dgiagio/warp/internal/filesystem"
	"github.com/dgiagio/warp/internal/locator"
	"github.com/dgiagio/warp/internal/logger"
	"github.com/dgiagio/warp/internal/run"
	"github.com/dgiagio/warp/internal/triple"
)

func main() {
	if os.Getenv("WARP_TRACE") != "" {
		logger.SetVerbose(true)
	}

	selfPath, err := os.Executable()
	if err != nil {
		logger.Errorf("locating self: %v", err)
		os.Exit(1)
	}

	arch, err := triple.Current()
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	fs := &filesystem.OSFileSystem{}
	extractor := archive.NewExtractor(fs, archive.DefaultProcessor{})

	runner := run.New(
		fs,
		&executor.OSCommandExecutor{},
		cache.New(fs, extractor),
		arch,
		func(f filesystem.File) interface {
			Next() (offset int64, ok bool, err error)
		} {
			return locator.NewScanner(f)
		},
	)

	code, err := runner.Run(selfPath, os.Args[1:])
	if err != nil {
		logger.Errorf("%v", err)
	}

	os.Exit(code)
}
