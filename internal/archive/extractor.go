package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/dgiagio/warp/internal/filesystem"
	"github.com/dgiagio/warp/internal/logger"
)

const (
	defaultDirPerm  = 0o755
	unixPermMask    = 0o777
	errChanBuffer   = 4
	defaultMaxFiles = 20000
)

var (
	defaultMaxFileSize  = int64(200 * 1024 * 1024)
	defaultMaxTotalSize = int64(2 * 1024 * 1024 * 1024)
)

// fileExtractionWork is one regular file waiting to be written to disk by
// a worker goroutine.
type fileExtractionWork struct {
	targetPath string
	data       []byte
	mode       os.FileMode
}

// NewExtractor creates an Extractor with the default size limits and one
// worker per available CPU.
func NewExtractor(fs filesystem.FileSystem, processor Processor) *Extractor {
	return &Extractor{
		fs:           fs,
		processor:    processor,
		maxFiles:     defaultMaxFiles,
		maxFileSize:  defaultMaxFileSize,
		maxTotalSize: defaultMaxTotalSize,
		numWorkers:   runtime.NumCPU(),
	}
}

// Extract unpacks the tar.gz archive at archivePath into destDir.
// Directories, regular files, and symlinks are restored with the mode
// bits recorded in the tar header; every entry's path is validated to
// stay within destDir before anything is written.
func (e *Extractor) Extract(archivePath, destDir string) error {
	return e.extractFrom(archivePath, destDir, 0)
}

// ExtractAt unpacks the tar.gz archive found at byte offset offset inside
// selfPath, the layout a warp-runner binary uses: the archive is appended
// past the runner's own image rather than living in a standalone file.
func (e *Extractor) ExtractAt(selfPath string, offset int64, destDir string) error {
	return e.extractFrom(selfPath, destDir, offset)
}

func (e *Extractor) extractFrom(archivePath, destDir string, offset int64) error {
	archivePath = filepath.Clean(archivePath)
	destDir = filepath.Clean(destDir)

	if err := e.Validate(archivePath); err != nil {
		return err
	}

	file, err := e.fs.Open(archivePath)
	if err != nil {
		return &ExtractionError{ArchivePath: archivePath, Destination: destDir, Context: "opening archive file", Err: err}
	}
	defer func() { _ = file.Close() }()

	if offset > 0 {
		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			return &ExtractionError{ArchivePath: archivePath, Destination: destDir, Context: "seeking to archive offset", Err: err}
		}
	}

	gzipReader, err := e.processor.NewGzipReader(file)
	if err != nil {
		return &ExtractionError{ArchivePath: archivePath, Destination: destDir, Context: "creating gzip reader", Err: err}
	}
	defer func() { _ = gzipReader.Close() }()

	tarReader := e.processor.NewTarReader(gzipReader)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workChan := make(chan fileExtractionWork, e.numWorkers*2) //nolint:mnd
	errChan := make(chan error, errChanBuffer)

	var waitGroup sync.WaitGroup

	for i := 0; i < e.numWorkers; i++ {
		waitGroup.Add(1)

		go e.extractFileWorker(ctx, workChan, errChan, &waitGroup)
	}

	loopErr := e.readEntries(ctx, tarReader, destDir, archivePath, workChan)

	close(workChan)
	waitGroup.Wait()

	if loopErr != nil {
		return loopErr
	}

	select {
	case workerErr := <-errChan:
		return workerErr
	default:
		return nil
	}
}

// readEntries walks the tar stream, validating and dispatching each entry.
func (e *Extractor) readEntries(
	ctx context.Context,
	tarReader TarReader,
	destDir, archivePath string,
	workChan chan<- fileExtractionWork,
) error {
	fileCount := 0
	totalSize := int64(0)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return &ExtractionError{ArchivePath: archivePath, Destination: destDir, Context: "reading tar header", Err: err}
		}

		fileCount++
		if fileCount > e.maxFiles {
			return &ExtractionError{
				ArchivePath: archivePath, Destination: destDir, Context: "validating file count",
				Err: fmt.Errorf("archive contains more than %d files: %w", e.maxFiles, ErrTooManyFiles),
			}
		}

		if header.Size > e.maxFileSize {
			return &ExtractionError{
				ArchivePath: archivePath, Destination: destDir, Context: "validating file size",
				Err: fmt.Errorf("entry %s is %d bytes: %w", header.Name, header.Size, ErrFileTooLarge),
			}
		}

		totalSize += header.Size
		if totalSize > e.maxTotalSize {
			return &ExtractionError{
				ArchivePath: archivePath, Destination: destDir, Context: "validating total size",
				Err: fmt.Errorf("archive exceeds %d bytes uncompressed: %w", e.maxTotalSize, ErrFileTooLarge),
			}
		}

		if err := e.processEntry(ctx, tarReader, header, destDir, archivePath, workChan); err != nil {
			return err
		}
	}
}

func (e *Extractor) processEntry(
	ctx context.Context,
	tarReader TarReader,
	header *tar.Header,
	destDir, archivePath string,
	workChan chan<- fileExtractionWork,
) error {
	targetPath, err := constructTargetPath(header.Name, destDir)
	if err != nil {
		return &ExtractionError{ArchivePath: archivePath, Destination: destDir, Context: "validating header name", Err: err}
	}

	mode := os.FileMode(header.Mode & unixPermMask) //nolint:gosec

	switch header.Typeflag {
	case tar.TypeDir:
		if err := e.fs.MkdirAll(targetPath, defaultDirPerm); err != nil {
			return &ExtractionError{ArchivePath: archivePath, Destination: destDir, Context: "creating directory", Err: err}
		}

		return e.fs.Chmod(targetPath, mode)

	case tar.TypeReg:
		data := make([]byte, header.Size)
		if _, err := io.ReadFull(tarReader, data); err != nil {
			return &ExtractionError{ArchivePath: archivePath, Destination: destDir, Context: "reading file body", Err: err}
		}

		select {
		case workChan <- fileExtractionWork{targetPath: targetPath, data: data, mode: mode}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}

	case tar.TypeSymlink:
		if err := e.validateLinkname(header.Linkname, filepath.Dir(targetPath), destDir); err != nil {
			return &ExtractionError{ArchivePath: archivePath, Destination: destDir, Context: "validating symlink target", Err: err}
		}

		if err := e.fs.MkdirAll(filepath.Dir(targetPath), defaultDirPerm); err != nil {
			return &ExtractionError{ArchivePath: archivePath, Destination: destDir, Context: "creating parent directory", Err: err}
		}

		if err := e.fs.Symlink(header.Linkname, targetPath); err != nil {
			return &ExtractionError{ArchivePath: archivePath, Destination: destDir, Context: "creating symlink", Err: err}
		}

		return nil

	default:
		logger.Debugf("skipping unsupported tar entry type for %s", header.Name)

		return nil
	}
}

// extractFileWorker writes regular-file work items to disk until
// workChan is closed or ctx is cancelled.
func (e *Extractor) extractFileWorker(
	ctx context.Context,
	workChan <-chan fileExtractionWork,
	errChan chan<- error,
	waitGroup *sync.WaitGroup,
) {
	defer waitGroup.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case work, ok := <-workChan:
			if !ok {
				return
			}

			if err := e.writeFile(work); err != nil {
				select {
				case errChan <- err:
				default:
				}

				return
			}
		}
	}
}

func (e *Extractor) writeFile(work fileExtractionWork) error {
	if err := e.fs.MkdirAll(filepath.Dir(work.targetPath), defaultDirPerm); err != nil {
		return &ExtractionError{ArchivePath: work.targetPath, Context: "creating parent directory", Err: err}
	}

	file, err := e.fs.OpenFile(work.targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, work.mode)
	if err != nil {
		return &ExtractionError{ArchivePath: work.targetPath, Context: "opening destination file", Err: err}
	}

	if _, err := file.Write(work.data); err != nil {
		_ = file.Close()

		return &ExtractionError{ArchivePath: work.targetPath, Context: "writing file contents", Err: err}
	}

	if err := file.Close(); err != nil {
		return &ExtractionError{ArchivePath: work.targetPath, Context: "closing file", Err: err}
	}

	return e.fs.Chmod(work.targetPath, work.mode)
}
