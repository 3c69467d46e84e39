package archive

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dgiagio/warp/internal/filesystem"
	"github.com/dgiagio/warp/internal/logger"
)

// NewBuilder creates a Builder.
func NewBuilder(filesys filesystem.FileSystem, processor Processor) *Builder {
	return &Builder{fs: filesys, processor: processor}
}

// SetProgress registers a callback invoked once per packaged entry,
// after it has been written to the tar stream. The packer CLI uses this
// to drive a progress bar; tests and other callers may leave it unset.
func (b *Builder) SetProgress(fn func(relPath string)) {
	b.onEntry = fn
}

// Build walks srcDir and writes it, as a tar.gz stream, to outPath.
// Relative paths and symlink targets are preserved; symlinks are never
// followed. Directory permissions are taken from the source tree as-is.
// Entries matched by ignoreSpec (nil means "ignore nothing") are skipped
// entirely, along with their subtrees for ignored directories.
func (b *Builder) Build(srcDir, outPath string, ignoreSpec *IgnoreSpec) error {
	srcDir = filepath.Clean(srcDir)

	info, err := b.fs.Stat(srcDir)
	if err != nil {
		return &BuildError{SourceDir: srcDir, Context: "statting input directory", Err: err}
	}

	if !info.IsDir() {
		return &BuildError{SourceDir: srcDir, Context: "validating input directory", Err: ErrSourceNotDirectory}
	}

	out, err := b.fs.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:mnd
	if err != nil {
		return &BuildError{SourceDir: srcDir, Context: "creating archive output file", Err: err}
	}
	defer func() { _ = out.Close() }()

	gzWriter := b.processor.NewGzipWriter(out)
	defer func() { _ = gzWriter.Close() }()

	tarWriter := b.processor.NewTarWriter(gzWriter)
	defer func() { _ = tarWriter.Close() }()

	walkErr := filepath.WalkDir(srcDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == srcDir {
			return nil
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		relPath = filepath.ToSlash(relPath)

		if ignoreSpec.Ignore(relPath, entry.IsDir()) {
			logger.Debugf("skipping ignored path %s", relPath)

			if entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if err := b.addEntry(tarWriter, path, relPath, entry); err != nil {
			return err
		}

		if b.onEntry != nil {
			b.onEntry(relPath)
		}

		return nil
	})
	if walkErr != nil {
		return &BuildError{SourceDir: srcDir, Context: "walking input directory", Err: walkErr}
	}

	if err := tarWriter.Close(); err != nil {
		return &BuildError{SourceDir: srcDir, Context: "finalizing tar stream", Err: err}
	}

	if err := gzWriter.Close(); err != nil {
		return &BuildError{SourceDir: srcDir, Context: "finalizing gzip stream", Err: err}
	}

	return nil
}

func (b *Builder) addEntry(tarWriter TarWriter, path, relPath string, entry fs.DirEntry) error {
	lstatInfo, err := b.fs.Lstat(path)
	if err != nil {
		return &BuildError{SourceDir: path, Context: "lstatting entry", Err: err}
	}

	if lstatInfo.Mode()&os.ModeSymlink != 0 {
		return b.addSymlink(tarWriter, path, relPath, lstatInfo)
	}

	if entry.IsDir() {
		return b.addDirectory(tarWriter, relPath, lstatInfo)
	}

	if lstatInfo.Mode().IsRegular() {
		return b.addRegularFile(tarWriter, path, relPath, lstatInfo)
	}

	return &BuildError{SourceDir: path, Context: "packaging entry", Err: ErrUnsupportedEntryType}
}

func (b *Builder) addDirectory(tarWriter TarWriter, relPath string, info os.FileInfo) error {
	header := &tar.Header{
		Name:     relPath + "/",
		Mode:     int64(info.Mode().Perm()),
		ModTime:  info.ModTime(),
		Typeflag: tar.TypeDir,
	}

	return tarWriter.WriteHeader(header)
}

func (b *Builder) addRegularFile(tarWriter TarWriter, path, relPath string, info os.FileInfo) error {
	header := &tar.Header{
		Name:     relPath,
		Mode:     int64(info.Mode().Perm()),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Typeflag: tar.TypeReg,
	}

	if err := tarWriter.WriteHeader(header); err != nil {
		return &BuildError{SourceDir: path, Context: "writing tar header", Err: err}
	}

	file, err := b.fs.Open(path)
	if err != nil {
		return &BuildError{SourceDir: path, Context: "opening source file", Err: err}
	}
	defer func() { _ = file.Close() }()

	buf := make([]byte, 32*1024) //nolint:mnd

	for {
		n, readErr := file.Read(buf)
		if n > 0 {
			if _, writeErr := tarWriter.Write(buf[:n]); writeErr != nil {
				return &BuildError{SourceDir: path, Context: "writing file contents", Err: writeErr}
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}

			return &BuildError{SourceDir: path, Context: "reading source file", Err: readErr}
		}
	}
}

func (b *Builder) addSymlink(tarWriter TarWriter, path, relPath string, info os.FileInfo) error {
	target, err := b.fs.Readlink(path)
	if err != nil {
		return &BuildError{SourceDir: path, Context: "reading symlink target", Err: err}
	}

	header := &tar.Header{
		Name:     relPath,
		Linkname: target,
		Mode:     int64(info.Mode().Perm()),
		Typeflag: tar.TypeSymlink,
	}

	return tarWriter.WriteHeader(header)
}
