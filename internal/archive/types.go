// Package archive builds and extracts the tar.gz payload warp-packer
// appends to a patched runner stub and warp-runner later unpacks into the
// cache directory.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/dgiagio/warp/internal/filesystem"
)

// Processor abstracts the compression/tar codecs so Build and Extract can
// be exercised against a fake in unit tests.
type Processor interface {
	NewGzipReader(r io.Reader) (io.ReadCloser, error)
	NewGzipWriter(w io.Writer) io.WriteCloser
	NewTarReader(r io.Reader) TarReader
	NewTarWriter(w io.Writer) TarWriter
}

// DefaultProcessor implements Processor using the standard library's
// archive/tar and compress/gzip packages.
type DefaultProcessor struct{}

// TarReader is the subset of *tar.Reader that Extract needs.
type TarReader interface {
	Next() (*tar.Header, error)
	Read(b []byte) (int, error)
}

// TarWriter is the subset of *tar.Writer that Build needs.
type TarWriter interface {
	WriteHeader(hdr *tar.Header) error
	Write(b []byte) (int, error)
	Close() error
}

// NewGzipReader creates a new gzip reader.
func (DefaultProcessor) NewGzipReader(r io.Reader) (io.ReadCloser, error) {
	reader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}

	return reader, nil
}

// NewGzipWriter creates a new gzip writer at best compression, matching
// the original packer's GzEncoder::new(f, Compression::best()).
func (DefaultProcessor) NewGzipWriter(w io.Writer) io.WriteCloser {
	gzWriter, _ := gzip.NewWriterLevel(w, gzip.BestCompression)

	return gzWriter
}

// NewTarReader creates a new tar reader.
func (DefaultProcessor) NewTarReader(r io.Reader) TarReader {
	return tar.NewReader(r)
}

// NewTarWriter creates a new tar writer.
func (DefaultProcessor) NewTarWriter(w io.Writer) TarWriter {
	return tar.NewWriter(w)
}

// Extractor extracts a tar.gz archive to a destination directory,
// validating every entry's path to prevent it from escaping that
// directory.
type Extractor struct {
	fs        filesystem.FileSystem
	processor Processor

	maxFiles     int
	maxFileSize  int64
	maxTotalSize int64
	numWorkers   int
}

// Builder walks a source directory and writes it out as a tar.gz archive,
// honoring an optional ignore spec.
type Builder struct {
	fs        filesystem.FileSystem
	processor Processor
	onEntry   func(relPath string)
}
