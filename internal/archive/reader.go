// Package archive creates and reads project snapshots: compressed tar
// archives pairing a project file with a digest manifest. Reading supports
// both tar.xz and tar.gz.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// Reader wraps a tar.Reader with automatic decompression handling.
type Reader struct {
	*tar.Reader
	file         *os.File
	decompressor io.Closer
}

// NewReader creates a new archive reader for the given path.
// It automatically detects and handles .tar.gz and .tar.xz compression.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var reader io.Reader = f
	var decompressor io.Closer

	switch {
	case strings.HasSuffix(path, ".tar.xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		reader = xzr
		decompressor = nil // xz reader doesn't need closing
	case strings.HasSuffix(path, ".tar.gz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		reader = gzr
		decompressor = gzr
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported archive format: %s", path)
	}

	return &Reader{
		Reader:       tar.NewReader(reader),
		file:         f,
		decompressor: decompressor,
	}, nil
}

// Close closes the archive reader and any underlying decompressors.
func (r *Reader) Close() error {
	var errs []error
	if r.decompressor != nil {
		if err := r.decompressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Visitor is a callback function for iterating archive entries.
// Return true to stop iteration, false to continue.
type Visitor func(header *tar.Header, content io.Reader) (stop bool, err error)

// Iterate walks through all entries in the archive, calling the visitor for each.
func (r *Reader) Iterate(visitor Visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		stop, err := visitor(header, r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// IterateSnapshot opens an archive and iterates through its entries.
func IterateSnapshot(path string, visitor Visitor) error {
	r, err := NewReader(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Iterate(visitor)
}

// ContainsPath checks if the archive contains a path matching the predicate.
func ContainsPath(path string, predicate func(name string) bool) (bool, error) {
	var found bool
	err := IterateSnapshot(path, func(header *tar.Header, _ io.Reader) (bool, error) {
		if predicate(header.Name) {
			found = true
			return true, nil // stop iteration
		}
		return false, nil
	})
	return found, err
}

// ReadFile reads a specific file from the archive.
func ReadFile(archivePath, filename string) ([]byte, error) {
	var content []byte
	err := IterateSnapshot(archivePath, func(header *tar.Header, r io.Reader) (bool, error) {
		// Handle archives with or without leading directory
		name := header.Name
		if idx := strings.Index(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}
		if name == filename || header.Name == filename {
			var err error
			content, err = io.ReadAll(r)
			return true, err
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, fmt.Errorf("file not found: %s", filename)
	}
	return content, nil
}

// FindFile finds the first file matching the predicate and returns its content.
func FindFile(archivePath string, predicate func(name string) bool) ([]byte, string, error) {
	var content []byte
	var foundName string
	err := IterateSnapshot(archivePath, func(header *tar.Header, r io.Reader) (bool, error) {
		if predicate(header.Name) {
			var err error
			content, err = io.ReadAll(r)
			foundName = header.Name
			return true, err
		}
		return false, nil
	})
	if err != nil {
		return nil, "", err
	}
	if content == nil {
		return nil, "", fmt.Errorf("no matching file found")
	}
	return content, foundName, nil
}
