// Package storage keeps whole files in a single flat directory.
//
// The filesystem is the only source of truth: the service holds no cache and
// the directory listing is the catalog. Every name is confined to the
// directory; separators and dot names are rejected.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/rescp17/tuifs/internal/util"
	"github.com/rescp17/tuifs/pkg/concurrency"
	"github.com/rescp17/tuifs/pkg/fileInfo"
)

const defaultDirName = "storage"

var (
	ErrInvalidName = errors.New("invalid file name")
	ErrNotFound    = errors.New("file not found")
)

// Service owns one storage directory.
type Service struct {
	dir    string
	writes *concurrency.KeyedGuard
}

// ResolveDir returns the absolute storage directory, creating it if absent.
// Without an override the directory sits next to the running executable.
func ResolveDir(override string) (string, error) {
	dir := override
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("failed to locate executable: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = filepath.Join(filepath.Dir(exe), defaultDirName)
	}
	return util.EnsureDir(dir)
}

// New creates a service over an existing directory.
func New(dir string) (*Service, error) {
	exists, isDir, err := util.CheckDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat storage directory: %w", err)
	}
	if !exists || !isDir {
		return nil, fmt.Errorf("storage directory %s does not exist", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Service{dir: abs, writes: concurrency.NewKeyedGuard()}, nil
}

func (s *Service) Dir() string {
	return s.dir
}

// List returns the names of the regular files directly inside the directory,
// sorted and exactly as stored, so every listed name can be opened.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Write stores r as name.ext, replacing any existing file.
func (s *Service) Write(name, ext string, r io.Reader) (int64, error) {
	if ext == "" || strings.ContainsAny(ext, `./\`) {
		return 0, fmt.Errorf("%w: extension %q", ErrInvalidName, ext)
	}
	return s.WriteRaw(fileInfo.JoinName(name, ext), r)
}

// WriteRaw stores r under a combined file name, replacing any existing file.
// A failed copy leaves whatever was written so far.
func (s *Service) WriteRaw(name string, r io.Reader) (int64, error) {
	path, err := s.resolve(name)
	if err != nil {
		return 0, err
	}

	var written int64
	err = s.writes.Execute(norm.NFC.String(filepath.Base(path)), func() error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				slog.Warn("failed to close stored file", "path", path, "error", err)
			}
		}()

		written, err = io.Copy(f, r)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Sync(); err != nil {
			return fmt.Errorf("failed to flush %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return written, err
	}
	slog.Debug("Stored file", "path", path, "bytes", written)
	return written, nil
}

// Open returns the stored file for reading. The caller closes it.
func (s *Service) Open(name string) (*os.File, fs.FileInfo, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, info, nil
}

// resolve maps a client supplied name to a path inside the directory. A name
// matches an existing entry whose NFC form is the same, so a decomposed name
// on disk is still reachable by its composed spelling and the reverse.
func (s *Service) resolve(name string) (string, error) {
	switch {
	case name == "", name == ".", name == "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(s.dir, name)
	if filepath.Dir(path) != s.dir {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, err := os.Lstat(path); err == nil {
		return path, nil
	}
	if onDisk, ok := s.lookupNormalized(name); ok {
		return filepath.Join(s.dir, onDisk), nil
	}
	return path, nil
}

// lookupNormalized finds the entry whose NFC form equals that of name.
func (s *Service) lookupNormalized(name string) (string, bool) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", false
	}
	want := norm.NFC.String(name)
	for _, entry := range entries {
		if norm.NFC.String(entry.Name()) == want {
			return entry.Name(), true
		}
	}
	return "", false
}
