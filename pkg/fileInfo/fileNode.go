package fileInfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrIsDir = errors.New("path is a directory")

const defaultMimeType = "application/octet-stream"

// FileNode describes a single local file about to be transferred.
type FileNode struct {
	Name     string `json:"name"`
	Ext      string `json:"ext,omitempty"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type,omitempty"`
	Path     string `json:"-"`
}

// FullName joins Name and Ext the way the server stores the file.
func (n FileNode) FullName() string {
	return JoinName(n.Name, n.Ext)
}

// CreateNode stats path and describes it. Directories are rejected.
func CreateNode(path string) (FileNode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileNode{}, err
	}
	if info.IsDir() {
		return FileNode{}, fmt.Errorf("%s: %w", path, ErrIsDir)
	}
	name, ext := SplitName(info.Name())
	return FileNode{
		Name:     name,
		Ext:      ext,
		Size:     info.Size(),
		MimeType: DetectMimeType(path),
		Path:     path,
	}, nil
}

// SplitName splits a base name into stem and extension (without the dot).
// Dot-files and names without a dot have no extension.
func SplitName(base string) (name, ext string) {
	base = filepath.Base(base)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return base, ""
	}
	return base[:i], base[i+1:]
}

// JoinName is the inverse of SplitName.
func JoinName(name, ext string) string {
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// DetectMimeType sniffs the file content, falling back to octet-stream.
func DetectMimeType(path string) string {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return defaultMimeType
	}
	return mime.String()
}
