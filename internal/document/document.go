// Package document handles reading, hashing, and locating the files a
// quality check consumes: the scored document and its companions.
package document

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Document holds a loaded file with its content and metadata.
type Document struct {
	FilePath string
	Raw      string
	Lines    []string
	Hash     string
}

// Load reads a file and computes its SHA-256 hash.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document.Load: %w", err)
	}
	return FromBytes(path, data), nil
}

// FromBytes builds a Document from content already in memory.
func FromBytes(path string, data []byte) *Document {
	raw := string(data)
	h := sha256.Sum256(data)
	return &Document{
		FilePath: path,
		Raw:      raw,
		Lines:    strings.Split(raw, "\n"),
		Hash:     fmt.Sprintf("sha256:%x", h),
	}
}

// LoadOptional reads a companion file that may legitimately be absent.
// A missing file returns (nil, nil); any other read failure is an error.
func LoadOptional(path string) (*Document, error) {
	if path == "" {
		return nil, nil
	}
	d, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return d, err
}

// FindCompanion looks for name in each of dirs, resolved relative to the
// directory containing docPath, and returns the first existing regular file.
// When nothing exists the candidate for the first dir is returned with ok false.
func FindCompanion(docPath string, dirs []string, name string) (path string, ok bool) {
	base := filepath.Dir(docPath)
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, d := range dirs {
		candidate := filepath.Join(base, d, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return filepath.Join(base, dirs[0], name), false
}
