// Package scanner discovers the source files a check or fix run
// operates on.
package scanner

import (
	"os"
	"path/filepath"
)

// FileInfo describes one discovered file.
type FileInfo struct {
	Path string
	Size int64
}

// Scanner walks a directory tree collecting files with the configured
// extensions. No extensions means every regular file.
type Scanner struct {
	root       string
	extensions []string
}

// New returns a scanner rooted at root. Extensions include the dot,
// e.g. ".go".
func New(root string, extensions ...string) *Scanner {
	return &Scanner{
		root:       root,
		extensions: extensions,
	}
}

// Scan walks the tree and returns matching files. filepath.Walk visits
// entries in lexical order, so repeated scans of an unchanged tree
// yield the same list.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !s.isTargetFile(path) {
			return nil
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})
	return files, err
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, target := range s.extensions {
		if ext == target {
			return true
		}
	}
	return false
}
