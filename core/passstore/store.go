package passstore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the suffix of encrypted secret files.
const Extension = ".gpg"

// Secret is one encrypted entry of the store.
type Secret struct {
	// Name is the slash separated path relative to the store root, without Extension.
	Name string
	// Path is the file system path of the encrypted file.
	Path string
}

// Store is an opened password store.
type Store struct {
	root string
}

// Open opens the store described by cfg. The root must be an existing directory.
func Open(cfg Config) (*Store, error) {
	root, err := cfg.Root()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve password store: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open password store: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("password store %s is not a directory", root)
	}
	return &Store{root: root}, nil
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

// Secrets lists every secret of the store ordered by name.
// Hidden directories, such as the store's .git, are skipped. Symlinked secret
// files are followed; symlinked directories are not descended into.
func (s *Store) Secrets() ([]Secret, error) {
	var secrets []Secret
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), Extension) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", path, err)
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		secrets = append(secrets, Secret{
			Name: filepath.ToSlash(strings.TrimSuffix(rel, Extension)),
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list password store: %w", err)
	}

	sort.Slice(secrets, func(i, j int) bool { return secrets[i].Name < secrets[j].Name })
	return secrets, nil
}
