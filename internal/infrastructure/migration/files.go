package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FilePair describes the up/down SQL files of a single migration.
type FilePair struct {
	Version     string
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// CreateFiles scaffolds a new up/down migration pair in dir. The version
// prefix is the current timestamp (YYYYMMDDHHMMSS) so files sort in
// creation order.
func CreateFiles(dir, name, description string) (*FilePair, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, sanitizeName(name))

	fp := &FilePair{
		Version:     version,
		Name:        name,
		Description: description,
		UpPath:      filepath.Join(dir, base+".up.sql"),
		DownPath:    filepath.Join(dir, base+".down.sql"),
	}

	header := fmt.Sprintf("-- Migration: %s\n-- Created: %s\n-- Description: %s\n",
		name, now.Format(time.RFC3339), description)

	up := header + "\n-- Write your UP migration SQL here\n"
	if err := os.WriteFile(fp.UpPath, []byte(up), 0644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}

	down := header + "\n-- Write your DOWN migration SQL here\n"
	if err := os.WriteFile(fp.DownPath, []byte(down), 0644); err != nil {
		_ = os.Remove(fp.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}

	return fp, nil
}

// ListFiles returns the base names of the migrations in dir, one entry per
// up/down pair. A missing directory is treated as empty.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	return names, nil
}

// sanitizeName lowercases a migration name and collapses separators into
// single underscores, dropping anything that is not [a-z0-9_].
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		case c == ' ' || c == '-' || c == '_':
			s := b.String()
			if len(s) > 0 && s[len(s)-1] != '_' {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
