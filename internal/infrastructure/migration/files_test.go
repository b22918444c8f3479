package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add expenses table", "add_expenses_table"},
		{"Add-Expenses-Table", "add_expenses_table"},
		{"ADD_EXPENSES_TABLE", "add_expenses_table"},
		{"add__expenses__table", "add_expenses_table"},
		{"Add Expenses 123", "add_expenses_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateFiles(t *testing.T) {
	tmpDir := t.TempDir()

	fp, err := CreateFiles(tmpDir, "add expenses table", "Create expenses table")
	require.NoError(t, err)
	require.NotNil(t, fp)

	// Version is a YYYYMMDDHHMMSS timestamp
	assert.Len(t, fp.Version, 14)

	upBase := strings.TrimSuffix(filepath.Base(fp.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(fp.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(fp.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add expenses table")
	assert.Contains(t, string(upContent), "Create expenses table")
	assert.Contains(t, string(upContent), "UP migration SQL")

	downContent, err := os.ReadFile(fp.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "DOWN migration SQL")
}

func TestCreateFiles_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	fp, err := CreateFiles(nested, "init", "initial schema")
	require.NoError(t, err)
	require.NotNil(t, fp)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListFiles(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"000001_init_schema.up.sql",
		"000001_init_schema.down.sql",
		"000002_add_profiles.up.sql",
		"000002_add_profiles.down.sql",
		"README.md",
		".gitkeep",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("-- test"), 0644))
	}

	names, err := ListFiles(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init_schema", "000002_add_profiles"}, names)
}

func TestListFiles_NonexistentDirectory(t *testing.T) {
	names, err := ListFiles(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
