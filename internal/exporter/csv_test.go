package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zomatour/internal/shared/testutil"
)

// Setup test environment
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	tempDir := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)
	return NewCSVWriter(filepath.Join(tempDir, "exports"), logger), tempDir
}

func readLines(t *testing.T, path string, bom bool) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	if bom {
		require.True(t, bytes.HasPrefix(content, utf8BOM))
		content = content[len(utf8BOM):]
	} else {
		require.False(t, bytes.HasPrefix(content, utf8BOM))
	}
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name      string
		filePath  string
		options   WriteOptions
		wantBOM   bool
		wantLines []string
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"city", "restaurants"},
				Records: [][]string{{"Austin", "2"}, {"London", "2"}},
			},
			wantLines: []string{"city,restaurants", "Austin,2", "London,2"},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"country", "cost"},
				Records:   [][]string{{"England", "58.95"}},
				BOMPrefix: true,
			},
			wantBOM:   true,
			wantLines: []string{"country,cost", "England,58.95"},
		},
		{
			name:     "write without headers",
			filePath: "test_no_headers.csv",
			options: WriteOptions{
				Records: [][]string{{"a", "b"}, {"c", "d"}},
			},
			wantLines: []string{"a,b", "c,d"},
		},
		{
			name:     "empty records",
			filePath: "nested/test_empty.csv",
			options: WriteOptions{
				Headers: []string{"col1", "col2"},
				Records: [][]string{},
			},
			wantLines: []string{"col1,col2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))
			fullPath := filepath.Join(tempDir, "exports", tt.filePath)
			assert.Equal(t, tt.wantLines, readLines(t, fullPath, tt.wantBOM))
		})
	}
}

func TestCSVWriter_AppendToCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	filePath := "append_test.csv"

	require.NoError(t, writer.WriteCSV(filePath, WriteOptions{Headers: []string{"col1", "col2"}, Records: [][]string{{"a", "b"}}, BOMPrefix: true}))
	require.NoError(t, writer.AppendToCSV(filePath, [][]string{{"c", "d"}, {"e", "f"}}))

	// The appended part repeats neither the BOM nor the header
	lines := readLines(t, filepath.Join(tempDir, "exports", filePath), true)
	assert.Equal(t, []string{"col1,col2", "a,b", "c,d", "e,f"}, lines)
}

func TestCSVWriter_AppendIgnoresHeaders(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	filePath := "append_headers.csv"

	require.NoError(t, writer.WriteCSV(filePath, WriteOptions{Headers: []string{"h"}, Records: [][]string{{"1"}}}))
	require.NoError(t, writer.WriteCSV(filePath, WriteOptions{
		Headers:   []string{"h"},
		Records:   [][]string{{"2"}},
		Append:    true,
		BOMPrefix: true,
	}))

	assert.Equal(t, []string{"h", "1", "2"}, readLines(t, filepath.Join(tempDir, "exports", filePath), false))
}

func TestCSVWriter_WriteTo(t *testing.T) {
	writer, _ := setupTestEnv(t)

	var buf bytes.Buffer
	require.NoError(t, writer.WriteTo(&buf, WriteOptions{
		Headers:   []string{"name"},
		Records:   [][]string{{"Pie Palace"}},
		BOMPrefix: true,
		Append:    true,
	}))
	assert.Equal(t, "\ufeffname\nPie Palace\n", buf.String())
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	abs := filepath.Join(tempDir, "elsewhere", "file.csv")

	assert.Equal(t, abs, writer.resolvePath(abs))
	assert.Equal(t, filepath.Join(tempDir, "exports", "report.csv"), writer.resolvePath("report.csv"))
	assert.Equal(t, "report.csv", NewCSVWriter("", nil).resolvePath("report.csv"))
}

func TestCSVWriter_SpecialCharacters(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	headers := []string{"restaurant_name", "address", "cuisines"}
	records := [][]string{
		{"Café, Bar", `The "Old" Mill`, "North Indian,\nChinese"},
		{"São Paulo Grill", "Rua 1; Bloco 2", "Brazilian\tGrill"},
	}
	require.NoError(t, writer.WriteCSV("special_chars.csv", WriteOptions{Headers: headers, Records: records, BOMPrefix: true}))

	content, err := os.ReadFile(filepath.Join(tempDir, "exports", "special_chars.csv"))
	require.NoError(t, err)

	all, err := csv.NewReader(bytes.NewReader(content[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, append([][]string{headers}, records...), all)
}

func TestCSVWriter_ConcurrentWrites(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	const numGoroutines = 8
	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := filepath.Join("concurrent", string(rune('a'+i))+".csv")
			errs <- writer.WriteCSV(name, WriteOptions{Headers: []string{"id"}, Records: [][]string{{"1"}, {"2"}}})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	entries, err := os.ReadDir(filepath.Join(tempDir, "exports", "concurrent"))
	require.NoError(t, err)
	assert.Len(t, entries, numGoroutines)
}
