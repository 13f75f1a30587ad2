package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriter_CreateStreamWriter(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name      string
		filePath  string
		headers   []string
		records   [][]string
		wantLines []string
	}{
		{
			name:      "stream with headers",
			filePath:  "stream_test.csv",
			headers:   []string{"restaurant_id", "city"},
			records:   [][]string{{"1001", "New Delhi"}, {"2001", "Austin"}},
			wantLines: []string{"restaurant_id,city", "1001,New Delhi", "2001,Austin"},
		},
		{
			name:      "stream without headers",
			filePath:  "stream_no_headers.csv",
			records:   [][]string{{"x"}},
			wantLines: []string{"x"},
		},
		{
			name:      "stream into new directory",
			filePath:  filepath.Join("deep", "nested", "stream.csv"),
			headers:   []string{"a"},
			wantLines: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, err := writer.CreateStreamWriter(tt.filePath, tt.headers, true)
			require.NoError(t, err)

			for _, r := range tt.records {
				require.NoError(t, stream.WriteRecord(r))
			}
			assert.Equal(t, len(tt.records), stream.Count())
			require.NoError(t, stream.Close())

			content, err := os.ReadFile(filepath.Join(tempDir, "exports", tt.filePath))
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(content, utf8BOM))
			lines := strings.Split(strings.TrimSpace(string(content[len(utf8BOM):])), "\n")
			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestStreamWriter_LargeDataset(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	stream, err := writer.CreateStreamWriter("large.csv", RestaurantHeader, false)
	require.NoError(t, err)

	const rows = 5000
	record := make([]string, len(RestaurantHeader))
	for i := 0; i < rows; i++ {
		record[0] = strings.Repeat("9", i%7+1)
		require.NoError(t, stream.WriteRecord(record))
	}
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(filepath.Join(tempDir, "exports", "large.csv"))
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(content, utf8BOM))
	assert.Equal(t, rows+1, bytes.Count(content, []byte("\n")))
}

func TestCSVWriter_CreateStreamWriter_InvalidPath(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	// A regular file where a directory is expected
	blocker := filepath.Join(tempDir, "exports", "blocker")
	require.NoError(t, os.MkdirAll(filepath.Dir(blocker), 0755))
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := writer.CreateStreamWriter(filepath.Join("blocker", "file.csv"), nil, false)
	assert.Error(t, err)
}
