package testsupport

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"
)

// CSVRows reads a dataset file back as raw rows, header included.
func CSVRows(t testing.TB, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

// Lines reads a file back as trimmed non-empty lines, for NDJSON datasets
// and log files.
func Lines(t testing.TB, path string) []string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
