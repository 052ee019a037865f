// Package export reads and writes keyword research export files in
// tab-separated form. It does no interpretation; column matching and value
// parsing belong to the engine's normalizer.
package export

import (
	"fmt"
	"os"
	"strings"
)

// File holds one parsed export: the header row plus every data row, cells
// split on tabs.
type File struct {
	Header []string
	Rows   [][]string
}

// LoadTSV reads a tab-separated export file from disk.
func LoadTSV(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read file %s: %w", path, err)
	}

	f, err := ParseTSV(string(data))
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseTSV splits raw export text into header and rows. The first non-empty
// line is the header; blank lines are skipped and Windows line endings are
// tolerated. Rows keep whatever cell count they have, wrong-width rows are
// the normalizer's to report.
func ParseTSV(text string) (File, error) {
	var f File

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := strings.Split(line, "\t")
		if f.Header == nil {
			f.Header = cells
			continue
		}
		f.Rows = append(f.Rows, cells)
	}

	if f.Header == nil {
		return File{}, fmt.Errorf("no header line found")
	}
	return f, nil
}

// FormatTSV renders a file back to tab-separated text with a trailing
// newline.
func FormatTSV(f File) string {
	var b strings.Builder
	b.WriteString(strings.Join(f.Header, "\t"))
	b.WriteByte('\n')
	for _, row := range f.Rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}
