package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Table is the raw content of an uploaded sheet: its header row and the
// data rows below it, as strings.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Reader decodes one tabular file format.
type Reader interface {
	CanParse(filename string) bool
	Read(r io.Reader) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// FormatError reports a file whose extension is not accepted.
type FormatError struct {
	Filename string
}

func (e *FormatError) Error() string {
	return "Invalid file format. Please upload a CSV or Excel file (.csv or .xlsx)"
}

// ErrEmptyFile indicates a file without a header row.
var ErrEmptyFile = errors.New("file has no header row")

// Allowed reports whether filename has an accepted extension.
func Allowed(filename string) bool {
	_, err := Detect(filename)
	return err == nil
}

// Detect selects the reader for filename, or returns *FormatError.
func Detect(filename string) (Reader, error) {
	for _, r := range registry {
		if r.CanParse(filename) {
			return r, nil
		}
	}
	return nil, &FormatError{Filename: filename}
}

// Read decodes r using the reader registered for filename's extension.
func Read(filename string, r io.Reader) (*Table, error) {
	rd, err := Detect(filename)
	if err != nil {
		return nil, err
	}
	t, err := rd.Read(r)
	if err != nil {
		return nil, err
	}
	t.Rows = dropBlankRows(t.Rows)
	return t, nil
}

// ReadFile opens path and decodes it according to its extension.
func ReadFile(path string) (*Table, error) {
	if _, err := Detect(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Read(filepath.Base(path), f)
}

func hasExt(filename, ext string) bool {
	return strings.EqualFold(filepath.Ext(filename), ext)
}

// dropBlankRows removes rows whose cells are all empty or whitespace.
func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		blank := true
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}
