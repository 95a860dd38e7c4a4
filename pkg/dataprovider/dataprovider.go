// Package dataprovider reads tabular test data for data-driven tests.
//
// A data file holds named sheets. The first row of a sheet is a header and is
// skipped; each remaining non-blank row becomes one set of test arguments.
package dataprovider

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files that are neither Excel nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported data file format")

// ReadSheet returns the data rows of sheet in the file at path. A sheet that
// does not exist yields no rows.
func ReadSheet(path, sheet string) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readExcel(path, sheet)
	case ".yaml", ".yml":
		rows, err = readYAML(path, sheet)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s from %s: %w", sheet, path, err)
	}
	return dataRows(rows), nil
}

// dataRows drops the header (the first non-blank row) and blank rows.
func dataRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	header := true
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if header {
			header = false
			continue
		}
		out = append(out, row)
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
