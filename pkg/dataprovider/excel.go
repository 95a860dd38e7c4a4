package dataprovider

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, nil
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(raw))
	for r, row := range raw {
		cells := make([]string, len(row))
		for c, value := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			cells[c] = cellString(f, sheet, name, value)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// cellString renders a cell the way test arguments expect it: formulas as
// their expression, booleans as true/false and numbers truncated to integers.
func cellString(f *excelize.File, sheet, cell, value string) string {
	if formula, err := f.GetCellFormula(sheet, cell); err == nil && formula != "" {
		return formula
	}
	if value == "" {
		return ""
	}

	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return value
	}
	switch typ {
	case excelize.CellTypeBool:
		return strconv.FormatBool(value == "1" || value == "TRUE" || value == "true")
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return strconv.FormatInt(int64(n), 10)
		}
	}
	return value
}
