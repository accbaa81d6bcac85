package planner

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ImportXLSX adds one cluster per row of the active sheet of an Excel
// workbook. Columns are picked the same way as for ImportCSV.
func (s *Store) ImportXLSX(r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidXLSX, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return 0, ErrNoClusters
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read sheet %s: %v", ErrInvalidXLSX, sheet, err)
	}
	return s.importRows(rows, ErrInvalidXLSX)
}
