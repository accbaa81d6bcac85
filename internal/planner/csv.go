package planner

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ImportCSV adds one cluster per row of a CSV export. The label column is
// the first header naming a label or cluster; the keyword column is the
// first header naming keywords whose first value looks like a keyword list.
func (s *Store) ImportCSV(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}
	return s.importRows(rows, ErrInvalidCSV)
}

// importRows adds one cluster per data row below the header row. invalid
// is the error kind reported when the columns cannot be identified.
func (s *Store) importRows(rows [][]string, invalid error) (int, error) {
	if len(rows) < 2 {
		return 0, ErrNoClusters
	}

	labelCol, kwCol := pickColumns(rows[0], rows[1:])
	if labelCol < 0 || kwCol < 0 {
		return 0, fmt.Errorf("%w: no label and keyword columns in %v", invalid, rows[0])
	}

	pairs := make([][2]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		pairs = append(pairs, [2]string{cell(row, labelCol), cell(row, kwCol)})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	added := s.add(pairs)
	return added, s.save()
}

func pickColumns(header []string, rows [][]string) (labelCol, kwCol int) {
	labelCol, kwCol = -1, -1
	var kwCols []int
	for i, h := range header {
		h = strings.ToLower(h)
		if labelCol < 0 && (strings.Contains(h, "label") || strings.Contains(h, "cluster")) {
			labelCol = i
		}
		if strings.Contains(h, "keyword") {
			kwCols = append(kwCols, i)
		}
	}
	if len(kwCols) == 0 {
		return labelCol, -1
	}

	for _, col := range kwCols {
		sample := firstValue(rows, col)
		if strings.Contains(sample, ";") || len(sample) > 5 {
			return labelCol, col
		}
	}
	return labelCol, kwCols[0]
}

func firstValue(rows [][]string, col int) string {
	for _, row := range rows {
		if v := cell(row, col); v != "" {
			return v
		}
	}
	return ""
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
