package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteCSV writes a header row followed by rows.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

// SaveCSV writes a table to a CSV file. Returns an error on failure.
func SaveCSV(filepath string, header []string, rows [][]string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath, err)
	}
	defer file.Close()

	if err := WriteCSV(file, header, rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return file.Close()
}
