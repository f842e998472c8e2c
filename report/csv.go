package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// DefaultCSVName is the file name the exporter uses when none is given.
const DefaultCSVName = "AreasWithViews.csv"

// WriteCSV writes one line per record: name, number, area, visible area.
// There is no header row and numbers use the shortest decimal form that
// round-trips.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	for _, r := range records {
		if err := cw.Write(csvFields(r)); err != nil {
			return fmt.Errorf("report: write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: write csv: %w", err)
	}
	return nil
}

// SaveCSV writes records to path, replacing any existing file.
func SaveCSV(path string, records []Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("report: %w", cerr)
		}
	}()
	return WriteCSV(f, records)
}

func csvFields(r Record) []string {
	return []string{
		r.Name,
		r.Number,
		formatNumber(r.Area),
		formatNumber(r.VisibleArea),
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
