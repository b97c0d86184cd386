package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSVExtractor flattens CSV files into header-labelled rows, one per line.
type CSVExtractor struct{}

func (e *CSVExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	headers := records[0]
	var buf strings.Builder
	for _, row := range records[1:] {
		cells := make([]string, 0, len(row))
		for j, cell := range row {
			if j < len(headers) {
				cells = append(cells, headers[j]+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		buf.WriteString(strings.Join(cells, ", "))
		buf.WriteString("\n")
	}
	return buf.String(), nil
}
