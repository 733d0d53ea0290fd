// Package dataset loads and cleans the raw survey corpus into labeled
// records ready for manifest derivation and encoding. The cleaning pass
// runs once, offline, before fitting; serving never touches it.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/mindsage/mindsage/internal/model"
)

// labelField is the survey column holding the binary outcome.
const labelField = "treatment"

// droppedFields are raw survey columns excluded from modeling: free text,
// timestamps, and the sparsely populated US-state column.
var droppedFields = map[string]struct{}{
	"Timestamp": {},
	"state":     {},
	"comments":  {},
}

// Load reads a raw survey CSV and returns the cleaned records with their
// 0/1 labels. Rows without a usable label are dropped.
func Load(path string) ([]model.Record, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := readCSV(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse corpus %s: %w", path, err)
	}

	return Clean(records)
}

// readCSV parses header-keyed rows into raw records.
func readCSV(r io.Reader) ([]model.Record, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []model.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records)+2, err)
		}

		rec := make(model.Record, len(header))
		for i, field := range header {
			if i >= len(row) {
				break
			}
			if _, dropped := droppedFields[field]; dropped {
				continue
			}
			if row[i] != "" && row[i] != "NA" {
				rec[field] = row[i]
			}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("corpus has no data rows")
	}
	return records, nil
}
