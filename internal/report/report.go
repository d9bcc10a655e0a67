// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report serializes conversion results: the CSV row set, the JSON
// and YAML run summaries, and the verbatim failed-record SD passthrough.
// Write errors name their target; a failed write never silently discards
// an in-memory result.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/molcsv/internal/sdf"
	"github.com/pdiddy/molcsv/pkg/types"
)

// WriteCSV writes the uniform row set to w: one header row in column
// order, one line per row. Quoting follows RFC 4180 (fields containing
// the delimiter, quotes, or newlines are quoted with doubled quotes).
func WriteCSV(w io.Writer, columns []string, rows []map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	line := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			line[i] = row[col]
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the CSV to path.
func SaveCSV(path string, columns []string, rows []map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV %s: %w", path, err)
	}
	if err := WriteCSV(f, columns, rows); err != nil {
		f.Close()
		return fmt.Errorf("writing CSV %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing CSV %s: %w", path, err)
	}
	return nil
}

// SummaryJSON renders the run summary with stable key order.
func SummaryJSON(s types.Summary) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling summary: %w", err)
	}
	return append(data, '\n'), nil
}

// SaveSummaryJSON writes the JSON run summary to path.
func SaveSummaryJSON(path string, s types.Summary) error {
	data, err := SummaryJSON(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return nil
}

// SaveSummaryYAML writes the YAML run summary to path.
func SaveSummaryYAML(path string, s types.Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return nil
}

// WriteFailedSDF writes failed records verbatim, each followed by the SD
// record separator. This is a byte-preserving passthrough, not a reparse.
func WriteFailedSDF(w io.Writer, failed []*sdf.Record) error {
	for _, rec := range failed {
		raw := rec.Raw
		if !strings.HasSuffix(raw, "\n") {
			raw += "\n"
		}
		if _, err := io.WriteString(w, raw+"$$$$\n"); err != nil {
			return fmt.Errorf("writing failed record %d: %w", rec.Index, err)
		}
	}
	return nil
}

// SaveFailedSDF writes the failed-record passthrough to path. The file is
// created even when no records failed, so a requested destination always
// exists.
func SaveFailedSDF(path string, failed []*sdf.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating failed-record output %s: %w", path, err)
	}
	if err := WriteFailedSDF(f, failed); err != nil {
		f.Close()
		return fmt.Errorf("writing failed-record output %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing failed-record output %s: %w", path, err)
	}
	return nil
}
