// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs the conversion pipeline: stream SD records, compute
// canonical SMILES through the chem toolkit, merge tag data into rows,
// count and capture failures, and shape the uniform column set.
package engine

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/molcsv/internal/alcoa"
	"github.com/pdiddy/molcsv/internal/chem"
	"github.com/pdiddy/molcsv/internal/sdf"
	"github.com/pdiddy/molcsv/pkg/types"
)

// reservedColumns lead every CSV header, before the tag columns.
var reservedColumns = []string{
	"smiles",
	"record_index",
	"source_file",
	"processing_timestamp_utc",
	"mol_name",
}

// Options configures one conversion run.
type Options struct {
	// Audit configures the ALCOA+ column block. When Audit.Enabled is
	// true the mandatory fields are validated before any record is read.
	Audit types.AuditConfig

	// Timestamp fixes the run clock; zero means time.Now. The value is
	// computed once and reused for every row.
	Timestamp time.Time
}

// Result is the materialized outcome of one run. Rows are uniform: every
// row carries every column, absent tags as empty strings.
type Result struct {
	Columns []string
	Rows    []map[string]string
	Failed  []*sdf.Record
	Summary types.Summary
}

// Run converts the complete SD input in a single forward pass. Record-level
// failures are counted, captured verbatim, and never abort the run; an
// empty or recordless input is fatal. Per-record status lines go to w.
func Run(tk chem.Toolkit, input []byte, sourceName string, opts Options, w io.Writer) (*Result, error) {
	if len(bytes.TrimSpace(input)) == 0 {
		return nil, fmt.Errorf("input %s is empty", sourceName)
	}

	fields := alcoa.FieldsFromConfig(opts.Audit)
	if opts.Audit.Enabled {
		if err := fields.Validate(); err != nil {
			return nil, err
		}
	}

	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	ts = ts.UTC().Truncate(time.Second)
	tsStr := ts.Format(time.RFC3339)

	var audit *types.AuditBlock
	reservedAudit := make(map[string]bool)
	if opts.Audit.Enabled {
		b := alcoa.NewBlock(sourceName, input, fields, ts)
		audit = &b
		for _, c := range alcoa.Columns() {
			reservedAudit[c] = true
		}
	}

	separators, err := sdf.CountRecords(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", sourceName, err)
	}

	res := &Result{
		Columns: append([]string(nil), reservedColumns...),
	}
	seen := make(map[string]bool, len(res.Columns))
	for _, c := range res.Columns {
		seen[c] = true
	}

	var counts types.Counts
	counts.SeparatorCount = separators

	sc := sdf.NewScanner(bytes.NewReader(input))
	for sc.Scan() {
		rec := sc.Record()
		counts.RecordsTotal++

		mol, err := tk.Parse(rec.Molblock)
		if err != nil {
			counts.ParseFailures++
			counts.RecordsFailed++
			res.Failed = append(res.Failed, rec)
			fmt.Fprintf(w, "failed:    record %d (%v)\n", rec.Index, err)
			continue
		}

		smiles, err := tk.Canonical(mol)
		if err != nil {
			counts.SmilesFailures++
			counts.RecordsFailed++
			res.Failed = append(res.Failed, rec)
			fmt.Fprintf(w, "failed:    record %d (%v)\n", rec.Index, err)
			continue
		}

		row := map[string]string{
			"smiles":                   smiles,
			"record_index":             strconv.Itoa(rec.Index),
			"source_file":              sourceName,
			"processing_timestamp_utc": tsStr,
			"mol_name":                 mol.Name,
		}
		for _, tag := range rec.Tags {
			name := tag.Name
			// Audit columns are stamped after the tag loop; a tag using
			// one of their names is prefixed like any reserved collision.
			if _, taken := row[name]; taken || reservedAudit[name] {
				name = "tag_" + name
			}
			row[name] = tag.Value
			if !seen[name] {
				seen[name] = true
				res.Columns = append(res.Columns, name)
			}
		}
		if audit != nil {
			alcoa.Apply(row, *audit)
		}

		res.Rows = append(res.Rows, row)
		counts.RecordsConverted++
		fmt.Fprintf(w, "converted: record %d\n", rec.Index)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", sourceName, err)
	}
	if counts.RecordsTotal == 0 {
		return nil, fmt.Errorf("no SDF records found in %s", sourceName)
	}

	if audit != nil {
		res.Columns = append(res.Columns, alcoa.Columns()...)
	}

	// Uniform shape: every row gets every column.
	for _, row := range res.Rows {
		for _, c := range res.Columns {
			if _, ok := row[c]; !ok {
				row[c] = ""
			}
		}
	}

	res.Summary = types.Summary{
		RunID:           uuid.NewString(),
		Input:           sourceName,
		SourceFile:      sourceName,
		RunTimestampUTC: tsStr,
		Counts:          counts,
		OutputRows:      len(res.Rows),
		AlcoaEnabled:    opts.Audit.Enabled,
		Audit:           audit,
	}

	fmt.Fprintf(w, "\nConversion summary: %d converted, %d failed (total %d)\n",
		counts.RecordsConverted, counts.RecordsFailed, counts.RecordsTotal)

	return res, nil
}
