// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sdf

import (
	"strings"
	"testing"
)

const twoRecords = `aspirin
  molcsv

  1  0  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
M  END
> <ID>
MOL-001

> <LogP>
1.19

$$$$
caffeine
  molcsv

  1  0  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
M  END
> <ID>
MOL-002

$$$$
`

func scanAll(t *testing.T, input string) []*Record {
	t.Helper()
	sc := NewScanner(strings.NewReader(input))
	var recs []*Record
	for sc.Scan() {
		recs = append(recs, sc.Record())
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scanner error: %v", err)
	}
	return recs
}

func TestScanner(t *testing.T) {
	recs := scanAll(t, twoRecords)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	first := recs[0]
	if first.Index != 1 || first.Name != "aspirin" {
		t.Errorf("first record = index %d name %q", first.Index, first.Name)
	}
	if !strings.HasSuffix(first.Molblock, "M  END") {
		t.Errorf("molblock does not end at M  END: %q", first.Molblock)
	}
	want := []Tag{{Name: "ID", Value: "MOL-001"}, {Name: "LogP", Value: "1.19"}}
	if len(first.Tags) != 2 || first.Tags[0] != want[0] || first.Tags[1] != want[1] {
		t.Errorf("tags = %+v, want %+v", first.Tags, want)
	}

	if recs[1].Name != "caffeine" || len(recs[1].Tags) != 1 {
		t.Errorf("second record = %+v", recs[1])
	}
}

func TestScanner_RawIsVerbatim(t *testing.T) {
	recs := scanAll(t, twoRecords)
	wantRaw := strings.SplitN(twoRecords, "$$$$\n", 2)[0]
	wantRaw = strings.TrimSuffix(wantRaw, "\n")
	if recs[0].Raw != wantRaw {
		t.Errorf("Raw = %q, want %q", recs[0].Raw, wantRaw)
	}
}

func TestScanner_MissingTrailingSeparator(t *testing.T) {
	input := strings.TrimSuffix(twoRecords, "$$$$\n")
	recs := scanAll(t, input)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2 (last record lacks separator)", len(recs))
	}
	if recs[1].Name != "caffeine" {
		t.Errorf("second record name = %q", recs[1].Name)
	}
}

func TestScanner_EmptyInput(t *testing.T) {
	if recs := scanAll(t, ""); len(recs) != 0 {
		t.Errorf("got %d records from empty input", len(recs))
	}
	if recs := scanAll(t, "\n  \n\n"); len(recs) != 0 {
		t.Errorf("got %d records from blank input", len(recs))
	}
}

func TestScanner_CRLF(t *testing.T) {
	input := strings.ReplaceAll(twoRecords, "\n", "\r\n")
	recs := scanAll(t, input)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Tags[0].Name != "ID" || recs[0].Tags[0].Value != "MOL-001" {
		t.Errorf("tags = %+v", recs[0].Tags)
	}
}

func TestParseTags_MultilineValue(t *testing.T) {
	lines := []string{
		"> <COMMENT>",
		"first line",
		"second line",
		"",
		"> <annotated>  (1)",
		"v",
		"",
	}
	tags := parseTags(lines)
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	if tags[0].Value != "first line\nsecond line" {
		t.Errorf("multiline value = %q", tags[0].Value)
	}
	if tags[1].Name != "annotated" {
		t.Errorf("annotated tag name = %q", tags[1].Name)
	}
}

func TestCountRecords(t *testing.T) {
	n, err := CountRecords(strings.NewReader(twoRecords))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CountRecords = %d, want 2", n)
	}
}

// The scanner and the separator count share one predicate: a "$$$$" line
// with leading whitespace is record content for both, trailing blanks and
// carriage returns are tolerated by both. The only sanctioned divergence
// is a trailing record with no separator at all.
func TestCountRecords_AgreesWithScanner(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantScan  int
		wantCount int
	}{
		{"plain", twoRecords, 2, 2},
		{"indented separator is content", strings.Replace(twoRecords, "$$$$\n", "  $$$$\n", 1), 1, 1},
		{"trailing blanks tolerated", strings.Replace(twoRecords, "$$$$\n", "$$$$  \r\n", 1), 2, 2},
		{"missing trailing separator", strings.TrimSuffix(twoRecords, "$$$$\n"), 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := scanAll(t, tt.input)
			if len(recs) != tt.wantScan {
				t.Errorf("scanner yielded %d records, want %d", len(recs), tt.wantScan)
			}
			n, err := CountRecords(strings.NewReader(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.wantCount {
				t.Errorf("CountRecords = %d, want %d", n, tt.wantCount)
			}
		})
	}
}
