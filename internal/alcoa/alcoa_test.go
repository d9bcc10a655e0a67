// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package alcoa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsValidate(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		errMsg string
	}{
		{
			name:   "complete",
			fields: Fields{Operator: "Jane Doe", Contact: "jane@lab.org", Purpose: "stability screen"},
		},
		{
			name:   "blank operator",
			fields: Fields{Operator: "  ", Contact: "jane@lab.org", Purpose: "p"},
			errMsg: "operator",
		},
		{
			name:   "all blank",
			fields: Fields{},
			errMsg: "operator, contact, purpose",
		},
		{
			name:   "missing contact and purpose",
			fields: Fields{Operator: "Jane Doe"},
			errMsg: "contact, purpose",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fields.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewBlock(t *testing.T) {
	now := time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC)
	input := []byte("file contents")
	f := Fields{Operator: " Jane Doe ", Contact: "jane@lab.org", Purpose: "screen"}

	b := NewBlock("ligands.sdf", input, f, now)

	assert.Equal(t, "Jane Doe", b.Operator)
	assert.Equal(t, "2026-02-03T09:30:00Z", b.TimestampUTC)
	assert.Equal(t, "ligands.sdf", b.SourceFile)
	assert.Equal(t, HashBytes(input), b.InputSHA256)
	assert.Len(t, b.InputSHA256, 64)
	assert.Equal(t, "ligands.sdf::2026-02-03T09:30:00Z", b.DatasetID)
	assert.Equal(t, ProcessingLabel, b.ProcessingLabel)
	assert.Equal(t, DefaultStoragePlan, b.StoragePlan)
}

func TestNewBlock_SuppliedIdentifiers(t *testing.T) {
	now := time.Now()
	f := Fields{
		Operator: "o", Contact: "c", Purpose: "p",
		DatasetID:   "ELN-4711",
		StoragePlan: "Regulated LIMS",
	}
	b := NewBlock("x.sdf", []byte("data"), f, now)
	assert.Equal(t, "ELN-4711", b.DatasetID)
	assert.Equal(t, "Regulated LIMS", b.StoragePlan)
}

// TestNewBlock_HashStableAcrossRuns pins the reproducibility contract:
// the same input bytes hash identically run over run, while timestamps
// track the run clock.
func TestNewBlock_HashStableAcrossRuns(t *testing.T) {
	input := []byte("same bytes")
	f := Fields{Operator: "o", Contact: "c", Purpose: "p"}

	b1 := NewBlock("a.sdf", input, f, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b2 := NewBlock("a.sdf", input, f, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, b1.InputSHA256, b2.InputSHA256)
	assert.NotEqual(t, b1.TimestampUTC, b2.TimestampUTC)
	assert.NotEqual(t, b1.DatasetID, b2.DatasetID, "default identifier is timestamp-based")
}

// The blank-identifier default ties the export to its source file and run
// clock; the RUN token is only ever a caller-side seed.
func TestDatasetIdentifierDefaults(t *testing.T) {
	now := time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC)
	f := Fields{Operator: "o", Contact: "c", Purpose: "p"}

	b := NewBlock("batch7.sdf", []byte("d"), f, now)
	assert.Equal(t, "batch7.sdf::"+b.TimestampUTC, b.DatasetID)

	assert.Equal(t, "RUN-20260203-093000", DatasetToken(now))
}

func TestApplyMatchesColumns(t *testing.T) {
	b := NewBlock("x.sdf", []byte("d"), Fields{Operator: "o", Contact: "c", Purpose: "p"}, time.Now())
	row := map[string]string{}
	Apply(row, b)

	cols := Columns()
	require.Len(t, row, len(cols))
	for _, c := range cols {
		assert.Contains(t, row, c)
	}
	assert.Equal(t, "o", row["alcoa_attributable_operator"])
	assert.Equal(t, "c", row["alcoa_available_contact"])
}
