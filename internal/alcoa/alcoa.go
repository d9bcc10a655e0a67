// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package alcoa computes the ALCOA+ audit column block: a fixed set of
// run-scoped provenance fields stamped identically onto every output row
// of an audited conversion.
package alcoa

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/molcsv/pkg/types"
)

const (
	// ProcessingLabel is the fixed Consistent label for this converter.
	ProcessingLabel = "molcsv_v1"

	// DefaultStoragePlan is the Enduring storage label used when the
	// caller does not name one.
	DefaultStoragePlan = "21 CFR Part 11 compliant document vault"
)

// StoragePlans are the storage labels offered by the interactive front-end.
var StoragePlans = []string{
	DefaultStoragePlan,
	"Validated data lake",
	"Regulated LIMS",
	"Local secure drive (with routine backups)",
}

// Fields are the caller-supplied audit inputs. Operator, Contact, and
// Purpose are mandatory; DatasetID and StoragePlan are defaulted.
type Fields struct {
	Operator    string
	Contact     string
	Purpose     string
	DatasetID   string
	StoragePlan string
}

// FieldsFromConfig lifts the audit portion of a config into Fields.
func FieldsFromConfig(cfg types.AuditConfig) Fields {
	return Fields{
		Operator:    cfg.Operator,
		Contact:     cfg.Contact,
		Purpose:     cfg.Purpose,
		DatasetID:   cfg.DatasetID,
		StoragePlan: cfg.StoragePlan,
	}
}

// Validate rejects blank mandatory fields. It runs before any conversion
// work begins.
func (f Fields) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Operator) == "" {
		missing = append(missing, "operator")
	}
	if strings.TrimSpace(f.Contact) == "" {
		missing = append(missing, "contact")
	}
	if strings.TrimSpace(f.Purpose) == "" {
		missing = append(missing, "purpose")
	}
	if len(missing) > 0 {
		return fmt.Errorf("ALCOA+ mode requires %s", strings.Join(missing, ", "))
	}
	return nil
}

// HashBytes returns the hex SHA-256 digest of the complete input bytes.
// The digest covers the whole uploaded file, not individual records.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DatasetToken generates the timestamp-based dataset identifier the
// interactive front-end seeds its dataset field with.
func DatasetToken(now time.Time) string {
	return now.UTC().Format("RUN-20060102-150405")
}

// NewBlock computes the audit block for one run. Every value is fixed at
// run start; rows derived from the same input within one run share the
// identical block.
func NewBlock(sourceFile string, input []byte, f Fields, now time.Time) types.AuditBlock {
	now = now.UTC()

	timestamp := now.Format(time.RFC3339)

	datasetID := strings.TrimSpace(f.DatasetID)
	if datasetID == "" {
		datasetID = sourceFile + "::" + timestamp
	}
	storagePlan := strings.TrimSpace(f.StoragePlan)
	if storagePlan == "" {
		storagePlan = DefaultStoragePlan
	}

	return types.AuditBlock{
		Operator:        strings.TrimSpace(f.Operator),
		Purpose:         strings.TrimSpace(f.Purpose),
		TimestampUTC:    timestamp,
		SourceFile:      sourceFile,
		InputSHA256:     HashBytes(input),
		DatasetID:       datasetID,
		ProcessingLabel: ProcessingLabel,
		StoragePlan:     storagePlan,
		Contact:         strings.TrimSpace(f.Contact),
	}
}

// Columns is the fixed audit column order appended to the CSV header.
func Columns() []string {
	return []string{
		"alcoa_attributable_operator",
		"alcoa_legible_purpose",
		"alcoa_contemporaneous_timestamp_utc",
		"alcoa_original_source_file",
		"alcoa_accurate_input_sha256",
		"alcoa_complete_dataset_id",
		"alcoa_consistent_processing_label",
		"alcoa_enduring_storage_plan",
		"alcoa_available_contact",
	}
}

// Apply stamps the block's values onto a row under the audit column names.
func Apply(row map[string]string, b types.AuditBlock) {
	row["alcoa_attributable_operator"] = b.Operator
	row["alcoa_legible_purpose"] = b.Purpose
	row["alcoa_contemporaneous_timestamp_utc"] = b.TimestampUTC
	row["alcoa_original_source_file"] = b.SourceFile
	row["alcoa_accurate_input_sha256"] = b.InputSHA256
	row["alcoa_complete_dataset_id"] = b.DatasetID
	row["alcoa_consistent_processing_label"] = b.ProcessingLabel
	row["alcoa_enduring_storage_plan"] = b.StoragePlan
	row["alcoa_available_contact"] = b.Contact
}
