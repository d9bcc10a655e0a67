// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AuditBlock is the fixed ALCOA+ column set stamped onto every output row
// of an audited run. All values are computed once per run; no field varies
// per record. Field order is the CSV column order.
type AuditBlock struct {
	Operator        string `json:"alcoa_attributable_operator" yaml:"alcoa_attributable_operator"`
	Purpose         string `json:"alcoa_legible_purpose" yaml:"alcoa_legible_purpose"`
	TimestampUTC    string `json:"alcoa_contemporaneous_timestamp_utc" yaml:"alcoa_contemporaneous_timestamp_utc"`
	SourceFile      string `json:"alcoa_original_source_file" yaml:"alcoa_original_source_file"`
	InputSHA256     string `json:"alcoa_accurate_input_sha256" yaml:"alcoa_accurate_input_sha256"`
	DatasetID       string `json:"alcoa_complete_dataset_id" yaml:"alcoa_complete_dataset_id"`
	ProcessingLabel string `json:"alcoa_consistent_processing_label" yaml:"alcoa_consistent_processing_label"`
	StoragePlan     string `json:"alcoa_enduring_storage_plan" yaml:"alcoa_enduring_storage_plan"`
	Contact         string `json:"alcoa_available_contact" yaml:"alcoa_available_contact"`
}

// Counts holds the aggregate record counters for one conversion run.
type Counts struct {
	// RecordsTotal is the number of records seen in the input.
	RecordsTotal int `json:"records_total" yaml:"records_total"`

	// RecordsConverted is the number of records that produced a row.
	RecordsConverted int `json:"records_converted" yaml:"records_converted"`

	// RecordsFailed is the number of records excluded from output.
	RecordsFailed int `json:"records_failed" yaml:"records_failed"`

	// ParseFailures counts records whose structure block failed to parse.
	ParseFailures int `json:"parse_failures" yaml:"parse_failures"`

	// SmilesFailures counts records that parsed but failed SMILES
	// canonicalization.
	SmilesFailures int `json:"smiles_failures" yaml:"smiles_failures"`

	// SeparatorCount is the record total expected from counting the
	// "$$$$" separators, kept as a consistency cross-check.
	SeparatorCount int `json:"separator_count" yaml:"separator_count"`
}

// Summary is the structured log for one conversion run. It is serialized
// as the JSON/YAML run summary and persisted by the history store.
type Summary struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id" yaml:"run_id"`

	// Input is the input path or upload name as supplied by the caller.
	Input string `json:"input_sdf" yaml:"input_sdf"`

	// SourceFile is the base name of the input, as stamped onto rows.
	SourceFile string `json:"source_file" yaml:"source_file"`

	// RunTimestampUTC is the run start time, fixed once and reused for
	// every row of the run.
	RunTimestampUTC string `json:"run_timestamp_utc" yaml:"run_timestamp_utc"`

	Counts Counts `json:"counts" yaml:"counts"`

	// OutputRows is the number of data rows in the emitted CSV.
	OutputRows int `json:"output_rows" yaml:"output_rows"`

	// AlcoaEnabled reports whether the audit column block was stamped.
	AlcoaEnabled bool `json:"alcoa_enabled" yaml:"alcoa_enabled"`

	// Audit is the audit block shared by every row, present only when
	// AlcoaEnabled is true.
	Audit *AuditBlock `json:"alcoa,omitempty" yaml:"alcoa,omitempty"`
}
