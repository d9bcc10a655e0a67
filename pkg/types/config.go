// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration and run-summary types shared by the
// molcsv front-ends, the conversion engine, and the run-history store.
package types

// AuditConfig holds the ALCOA+ audit inputs for a conversion run.
// Operator, Contact, and Purpose are mandatory whenever Enabled is true.
type AuditConfig struct {
	// Enabled turns the audit column block on for every output row.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Operator is the analyst running the conversion (Attributable).
	Operator string `json:"operator" yaml:"operator"`

	// Contact is how to reach the operator, typically an email (Available).
	Contact string `json:"contact" yaml:"contact"`

	// Purpose is the study context for the export (Legible).
	Purpose string `json:"purpose" yaml:"purpose"`

	// DatasetID ties the export back to a lab notebook or ELN entry.
	// Blank means a timestamp-based token is generated (Complete).
	DatasetID string `json:"dataset_id,omitempty" yaml:"dataset_id,omitempty"`

	// StoragePlan names the planned long-term storage location (Enduring).
	// Blank means the default document-vault label is used.
	StoragePlan string `json:"storage_plan,omitempty" yaml:"storage_plan,omitempty"`
}

// ConvertConfig holds settings for a batch conversion run.
type ConvertConfig struct {
	// InputPath is the SDF/SD file to convert.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputCSV is the destination CSV path (default: <input>.csv).
	OutputCSV string `json:"output_csv" yaml:"output_csv"`

	// BadSDF is an optional destination for failed records, written as a
	// verbatim SD passthrough. Empty disables the failed-record output.
	BadSDF string `json:"bad_sdf,omitempty" yaml:"bad_sdf,omitempty"`

	// SummaryJSON is an optional destination for the JSON run summary.
	SummaryJSON string `json:"summary_json,omitempty" yaml:"summary_json,omitempty"`

	// SummaryYAML is an optional destination for the YAML run summary.
	SummaryYAML string `json:"summary_yaml,omitempty" yaml:"summary_yaml,omitempty"`

	// Audit configures the ALCOA+ column block.
	Audit AuditConfig `json:"audit" yaml:"audit"`

	// HistoryPath is the SQLite run-history database. Empty disables
	// history recording for this run.
	HistoryPath string `json:"history_path,omitempty" yaml:"history_path,omitempty"`
}

// ServeConfig holds settings for the interactive web front-end.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// WorkDir is where per-run artifacts (CSV, summary) are staged for
	// download. Default: a directory under os.TempDir().
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// HistoryPath is the SQLite run-history database.
	HistoryPath string `json:"history_path,omitempty" yaml:"history_path,omitempty"`

	// MaxUploadBytes caps the accepted upload size (default 100 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`

	// PreviewRows bounds the row preview returned to the browser
	// (default 500).
	PreviewRows int `json:"preview_rows" yaml:"preview_rows"`
}

// HistoryConfig holds settings for the run-history commands.
type HistoryConfig struct {
	// Path is the SQLite run-history database.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of runs listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
