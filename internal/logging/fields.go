// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Configuration fields.
	FieldFlavor   = "flavor"
	FieldFix      = "fix"
	FieldDryRun   = "dry_run"
	FieldJobs     = "jobs"
	FieldFormat   = "format"
	FieldAnnotate = "annotate"

	// Document fields.
	FieldBlocks    = "blocks"
	FieldBlock     = "block"
	FieldTag       = "tag"
	FieldKind      = "kind"
	FieldChanges   = "changes"
	FieldOffset    = "offset"
	FieldLanguage  = "language"
	FieldBackup    = "backup"
	FieldDuration  = "duration"
	FieldBatchSize = "batch_size"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesWritten    = "files_written"
	FieldFilesErrored    = "files_errored"
	FieldChangesTotal    = "changes_total"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
