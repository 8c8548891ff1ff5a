// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldLanguage   = "language"
	FieldWorkingDir = "working_dir"
	FieldFormat     = "format"

	// Configuration fields.
	FieldFlavor    = "flavor"
	FieldConfig    = "config"
	FieldLookahead = "lookahead"

	// Reparse fields.
	FieldMode            = "mode"
	FieldStatus          = "status"
	FieldElementType     = "element_type"
	FieldOffset          = "offset"
	FieldEndOffset       = "end_offset"
	FieldExpectedLength  = "expected_length"
	FieldActualLength    = "actual_length"
	FieldExcerpt         = "excerpt"
	FieldEntries         = "entries"
	FieldDepth           = "depth"
	FieldInconsistencies = "inconsistencies"

	// Replay statistics fields.
	FieldReplaced = "replaced"
	FieldInserted = "inserted"
	FieldDeleted  = "deleted"

	// Analysis fields.
	FieldFiles    = "files"
	FieldNodes    = "nodes"
	FieldExpanded = "expanded"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
