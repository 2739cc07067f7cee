package domain

import "errors"

// Error taxonomy shared by the import pipeline. Handlers map these onto HTTP
// statuses; everything else is treated as an internal failure.
var (
	// ErrNotFound signals that a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyFile signals an upload that contains no data rows.
	ErrEmptyFile = errors.New("file contains no data rows")

	// ErrInvalidEntityType signals an unsupported entity_type value.
	ErrInvalidEntityType = errors.New("unsupported entity type")

	// ErrAlreadyProcessed signals process() on a completed import job.
	ErrAlreadyProcessed = errors.New("import already processed")
)
