package research

import "errors"

var (
	// ErrInvalidQuery is returned when a query is empty or whitespace-only.
	// It is the only user-facing failure the pipeline produces.
	ErrInvalidQuery = errors.New("invalid query: empty or whitespace-only")

	// ErrInvalidKnowledge indicates a malformed decision table. It is
	// surfaced once at process start by ValidateKnowledge and never
	// mid-run.
	ErrInvalidKnowledge = errors.New("invalid knowledge table")
)
