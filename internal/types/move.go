// Package types defines the data structures shared across the server.
package types

// ResultKind tags the outcome of a move so callers can switch on it.
type ResultKind string

// Result kinds. Only KindMoved and KindCopiedSourceKept leave the content at
// the destination; every other kind is reported as an error.
const (
	KindMoved                 ResultKind = "moved"
	KindCopiedSourceKept      ResultKind = "copied_source_kept"
	KindMissingParameter      ResultKind = "missing_parameter"
	KindAccessDenied          ResultKind = "access_denied"
	KindSamePath              ResultKind = "same_path"
	KindSourceNotFound        ResultKind = "source_not_found"
	KindDirectoryCreateFailed ResultKind = "directory_create_failed"
	KindReadFailed            ResultKind = "read_failed"
	KindWriteFailed           ResultKind = "write_failed"
	KindUnexpectedFailure     ResultKind = "unexpected_failure"
)

type (
	// MoveParams contains parameters for moving a file within the project root.
	MoveParams struct {
		Source          string `json:"source"`
		Destination     string `json:"destination"`
		CreateDirectory bool   `json:"createDirectory,omitempty"`
	}

	// MoveResult contains the result of a move operation.
	// Source and Destination hold the resolved absolute paths when resolution got that far.
	MoveResult struct {
		Kind        ResultKind `json:"kind"`
		Message     string     `json:"message"`
		Source      string     `json:"source,omitempty"`
		Destination string     `json:"destination,omitempty"`
	}
)

// IsError reports whether the result should be surfaced to the caller as an error.
// A copy whose source could not be removed is a warning, not an error.
func (r MoveResult) IsError() bool {
	return r.Kind != KindMoved && r.Kind != KindCopiedSourceKept
}

// Success reports whether the content reached the destination.
func (r MoveResult) Success() bool {
	return !r.IsError()
}

// IsWarning reports a partial success: destination written, source still present.
func (r MoveResult) IsWarning() bool {
	return r.Kind == KindCopiedSourceKept
}
