package clip

import (
	"errors"
	"fmt"
)

// Kind classifies a clip extraction failure. The set is closed: every failure
// the service can produce maps to exactly one kind.
type Kind string

const (
	// KindInvalidRequest covers malformed input: missing url, non-finite
	// bounds, or end <= start. Detected before any external resource use.
	KindInvalidRequest Kind = "InvalidRequest"

	// KindNoPlayableFormat means the remote manifest yielded no usable
	// encoding candidate.
	KindNoPlayableFormat Kind = "NoPlayableFormat"

	// KindTranscodeFailed means the encoding process exited abnormally or
	// the source stream errored mid-read.
	KindTranscodeFailed Kind = "TranscodeFailed"

	// KindArtifactIOFailed means the finished file could not be read back.
	KindArtifactIOFailed Kind = "ArtifactIOFailed"
)

// Error is a classified clip extraction failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from an error chain. Unclassified errors
// report as TranscodeFailed, the broadest runtime failure.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindTranscodeFailed
}
