package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrNoURLs is returned when a submission contains no valid URLs. It is
	// reported before any generation work starts.
	ErrNoURLs = errors.New("please provide at least one valid URL")

	// ErrNoClient is returned when a generator is built without an LLM
	// client. It is a configuration error, not a per-request one.
	ErrNoClient = errors.New("no LLM client configured")
)

// ErrorKind classifies a failed generation call.
type ErrorKind string

const (
	// KindTransport means the call to the model service failed.
	KindTransport ErrorKind = "transport"
	// KindParse means the service answered with unusable output.
	KindParse ErrorKind = "parse"
)

// GenerationError is returned by a single generation call.
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func transportError(err error) error {
	return &GenerationError{Kind: KindTransport, Err: err}
}

func parseError(format string, args ...any) error {
	return &GenerationError{Kind: KindParse, Err: fmt.Errorf(format, args...)}
}

// ConstraintError reports a candidate whose title or description length is
// out of bounds.
type ConstraintError struct {
	TitleLength       int
	DescriptionLength int
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("title length %d, description length %d out of bounds", e.TitleLength, e.DescriptionLength)
}

// ExhaustedError is the terminal failure of a URL whose attempt budget ran
// out. Err is the error from the final attempt.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	var ce *ConstraintError
	if errors.As(e.Err, &ce) {
		return fmt.Sprintf("Failed to generate metadata within character limits after %d attempts. Last title length: %d, description length: %d",
			e.Attempts, ce.TitleLength, ce.DescriptionLength)
	}
	return fmt.Sprintf("Failed to generate metadata after %d attempts. Details: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
