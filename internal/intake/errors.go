package intake

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError through errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationKind names why a submission was rejected before any network call.
type ValidationKind int

const (
	EmptyInput ValidationKind = iota + 1
	NoFileSelected
	UnsupportedExtension
	UnreadableFile
)

func (k ValidationKind) String() string {
	switch k {
	case EmptyInput:
		return "empty input"
	case NoFileSelected:
		return "no file selected"
	case UnsupportedExtension:
		return "unsupported extension"
	case UnreadableFile:
		return "unreadable file"
	default:
		return "unknown"
	}
}

// ValidationError is a locally detected reason a submission cannot be sent.
type ValidationError struct {
	Kind     ValidationKind
	File     string
	Accepted ExtensionSet
	Err      error
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyInput:
		if e.File != "" {
			return fmt.Sprintf("no text could be read from %s", e.File)
		}
		return "please enter the email text"
	case NoFileSelected:
		return "please select a file"
	case UnsupportedExtension:
		if e.Accepted.Empty() {
			return fmt.Sprintf("%s has an unsupported extension", e.File)
		}
		return fmt.Sprintf("please select a %s file", e.Accepted.Describe())
	case UnreadableFile:
		if e.Err != nil {
			return fmt.Sprintf("cannot read %s: %v", e.File, e.Err)
		}
		return fmt.Sprintf("cannot read %s", e.File)
	default:
		return "invalid submission"
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// KindOf returns the validation kind carried by err, or zero when err is not a
// validation error.
func KindOf(err error) ValidationKind {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return 0
}
