package modunpack

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// DecodeError is the error type returned by every package in this module.
//
// Errors can be annotated with the absolute input offset where decoding gave up,
// so a container reader can report where in a module file the damage is.
type DecodeError interface {
	error
	WithMessage(message string) DecodeError
	Wrap(err error) DecodeError
	AtOffset(offset int) DecodeError
}

type baseDecodeError string

const rootError = baseDecodeError("")

var ErrChunkOutOfBounds = rootError.WithMessage("Chunk extends past end of image")
var ErrExhausted = rootError.WithMessage("Input exhausted")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrInvalidTree = rootError.WithMessage("Invalid Huffman tree")
var ErrMalformedManifest = rootError.WithMessage("Malformed chunk manifest")
var ErrOverlappingChunks = rootError.WithMessage("Chunks overlap")
var ErrUnknownFormat = rootError.WithMessage("Unknown chunk format")
var ErrUnknownMethod = rootError.WithMessage("Unknown compression method")

func (e baseDecodeError) Error() string {
	return string(e)
}

func (e baseDecodeError) WithMessage(message string) DecodeError {
	return customDecodeError{
		message:       message,
		originalError: e,
	}
}

func (e baseDecodeError) Wrap(err error) DecodeError {
	return customDecodeError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e baseDecodeError) AtOffset(offset int) DecodeError {
	return positionedDecodeError{
		customDecodeError: customDecodeError{
			message:       fmt.Sprintf("%s (at offset %d)", e.Error(), offset),
			originalError: e,
		},
		offset: offset,
	}
}

// -----------------------------------------------------------------------------

type customDecodeError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customDecodeError) Error() string {
	return e.message
}

func (e customDecodeError) WithMessage(message string) DecodeError {
	return customDecodeError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customDecodeError) Wrap(err error) DecodeError {
	return customDecodeError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customDecodeError) AtOffset(offset int) DecodeError {
	return positionedDecodeError{
		customDecodeError: customDecodeError{
			message:       fmt.Sprintf("%s (at offset %d)", e.message, offset),
			originalError: e,
		},
		offset: offset,
	}
}

func (e customDecodeError) Unwrap() error {
	return e.originalError
}

// -----------------------------------------------------------------------------

// positionedDecodeError is a [DecodeError] that knows which input offset it
// applies to. Adding a message or wrapping another error keeps the offset.
type positionedDecodeError struct {
	customDecodeError
	offset int
}

func (e positionedDecodeError) WithMessage(message string) DecodeError {
	return positionedDecodeError{
		customDecodeError: customDecodeError{
			message:       fmt.Sprintf("%s: %s", e.message, message),
			originalError: e,
		},
		offset: e.offset,
	}
}

func (e positionedDecodeError) Wrap(err error) DecodeError {
	return positionedDecodeError{
		customDecodeError: customDecodeError{
			message:       fmt.Sprintf("%s: %s", e.message, err.Error()),
			originalError: multierror.Append(e, err),
		},
		offset: e.offset,
	}
}

// AtOffset replaces the offset.
func (e positionedDecodeError) AtOffset(offset int) DecodeError {
	return positionedDecodeError{
		customDecodeError: customDecodeError{
			message:       fmt.Sprintf("%s (at offset %d)", e.message, offset),
			originalError: e,
		},
		offset: offset,
	}
}

// ErrorOffset returns the input offset attached to `err` by
// [DecodeError.AtOffset], searching the whole chain of wrapped errors. If more
// than one offset was attached, the outermost one wins. The second return value
// is false if there is no offset.
func ErrorOffset(err error) (int, bool) {
	var positioned positionedDecodeError
	if errors.As(err, &positioned) {
		return positioned.offset, true
	}
	return 0, false
}
