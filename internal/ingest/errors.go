package ingest

import (
	"errors"
	"fmt"
)

// Kind classifies why a file was rejected.
type Kind int

const (
	KindUnsupportedFormat Kind = iota + 1
	KindMissingColumn
	KindDecode
	KindContentExtraction
	KindArchive
	KindArchiveLimitExceeded
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindMissingColumn:
		return "MissingColumn"
	case KindDecode:
		return "DecodeError"
	case KindContentExtraction:
		return "ContentExtractionError"
	case KindArchive:
		return "ArchiveError"
	case KindArchiveLimitExceeded:
		return "ArchiveLimitExceeded"
	default:
		return "Unknown"
	}
}

// Code returns the machine-readable code used in API error envelopes.
func (k Kind) Code() string {
	switch k {
	case KindUnsupportedFormat:
		return "UNSUPPORTED_FORMAT"
	case KindMissingColumn:
		return "MISSING_COLUMN"
	case KindDecode:
		return "DECODE_ERROR"
	case KindContentExtraction:
		return "CONTENT_EXTRACTION_ERROR"
	case KindArchive:
		return "ARCHIVE_ERROR"
	case KindArchiveLimitExceeded:
		return "ARCHIVE_LIMIT_EXCEEDED"
	default:
		return "INGEST_ERROR"
	}
}

// Error is returned for every file the pipeline rejects.
// Detail carries the offending value: the extension for KindUnsupportedFormat,
// the column name for KindMissingColumn, otherwise a short description.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrUnsupportedFormat    = &Error{Kind: KindUnsupportedFormat}
	ErrMissingColumn        = &Error{Kind: KindMissingColumn}
	ErrDecode               = &Error{Kind: KindDecode}
	ErrContentExtraction    = &Error{Kind: KindContentExtraction}
	ErrArchive              = &Error{Kind: KindArchive}
	ErrArchiveLimitExceeded = &Error{Kind: KindArchiveLimitExceeded}
)

// ErrNilReader is returned by Ingest when no payload reader is given.
var ErrNilReader = errors.New("reader is nil")

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindUnsupportedFormat:
		msg = fmt.Sprintf("%q files are not allowed", e.Detail)
	case KindMissingColumn:
		msg = fmt.Sprintf("header %q not found in csv file", e.Detail)
	default:
		msg = e.Kind.String()
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind, and on detail when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Detail == "" || t.Detail == e.Detail
}

func unsupportedFormat(ext string) *Error {
	return &Error{Kind: KindUnsupportedFormat, Detail: ext}
}

// MissingColumn builds the error for an absent required table column.
func MissingColumn(column string) *Error {
	return &Error{Kind: KindMissingColumn, Detail: column}
}

func newError(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}
