package models

import (
	"errors"
	"fmt"
)

// Pipeline failure kinds. Match with errors.Is.
var (
	ErrDataQuality       = errors.New("data quality")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrCacheCorrupt      = errors.New("cache corrupt")
)

// PipelineError is a failure of one pipeline stage, tagged with its kind.
type PipelineError struct {
	Kind error
	Msg  string
	Err  error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// DataQualityError reports unusable price data.
func DataQualityError(format string, a ...interface{}) *PipelineError {
	return &PipelineError{Kind: ErrDataQuality, Msg: fmt.Sprintf(format, a...)}
}

// SourceUnavailableError reports an unreachable source or a malformed record.
func SourceUnavailableError(err error, format string, a ...interface{}) *PipelineError {
	return &PipelineError{Kind: ErrSourceUnavailable, Msg: fmt.Sprintf(format, a...), Err: err}
}

// CacheCorruptError reports an unreadable or incomplete snapshot.
func CacheCorruptError(err error, format string, a ...interface{}) *PipelineError {
	return &PipelineError{Kind: ErrCacheCorrupt, Msg: fmt.Sprintf(format, a...), Err: err}
}

// ErrorKind returns a short label for err, used as a metrics label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrDataQuality):
		return "data_quality"
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrCacheCorrupt):
		return "cache_corrupt"
	default:
		return "internal"
	}
}
