package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSaveInFlight  = errors.New("save already in progress")
	ErrAccessDenied  = errors.New("access denied")
	ErrSessionClosed = errors.New("session closed")
)

// ValidationError reports a widget or dashboard field that blocks an operation.
// WidgetID is the draft identity for unsaved widgets.
type ValidationError struct {
	WidgetID string `json:"widget_id,omitempty"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.WidgetID != "" {
		return fmt.Sprintf("widget %s: %s: %s", e.WidgetID, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one validation pass.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(v))
	for _, e := range v {
		out = append(out, e)
	}
	return out
}

// Invalid builds a single ValidationError.
func Invalid(widgetID, field, format string, args ...any) *ValidationError {
	return &ValidationError{WidgetID: widgetID, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ApiError is the generic failure returned by external collaborators.
type ApiError struct {
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *ApiError) Unwrap() error { return e.Err }

// WrapApi converts a collaborator failure into an ApiError unless it already carries a
// more specific kind.
func WrapApi(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	if errors.As(err, &nf) || errors.Is(err, ErrAccessDenied) {
		return err
	}
	return &ApiError{Message: fmt.Sprintf(format, args...) + ": " + err.Error(), Err: err}
}

// FetchError is a data provider failure scoped to one widget.
type FetchError struct {
	WidgetID string
	Reason   string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("widget %s: fetch failed: %s", e.WidgetID, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SaveError wraps a persistence failure raised while saving an editor draft.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return "save failed: " + e.Err.Error() }

func (e *SaveError) Unwrap() error { return e.Err }

// NotFoundError is terminal: the identity does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.ID) }

func NotFound(kind, id string) *NotFoundError { return &NotFoundError{Kind: kind, ID: id} }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var ves ValidationErrors
	return errors.As(err, &ves)
}
