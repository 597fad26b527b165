package argbind

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	// CodeTypeMismatch is recorded when a scalar cannot be coerced to the
	// target type.
	CodeTypeMismatch = "typeMismatch"
	// CodeUnknownType is recorded when a collection element or map value type
	// cannot be resolved for the target.
	CodeUnknownType = "unknownType"
	// CodeInvalidPropertyValue is recorded when writing a bound value to a
	// property fails for a reason other than writability.
	CodeInvalidPropertyValue = "invalidPropertyValue"
)

// FieldError is one recorded binding defect. Path is the full dotted and
// bracketed argument path rooted at "$", for example "$.items[2].name".
type FieldError struct {
	Path          string
	RejectedValue any
	Code          string
	Message       string
}

// FieldErrors is the ordered collection of defects accumulated during one
// Bind call. It implements error.
type FieldErrors []FieldError

// Error summarizes the first few errors.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(fe)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := fe[i]
		// e.g. typeMismatch at $.y
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendFieldErrors appends errors to the destination, initializing the slice
// when needed.
func AppendFieldErrors(dst FieldErrors, more ...FieldError) FieldErrors {
	if dst == nil {
		dst = FieldErrors{}
	}
	dst = append(dst, more...)
	return dst
}

// AsFieldErrors extracts FieldErrors from an error using errors.As internally.
func AsFieldErrors(err error) (FieldErrors, bool) {
	if err == nil {
		return nil, false
	}
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
