package argbind

import "strings"

// bindingReport tracks the nested argument path and the errors recorded along
// it. One report is exclusively owned by one in-flight Bind call; the path
// stack is empty before and after every completed call, so each push must be
// paired with a pop on all branches.
type bindingReport struct {
	path []string
	errs FieldErrors
}

func newBindingReport() *bindingReport {
	return &bindingReport{path: make([]string, 0, 8)}
}

func (r *bindingReport) pushNestedPath(segment string) {
	r.path = append(r.path, segment)
}

func (r *bindingReport) popNestedPath() {
	if n := len(r.path); n > 0 {
		r.path = r.path[:n-1]
	}
}

// currentPath renders the active path. Segments already carry index and key
// brackets, so rendering is a plain dot join.
func (r *bindingReport) currentPath() string {
	if len(r.path) == 0 {
		return "$"
	}
	return strings.Join(r.path, ".")
}

// rejectValue records one FieldError stamped with the current path. It never
// fails; the report is purely a recording surface.
func (r *bindingReport) rejectValue(rejected any, code, message string) {
	r.errs = AppendFieldErrors(r.errs, FieldError{
		Path:          r.currentPath(),
		RejectedValue: rejected,
		Code:          code,
		Message:       message,
	})
}

func (r *bindingReport) hasErrors() bool { return len(r.errs) > 0 }
