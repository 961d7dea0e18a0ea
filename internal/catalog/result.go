package catalog

import "fmt"

// Code identifies the machine-readable outcome of a catalog operation.
type Code string

const (
	CodeOK              Code = "ok"
	CodeBookNotFound    Code = "book_not_found"
	CodeUserNotFound    Code = "user_not_found"
	CodeBookUnavailable Code = "book_unavailable"
	CodeBookNotHeld     Code = "book_not_held"
	CodeBookBorrowed    Code = "book_borrowed"
)

// Result pairs an outcome code with a human-readable message. Callers branch
// on Code; Message is display text only and is never parsed.
type Result struct {
	Code    Code
	Message string
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Code == CodeOK
}

func succeed(format string, args ...any) Result {
	return Result{Code: CodeOK, Message: fmt.Sprintf(format, args...)}
}

func fail(code Code, format string, args ...any) Result {
	return Result{Code: code, Message: fmt.Sprintf(format, args...)}
}
