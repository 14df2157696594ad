package circulation

import "fmt"

const (
	CodeMaxBooks        = "MAX_BOOKS"
	CodeBookUnavailable = "BOOK_UNAVAILABLE"
	CodePatronInactive  = "PATRON_INACTIVE"
	CodeAlreadyPaid     = "ALREADY_PAID"
	CodeNoFine          = "NO_FINE"
	CodeAlreadyReturned = "ALREADY_RETURNED"
	CodeHasOpenLoans    = "HAS_OPEN_LOANS"
)

// PolicyError is a rejected operation with a reason meant for the librarian.
type PolicyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *PolicyError) Error() string { return e.Message }

func violation(code, format string, args ...any) *PolicyError {
	return &PolicyError{Code: code, Message: fmt.Sprintf(format, args...)}
}
