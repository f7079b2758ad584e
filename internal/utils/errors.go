package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// CustomError carries the HTTP status a handler should answer with.
type CustomError struct {
	Code    int
	Message string
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.Code, e.Message)
}

func New(code int, message string) error {
	return &CustomError{
		Code:    code,
		Message: message,
	}
}

// WriteError answers with err's code when it is a CustomError and 500
// otherwise.
func WriteError(w http.ResponseWriter, err error) {
	var ce *CustomError
	if errors.As(err, &ce) {
		http.Error(w, ce.Message, ce.Code)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
