package api

import (
	"fmt"
	"net/http"
)

const CodeInvalidState = "INVALID_STATE"

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func (e *Error) IsAlreadyTerminal() bool {
	return e.Status == http.StatusConflict && e.Code == CodeInvalidState
}

// NetworkError means the request never produced a readable answer.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return "network failure during " + e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
