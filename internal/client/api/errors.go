package api

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that the remote document doesn't exist
var ErrNotFound = errors.New("remote document not found")

// TransientError обозначает сетевую или сервисную ошибку, которую имеет
// смысл повторить: обрыв соединения, таймаут, 408/429/5xx.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient remote error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// TerminalError обозначает ошибку, повтор которой бессмысленен:
// валидация, права доступа и прочие 4xx кроме 404/408/429.
type TerminalError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *TerminalError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote error (%d)", e.StatusCode)
}

// IsNotFound reports whether the error means the document doesn't exist remotely
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransient reports whether the error is worth retrying
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsTerminal reports whether the error is permanent and must not be retried
func IsTerminal(err error) bool {
	var te *TerminalError
	return errors.As(err, &te)
}
