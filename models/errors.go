package models

// ErrorNotFound is returned when a record is missing or not owned by the caller.
type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string {
	return e.Message
}

// ErrorValidation is returned when input fails a business rule.
type ErrorValidation struct {
	Message string
}

func (e ErrorValidation) Error() string {
	return e.Message
}

type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string {
	return e.Message
}

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string {
	return e.Message
}

// ErrorInternalServer hides the persistence cause from clients. Err is kept for logging.
type ErrorInternalServer struct {
	Message string
	Err     error
}

func (e ErrorInternalServer) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e ErrorInternalServer) Unwrap() error {
	return e.Err
}

func NewNotFound(message string) error {
	return ErrorNotFound{Message: message}
}

func NewValidation(message string) error {
	return ErrorValidation{Message: message}
}

func NewInternal(message string, err error) error {
	return ErrorInternalServer{Message: message, Err: err}
}
