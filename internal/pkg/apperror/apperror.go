package apperror

// AppError carries the HTTP status a failure should surface as, alongside
// the user-facing message. Services declare their failure modes as package
// sentinels built with New and return them unchanged, so handlers never map
// errors to status codes themselves.
type AppError struct {
	Code    int    // HTTP status code (e.g. 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
