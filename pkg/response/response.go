package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Code       string      `json:"code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// Fail returns an error response carrying a machine-readable error code
// alongside the human-readable message.
func Fail(statusCode int, code, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Code:       code,
		Error:      err,
	}
}

// FailWithDetails is Fail with a structured payload, e.g. the per-field
// breakdown of a validation error.
func FailWithDetails(statusCode int, code, err string, details interface{}) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Code:       code,
		Error:      err,
		Data:       details,
	}
}
