package serverutils

type Response[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	Type    string `json:"error_type,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) Response[any] {
	return Response[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// TypedErrorResponse carries a machine-readable error code alongside the
// human message so clients can branch without string matching.
func TypedErrorResponse(code int, errorType, message string) Response[any] {
	return Response[any]{
		Success: false,
		Code:    code,
		Message: message,
		Type:    errorType,
	}
}
