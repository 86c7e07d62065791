package dto

// BaseError универсальный корневой формат ошибки
// Code — машинно-ориентированный код (snake_case)
// Message — краткое человеко-читаемое описание (может локализоваться на клиенте)
// Details — дополнительная строка (пояснение / fragment)
// Fields — для валидационных ошибок (имя поля + текст)
type BaseError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError отдельная ошибка по конкретному полю
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

func NewValidationError(message string, fields []FieldError) BaseError {
	return BaseError{Code: "validation_error", Message: message, Fields: fields}
}

func NewConflictError(message string) BaseError {
	return BaseError{Code: "conflict", Message: message}
}

func NewUnauthorizedError(message string) BaseError {
	return BaseError{Code: "unauthorized", Message: message}
}

func NewForbiddenError(message string) BaseError {
	return BaseError{Code: "forbidden", Message: message}
}

func NewNotFoundError(message string) BaseError {
	return BaseError{Code: "not_found", Message: message}
}

func NewRateLimitedError(message string) BaseError {
	return BaseError{Code: "rate_limited", Message: message}
}

func NewInternalError(details string) BaseError {
	return BaseError{Code: "internal_error", Message: "internal server error", Details: details}
}
