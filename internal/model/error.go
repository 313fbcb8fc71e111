package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidCategory    = "INVALID_CATEGORY"
	ErrCodeInvalidLocation    = "INVALID_LOCATION"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeInvalidDate        = "INVALID_DATE"
	ErrCodeInvalidFormat      = "INVALID_FORMAT"
	ErrCodeDuplicateName      = "DUPLICATE_NAME"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeConcessionNotFound = "CONCESSION_NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. Conflict and not-found conditions are expected,
// recoverable outcomes of an operation, reported as values rather than
// infrastructure failures.
var (
	ErrProductNameRequired    = NewDomainError(ErrCodeMissingField, "Product name is required")
	ErrConcessionNameRequired = NewDomainError(ErrCodeMissingField, "Concession name is required")
	ErrInvalidCategory        = NewDomainError(ErrCodeInvalidCategory, "Category must be one of Beverage, Meal, Snack or Other")
	ErrInvalidLocation        = NewDomainError(ErrCodeInvalidLocation, "Location must be one of Airside, Landside or City")
	ErrNegativeAmount         = NewDomainError(ErrCodeInvalidAmount, "Price amount must not be negative")
	ErrInvalidDate            = NewDomainError(ErrCodeInvalidDate, "Date must be in YYYY-MM-DD format")
	ErrInvalidExportFormat    = NewDomainError(ErrCodeInvalidFormat, "Export format must be csv or excel")
	ErrDuplicateProduct       = NewDomainError(ErrCodeDuplicateName, "A product with that name already exists")
	ErrDuplicateConcession    = NewDomainError(ErrCodeDuplicateName, "A concession with that name already exists")
	ErrProductNotFound        = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrConcessionNotFound     = NewDomainError(ErrCodeConcessionNotFound, "Concession not found")
)
