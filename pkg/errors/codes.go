package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
)

// Aliases kept for call-site readability.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeUnauthorized = ErrCodeUnauthorized
	CodeForbidden    = ErrCodeForbidden
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// Catalog Module Error Codes
const (
	ErrCodeCatalogLoadFailed   ErrorCode = "CAT_001"
	ErrCodeCatalogEmpty        ErrorCode = "CAT_002"
	ErrCodeCatalogSourceStale  ErrorCode = "CAT_003"
	ErrCodeReferenceCodeAbsent ErrorCode = "CAT_004"
)

// Classification Module Error Codes
const (
	ErrCodeBatchNotFound           ErrorCode = "CLS_001"
	ErrCodeBatchAlreadyClosed      ErrorCode = "CLS_002"
	ErrCodeItemNotFound            ErrorCode = "CLS_003"
	ErrCodeClassificationFailed    ErrorCode = "CLS_004"
	ErrCodeRecordPersistFailed     ErrorCode = "CLS_005"
	ErrCodeUploadObjectTooLarge    ErrorCode = "CLS_006"
	ErrCodeUploadFormatUnsupported ErrorCode = "CLS_007"
)

// Research Module Error Codes
const (
	ErrCodeResearchProviderError   ErrorCode = "RSH_001"
	ErrCodeResearchQuotaExceeded   ErrorCode = "RSH_002"
	ErrCodeResearchResponseInvalid ErrorCode = "RSH_003"
)

// HTTPStatus maps an ErrorCode to the HTTP status code returned by the API layer.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeUploadFormatUnsupported:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound, ErrCodeBatchNotFound, ErrCodeItemNotFound, ErrCodeReferenceCodeAbsent:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeBatchAlreadyClosed:
		return http.StatusConflict
	case ErrCodeTooManyRequests, ErrCodeResearchQuotaExceeded:
		return http.StatusTooManyRequests
	case ErrCodeUploadObjectTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether the code denotes a caller mistake (4xx).
func (c ErrorCode) IsClientError() bool {
	s := c.HTTPStatus()
	return s >= 400 && s < 500
}

// Module returns the module prefix of the code ("COMMON", "CAT", "CLS", "RSH").
func (c ErrorCode) Module() string {
	s := string(c)
	if i := strings.IndexByte(s, '_'); i > 0 {
		return s[:i]
	}
	return s
}

//Personal.AI order the ending
