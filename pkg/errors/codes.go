package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes follow the "<MODULE>_<NNN>" convention.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeRateLimited        ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
)

// Data Source Error Codes
const (
	ErrCodeDataSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeDataSourceEmpty       ErrorCode = "SRC_002"
	ErrCodeDataSourceParseError  ErrorCode = "SRC_003"
	ErrCodeDataSourceUnsupported ErrorCode = "SRC_004"
)

// Dataset / Analytics Error Codes
const (
	ErrCodeSchemaMismatch    ErrorCode = "DATA_001"
	ErrCodeComputationFailed ErrorCode = "DATA_002"
	ErrCodeDatasetNotFound   ErrorCode = "DATA_003"
	ErrCodeExportFailed      ErrorCode = "DATA_004"
)

// Insight Generation Error Codes
const (
	ErrCodeAIDisabled       ErrorCode = "AI_001"
	ErrCodeAIUpstreamFailed ErrorCode = "AI_002"
	ErrCodeAIReplyInvalid   ErrorCode = "AI_003"
)

// Short aliases used at call sites.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")

	CodeInternal      = ErrCodeInternal
	CodeInvalidParam  = ErrCodeBadRequest
	CodeNotFound      = ErrCodeNotFound
	CodeTimeout       = ErrCodeTimeout
	CodeValidation    = ErrCodeValidation
	CodeSerialization = ErrCodeSerialization
	CodeRateLimited   = ErrCodeRateLimited
	CodeCacheError    = ErrCodeCacheError
	CodeMessaging     = ErrCodeMessagingError

	CodeSourceUnavailable = ErrCodeDataSourceUnavailable
	CodeSourceEmpty       = ErrCodeDataSourceEmpty
	CodeSourceParse       = ErrCodeDataSourceParseError
	CodeSourceUnsupported = ErrCodeDataSourceUnsupported

	CodeSchemaMismatch    = ErrCodeSchemaMismatch
	CodeComputationFailed = ErrCodeComputationFailed
	CodeDatasetNotFound   = ErrCodeDatasetNotFound
	CodeExportFailed      = ErrCodeExportFailed

	CodeAIDisabled      = ErrCodeAIDisabled
	CodeUpstreamFailed  = ErrCodeAIUpstreamFailed
	CodeAIReplyInvalid  = ErrCodeAIReplyInvalid
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusForbidden,

	ErrCodeDataSourceUnavailable: http.StatusServiceUnavailable,
	ErrCodeDataSourceEmpty:       http.StatusBadGateway,
	ErrCodeDataSourceParseError:  http.StatusBadGateway,
	ErrCodeDataSourceUnsupported: http.StatusBadRequest,

	ErrCodeSchemaMismatch:    http.StatusUnprocessableEntity,
	ErrCodeComputationFailed: http.StatusInternalServerError,
	ErrCodeDatasetNotFound:   http.StatusNotFound,
	ErrCodeExportFailed:      http.StatusInternalServerError,

	ErrCodeAIDisabled:       http.StatusServiceUnavailable,
	ErrCodeAIUpstreamFailed: http.StatusBadGateway,
	ErrCodeAIReplyInvalid:   http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "Not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeRateLimited:        "rate limit exceeded, please retry later",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "messaging error",
	ErrCodeFeatureDisabled:    "feature disabled",

	ErrCodeDataSourceUnavailable: "data source unavailable",
	ErrCodeDataSourceEmpty:       "No data available",
	ErrCodeDataSourceParseError:  "failed to parse data source response",
	ErrCodeDataSourceUnsupported: "unsupported data source",

	ErrCodeSchemaMismatch:    "required columns missing",
	ErrCodeComputationFailed: "analysis failed",
	ErrCodeDatasetNotFound:   "dataset not found",
	ErrCodeExportFailed:      "report export failed",

	ErrCodeAIDisabled:       "insight generation disabled",
	ErrCodeAIUpstreamFailed: "insight generation service failed",
	ErrCodeAIReplyInvalid:   "insight generation reply unparsable",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
