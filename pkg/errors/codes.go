package errors

import (
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// The prefix before the first underscore names the error kind.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Kind groups error codes into the three failure classes surfaced to callers.
type Kind string

const (
	KindInput   Kind = "input"
	KindRequest Kind = "request"
	KindParse   Kind = "parse"
	KindCommon  Kind = "common"
)

// Common Error Codes
const (
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeInvalidConfig ErrorCode = "COMMON_002"
	ErrCodeCanceled      ErrorCode = "COMMON_003"
)

const (
	CodeUnknown  = ErrorCode("UNKNOWN")
	CodeOK       = ErrorCode("OK")
	CodeInternal = ErrCodeInternal
)

// Input Error Codes: wrong type, out-of-range value or value outside a fixed set.
const (
	ErrCodeInvalidRowCount      ErrorCode = "INP_001"
	ErrCodeUnknownFlag          ErrorCode = "INP_002"
	ErrCodeUnknownCategory      ErrorCode = "INP_003"
	ErrCodeYearOutOfRange       ErrorCode = "INP_004"
	ErrCodeInvalidNormalization ErrorCode = "INP_005"
	ErrCodeYearsNotExtracted    ErrorCode = "INP_006"
)

// Request Error Codes: the upstream API could not deliver a usable response.
const (
	ErrCodeUpstreamStatus    ErrorCode = "REQ_001"
	ErrCodeUpstreamTransport ErrorCode = "REQ_002"
	ErrCodeUpstreamPayload   ErrorCode = "REQ_003"
)

// Parse Error Codes
const (
	ErrCodeDateParse ErrorCode = "PRS_001"
)

// ErrorCodeMessage maps ErrorCode to its default message.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:      "internal error",
	ErrCodeInvalidConfig: "invalid configuration",
	ErrCodeCanceled:      "operation canceled",

	ErrCodeInvalidRowCount:      "row count out of range",
	ErrCodeUnknownFlag:          "unknown rejection flag",
	ErrCodeUnknownCategory:      "unknown action type category",
	ErrCodeYearOutOfRange:       "submission year out of range",
	ErrCodeInvalidNormalization: "unknown crosstab normalization",
	ErrCodeYearsNotExtracted:    "dataset has no extracted years",

	ErrCodeUpstreamStatus:    "upstream returned non-success status",
	ErrCodeUpstreamTransport: "upstream request failed",
	ErrCodeUpstreamPayload:   "upstream response is malformed",

	ErrCodeDateParse: "submission date does not match YYYY-MM-DD",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

// KindForCode classifies code by its prefix.
func KindForCode(code ErrorCode) Kind {
	switch ModuleForCode(code) {
	case "INP":
		return KindInput
	case "REQ":
		return KindRequest
	case "PRS":
		return KindParse
	default:
		return KindCommon
	}
}

//Personal.AI order the ending
