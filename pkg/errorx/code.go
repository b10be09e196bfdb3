package errorx

type Code string

func (c Code) String() string {
	return string(c)
}

const (
	// Success codes
	CodeSuccess Code = "SUCCESS"
	CodeCreated Code = "RESOURCE_CREATED"
	CodeDeleted Code = "RESOURCE_DELETED"

	// Client errors (4xx)
	CodeInvalid            Code = "INVALID"
	CodeValidationFailed   Code = "VALIDATION_FAILED"
	CodeMalformedJSON      Code = "MALFORMED_JSON"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeTokenInvalid       Code = "TOKEN_INVALID"
	CodeTokenRevoked       Code = "TOKEN_REVOKED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeAccessDenied       Code = "ACCESS_DENIED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotAllowed   Code = "METHOD_NOT_ALLOWED"
	CodeConflict           Code = "CONFLICT"
	CodeDuplicateEntry     Code = "DUPLICATE_ENTRY"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"

	// Verification codes
	CodeNoActiveAttempt  Code = "NO_ACTIVE_ATTEMPT"
	CodeCodeExpired      Code = "CODE_EXPIRED"
	CodeCodeMismatch     Code = "CODE_MISMATCH"
	CodeAttemptsExceeded Code = "ATTEMPTS_EXCEEDED"
	CodeAlreadyConsumed  Code = "ALREADY_CONSUMED"
	CodeNotVerified      Code = "NOT_VERIFIED"

	// Password validation
	CodePasswordTooWeak       Code = "PASSWORD_TOO_WEAK"
	CodePasswordFormatInvalid Code = "PASSWORD_FORMAT_INVALID"

	// Business logic
	CodeAlreadyProcessed      Code = "ALREADY_PROCESSED"
	CodeBusinessRuleViolation Code = "BUSINESS_RULE_VIOLATION"

	// Server errors (5xx)
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeDeliveryFailed     Code = "MAIL_DELIVERY_FAILED"
	CodeUpstreamError      Code = "UPSTREAM_SERVICE_ERROR"
	CodeUpstreamTimeout    Code = "UPSTREAM_TIMEOUT"
)
