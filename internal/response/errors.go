package response

// ErrCode is a typed error code for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrBadQuery       ErrCode = "BAD_QUERY"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Internal invariant violations ─────────────────────────────────
	ErrInvalidLiveState ErrCode = "INVALID_LIVE_STATE"
	ErrInvalidRecord    ErrCode = "INVALID_RECORD"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the wire message for a given error code. The strings
// for validation failures are fixed; dashboard clients match on them.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrBadQuery:
		return "Bad query"
	case ErrInvalidPayload:
		return "Invalid payload"
	case ErrInvalidLiveState:
		return "Invalid live state"
	case ErrInvalidRecord:
		return "Invalid record"
	case ErrRateLimitExceeded:
		return "Too many requests"
	case ErrInternal:
		return "Internal server error"
	default:
		return "Unexpected error"
	}
}
