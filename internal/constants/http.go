package constants

// HTTP headers
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"

	// Rate limit headers
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// BearerPrefix is the expected scheme of the Authorization header
const BearerPrefix = "Bearer"

// Pagination defaults for list endpoints
const (
	QueryParamPage  = "page"
	QueryParamLimit = "limit"

	DefaultPage  = "1"
	DefaultLimit = "20"

	MinPage  = 1
	MinLimit = 1
	MaxLimit = 100
)
