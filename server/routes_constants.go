package server

// Route path constants
const (
	// Credential endpoints
	RouteAuthRegister     = "/api/auth/register"
	RouteAuthLogin        = "/api/auth/login"
	RouteAuthRefreshToken = "/api/auth/refresh-token"
	RouteAuthLogout       = "/api/auth/logout"

	// Account endpoints
	RouteUsers   = "/api/users"
	RouteUser    = "/api/users/{id}"
	RouteUserMe  = "/api/users/me"
	RouteDonorMe = "/api/donors/me"

	// Operational endpoints
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
