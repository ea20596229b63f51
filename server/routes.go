package server

import (
	"github.com/redsource/redsource-server/users"
)

func (s *Server) initRoutes() {
	// Credentials
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware(s.RateLimitMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAuthRefreshToken, ChainMiddleware(s.RefreshTokenHandler(), s.APIMiddleware(s.RateLimitMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Accounts
	s.RegisterRouteHandler("GET "+RouteUserMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuthenticated())...))
	s.RegisterRouteHandler("GET "+RouteDonorMe, ChainMiddleware(s.DonorMeHandler(), s.APIMiddleware(s.RequireAuthority(users.RoleDonor.Authority()))...))
	s.RegisterRouteHandler("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), s.APIMiddleware(s.RequireAuthority(users.PermAdminRead))...))
	s.RegisterRouteHandler("GET "+RouteUser, ChainMiddleware(s.GetUserHandler(), s.APIMiddleware(s.RequireAuthority(users.PermAdminRead))...))
	s.RegisterRouteHandler("PUT "+RouteUser, ChainMiddleware(s.UpdateUserHandler(), s.APIMiddleware(s.RequireSelfOrAuthority(users.PermAdminUpdate))...))
	s.RegisterRouteHandler("DELETE "+RouteUser, ChainMiddleware(s.DeleteUserHandler(), s.APIMiddleware(s.RequireAuthority(users.PermAdminDelete))...))

	// Operations
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())

	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("/", ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware()...))
}
