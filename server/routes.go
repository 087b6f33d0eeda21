package server

func (s *Server) initRoutes() {
	// MFA session upgrade, gated by the assertion-cookie policy
	s.RegisterRouteHandler("POST "+RouteVerify,
		ChainMiddleware(s.VerifyHandler(), append(s.APIMiddleware(), s.AssertionGate())...))

	// Operator routes (require the operator API key)
	s.RegisterRouteHandler("GET "+RouteAdminUser,
		ChainMiddleware(s.IsEnabledHandler(), append(s.APIMiddleware(), s.RequireOperator())...))
	s.RegisterRouteHandler("DELETE "+RouteAdminUser,
		ChainMiddleware(s.ResetHandler(), append(s.APIMiddleware(), s.RequireOperator())...))

	// Bare variants so a missing id answers 400 instead of a mux 404
	s.RegisterRouteHandler("GET "+RouteAdminUserBare,
		ChainMiddleware(s.IsEnabledHandler(), append(s.APIMiddleware(), s.RequireOperator())...))
	s.RegisterRouteHandler("DELETE "+RouteAdminUserBare,
		ChainMiddleware(s.ResetHandler(), append(s.APIMiddleware(), s.RequireOperator())...))

	s.RegisterRouteHandler("GET "+RouteConfig,
		ChainMiddleware(s.GetConfigHandler(), append(s.APIMiddleware(), s.RequireOperator())...))
	s.RegisterRouteHandler("PUT "+RouteConfig,
		ChainMiddleware(s.UpdateConfigHandler(), append(s.APIMiddleware(), s.RequireOperator())...))
}
