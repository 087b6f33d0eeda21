package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// MFA session upgrade
	RouteVerify = "/verify"

	// Operator routes
	RouteAdminUser     = "/admin/user/{id}"
	RouteAdminUserBare = "/admin/user/"
	RouteConfig        = "/config"
)
