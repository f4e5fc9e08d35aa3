package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin  = "/api/auth/login"
	RouteAuthLogout = "/api/auth/logout"
	RouteAuthMe     = "/api/auth/me"

	// Admin Routes
	RouteAdminUsers = "/api/admin/users"
	RouteAdminUser  = "/api/admin/users/{id}"

	// Settings Routes
	RouteSettingsAPIKeys = "/api/settings/api-keys"

	// Customer Routes
	RouteCustomers         = "/api/customers"
	RouteCustomer          = "/api/customers/{id}"
	RouteCustomerTemplates = "/api/customers/{id}/templates"
	RouteCustomerTemplate  = "/api/customers/{id}/templates/{formId}"

	// Forms provider Routes
	RouteForms         = "/api/forms"
	RouteFormResponses = "/api/forms/{id}/responses"
	RouteAnalytics     = "/api/analytics"

	// Operational Routes
	RouteAPIPreflight = "/api/"
	RouteHealth       = "/health"
	RouteMetrics      = "/metrics"
)
