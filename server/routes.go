package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireSession)...))

	// Admin user management
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.AdminUsersListHandler(), s.AdminMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAdminUsers, ChainMiddleware(s.AdminUserCreateHandler(), s.AdminMiddleware()...))
	s.RegisterRouteHandler("PUT "+RouteAdminUser, ChainMiddleware(s.AdminUserUpdateHandler(), s.AdminMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteAdminUser, ChainMiddleware(s.AdminUserDeleteHandler(), s.AdminMiddleware()...))

	// Account settings
	s.RegisterRouteHandler("GET "+RouteSettingsAPIKeys, ChainMiddleware(s.APIKeysGetHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("PATCH "+RouteSettingsAPIKeys, ChainMiddleware(s.APIKeysPatchHandler(), s.APIMiddleware(s.RequireSession)...))

	// Customers
	s.RegisterRouteHandler("GET "+RouteCustomers, ChainMiddleware(s.CustomersListHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteCustomers, ChainMiddleware(s.CustomerCreateHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteCustomer, ChainMiddleware(s.CustomerGetHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("PUT "+RouteCustomer, ChainMiddleware(s.CustomerUpdateHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("DELETE "+RouteCustomer, ChainMiddleware(s.CustomerDeleteHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteCustomerTemplates, ChainMiddleware(s.TemplateAssignHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("DELETE "+RouteCustomerTemplate, ChainMiddleware(s.TemplateUnassignHandler(), s.APIMiddleware(s.RequireSession)...))

	// Forms provider pass-through and analytics
	s.RegisterRouteHandler("GET "+RouteForms, ChainMiddleware(s.FormsListHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteFormResponses, ChainMiddleware(s.FormResponsesHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteAnalytics, ChainMiddleware(s.AnalyticsHandler(), s.APIMiddleware(s.RequireSession)...))

	// CORS preflight for every API route
	s.RegisterRouteHandler("OPTIONS "+RouteAPIPreflight, ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.LoggingMiddleware, s.RecoverMiddleware))
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}
