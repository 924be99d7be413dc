package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/restaurant-finder/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/restaurant-finder/internal/middleware" // import middleware for session authentication
	"github.com/iliyamo/restaurant-finder/internal/repository" // session store consumed by the auth middleware
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.  Register and
// login live under /v1/auth and require no session.  Logout lives there
// too: it must accept requests with a missing, expired or tampered token,
// so it runs without the session middleware and treats the presented
// token purely as a lookup key.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
}

// RegisterProtected registers the endpoints gated by the session
// middleware.  Every route in this group sees a verified token backed by
// an active session row and can read the caller's ID from the context.
func RegisterProtected(e *echo.Echo, jwtSecret string, sessions repository.SessionTokenStore,
	r *handler.RestaurantHandler, hist *handler.HistoryHandler) {
	g := e.Group("/v1")
	g.Use(middleware.SessionAuth(jwtSecret, sessions))
	g.GET("/restaurants", r.GetRestaurants)
	g.GET("/history", hist.GetSearches)
}
