package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/playspot/ground-reservation/internal/handler"    // import the handlers that implement business logic
    "github.com/playspot/ground-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Map the GET request at path "/healthz" to the Health handler.  This
    // endpoint can be used by load balancers or monitoring systems to verify
    // that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Create a route group under the /v1/auth prefix for operations that do
    // not require an existing session (register, login, refresh).  Each of
    // these handlers is responsible for generating or exchanging tokens.
    g := e.Group("/v1/auth")
    // Register a POST endpoint to handle user registration at /v1/auth/register.
    g.POST("/register", a.Register)
    // Register a POST endpoint to handle user login at /v1/auth/login.
    g.POST("/login", a.Login)
    // Register a POST endpoint to refresh access tokens at /v1/auth/refresh. This rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Register a POST endpoint to issue a new access token without rotating the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
    // Register a POST endpoint to log out using a refresh token.  Logout does
    // not require JWT authentication: the handler accepts a JSON body with a
    // `refresh_token` and invalidates that token.  If the token is valid, a
    // 204 response is returned; otherwise 400/401/500 are possible depending
    // on the error.
    g.POST("/logout", a.Logout)

    // Create another group for routes that require a valid access token.  All
    // handlers registered on this group will execute the JWTAuth middleware
    // before being invoked.  Protected endpoints live under /v1.
    auth := e.Group("/v1")
    // Apply the JWTAuth middleware to the protected group using the provided secret.
    auth.Use(middleware.JWTAuth(jwtSecret))
    // Any authenticated role may read its own profile.  The middleware will
    // reject requests with missing or unknown roles.
    auth.Use(middleware.RequireRole(handler.RolePlayer, handler.RoleOwner, handler.RoleAdmin))
    // Register a GET endpoint at /v1/me that returns the authenticated user's information.
    auth.GET("/me", a.Me)

    // Additionally map POST /v1/logout to the same handler.  This route lives
    // at the top level (outside of the protected group) so it does not
    // require a JWT.  Clients can therefore call either /v1/auth/logout or
    // /v1/logout with a valid refresh token in the body to terminate a
    // session.
    e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The BrowseHandler returns sanitized catalog data for
// grounds, courts and per-date availability.  These routes apply no JWT or
// role middleware and are intended for guests; the optional cacheMW (Redis
// response cache) is applied to the catalog reads when non-nil.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cacheMW echo.MiddlewareFunc) {
    mws := []echo.MiddlewareFunc{}
    if cacheMW != nil {
        mws = append(mws, cacheMW)
    }
    // Expose the list of all active grounds, optionally filtered by city.
    e.GET("/v1/grounds", b.ListGrounds, mws...)
    // Ground detail with its courts.
    e.GET("/v1/grounds/:id", b.GetGround, mws...)
    // Per-date availability.  Never cached: availability must reflect holds
    // taken moments ago or players will request slots that are already gone.
    e.GET("/v1/grounds/:id/availability", b.GetAvailability)
}

// RegisterPlayer registers the booking endpoints.  Creating, listing and
// verifying require the PLAYER role; viewing and cancelling a booking also
// admit OWNER and ADMIN, whose access is narrowed to their own grounds by
// the handler itself.
func RegisterPlayer(e *echo.Echo, b *handler.BookingHandler, p *handler.PaymentHandler, jwtSecret string) {
    player := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(handler.RolePlayer))
    player.POST("/bookings", b.CreateBooking)
    player.GET("/my-bookings", b.ListMyBookings)
    player.POST("/payments/verify", p.VerifyPayment)

    shared := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(handler.RolePlayer, handler.RoleOwner, handler.RoleAdmin))
    shared.GET("/bookings/:id", b.GetBooking)
    shared.POST("/bookings/:id/cancel", b.CancelBooking)
}

// RegisterOwner registers the venue-management endpoints under /v1/owner.
// All routes require a valid JWT carrying the OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerGroundHandler, jwtSecret string) {
    g := e.Group("/v1/owner", middleware.JWTAuth(jwtSecret), middleware.RequireRole(handler.RoleOwner))
    g.GET("/grounds", o.MyGrounds)
    g.POST("/grounds", o.CreateGround)
    g.PATCH("/grounds/:id", o.UpdateGround)
    g.POST("/grounds/:id/courts", o.AddCourt)
    g.GET("/grounds/:id/bookings", o.ListGroundBookings)
}

// RegisterAdmin registers moderation endpoints under /v1/admin, restricted
// to the ADMIN role.
func RegisterAdmin(e *echo.Echo, o *handler.OwnerGroundHandler, jwtSecret string) {
    g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole(handler.RoleAdmin))
    g.POST("/grounds/:id/status", o.SetGroundStatus)
}
