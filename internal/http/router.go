package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/httpx"
	"github.com/stocklane/stocklane/pkg/slogx"

	_ "github.com/stocklane/stocklane/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	secureCookies bool
	trustProxy    bool
	locales       []string
	defaultLocale string

	store               store.Store
	SessionService      *service.SessionService
	LoginService        *service.LoginService
	RegisterService     *service.RegisterService
	VerificationService *service.VerificationService
	ResetService        *service.ResetService
	OAuthService        *service.OAuthService
	UserService         *service.UserService
	TOTPService         *service.TOTPService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	secureCookies bool,
	trustProxy bool,
	locales []string,
	defaultLocale string,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
		secureCookies: secureCookies,
		trustProxy:    trustProxy,
		locales:       locales,
		defaultLocale: defaultLocale,
		store:         st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSession()
	r.registerProfile()
	r.registerUsers()
	r.registerInventory()
	r.registerSystem()
	r.registerPages()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Stocklane API
//	@version		0.1.0
//	@description	Session and authentication service for the Stocklane inventory
//	@description	application: credential and social sign-in, email 2FA, stateless
//	@description	JWT sessions with sliding expiry, and role-gated inventory routes.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}". Browsers use the token cookie instead.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// sessionMW resolves the session token and rotates the cookie when needed.
func (r *Router) sessionMW() httpx.Middleware {
	return SessionMiddleware(r.SessionService, r.secureCookies)
}

func (r *Router) limitByIP(config httpx.RateLimitConfig) httpx.Middleware {
	return httpx.RateLimitMiddleware(config, httpx.ClientIPKeyExtractor(r.trustProxy))
}

func (r *Router) registerAuth() {
	loginHandler := &LoginHandler{LoginService: r.LoginService, SecureCookies: r.secureCookies}
	registerHandler := &RegisterHandler{RegisterService: r.RegisterService}
	verifyHandler := &VerifyHandler{VerificationService: r.VerificationService}
	resetHandler := &ResetHandler{ResetService: r.ResetService}
	oauthHandler := &OAuthHandler{OAuthService: r.OAuthService, SecureCookies: r.secureCookies}

	// Credential endpoints carry authentication attempts, so they get the
	// strict per-IP limit.
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleLogin),
			r.limitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleLogout),
			r.limitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(registerHandler.HandleRegister),
			r.limitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/verify",
		httpx.Chain(http.HandlerFunc(verifyHandler.HandleVerify),
			r.limitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/reset",
		httpx.Chain(http.HandlerFunc(resetHandler.HandleRequest),
			r.limitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/reset/confirm",
		httpx.Chain(http.HandlerFunc(resetHandler.HandleConfirm),
			r.limitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/oauth/{provider}",
		httpx.Chain(http.HandlerFunc(oauthHandler.HandleSignIn),
			r.limitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.SessionService, SecureCookies: r.secureCookies}

	r.Mux.Handle("GET /api/auth/session",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.sessionMW(),
			r.limitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /api/auth/session",
		httpx.Chain(http.HandlerFunc(h.HandlePatch),
			r.sessionMW(),
			r.limitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{UserService: r.UserService, TOTPService: r.TOTPService}

	authed := func(next http.Handler, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(next,
			r.sessionMW(),
			RequireGate(service.RequireAuth),
			r.limitByIP(limit),
		)
	}

	r.Mux.Handle("GET /api/auth/profile", authed(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PATCH /api/auth/profile", authed(http.HandlerFunc(h.HandlePatch), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/auth/profile/password", authed(http.HandlerFunc(h.HandleChangePassword), httpx.StrictLimit))
	r.Mux.Handle("POST /api/auth/profile/totp", authed(http.HandlerFunc(h.HandleTOTPEnroll), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/auth/profile/totp/activate", authed(http.HandlerFunc(h.HandleTOTPActivate), httpx.StrictLimit))
	r.Mux.Handle("DELETE /api/auth/profile/totp", authed(http.HandlerFunc(h.HandleTOTPDisable), httpx.ModerateLimit))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	admin := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			r.sessionMW(),
			RequireGate(service.RequireAdmin),
			r.limitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /api/auth/users", admin(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("POST /api/auth/users", admin(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("PATCH /api/auth/users/{id}/role", admin(http.HandlerFunc(h.HandleUpdateRole)))
	r.Mux.Handle("DELETE /api/auth/users/{id}", admin(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerInventory() {
	products := &ProductsHandler{Store: r.store}
	stores := &StoresHandler{Store: r.store}

	gated := func(next http.Handler, gate func(*domain.Session) (domain.Session, error)) http.Handler {
		return httpx.Chain(next,
			r.sessionMW(),
			RequireGate(gate),
			r.limitByIP(httpx.ModerateLimit),
		)
	}

	// Catalog: ADMIN or PRODUCT_MANAGER.
	r.Mux.Handle("GET /api/products", gated(http.HandlerFunc(products.HandleList), service.RequireAdminOrProduct))
	r.Mux.Handle("GET /api/products/{id}", gated(http.HandlerFunc(products.HandleGet), service.RequireAdminOrProduct))
	r.Mux.Handle("POST /api/products", gated(http.HandlerFunc(products.HandleCreate), service.RequireAdminOrProduct))
	r.Mux.Handle("PUT /api/products/{id}", gated(http.HandlerFunc(products.HandleUpdate), service.RequireAdminOrProduct))
	r.Mux.Handle("DELETE /api/products/{id}", gated(http.HandlerFunc(products.HandleDelete), service.RequireAdminOrProduct))

	// Locations: ADMIN.
	r.Mux.Handle("GET /api/stores", gated(http.HandlerFunc(stores.HandleList), service.RequireAdmin))
	r.Mux.Handle("POST /api/stores", gated(http.HandlerFunc(stores.HandleCreate), service.RequireAdmin))
	r.Mux.Handle("PUT /api/stores/{id}", gated(http.HandlerFunc(stores.HandleUpdate), service.RequireAdmin))
	r.Mux.Handle("DELETE /api/stores/{id}", gated(http.HandlerFunc(stores.HandleDelete), service.RequireAdmin))

	// Sales: ADMIN or SALES_MANAGER.
	r.Mux.Handle("GET /api/stores/{id}/sales", gated(http.HandlerFunc(stores.HandleListSales), service.RequireAdminOrSales))
	r.Mux.Handle("POST /api/stores/{id}/sales", gated(http.HandlerFunc(stores.HandleCreateSale), service.RequireAdminOrSales))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.limitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			r.limitByIP(httpx.LenientLimit),
		),
	)
}

// registerPages wires the catch-all edge gate for locale-prefixed page
// routes. API and system routes match their own patterns first.
func (r *Router) registerPages() {
	gate := &EdgeGate{
		Sessions:      r.SessionService,
		Locales:       r.locales,
		DefaultLocale: r.defaultLocale,
	}
	r.Mux.Handle("GET /", gate.Handler())
}
