package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/talesbyhand-backend/api/controllers"
	"github.com/angelmondragon/talesbyhand-backend/api/middleware"
	"github.com/angelmondragon/talesbyhand-backend/internal/auth"
	"github.com/angelmondragon/talesbyhand-backend/internal/cart"
	"github.com/angelmondragon/talesbyhand-backend/internal/catalog"
	"github.com/angelmondragon/talesbyhand-backend/pkg/auth/session"
	"github.com/angelmondragon/talesbyhand-backend/pkg/config"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
	"github.com/angelmondragon/talesbyhand-backend/pkg/metrics"
	"github.com/angelmondragon/talesbyhand-backend/pkg/redis"
)

// Params carries everything the router wires into handlers.
type Params struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          controllers.Pinger
	RateLimiter    redis.RateLimiter
	Idempotency    redis.IdempotencyStore
	Sessions       session.AccessSessionChecker
	AuthService    auth.Service
	CatalogService catalog.Service
	CartService    cart.Service
	HTTPMetrics    *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	requireAuth := middleware.Auth(middleware.AuthOptions{
		JWT:      cfg.JWT,
		Session:  cfg.Session,
		Verifier: p.Sessions,
		Logger:   logg,
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    p.DB,
			"redis": p.Redis,
		}))
	})
	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", controllers.Home(p.CatalogService, cfg.App.WebsiteInfo, logg))

	get(r, "/login/", controllers.LoginPage(cfg.Session))
	post(r.With(middleware.AuthRateLimit(loginPolicy, p.RateLimiter, logg)), "/login/", controllers.AuthLogin(p.AuthService, cfg.Session, logg))

	get(r, "/products/", controllers.ProductList(p.CatalogService, logg))
	get(r, "/products/{regionSlug}/", controllers.ProductList(p.CatalogService, logg))
	get(r, "/product/{productID}/", controllers.ProductDetail(p.CatalogService, logg))

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		post(r, "/logout/", controllers.AuthLogout(p.AuthService, cfg.Session, logg))
		post(r.With(middleware.Idempotency(p.Idempotency, logg)), "/cart/add/{productID}/", controllers.CartAdd(p.CartService, logg))
		get(r, "/cart/", controllers.CartView(p.CartService, logg))
		get(r, "/checkout/", controllers.Checkout(logg))
	})

	return r
}

// get registers pattern along with its slash-less twin.
func get(r chi.Router, pattern string, h http.HandlerFunc) {
	for _, p := range variants(pattern) {
		r.Get(p, h)
	}
}

func post(r chi.Router, pattern string, h http.HandlerFunc) {
	for _, p := range variants(pattern) {
		r.Post(p, h)
	}
}

func variants(pattern string) []string {
	trimmed := strings.TrimSuffix(pattern, "/")
	if trimmed == "" || trimmed == pattern {
		return []string{pattern}
	}
	return []string{pattern, trimmed}
}
