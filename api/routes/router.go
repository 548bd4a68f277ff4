package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dkurilenko/freshmart-backend/api/controllers"
	"github.com/dkurilenko/freshmart-backend/api/middleware"
	"github.com/dkurilenko/freshmart-backend/internal/accounts"
	"github.com/dkurilenko/freshmart-backend/internal/auth"
	"github.com/dkurilenko/freshmart-backend/internal/reservations"
	"github.com/dkurilenko/freshmart-backend/internal/shops"
	"github.com/dkurilenko/freshmart-backend/internal/units"
	"github.com/dkurilenko/freshmart-backend/internal/users"
	"github.com/dkurilenko/freshmart-backend/pkg/auth/session"
	"github.com/dkurilenko/freshmart-backend/pkg/config"
	"github.com/dkurilenko/freshmart-backend/pkg/db"
	"github.com/dkurilenko/freshmart-backend/pkg/enums"
	"github.com/dkurilenko/freshmart-backend/pkg/logger"
	"github.com/dkurilenko/freshmart-backend/pkg/metrics"
	"github.com/dkurilenko/freshmart-backend/pkg/redis"
)

// RouterParams packages everything the HTTP surface depends on.
type RouterParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      db.Pinger
	Redis   *redis.Client
	Session session.AccessSessionChecker

	AuthService        auth.Service
	RegisterService    auth.RegisterService
	ShopService        shops.Service
	UnitService        units.Service
	ReservationService reservations.Service
	AccountService     accounts.Service
	UserService        users.Service

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	probes := map[string]controllers.Probe{}
	if p.DB != nil {
		probes["database"] = p.DB
	}
	if p.Redis != nil {
		probes["cache"] = p.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, probes, logg))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, p.Session, logg)).Post("/logout", controllers.AuthLogout(p.AuthService, logg))
	})

	// The catalog is readable without credentials.
	r.Route("/api/v1/shops", func(r chi.Router) {
		r.Get("/", controllers.ShopList(p.ShopService, logg))
		r.Get("/{shopId}", controllers.ShopGet(p.ShopService, logg))
	})
	r.Route("/api/v1/units", func(r chi.Router) {
		r.Get("/", controllers.UnitList(p.UnitService, logg))
		r.Get("/{unitId}", controllers.UnitGet(p.UnitService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Session, logg))

		r.Route("/reservations", func(r chi.Router) {
			r.Get("/", controllers.ReservationList(p.ReservationService, logg))
			r.Post("/", controllers.ReservationCreate(p.ReservationService, logg))
			r.Post("/buy", controllers.ReservationBuy(p.ReservationService, logg))
			r.Delete("/clear", controllers.ReservationClear(p.ReservationService, logg))
			r.Get("/{reservationId}", controllers.ReservationGet(p.ReservationService, logg))
			r.Patch("/{reservationId}", controllers.ReservationUpdate(p.ReservationService, logg))
			r.Delete("/{reservationId}", controllers.ReservationDelete(p.ReservationService, logg))
		})

		r.Get("/account", controllers.AccountMe(p.AccountService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Session, logg))
		r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(p.UserService, logg))
			r.Get("/{userId}", controllers.AdminUserGet(p.UserService, logg))
			r.Put("/{userId}/active", controllers.AdminUserSetActive(p.UserService, logg))
			r.Get("/{userId}/account", controllers.AdminAccountGet(p.AccountService, logg))
			r.Post("/{userId}/account/topup", controllers.AdminAccountTopup(p.AccountService, logg))
		})

		r.Route("/shops", func(r chi.Router) {
			r.Post("/", controllers.ShopCreate(p.ShopService, logg))
			r.Put("/{shopId}", controllers.ShopUpdate(p.ShopService, logg))
			r.Delete("/{shopId}", controllers.ShopDelete(p.ShopService, logg))
		})

		r.Route("/units", func(r chi.Router) {
			r.Post("/", controllers.UnitCreate(p.UnitService, logg))
			r.Put("/{unitId}", controllers.UnitUpdate(p.UnitService, logg))
			r.Delete("/{unitId}", controllers.UnitDelete(p.UnitService, logg))
		})

		r.Get("/reservations", controllers.AdminReservationSearch(p.ReservationService, logg))
	})

	return r
}
