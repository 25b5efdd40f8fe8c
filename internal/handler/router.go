package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	_ "github.com/ahmadqo/museum-engagement-ledger/docs" // Import generated docs
	appMiddleware "github.com/ahmadqo/museum-engagement-ledger/internal/middleware"
	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/observability"
	"github.com/ahmadqo/museum-engagement-ledger/internal/response"
)

// Handlers mengelompokkan semua handler yang dipasang router
type Handlers struct {
	Auth                *AuthHandler
	Tenant              *TenantHandler
	Work                *WorkHandler
	Trail               *TrailHandler
	Event               *EventHandler
	QRCode              *QRCodeHandler
	Upload              *UploadHandler
	Visitor             *VisitorHandler
	Stamp               *StampHandler
	Achievement         *AchievementHandler
	Leaderboard         *LeaderboardHandler
	Certificate         *CertificateHandler
	CertificateRule     *CertificateRuleHandler
	CertificateTemplate *CertificateTemplateHandler
}

type Router struct {
	h         Handlers
	jwtSecret string
	logger    *zap.Logger
	metrics   *observability.Metrics
}

func NewRouter(h Handlers, jwtSecret string, logger *zap.Logger, metrics *observability.Metrics) *Router {
	return &Router{h: h, jwtSecret: jwtSecret, logger: logger, metrics: metrics}
}

func (ro *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(otelhttp.NewMiddleware("museum-api"))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(observability.RequestLogger(ro.logger, ro.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, "Server berjalan dengan baik", map[string]string{"status": "ok"})
	})
	if ro.metrics != nil {
		r.Method(http.MethodGet, "/metrics", ro.metrics.Handler())
	}

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	staff := appMiddleware.RequireRole(model.RoleAdmin, model.RoleMaster)
	h := ro.h

	r.Route("/api/v1", func(r chi.Router) {

		// ── Auth ──────────────────────────────────────────
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/register", h.Auth.Register)
			r.Post("/refresh", h.Auth.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Get("/me", h.Auth.Me)
				r.Post("/switch-tenant", h.Auth.SwitchTenant)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(ro.jwtSecret))
			r.Use(staff)
			r.Post("/users", h.Auth.CreateUser)
		})

		// ── Tenants ───────────────────────────────────────
		r.Route("/tenants", func(r chi.Router) {
			r.Get("/public", h.Tenant.GetPublic)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(appMiddleware.RequireRole(model.RoleMaster))
				r.Get("/", h.Tenant.GetAll)
				r.Post("/", h.Tenant.Create)
			})
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(staff)
				r.Get("/{id}", h.Tenant.GetByID)
				r.Put("/{id}", h.Tenant.Update)
			})
		})

		// ── Konten museum: baca publik, tulis staff ────────
		r.Route("/works", func(r chi.Router) {
			r.With(appMiddleware.OptionalAuthenticate(ro.jwtSecret)).Get("/", h.Work.GetAll)
			r.Get("/{id}", h.Work.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(staff)
				r.Post("/", h.Work.Create)
				r.Put("/{id}", h.Work.Update)
				r.Delete("/{id}", h.Work.Delete)
			})
		})

		r.Route("/trails", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.OptionalAuthenticate(ro.jwtSecret))
				r.Get("/", h.Trail.GetAll)
				r.Get("/{id}", h.Trail.GetByID)
				r.Post("/{id}/complete", h.Trail.Complete)
			})

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(staff)
				r.Post("/", h.Trail.Create)
				r.Put("/{id}", h.Trail.Update)
				r.Delete("/{id}", h.Trail.Delete)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.OptionalAuthenticate(ro.jwtSecret))
				r.Get("/", h.Event.GetAll)
				r.Get("/{id}", h.Event.GetByID)
				r.Post("/{id}/checkin", h.Event.CheckIn)
			})

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(staff)
				r.Post("/", h.Event.Create)
				r.Put("/{id}", h.Event.Update)
				r.Delete("/{id}", h.Event.Delete)
			})
		})

		// ── QR code ───────────────────────────────────────
		r.Get("/qr/{code}", h.QRCode.GetByCode)
		r.Route("/qrcodes", func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(ro.jwtSecret))
			r.Use(staff)
			r.Get("/", h.QRCode.GetAll)
			r.Post("/", h.QRCode.Create)
			r.Get("/{id}/image", h.QRCode.Image)
			r.Delete("/{id}", h.QRCode.Delete)
		})

		// ── Uploads ───────────────────────────────────────
		r.Route("/uploads", func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(ro.jwtSecret))
			r.Use(staff)
			r.Use(appMiddleware.RequireTenant)
			r.Post("/image", h.Upload.UploadImage)
			r.Post("/audio", h.Upload.UploadAudio)
			r.Delete("/", h.Upload.Delete)
		})

		// ── Visitors ──────────────────────────────────────
		r.Route("/visitors", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.OptionalAuthenticate(ro.jwtSecret))
				r.Post("/register", h.Visitor.Register)
				r.Post("/track", h.Visitor.Track)
				r.Post("/visit-from-qr", h.Visitor.VisitFromQR)
				r.Get("/{id}/summary", h.Visitor.Summary)
			})

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Get("/me/summary", h.Visitor.MeSummary)
				r.Put("/me", h.Visitor.UpdateMe)
				r.With(staff).Get("/", h.Visitor.GetAll)
			})
		})

		// ── Gamifikasi ────────────────────────────────────
		r.Route("/stamps", func(r chi.Router) {
			r.Use(appMiddleware.OptionalAuthenticate(ro.jwtSecret))
			r.Post("/", h.Stamp.Create)
			r.Get("/visitor/{visitorId}", h.Stamp.GetByVisitor)
			r.With(appMiddleware.Authenticate(ro.jwtSecret), staff).Delete("/{id}", h.Stamp.Delete)
		})

		r.Route("/achievements", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.OptionalAuthenticate(ro.jwtSecret))
				r.Get("/", h.Achievement.GetAll)
				r.Post("/unlock", h.Achievement.Unlock)
				r.Get("/visitor/{visitorId}", h.Achievement.GetByVisitor)
				r.Get("/{id}", h.Achievement.GetByID)
			})

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(staff)
				r.Post("/", h.Achievement.Create)
				r.Put("/{id}", h.Achievement.Update)
				r.Delete("/{id}", h.Achievement.Delete)
			})
		})

		r.With(appMiddleware.Authenticate(ro.jwtSecret)).Get("/leaderboard", h.Leaderboard.Get)

		// ── Sertifikat ────────────────────────────────────
		r.Route("/certificates", func(r chi.Router) {
			// publik: verifikasi QR dan unduhan PDF
			r.Get("/verify/{code}", h.Certificate.Verify)
			r.Get("/{id}/pdf", h.Certificate.Download)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Get("/mine", h.Certificate.Mine)
				r.Post("/generate", h.Certificate.Generate)
				r.Post("/{id}/email", h.Certificate.SendEmail)

				r.With(staff).Get("/", h.Certificate.GetAll)
				r.With(staff).Post("/{id}/revoke", h.Certificate.Revoke)
			})
		})

		r.Route("/certificate-rules", func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(ro.jwtSecret))
			r.Use(staff)
			r.Get("/", h.CertificateRule.GetAll)
			r.Post("/", h.CertificateRule.Create)
			r.Get("/{id}", h.CertificateRule.GetByID)
			r.Put("/{id}", h.CertificateRule.Update)
			r.Delete("/{id}", h.CertificateRule.Delete)
		})

		r.Route("/certificate-templates", func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(ro.jwtSecret))
			r.Use(staff)
			r.Get("/", h.CertificateTemplate.GetAll)
			r.Post("/", h.CertificateTemplate.Create)
			r.Get("/{id}", h.CertificateTemplate.GetByID)
			r.Put("/{id}", h.CertificateTemplate.Update)
			r.Delete("/{id}", h.CertificateTemplate.Delete)
		})
	})

	return r
}
