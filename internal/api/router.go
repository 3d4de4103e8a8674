package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mahek9015/community-learning-hub/internal/api/handlers"
	"github.com/mahek9015/community-learning-hub/internal/auth"
	"github.com/mahek9015/community-learning-hub/internal/config"
	"github.com/mahek9015/community-learning-hub/internal/metrics"
	"github.com/mahek9015/community-learning-hub/internal/middleware"
	"github.com/mahek9015/community-learning-hub/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	TM         *auth.TokenManager
	UserSvc    *services.UserService
	CreditSvc  *services.CreditService
	ContentSvc *services.ContentService
	GateSvc    *services.GateService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authH := handlers.NewAuthHandler(d.UserSvc)
	creditsH := handlers.NewCreditsHandler(d.CreditSvc)
	contentH := handlers.NewContentHandler(d.ContentSvc, d.GateSvc)
	adminH := handlers.NewAdminHandler(d.ContentSvc, d.UserSvc)

	authMW := middleware.NewAuthMiddleware(d.TM, d.Cfg.Env)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(d.Cfg.AuthRateRPS))
			r.Post("/auth/register", authH.Register)
			r.Post("/auth/login", authH.Login)
			r.Post("/auth/refresh", authH.Refresh)
			r.Get("/auth/verify", authH.Verify)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(d.Cfg.RateRPS), authMW.Auth)

			// credits
			r.Get("/credits/balance", creditsH.Balance)
			r.Get("/credits/transactions", creditsH.History)
			r.Post("/credits/earn/view", creditsH.EarnView)

			// feed
			r.Get("/feed", contentH.Feed)
			r.Get("/feed/search", contentH.Search)
			r.Get("/feed/saved", contentH.Saved)
			r.Post("/feed/{contentID}/save", contentH.Save)
			r.Post("/feed/{contentID}/report", contentH.Report)

			// premium gating
			r.Get("/content/{contentID}/eligibility", contentH.Eligibility)
			r.Post("/content/{contentID}/unlock", contentH.Unlock)

			// moderation
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin", "moderator"))
				r.Get("/admin/reports", adminH.Reports)
				r.Post("/admin/reports/{contentID}/handle", adminH.HandleReport)
				r.Get("/admin/stats", adminH.Stats)
			})
		})
	})

	return r
}
