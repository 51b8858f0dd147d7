package httpserver

import (
	"net/http"
	"time"

	"cashbook-go/internal/config"
	"cashbook-go/internal/transport/httpserver/handler"
	authmw "cashbook-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, sessions *authmw.SessionAuth) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	// The gate sits above routing so every request, matched or not, passes
	// through it exactly once.
	r.Use(sessions.Gate)

	r.Get("/api/health", handlers.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", handlers.LoginPage)
		r.Post("/login", handlers.LoginSubmit)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", handlers.Register)
		r.Post("/login", handlers.Login)
		r.Post("/logout", handlers.Logout)
		r.Get("/me", handlers.AuthMe)
	})

	r.Get("/app", handlers.AppShell)

	r.Route("/api/spaces", func(r chi.Router) {
		r.Get("/", handlers.ListSpaces)
		r.Post("/", handlers.CreateSpace)

		r.Route("/{space_id}", func(r chi.Router) {
			r.Get("/", handlers.GetSpace)

			r.Get("/members", handlers.ListMembers)
			r.Post("/members", handlers.AddMember)
			r.Patch("/members/{user_id}", handlers.UpdateMemberRole)
			r.Delete("/members/{user_id}", handlers.RemoveMember)

			r.Get("/transactions", handlers.ListTransactions)
			r.Post("/transactions", handlers.CreateTransaction)
			r.Get("/transactions/summary", handlers.TransactionsSummary)
			r.Get("/transactions/{tx_id}", handlers.GetTransaction)
			r.Put("/transactions/{tx_id}", handlers.UpdateTransaction)
			r.Delete("/transactions/{tx_id}", handlers.DeleteTransaction)
		})
	})

	return r
}
