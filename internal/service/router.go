package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/litepay/litepay/internal/auth"
	"github.com/litepay/litepay/internal/middleware"
)

// Services bundles the handlers the router mounts.
type Services struct {
	Auth        *AuthService
	Groups      *GroupService
	Expenses    *ExpenseService
	Finances    *FinanceService
	Invitations *InvitationService
	Timeline    *TimelineService
}

// NewRouter assembles the API route tree. Registration and login are public;
// everything else requires a bearer token.
func NewRouter(svc Services, jwtManager *auth.JWTManager) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", svc.Auth.handleRegister)
		r.Post("/auth/login", svc.Auth.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Get("/auth/me", svc.Auth.handleCurrentUser)

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", svc.Groups.handleList)
				r.Post("/", svc.Groups.handleCreate)
				r.Route("/{groupID}", func(r chi.Router) {
					r.Get("/", svc.Groups.handleGet)
					r.Put("/", svc.Groups.handleUpdate)
					r.Delete("/", svc.Groups.handleDelete)
					r.Get("/balances", svc.Groups.handleBalances)
					r.Post("/members/{userID}", svc.Groups.handleAddMember)
					r.Delete("/members/{userID}", svc.Groups.handleRemoveMember)
					r.Get("/expenses", svc.Expenses.handleListByGroup)
					r.Post("/expenses", svc.Expenses.handleCreate)
				})
			})

			r.Route("/expenses/{expenseID}", func(r chi.Router) {
				r.Get("/", svc.Expenses.handleGet)
				r.Put("/", svc.Expenses.handleUpdate)
				r.Delete("/", svc.Expenses.handleDelete)
			})

			r.Get("/finances/summary", svc.Finances.handleSummary)

			r.Route("/invitations", func(r chi.Router) {
				r.Get("/", svc.Invitations.handleList)
				r.Post("/", svc.Invitations.handleCreate)
				r.Post("/{invitationID}/accept", svc.Invitations.handleAccept)
				r.Post("/{invitationID}/decline", svc.Invitations.handleDecline)
			})

			r.Get("/timeline", svc.Timeline.handleList)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
