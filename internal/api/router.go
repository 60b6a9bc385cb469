package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/ledger-api/internal/api/middleware"
	"github.com/phrazzld/ledger-api/internal/service"
	"github.com/phrazzld/ledger-api/internal/service/auth"
)

// RouterDeps are the services the HTTP layer is built on.
type RouterDeps struct {
	Logger     *slog.Logger
	JWTService auth.JWTService
	Users      service.UserService
	Accounts   service.AccountService
	Expenses   service.ExpenseService
	Budgets    service.BudgetService
	Reports    service.ReportService
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(apiMiddleware.NewTraceMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.Users, deps.JWTService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.JWTService, deps.Users)
	userHandler := NewUserHandler(deps.Users)
	accountHandler := NewAccountHandler(deps.Accounts)
	expenseHandler := NewExpenseHandler(deps.Expenses)
	budgetHandler := NewBudgetHandler(deps.Budgets)
	reportHandler := NewReportHandler(deps.Reports)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", userHandler.Register)
		r.Post("/auth/token", authHandler.Token)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(apiMiddleware.RequireSelf("userID"))

			r.Get("/", userHandler.Get)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)

			r.Post("/accounts", accountHandler.Create)
			r.Get("/accounts", accountHandler.List)
			r.Get("/accounts/{accountID}", accountHandler.Get)
			r.Put("/accounts/{accountID}", accountHandler.Update)
			r.Delete("/accounts/{accountID}", accountHandler.Delete)
			r.Get("/accounts/{accountID}/budgets/{budgetID}/progress", budgetHandler.Progress)

			r.Post("/expenses", expenseHandler.Create)
			r.Get("/expenses", expenseHandler.List)

			r.Post("/budgets", budgetHandler.Create)
			r.Get("/budgets", budgetHandler.List)
			r.Put("/budgets/{budgetID}", budgetHandler.Update)

			r.Get("/reports", reportHandler.Start)
			r.Get("/reports/{reportID}", reportHandler.Get)
			r.Get("/reports/{reportID}/export", reportHandler.Export)
		})
	})

	r.Get("/health", Health)

	return r
}
