package main

import (
	"net/http"

	"github.com/phrazzld/ledger-api/internal/api"
)

// setupRouter builds the HTTP handler from the application's services.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Logger:     app.logger,
		JWTService: app.jwtService,
		Users:      app.users,
		Accounts:   app.accounts,
		Expenses:   app.expenses,
		Budgets:    app.budgets,
		Reports:    app.reports,
	})
}
