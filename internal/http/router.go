package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	accountHandler "github.com/ledgerly/ledgerly/internal/http/account"
	importHandler "github.com/ledgerly/ledgerly/internal/http/importstatement"
	txHandler "github.com/ledgerly/ledgerly/internal/http/transaction"
)

func New(
	accountsV1 *accountHandler.Handler,
	importsV1 *importHandler.Handler,
	transactionsV1 *txHandler.Handler,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", accountsV1.Routes)

		r.Route("/imports", importsV1.Routes)

		r.Route("/transactions", func(r chi.Router) {
			transactionsV1.Routes(r)
		})
	})

	return router
}
