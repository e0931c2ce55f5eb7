package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/account"
	accountStore "github.com/ledgerly/ledgerly/internal/account/store"
	"github.com/ledgerly/ledgerly/internal/config"
	"github.com/ledgerly/ledgerly/internal/database"
	ledgerlyHttp "github.com/ledgerly/ledgerly/internal/http"
	accountHandler "github.com/ledgerly/ledgerly/internal/http/account"
	importHandler "github.com/ledgerly/ledgerly/internal/http/importstatement"
	txHandler "github.com/ledgerly/ledgerly/internal/http/transaction"
	"github.com/ledgerly/ledgerly/internal/importer"
	"github.com/ledgerly/ledgerly/internal/statement"
	"github.com/ledgerly/ledgerly/internal/transaction"
	txStore "github.com/ledgerly/ledgerly/internal/transaction/store"
)

func main() {
	// A missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rules := importer.DefaultRules()

	if cfg.Import.CategoryRulesFile != "" {
		rules, err = importer.LoadRulesFile(cfg.Import.CategoryRulesFile)
		if err != nil {
			slog.Error("failed to load category rules", "error", err, "path", cfg.Import.CategoryRulesFile)
			os.Exit(1)
		}
	}

	transactions := txStore.New(db)

	var (
		accountService     = account.NewService(accountStore.New(db))
		transactionService = transaction.NewService(transactions)
		importService      = importer.NewService(
			accountService,
			transactions,
			statement.NewCSVParser(),
			importer.NewCategorizer(rules),
			importer.WithDateFormat(cfg.Import.DateFormat),
			importer.WithValidatorOptions(
				importer.WithLargeAmountThreshold(decimal.NewFromFloat(cfg.Import.LargeAmountThreshold)),
				importer.WithMaxDescriptionLength(cfg.Import.MaxDescriptionLength),
			),
		)
	)

	var (
		accountH = accountHandler.NewHandler(accountService)
		importH  = importHandler.NewHandler(importService)
		txH      = txHandler.NewHandler(transactionService)
	)

	router := ledgerlyHttp.New(accountH, importH, txH, cfg.CORS.AllowedOrigins)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
