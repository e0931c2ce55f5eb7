package importstatement

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/importer"
	"github.com/ledgerly/ledgerly/internal/statement"
	"github.com/ledgerly/ledgerly/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
}

type mappingDTO struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount,omitempty"`
	Debit       string `json:"debit,omitempty"`
	Credit      string `json:"credit,omitempty"`
	Type        string `json:"type,omitempty"`
	Reference   string `json:"reference,omitempty"`
	Balance     string `json:"balance,omitempty"`
	Merchant    string `json:"merchant,omitempty"`
	Delimiter   string `json:"delimiter,omitempty"`
}

type transactionResponse struct {
	ID            uuid.UUID        `json:"id"`
	BankAccountID uuid.UUID        `json:"bank_account_id"`
	Date          string           `json:"date"`
	Description   string           `json:"description"`
	Reference     string           `json:"reference,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	Type          transaction.Type `json:"type"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	Category      string           `json:"category,omitempty"`
	Merchant      string           `json:"merchant,omitempty"`
	IsReconciled  bool             `json:"is_reconciled"`
	CreatedAt     time.Time        `json:"created_at"`
}

type summaryResponse struct {
	TotalProcessed    int    `json:"total_processed"`
	SuccessfulImports int    `json:"successful_imports"`
	DuplicatesSkipped int    `json:"duplicates_skipped"`
	ErrorsCount       int    `json:"errors_count"`
	CategorizedCount  int    `json:"categorized_count"`
	EarliestDate      string `json:"earliest_date,omitempty"`
	LatestDate        string `json:"latest_date,omitempty"`
}

type importResponse struct {
	Success           bool                  `json:"success"`
	ImportedCount     int                   `json:"imported_count"`
	DuplicatesSkipped int                   `json:"duplicates_skipped"`
	Errors            []string              `json:"errors"`
	Transactions      []transactionResponse `json:"transactions"`
	Summary           summaryResponse       `json:"summary"`
}

func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	accountID, err := uuid.Parse(r.FormValue("bank_account_id"))
	if err != nil {
		http.Error(w, "bank_account_id must be a valid UUID", http.StatusBadRequest)
		return
	}

	cfg := importer.Config{
		BankAccountID: accountID,
		FileType:      importer.FileType(r.FormValue("file_type")),
		DateFormat:    r.FormValue("date_format"),
	}

	if cfg.FileType == "" {
		cfg.FileType = importer.FileTypeCSV
	}

	cfg.SkipDuplicates = formBool(r, "skip_duplicates")
	cfg.FuzzyMatch = formBool(r, "fuzzy_match")

	if v := r.FormValue("date_tolerance_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			http.Error(w, "date_tolerance_days must be a non-negative integer", http.StatusBadRequest)
			return
		}

		cfg.DateToleranceDays = days
	}

	mapping, err := parseMapping(r.FormValue("mapping"))
	if err != nil {
		http.Error(w, "invalid mapping: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg.Mapping = mapping

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	result := h.importSvc.Import(r.Context(), string(contents), cfg)

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(toImportResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// parseMapping decodes the optional JSON mapping form field, falling back to
// a conventional Date/Description/Amount header set.
func parseMapping(raw string) (statement.Mapping, error) {
	if raw == "" {
		return statement.Mapping{
			Date:        "Date",
			Description: "Description",
			Amount:      "Amount",
		}, nil
	}

	var dto mappingDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return statement.Mapping{}, err
	}

	mapping := statement.Mapping{
		Date:        dto.Date,
		Description: dto.Description,
		Amount:      dto.Amount,
		Debit:       dto.Debit,
		Credit:      dto.Credit,
		Type:        dto.Type,
		Reference:   dto.Reference,
		Balance:     dto.Balance,
		Merchant:    dto.Merchant,
	}

	if dto.Delimiter != "" {
		mapping.Delimiter = rune(dto.Delimiter[0])
	}

	return mapping, nil
}

func formBool(r *http.Request, field string) bool {
	v, _ := strconv.ParseBool(r.FormValue(field))
	return v
}

func toImportResponse(result *importer.Result) importResponse {
	summary := importer.Summarize(result)

	resp := importResponse{
		Success:           result.Success,
		ImportedCount:     result.ImportedCount,
		DuplicatesSkipped: result.DuplicatesSkipped,
		Errors:            result.Errors,
		Transactions:      make([]transactionResponse, 0, len(result.Transactions)),
		Summary: summaryResponse{
			TotalProcessed:    summary.TotalProcessed,
			SuccessfulImports: summary.SuccessfulImports,
			DuplicatesSkipped: summary.DuplicatesSkipped,
			ErrorsCount:       summary.ErrorsCount,
			CategorizedCount:  summary.CategorizedCount,
			EarliestDate:      summary.DateRange.Earliest,
			LatestDate:        summary.DateRange.Latest,
		},
	}

	if resp.Errors == nil {
		resp.Errors = []string{}
	}

	for _, tx := range result.Transactions {
		resp.Transactions = append(resp.Transactions, toTxResponse(tx))
	}

	return resp
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		BankAccountID: tx.BankAccountID,
		Date:          tx.Date.Format(time.DateOnly),
		Description:   tx.Description,
		Reference:     tx.Reference,
		Amount:        tx.Amount,
		Type:          tx.Type,
		Balance:       tx.Balance,
		Category:      tx.Category,
		Merchant:      tx.Merchant,
		IsReconciled:  tx.IsReconciled,
		CreatedAt:     tx.CreatedAt,
	}
}
