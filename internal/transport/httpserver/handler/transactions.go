package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	spacedomain "cashbook-go/internal/domain/space"
	txdomain "cashbook-go/internal/domain/transactions"
	"cashbook-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type transactionRequest struct {
	Kind        string  `json:"kind"`
	AmountCents int64   `json:"amount_cents"`
	Category    string  `json:"category"`
	Account     string  `json:"account"`
	Date        string  `json:"date"`
	Note        *string `json:"note"`
}

type transactionResponse struct {
	ID          string  `json:"id"`
	SpaceID     string  `json:"space_id"`
	Kind        string  `json:"kind"`
	AmountCents int64   `json:"amount_cents"`
	Category    string  `json:"category"`
	Account     string  `json:"account"`
	Date        string  `json:"date"`
	Note        *string `json:"note"`
	CreatedBy   string  `json:"created_by"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type transactionListResponse struct {
	Items []transactionResponse `json:"items"`
	Total int64                 `json:"total"`
}

type summaryResponse struct {
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
	NetCents     int64 `json:"net_cents"`
	Count        int64 `json:"count"`
}

// resolveCaller authenticates the request and resolves the caller's
// membership in the space from the path. It writes the response itself on
// failure: 401 without identity, generic 403 for non-members.
func (h *Handlers) resolveCaller(w http.ResponseWriter, r *http.Request, op string) (spacedomain.Membership, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return spacedomain.Membership{}, false
	}
	spaceID := chi.URLParam(r, "space_id")

	member, err := h.Spaces.ResolveMember(r.Context(), spaceID, userID)
	if err != nil {
		h.respondMembershipError(w, err, op, userID, spaceID)
		return spacedomain.Membership{}, false
	}
	return *member, true
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolveCaller(w, r, "transactions.list")
	if !ok {
		return
	}

	query := r.URL.Query()
	from, err := parseTimestampParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseTimestampParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	filter := txdomain.ListFilter{
		From:   from,
		To:     to,
		Query:  strings.TrimSpace(query.Get("q")),
		Limit:  limit,
		Offset: offset,
	}
	if value := strings.TrimSpace(query.Get("kind")); value != "" {
		kind, err := txdomain.ParseKind(value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid kind")
			return
		}
		filter.Kind = &kind
	}

	items, total, err := h.Transactions.List(r.Context(), caller, filter)
	if err != nil {
		h.log.InternalError("transactions.list: list failed", err, "space_id", caller.SpaceID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]transactionResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toTransactionResponse(item))
	}

	writeJSON(w, http.StatusOK, transactionListResponse{Items: response, Total: total})
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolveCaller(w, r, "transactions.get")
	if !ok {
		return
	}
	txID := chi.URLParam(r, "tx_id")

	found, err := h.Transactions.Get(r.Context(), caller, txID)
	if err != nil {
		h.respondTransactionError(w, err, "transactions.get", caller, txID)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(*found))
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolveCaller(w, r, "transactions.create")
	if !ok {
		return
	}

	input, ok := h.decodeTransactionInput(w, r)
	if !ok {
		return
	}

	created, err := h.Transactions.Create(r.Context(), caller, txdomain.CreateInput{
		SpaceID:     caller.SpaceID,
		Kind:        input.kind,
		AmountCents: input.amountCents,
		Category:    input.category,
		Account:     input.account,
		OccurredAt:  input.occurredAt,
		Note:        input.note,
	})
	if err != nil {
		h.respondTransactionError(w, err, "transactions.create", caller, "")
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(*created))
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolveCaller(w, r, "transactions.update")
	if !ok {
		return
	}
	txID := chi.URLParam(r, "tx_id")

	input, ok := h.decodeTransactionInput(w, r)
	if !ok {
		return
	}

	updated, err := h.Transactions.Update(r.Context(), caller, txdomain.UpdateInput{
		ID:          txID,
		SpaceID:     caller.SpaceID,
		Kind:        input.kind,
		AmountCents: input.amountCents,
		Category:    input.category,
		Account:     input.account,
		OccurredAt:  input.occurredAt,
		Note:        input.note,
	})
	if err != nil {
		h.respondTransactionError(w, err, "transactions.update", caller, txID)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(*updated))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolveCaller(w, r, "transactions.delete")
	if !ok {
		return
	}
	txID := chi.URLParam(r, "tx_id")

	if err := h.Transactions.Delete(r.Context(), caller, txID); err != nil {
		h.respondTransactionError(w, err, "transactions.delete", caller, txID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) TransactionsSummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolveCaller(w, r, "transactions.summary")
	if !ok {
		return
	}

	query := r.URL.Query()
	from, err := parseTimestampParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseTimestampParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}

	result, err := h.Transactions.Summary(r.Context(), caller, txdomain.SummaryFilter{From: from, To: to})
	if err != nil {
		h.log.InternalError("transactions.summary: summary failed", err, "space_id", caller.SpaceID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		IncomeCents:  result.IncomeCents,
		ExpenseCents: result.ExpenseCents,
		NetCents:     result.NetCents,
		Count:        result.Count,
	})
}

type transactionInput struct {
	kind        txdomain.Kind
	amountCents int64
	category    string
	account     string
	occurredAt  time.Time
	note        *string
}

func (h *Handlers) decodeTransactionInput(w http.ResponseWriter, r *http.Request) (transactionInput, bool) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return transactionInput{}, false
	}

	kind, err := txdomain.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "kind must be income or expense")
		return transactionInput{}, false
	}
	if req.AmountCents <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must be positive")
		return transactionInput{}, false
	}
	if strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "category is required")
		return transactionInput{}, false
	}
	if strings.TrimSpace(req.Account) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "account is required")
		return transactionInput{}, false
	}
	occurredAt, err := parseTimestampRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return transactionInput{}, false
	}

	return transactionInput{
		kind:        kind,
		amountCents: req.AmountCents,
		category:    req.Category,
		account:     req.Account,
		occurredAt:  occurredAt,
		note:        req.Note,
	}, true
}

func (h *Handlers) respondTransactionError(w http.ResponseWriter, err error, op string, caller spacedomain.Membership, txID string) {
	switch {
	case errors.Is(err, txdomain.ErrForbidden):
		h.log.BusinessError(op+": denied by policy", err, "user_id", caller.UserID, "space_id", caller.SpaceID, "tx_id", txID)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, txdomain.ErrTransactionNotFound):
		h.log.BusinessError(op+": transaction not found", err, "space_id", caller.SpaceID, "tx_id", txID)
		writeError(w, http.StatusNotFound, "not_found", "not found")
	default:
		h.log.InternalError(op+": failed", err, "user_id", caller.UserID, "space_id", caller.SpaceID, "tx_id", txID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toTransactionResponse(t txdomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		SpaceID:     t.SpaceID,
		Kind:        string(t.Kind),
		AmountCents: t.AmountCents,
		Category:    t.Category,
		Account:     t.Account,
		Date:        t.OccurredAt.UTC().Format(time.RFC3339),
		Note:        t.Note,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
