package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"finboard/internal/core"
	"finboard/internal/services"
	"finboard/internal/store"
)

type transactionResponse struct {
	ID       int64   `json:"id"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Note     string  `json:"note,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:       t.ID,
		Amount:   t.Amount.Float64(),
		Type:     string(t.Type),
		Category: t.Category,
		Date:     t.Date.Format("2006-01-02"),
		Note:     t.Note,
	}
}

type createTransactionRequest struct {
	Amount   json.Number `json:"amount"`
	Type     string      `json:"type"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Note     string      `json:"note"`
}

type updateTransactionRequest struct {
	Amount   *json.Number `json:"amount"`
	Type     *string      `json:"type"`
	Category *string      `json:"category"`
	Date     *string      `json:"date"`
	Note     *string      `json:"note"`
}

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidType,
	core.ErrInvalidDate,
	core.ErrEmptyCategory,
	core.ErrNoteTooLong,
	core.ErrMissingUser,
}

// writeTransactionError maps service errors onto API status codes.
func writeTransactionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "transaction belongs to another user")
	default:
		for _, ve := range validationErrors {
			if errors.Is(err, ve) {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
		}
		slog.ErrorContext(r.Context(), "Transaction operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, user core.User) {
	f, ok := s.parseFilter(w, r)
	if !ok {
		return
	}

	txs, err := s.txs.List(r.Context(), user.ID, f)
	if err != nil {
		writeTransactionError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	t, err := s.txs.Get(r.Context(), user.ID, id)
	if err != nil {
		writeTransactionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, user core.User) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	date, err := parseDate(strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	t := core.Transaction{
		UserID:   user.ID,
		Amount:   core.Money{Cents: cents},
		Type:     core.TransactionType(strings.TrimSpace(req.Type)),
		Category: sanitizeInput(req.Category),
		Date:     date,
		Note:     sanitizeInput(req.Note),
	}

	created, err := s.txs.Create(r.Context(), t)
	if err != nil {
		writeTransactionError(w, r, err)
		return
	}

	s.invalidateReports(user.ID)
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	var req updateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var upd store.TransactionUpdate
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(req.Amount.String())
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}
		upd.Amount = &core.Money{Cents: cents}
	}
	if req.Type != nil {
		t := core.TransactionType(strings.TrimSpace(*req.Type))
		upd.Type = &t
	}
	if req.Category != nil {
		c := sanitizeInput(*req.Category)
		upd.Category = &c
	}
	if req.Date != nil {
		date, err := parseDate(strings.TrimSpace(*req.Date))
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
			return
		}
		upd.Date = &date
	}
	if req.Note != nil {
		n := sanitizeInput(*req.Note)
		upd.Note = &n
	}

	updated, err := s.txs.Update(r.Context(), user.ID, id, upd)
	if err != nil {
		writeTransactionError(w, r, err)
		return
	}

	s.invalidateReports(user.ID)
	writeJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, user core.User) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	if err := s.txs.Delete(r.Context(), user.ID, id); err != nil {
		writeTransactionError(w, r, err)
		return
	}

	s.invalidateReports(user.ID)
	w.WriteHeader(http.StatusNoContent)
}
