package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

var errBadDate = fmt.Errorf("%w: transaction_date must be YYYY-MM-DD", common.ErrValidation)

func pathInt64(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return v, err == nil
}

func pathInt(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	return v, err == nil
}

func (h *Handlers) transactionFromBody(r *http.Request, userID int64) (*models.Transaction, error) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.TransactionDate)
	if err != nil {
		return nil, errBadDate
	}

	return &models.Transaction{
		UserID:          userID,
		Amount:          req.Amount,
		Description:     req.Description,
		Type:            req.Type,
		Category:        req.Category,
		TransactionDate: date,
	}, nil
}

func (h *Handlers) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	txs, err := h.transactions.GetAll(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	list := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		list = append(list, toTransactionResponse(t))
	}
	writeData(w, http.StatusOK, list)
}

func (h *Handlers) listTransactionsByMonth(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	month, okM := pathInt(r, "month")
	year, okY := pathInt(r, "year")
	if !okM || !okY {
		writeError(w, http.StatusBadRequest, "month and year must be numbers")
		return
	}

	txs, err := h.transactions.GetByMonth(r.Context(), userID, month, year)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	list := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		list = append(list, toTransactionResponse(t))
	}
	writeData(w, http.StatusOK, list)
}

func (h *Handlers) createTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	t, err := h.transactionFromBody(r, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, err := h.transactions.Create(r.Context(), t)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handlers) updateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, ok := pathInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id must be a number")
		return
	}

	t, err := h.transactionFromBody(r, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	t.ID = id

	if err := h.transactions.Update(r.Context(), t); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "updated")
}

func (h *Handlers) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, ok := pathInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id must be a number")
		return
	}

	if err := h.transactions.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "deleted")
}
