package handlers

import (
	"encoding/json"
	"net/http"

	"pennywise-backend/internal/log"
	"pennywise-backend/internal/middleware"
	"pennywise-backend/internal/models"
	"pennywise-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

type TransactionHandler struct {
	transactions *repository.TransactionRepo
	logger       *log.Logger
}

func NewTransactionHandler(transactions *repository.TransactionRepo, logger *log.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		logger:       logger.WithComponent("handlers"),
	}
}

// --- GET /transactions ---

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	transactions, err := h.transactions.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("listing transactions failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	writeJSON(w, http.StatusOK, transactions)
}

// --- POST /transactions ---

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if tx.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "transaction name is required"})
		return
	}
	if tx.Type != models.TransactionIncome && tx.Type != models.TransactionExpense {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "transaction type must be income or expense"})
		return
	}

	tx.ID = ""
	tx.UserID = userID
	if err := h.transactions.Create(r.Context(), &tx); err != nil {
		h.logger.Error("creating transaction failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create transaction"})
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// --- GET /transactions/{id} ---

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.ownedTransaction(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// --- PUT /transactions/{id} ---

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedTransaction(w, r)
	if !ok {
		return
	}

	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	tx.ID = existing.ID
	tx.UserID = existing.UserID
	if err := h.transactions.Update(r.Context(), existing.ID, &tx); err != nil {
		h.logger.Error("updating transaction failed", "id", existing.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update transaction"})
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// --- DELETE /transactions/{id} ---

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedTransaction(w, r)
	if !ok {
		return
	}

	if err := h.transactions.Delete(r.Context(), existing.ID); err != nil {
		h.logger.Error("deleting transaction failed", "id", existing.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete transaction"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}

// ownedTransaction loads the {id} transaction and verifies it belongs
// to the authenticated user. Foreign transactions read as not found.
func (h *TransactionHandler) ownedTransaction(w http.ResponseWriter, r *http.Request) (*models.Transaction, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return nil, false
	}

	id := chi.URLParam(r, "id")
	tx, err := h.transactions.FindByID(r.Context(), id)
	if err != nil {
		h.logger.Error("finding transaction failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return nil, false
	}
	if tx == nil || tx.UserID != userID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "transaction not found"})
		return nil, false
	}
	return tx, true
}
