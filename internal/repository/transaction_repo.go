package repository

import (
	"context"
	"errors"

	"pennywise-backend/internal/docstore"
	"pennywise-backend/internal/models"
)

const transactionsCollection = "transactions"

// TransactionRepo stores transaction documents through the
// document-store contract. Transactions live independently of session
// state; ownership is the user_id field.
type TransactionRepo struct {
	store docstore.Client
}

func NewTransactionRepo(store docstore.Client) *TransactionRepo {
	return &TransactionRepo{store: store}
}

func (r *TransactionRepo) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.store.QueryEquals(ctx, transactionsCollection, "user_id", userID, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *TransactionRepo) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.store.GetByID(ctx, transactionsCollection, id, &tx)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

// Create inserts the transaction, letting the store assign an id, and
// writes the assigned id back.
func (r *TransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	id, err := r.store.CreateWithID(ctx, transactionsCollection, tx.ID, tx)
	if err != nil {
		return err
	}
	tx.ID = id
	return nil
}

func (r *TransactionRepo) Update(ctx context.Context, id string, tx *models.Transaction) error {
	tx.ID = id
	return r.store.Update(ctx, transactionsCollection, id, tx)
}

func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, transactionsCollection, id)
}
