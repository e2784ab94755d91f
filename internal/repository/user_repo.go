package repository

import (
	"context"
	"errors"
	"time"

	"pennywise-backend/internal/docstore"
	"pennywise-backend/internal/models"
)

const usersCollection = "users"

// UserRepo stores profile documents through the document-store contract.
type UserRepo struct {
	store docstore.Client
}

func NewUserRepo(store docstore.Client) *UserRepo {
	return &UserRepo{store: store}
}

// FindByEmail returns the first profile matching the email, or nil when
// none matches.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var users []models.User
	if err := r.store.QueryEquals(ctx, usersCollection, "email", email, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.store.GetByID(ctx, usersCollection, id, &user)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create writes the profile document keyed by user.ID, or lets the
// store assign an id when it is empty. The effective id is written back.
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	id, err := r.store.CreateWithID(ctx, usersCollection, user.ID, user)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *UserRepo) Update(ctx context.Context, id string, user *models.User) error {
	user.ID = id
	user.UpdatedAt = time.Now()
	return r.store.Update(ctx, usersCollection, id, user)
}
