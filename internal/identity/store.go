package identity

import (
	"context"
	"sync"
	"time"

	"pennywise-backend/internal/log"
	"pennywise-backend/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type subscriber struct {
	id      int
	handler Handler
}

// Store implements Provider on a Mongo credentials collection. Change
// notifications go through a single dispatch goroutine so handlers see
// them strictly in emission order.
type Store struct {
	collection *mongo.Collection
	logger     *log.Logger

	mu     sync.Mutex
	subs   []subscriber
	nextID int

	events chan *User
	done   chan struct{}
}

func NewStore(db *mongo.Database, logger *log.Logger) *Store {
	s := &Store{
		collection: db.Collection("credentials"),
		logger:     logger.WithComponent("identity"),
		events:     make(chan *User, 16),
		done:       make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// Close stops the dispatch goroutine. Pending notifications are
// delivered first.
func (s *Store) Close() {
	close(s.events)
	<-s.done
}

func (s *Store) dispatch() {
	defer close(s.done)
	for user := range s.events {
		s.mu.Lock()
		subs := make([]subscriber, len(s.subs))
		copy(subs, s.subs)
		s.mu.Unlock()
		for _, sub := range subs {
			sub.handler(user)
		}
	}
}

func (s *Store) emit(user *User) {
	s.events <- user
}

func (s *Store) OnChange(h Handler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, handler: h})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) CreateUser(ctx context.Context, email, password string) (*User, error) {
	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	cred := &models.Credential{
		UID:          uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     models.ProviderPassword,
		CreatedAt:    time.Now(),
	}
	if _, err := s.collection.InsertOne(ctx, cred); err != nil {
		return nil, err
	}

	user := &User{UID: cred.UID, Email: cred.Email}
	s.emit(user)
	return user, nil
}

func (s *Store) SignIn(ctx context.Context, email, password string) (*User, error) {
	cred, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := &User{UID: cred.UID, Email: cred.Email}
	s.emit(user)
	return user, nil
}

// SignInWithGoogle signs in a verified Google profile, creating a
// password-less credential the first time the email is seen.
func (s *Store) SignInWithGoogle(ctx context.Context, profile *GoogleProfile) (*User, bool, error) {
	cred, err := s.findByEmail(ctx, profile.Email)
	if err != nil {
		return nil, false, err
	}

	isNewUser := cred == nil
	if isNewUser {
		cred = &models.Credential{
			UID:       uuid.New().String(),
			Email:     profile.Email,
			Provider:  models.ProviderGoogle,
			CreatedAt: time.Now(),
		}
		if _, err := s.collection.InsertOne(ctx, cred); err != nil {
			return nil, false, err
		}
		s.logger.Info("new federated user", "email", profile.Email)
	}

	user := &User{UID: cred.UID, Email: cred.Email}
	s.emit(user)
	return user, isNewUser, nil
}

func (s *Store) SignOut(ctx context.Context) error {
	s.emit(nil)
	return nil
}

func (s *Store) findByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&cred)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

// EnsureIndexes creates necessary indexes for the credentials collection
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
