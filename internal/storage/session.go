package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserSlotKey names the durable slot the signed-in user is kept in.
const UserSlotKey = "user"

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is invalid")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordShort    = errors.New("password must be at least 6 characters")
	ErrNameRequired     = errors.New("name is required")
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

const minPasswordLength = 6

// Clearer empties a cart. It is satisfied by *CartStore.
type Clearer interface {
	Clear(context.Context) cart.State
}

// Session is the result of a successful login or registration.
type Session struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// SessionStore is a mocked authentication backend: any well-formed
// credentials are accepted and the user is kept in a durable slot.
type SessionStore struct {
	mx   sync.RWMutex
	user *models.User

	secret []byte
	ttl    time.Duration
	now    func() time.Time

	cart   Clearer
	keeper Keeper
	log    Log
}

// NewSessionStore creates a SessionStore and restores the signed-in user from the keeper.
func NewSessionStore(ctx context.Context, secret string, ttl time.Duration, cart Clearer, keeper Keeper, log Log) *SessionStore {
	store := &SessionStore{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		cart:   cart,
		keeper: keeper,
		log:    log,
	}

	if keeper != nil {
		data, err := keeper.Get(ctx, UserSlotKey)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			log.Warn("cannot load user", zap.Error(err))
		default:
			var user models.User
			if err := json.Unmarshal(data, &user); err != nil {
				log.Warn("cannot parse stored user", zap.Error(err))
				break
			}
			store.user = &user
			log.Info("user restored", zap.String("user_id", user.ID))
		}
	}

	return store
}

// Current returns the signed-in user, if any.
func (s *SessionStore) Current() (models.User, bool) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Login signs in with email and password. The display name is the local
// part of the email.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	name, _, _ := strings.Cut(email, "@")
	user := models.User{ID: userIDFor(email), Name: name, Email: email}
	return s.signIn(ctx, user)
}

// Register creates a new user with a fresh id and signs it in.
func (s *SessionStore) Register(ctx context.Context, name, email, password string) (*Session, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	user := models.User{ID: uuid.NewString(), Name: strings.TrimSpace(name), Email: email}
	return s.signIn(ctx, user)
}

// Logout forgets the signed-in user and empties the cart.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.user = nil
	if s.cart != nil {
		s.cart.Clear(ctx)
	}
	if s.keeper == nil {
		return nil
	}
	if err := s.keeper.Delete(context.WithoutCancel(ctx), UserSlotKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete user slot: %w", err)
	}
	return nil
}

// Authenticate verifies a session token and returns the user it was issued to.
// Tokens issued to a user who has since logged out are rejected.
func (s *SessionStore) Authenticate(token string) (models.User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, ok := s.Current()
	if !ok || user.ID != claims.Subject {
		return models.User{}, ErrUnauthorized
	}
	return user, nil
}

func (s *SessionStore) signIn(ctx context.Context, user models.User) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	s.user = &user
	if s.keeper != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return nil, fmt.Errorf("failed to encode user: %w", err)
		}
		if err := s.keeper.Put(context.WithoutCancel(ctx), UserSlotKey, data); err != nil {
			s.log.Error("cannot persist user", zap.Error(err))
		}
	}

	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func validateCredentials(email, password string) error {
	switch {
	case email == "":
		return ErrEmailRequired
	case !emailPattern.MatchString(email):
		return ErrEmailInvalid
	case password == "":
		return ErrPasswordRequired
	case len(password) < minPasswordLength:
		return ErrPasswordShort
	}
	return nil
}

// userIDFor derives a stable id for a login so repeated logins with the same
// email map to the same user.
func userIDFor(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(email))).String()
}
