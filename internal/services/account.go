package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/quillnotes/apiserver/internal/notify"
	"github.com/quillnotes/apiserver/internal/store"
	"github.com/quillnotes/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for a wrong password and for an
	// unknown email alike, so callers cannot probe which addresses are
	// registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidEmail is returned when the email is not a plausible address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrMissingPassword is returned when registration is attempted with
	// an empty password.
	ErrMissingPassword = errors.New("password is required")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (types.Account, error)
	GetByEmail(ctx context.Context, email string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
}

// WelcomeEnqueuer submits a welcome event for background delivery.
type WelcomeEnqueuer interface {
	Enqueue(event notify.WelcomeEvent)
}

// AccountService owns account records, password verification, and session
// token issuance.
type AccountService struct {
	repo       AccountRepository
	dispatcher WelcomeEnqueuer
	secret     []byte
	tokenTTL   time.Duration
}

func NewAccountService(repo AccountRepository, dispatcher WelcomeEnqueuer, jwtSecret string, tokenTTL time.Duration) *AccountService {
	return &AccountService{
		repo:       repo,
		dispatcher: dispatcher,
		secret:     []byte(jwtSecret),
		tokenTTL:   tokenTTL,
	}
}

// Register creates an account and returns it with a fresh session token.
// The welcome notification is enqueued for background delivery; its
// outcome never affects the returned values.
func (s *AccountService) Register(ctx context.Context, email, password, displayName string) (types.Account, string, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return types.Account{}, "", ErrInvalidEmail
	}
	if password == "" {
		return types.Account{}, "", ErrMissingPassword
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = email[:strings.Index(email, "@")]
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.Account{}, "", fmt.Errorf("hash password: %w", err)
	}

	account, err := s.repo.Create(ctx, types.Account{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.Account{}, "", ErrDuplicateEmail
		}
		return types.Account{}, "", err
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		return types.Account{}, "", err
	}

	if s.dispatcher != nil {
		s.dispatcher.Enqueue(notify.WelcomeEvent{
			Email:       account.Email,
			DisplayName: account.DisplayName,
		})
	}

	return account, token, nil
}

// Authenticate verifies credentials and returns the account with a fresh
// session token.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (types.Account, string, error) {
	account, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Account{}, "", ErrInvalidCredentials
		}
		return types.Account{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return types.Account{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		return types.Account{}, "", err
	}
	return account, token, nil
}

// VerifyToken checks signature and expiry and returns the embedded
// account identifier.
func (s *AccountService) VerifyToken(tokenString string) (uuid.UUID, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return accountID, nil
}

// GetByID returns the account, hash included; handlers rely on the JSON
// tags to keep the hash out of responses.
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (types.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AccountService) issueToken(accountID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
