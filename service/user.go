package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
)

const confirmationCodeDigits = 6

// CodeStore is the short-lived key-value storage for confirmation codes.
// Get returns "" when the key is missing or expired.
type CodeStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

// TaskQueue enqueues fire-and-forget email jobs for the background worker.
type TaskQueue interface {
	EnqueueConfirmationCodeEmail(email string, code int) error
	EnqueueConfirmationLinkEmail(email, username, link string) error
	EnqueueRecoveryEmail(email, username, link string) error
}

type UserService struct {
	store  Store
	tokens *TokenService
	codes  CodeStore
	queue  TaskQueue

	codeTTL              time.Duration
	confirmationLinkBase string
	recoveryLinkBase     string
}

type UserServiceConfig struct {
	CodeTTL              time.Duration
	ConfirmationLinkBase string
	RecoveryLinkBase     string
}

func NewUserService(store Store, tokens *TokenService, codes CodeStore, queue TaskQueue, cfg UserServiceConfig) *UserService {
	return &UserService{
		store:                store,
		tokens:               tokens,
		codes:                codes,
		queue:                queue,
		codeTTL:              cfg.CodeTTL,
		confirmationLinkBase: cfg.ConfirmationLinkBase,
		recoveryLinkBase:     cfg.RecoveryLinkBase,
	}
}

func confirmationCodeKey(email string) string {
	return "confirmation_code:" + email
}

// SendConfirmationCode emails a short-lived numeric code to a not yet
// registered address, proving ownership before registration.
func (s *UserService) SendConfirmationCode(ctx context.Context, email string) error {
	existing, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("email is already registered: %w", apperrors.ErrResourceAlreadyExists)
	}

	lower := intPow10(confirmationCodeDigits - 1)
	code := lower + rand.Intn(lower*9)
	if err := s.codes.Set(ctx, confirmationCodeKey(email), strconv.Itoa(code), s.codeTTL); err != nil {
		return err
	}
	return s.queue.EnqueueConfirmationCodeEmail(email, code)
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	// ConfirmationCode, when present, must match the code previously sent
	// to the address; the account starts out confirmed then. Without it
	// the account starts unconfirmed and a confirmation link is emailed.
	ConfirmationCode *int
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	existing, err := s.store.UserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email is already registered: %w", apperrors.ErrResourceAlreadyExists)
	}

	confirmed := false
	if in.ConfirmationCode != nil {
		stored, err := s.codes.Get(ctx, confirmationCodeKey(in.Email))
		if err != nil {
			return nil, err
		}
		if stored == "" {
			return nil, fmt.Errorf("confirmation code not found or expired: %w", apperrors.ErrInvalidConfirmationCode)
		}
		if stored != strconv.Itoa(*in.ConfirmationCode) {
			return nil, apperrors.ErrInvalidConfirmationCode
		}
		if err := s.codes.Del(ctx, confirmationCodeKey(in.Email)); err != nil {
			return nil, err
		}
		confirmed = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:       in.Email,
		Username:    in.Username,
		Password:    string(hash),
		IsConfirmed: confirmed,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if !confirmed {
		token, err := s.tokens.IssueConfirmationToken(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if err := s.queue.EnqueueConfirmationLinkEmail(user.Email, user.Username, s.confirmationLinkBase+token); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// ConfirmEmail consumes a confirmation-link token and marks the user
// confirmed.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.UserID(token)
	if err != nil {
		return err
	}
	if err := s.tokens.Validate(ctx, models.TokenKindConfirmation, userID, token); err != nil {
		return err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.IsConfirmed = true
	if err := s.store.SaveUser(ctx, user); err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, models.TokenKindConfirmation, userID)
}

// VerifyCredentials returns the user when the email/password pair checks out.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no account with the given email or wrong password: %w", apperrors.ErrInvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("no account with the given email or wrong password: %w", apperrors.ErrInvalidCredentials)
	}
	return user, nil
}

// RecoverPassword issues a recovery token and emails the reset link.
func (s *UserService) RecoverPassword(ctx context.Context, email string) error {
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("the given email is not registered: %w", apperrors.ErrResourceDoesNotExist)
	}

	token, err := s.tokens.IssueRecoveryToken(ctx, user.ID)
	if err != nil {
		return err
	}
	return s.queue.EnqueueRecoveryEmail(user.Email, user.Username, s.recoveryLinkBase+token)
}

// ResetPassword sets a new password for the holder of a live recovery token
// and revokes the token.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokens.UserID(token)
	if err != nil {
		return err
	}
	if err := s.tokens.Validate(ctx, models.TokenKindRecovery, userID, token); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	if err := s.store.SaveUser(ctx, user); err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, models.TokenKindRecovery, userID)
}

func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *UserService) List(ctx context.Context, page Pagination) ([]models.User, error) {
	return s.store.ListUsers(ctx, page)
}

// -------- addresses --------

func (s *UserService) CreateAddress(ctx context.Context, address *models.Address) error {
	return s.store.CreateAddress(ctx, address)
}

func (s *UserService) AddressesByUser(ctx context.Context, userID uint) ([]models.Address, error) {
	return s.store.AddressesByUser(ctx, userID)
}

func (s *UserService) DeleteAddress(ctx context.Context, addressID, userID uint) error {
	address, err := s.store.GetAddress(ctx, addressID)
	if err != nil {
		return err
	}
	if address.UserID != userID {
		return fmt.Errorf("address does not belong to the user: %w", apperrors.ErrNotEnoughRights)
	}
	return s.store.DeleteAddress(ctx, addressID)
}

func intPow10(n int) int {
	result := 1
	for i := 0; i < n; i++ {
		result *= 10
	}
	return result
}
