package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
)

// TokenTTLs holds the lifetime per issued token class.
type TokenTTLs struct {
	Access       time.Duration
	Refresh      time.Duration
	Recovery     time.Duration
	Confirmation time.Duration
}

// TokenService signs and verifies JWTs and keeps the one-live-token-per-kind
// rows behind refresh/recovery/confirmation flows.
type TokenService struct {
	store  Store
	secret []byte
	ttls   TokenTTLs
}

func NewTokenService(store Store, secret string, ttls TokenTTLs) *TokenService {
	return &TokenService{store: store, secret: []byte(secret), ttls: ttls}
}

func (s *TokenService) sign(userID uint, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		// The jti keeps tokens issued within the same second distinct,
		// so superseding always invalidates the previous one.
		ID:        uuid.NewString(),
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// UserID extracts the subject from a token, verifying signature and expiry.
func (s *TokenService) UserID(token string) (uint, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, fmt.Errorf("could not validate the token: %w", apperrors.ErrInvalidToken)
	}
	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("token has no subject: %w", apperrors.ErrInvalidToken)
	}
	userID, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed token subject: %w", apperrors.ErrInvalidToken)
	}
	return uint(userID), nil
}

func (s *TokenService) NewAccessToken(userID uint) (string, error) {
	return s.sign(userID, s.ttls.Access)
}

// IssueRefreshToken signs a refresh token and upserts it as the user's only
// live one.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID uint) (string, error) {
	token, err := s.sign(userID, s.ttls.Refresh)
	if err != nil {
		return "", err
	}
	if err := s.store.UpsertToken(ctx, models.TokenKindRefresh, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *TokenService) IssueRecoveryToken(ctx context.Context, userID uint) (string, error) {
	token, err := s.sign(userID, s.ttls.Recovery)
	if err != nil {
		return "", err
	}
	if err := s.store.UpsertToken(ctx, models.TokenKindRecovery, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *TokenService) IssueConfirmationToken(ctx context.Context, userID uint) (string, error) {
	token, err := s.sign(userID, s.ttls.Confirmation)
	if err != nil {
		return "", err
	}
	if err := s.store.UpsertToken(ctx, models.TokenKindConfirmation, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

// Validate checks that the presented token is the stored live one for the
// user and still verifies as a JWT.
func (s *TokenService) Validate(ctx context.Context, kind models.TokenKind, userID uint, token string) error {
	if _, err := s.UserID(token); err != nil {
		return err
	}
	stored, err := s.store.GetToken(ctx, kind, userID)
	if err != nil {
		return err
	}
	if stored == "" || stored != token {
		return fmt.Errorf("%s token was revoked or superseded: %w", kind, apperrors.ErrInvalidToken)
	}
	return nil
}

func (s *TokenService) Revoke(ctx context.Context, kind models.TokenKind, userID uint) error {
	return s.store.DeleteToken(ctx, kind, userID)
}
