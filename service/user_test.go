package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
)

type fakeCodeStore struct {
	values map[string]string
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{values: map[string]string{}}
}

func (f *fakeCodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCodeStore) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeCodeStore) Del(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}

type sentEmail struct {
	kind  string
	email string
	code  int
	link  string
}

type fakeQueue struct {
	sent []sentEmail
}

func (f *fakeQueue) EnqueueConfirmationCodeEmail(email string, code int) error {
	f.sent = append(f.sent, sentEmail{kind: "code", email: email, code: code})
	return nil
}

func (f *fakeQueue) EnqueueConfirmationLinkEmail(email, username, link string) error {
	f.sent = append(f.sent, sentEmail{kind: "confirmation", email: email, link: link})
	return nil
}

func (f *fakeQueue) EnqueueRecoveryEmail(email, username, link string) error {
	f.sent = append(f.sent, sentEmail{kind: "recovery", email: email, link: link})
	return nil
}

func newUserFixture() (*fakeStore, *fakeCodeStore, *fakeQueue, *TokenService, *UserService) {
	store := newFakeStore()
	codes := newFakeCodeStore()
	queue := &fakeQueue{}
	tokens := NewTokenService(store, "test-secret", TokenTTLs{
		Access:       time.Hour,
		Refresh:      24 * time.Hour,
		Recovery:     15 * time.Minute,
		Confirmation: 24 * time.Hour,
	})
	users := NewUserService(store, tokens, codes, queue, UserServiceConfig{
		CodeTTL:              15 * time.Minute,
		ConfirmationLinkBase: "https://shop.example/confirm?token=",
		RecoveryLinkBase:     "https://shop.example/reset?token=",
	})
	return store, codes, queue, tokens, users
}

func TestSendConfirmationCode(t *testing.T) {
	_, codes, queue, _, users := newUserFixture()

	require.NoError(t, users.SendConfirmationCode(context.Background(), "new@example.com"))

	require.Len(t, queue.sent, 1)
	assert.Equal(t, "code", queue.sent[0].kind)
	assert.GreaterOrEqual(t, queue.sent[0].code, 100000)
	assert.LessOrEqual(t, queue.sent[0].code, 999999)
	assert.Equal(t, strconv.Itoa(queue.sent[0].code), codes.values["confirmation_code:new@example.com"])
}

func TestSendConfirmationCodeTakenEmail(t *testing.T) {
	store, _, queue, _, users := newUserFixture()
	store.users[1] = models.User{ID: 1, Email: "taken@example.com"}

	err := users.SendConfirmationCode(context.Background(), "taken@example.com")
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
	assert.Empty(t, queue.sent)
}

func TestRegisterWithCode(t *testing.T) {
	store, codes, queue, _, users := newUserFixture()
	codes.values["confirmation_code:new@example.com"] = "123456"
	code := 123456

	user, err := users.Register(context.Background(), RegisterInput{
		Email:            "new@example.com",
		Username:         "newbie",
		Password:         "hunter2hunter2",
		ConfirmationCode: &code,
	})
	require.NoError(t, err)

	assert.True(t, user.IsConfirmed, "a valid code proves address ownership up front")
	assert.NotContains(t, codes.values, "confirmation_code:new@example.com", "codes are single-use")
	assert.Empty(t, queue.sent, "no confirmation email needed")

	stored := store.users[user.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter2hunter2")))
}

func TestRegisterWithWrongCode(t *testing.T) {
	_, codes, _, _, users := newUserFixture()
	codes.values["confirmation_code:new@example.com"] = "123456"
	code := 654321

	_, err := users.Register(context.Background(), RegisterInput{
		Email:            "new@example.com",
		Username:         "newbie",
		Password:         "hunter2hunter2",
		ConfirmationCode: &code,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfirmationCode)
}

func TestRegisterWithoutCode(t *testing.T) {
	_, _, queue, _, users := newUserFixture()

	user, err := users.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Username: "newbie",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.False(t, user.IsConfirmed)
	require.Len(t, queue.sent, 1)
	assert.Equal(t, "confirmation", queue.sent[0].kind)
	assert.Contains(t, queue.sent[0].link, "https://shop.example/confirm?token=")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, _, _, _, users := newUserFixture()

	_, err := users.Register(context.Background(), RegisterInput{
		Email: "dup@example.com", Username: "a", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = users.Register(context.Background(), RegisterInput{
		Email: "dup@example.com", Username: "b", Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}

func TestConfirmEmail(t *testing.T) {
	store, _, _, _, users := newUserFixture()

	user, err := users.Register(context.Background(), RegisterInput{
		Email: "new@example.com", Username: "newbie", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.False(t, store.users[user.ID].IsConfirmed)

	token := store.tokens[tokenKey{models.TokenKindConfirmation, user.ID}]
	require.NotEmpty(t, token)

	require.NoError(t, users.ConfirmEmail(context.Background(), token))
	assert.True(t, store.users[user.ID].IsConfirmed)

	// The link is single-use.
	err = users.ConfirmEmail(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestVerifyCredentials(t *testing.T) {
	_, _, _, _, users := newUserFixture()

	registered, err := users.Register(context.Background(), RegisterInput{
		Email: "new@example.com", Username: "newbie", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	user, err := users.VerifyCredentials(context.Background(), "new@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = users.VerifyCredentials(context.Background(), "new@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = users.VerifyCredentials(context.Background(), "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestPasswordRecoveryFlow(t *testing.T) {
	store, _, queue, _, users := newUserFixture()

	user, err := users.Register(context.Background(), RegisterInput{
		Email: "new@example.com", Username: "newbie", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	require.NoError(t, users.RecoverPassword(context.Background(), "new@example.com"))
	last := queue.sent[len(queue.sent)-1]
	require.Equal(t, "recovery", last.kind)

	token := store.tokens[tokenKey{models.TokenKindRecovery, user.ID}]
	require.NotEmpty(t, token)
	assert.Contains(t, last.link, token)

	require.NoError(t, users.ResetPassword(context.Background(), token, "correcthorsebattery"))

	_, err = users.VerifyCredentials(context.Background(), "new@example.com", "correcthorsebattery")
	assert.NoError(t, err)
	_, err = users.VerifyCredentials(context.Background(), "new@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// The consumed token no longer resets anything.
	err = users.ResetPassword(context.Background(), token, "another-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRecoverPasswordUnknownEmail(t *testing.T) {
	_, _, queue, _, users := newUserFixture()

	err := users.RecoverPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrResourceDoesNotExist)
	assert.Empty(t, queue.sent)
}

func TestDeleteAddressOwnership(t *testing.T) {
	store, _, _, _, users := newUserFixture()
	store.addresses[1] = models.Address{ID: 1, UserID: 1}

	err := users.DeleteAddress(context.Background(), 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotEnoughRights)

	require.NoError(t, users.DeleteAddress(context.Background(), 1, 1))
	assert.NotContains(t, store.addresses, uint(1))
}
