package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/sparklinkhq/sparklink/internal/auth/domain"
	authrepository "github.com/sparklinkhq/sparklink/internal/auth/repository"
	"github.com/sparklinkhq/sparklink/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	clock *clock.FakeClock
	ctx   context.Context
}

func setup(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.User{}, &domain.Session{}))

	genID, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		GenID:       genID,
		Clock:       fake,
		Repo:        authrepository.Provide(),
		SessionRepo: authrepository.ProvideSessions(),
	})

	return &fixture{
		svc:   svc,
		db:    conn,
		clock: fake,
		ctx:   context.Background(),
	}
}

func (f *fixture) register(t *testing.T, username, email string) *domain.User {
	t.Helper()
	user, err := f.svc.Register(f.ctx, domain.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterNormalizesIdentity(t *testing.T) {
	f := setup(t)

	user, err := f.svc.Register(f.ctx, domain.RegisterRequest{
		Username: "  Ada-Lovelace ",
		Email:    " Ada@Example.COM ",
		Password: "difference engine",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada-lovelace", user.Username)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "difference engine", user.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	f := setup(t)

	cases := []struct {
		name string
		req  domain.RegisterRequest
		want error
	}{
		{"short username", domain.RegisterRequest{Username: "ab", Email: "a@b.com", Password: "longenough"}, domain.ErrInvalidUsername},
		{"unsafe characters", domain.RegisterRequest{Username: "ada lovelace", Email: "a@b.com", Password: "longenough"}, domain.ErrInvalidUsername},
		{"leading hyphen", domain.RegisterRequest{Username: "-ada", Email: "a@b.com", Password: "longenough"}, domain.ErrInvalidUsername},
		{"bad email", domain.RegisterRequest{Username: "ada", Email: "not-an-email", Password: "longenough"}, domain.ErrInvalidEmail},
		{"weak password", domain.RegisterRequest{Username: "ada", Email: "a@b.com", Password: "short"}, domain.ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(f.ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := setup(t)
	f.register(t, "ada", "ada@example.com")

	_, err := f.svc.Register(f.ctx, domain.RegisterRequest{
		Username: "ada2", Email: "ada@example.com", Password: "longenough",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = f.svc.Register(f.ctx, domain.RegisterRequest{
		Username: "ada", Email: "other@example.com", Password: "longenough",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginIssuesSession(t *testing.T) {
	f := setup(t)
	user := f.register(t, "ada", "ada@example.com")

	result, err := f.svc.Login(f.ctx, domain.LoginRequest{
		Email:    "ADA@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.RawToken)

	// The raw token must never be persisted.
	var stored domain.Session
	require.NoError(t, f.db.First(&stored, "id = ?", result.SessionID).Error)
	assert.NotEqual(t, result.RawToken, stored.SessionTokenHash)

	sess, err := f.svc.Authenticate(f.ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := setup(t)
	f.register(t, "ada", "ada@example.com")

	_, err := f.svc.Login(f.ctx, domain.LoginRequest{Email: "ada@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.svc.Login(f.ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "whatever it is"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	f := setup(t)
	f.register(t, "ada", "ada@example.com")

	result, err := f.svc.Login(f.ctx, domain.LoginRequest{Email: "ada@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	f.clock.Advance(8 * 24 * time.Hour)

	_, err = f.svc.Authenticate(f.ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := setup(t)
	f.register(t, "ada", "ada@example.com")

	result, err := f.svc.Login(f.ctx, domain.LoginRequest{Email: "ada@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(f.ctx, result.RawToken))

	_, err = f.svc.Authenticate(f.ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)

	// A second logout on the revoked token is still accepted.
	assert.NoError(t, f.svc.Logout(f.ctx, result.RawToken))
}

func TestAuthenticateUnknownToken(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Authenticate(f.ctx, "no-such-token")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = f.svc.Authenticate(f.ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}
