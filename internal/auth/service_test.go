package auth

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/deliverydash-backend/internal/users"
	pkgAuth "github.com/angelmondragon/deliverydash-backend/pkg/auth"
	"github.com/angelmondragon/deliverydash-backend/pkg/auth/session"
	"github.com/angelmondragon/deliverydash-backend/pkg/config"
	"github.com/angelmondragon/deliverydash-backend/pkg/db/dbtest"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "deliverydash", ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60}

type fakeSessions struct {
	records map[string]fakeRecord
}

type fakeRecord struct {
	userID uuid.UUID
	token  string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{records: map[string]fakeRecord{}}
}

func (f *fakeSessions) Generate(_ context.Context, accessID string, userID uuid.UUID) (string, error) {
	token := "refresh-" + accessID
	f.records[accessID] = fakeRecord{userID: userID, token: token}
	return token, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error) {
	rec, ok := f.records[oldAccessID]
	if !ok || rec.userID != userID || rec.token != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.records, oldAccessID)
	newID := session.NewAccessID()
	token, _ := f.Generate(ctx, newID, userID)
	return newID, token, nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	delete(f.records, accessID)
	return nil
}

func newTestService(t *testing.T) (*service, *fakeSessions) {
	t.Helper()
	return newServiceOn(t, users.NewRepository(dbtest.Open(t).DB()), config.AdminConfig{})
}

func newServiceOn(t *testing.T, repo *users.Repository, admins config.AdminConfig) (*service, *fakeSessions) {
	t.Helper()
	sessions := newFakeSessions()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWT,
		PasswordConfig: config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		AdminConfig:    admins,
		Logger:         logger.Nop(),
	})
	require.NoError(t, err)
	return svc.(*service), sessions
}

func signUpAna(t *testing.T, svc Service) *AuthResponse {
	t.Helper()
	resp, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "Ana@Example.com",
		Password: "secret1",
		Name:     "Ana",
		Address:  "Calle 1",
		Phone:    "555-0101",
	})
	require.NoError(t, err)
	return resp
}

func TestSignUpSignsIn(t *testing.T) {
	svc, sessions := newTestService(t)
	var events []types.SessionEvent
	svc.Subscribe(func(_ context.Context, e types.SessionEvent) { events = append(events, e) })

	resp := signUpAna(t, svc)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, enums.UserRoleCustomer, resp.User.Role)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Contains(t, sessions.records, claims.ID)

	require.Len(t, events, 1)
	assert.Equal(t, enums.SessionEventSignedIn, events[0].Type)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	signUpAna(t, svc)

	_, err := svc.SignUp(context.Background(), SignUpRequest{Email: "ana@example.com", Password: "another1", Name: "Other"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
	assert.Equal(t, "email already registered", appErr.Message())
}

func TestSignUpShortPassword(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SignUp(context.Background(), SignUpRequest{Email: "x@example.com", Password: "123", Name: "X"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestSignInCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	signUpAna(t, svc)
	ctx := context.Background()

	for _, req := range []SignInRequest{
		{Email: "ana@example.com", Password: "wrong-pass"},
		{Email: "nobody@example.com", Password: "secret1"},
		{Email: "", Password: ""},
	} {
		_, err := svc.SignIn(ctx, req)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
		assert.Equal(t, "invalid email or password", appErr.Message())
	}

	resp, err := svc.SignIn(ctx, SignInRequest{Email: " ANA@example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", resp.User.Name)
}

func TestSignOutRevokesAndNotifies(t *testing.T) {
	svc, sessions := newTestService(t)
	resp := signUpAna(t, svc)
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)

	var got []types.SessionEvent
	unsubscribe := svc.Subscribe(func(_ context.Context, e types.SessionEvent) { got = append(got, e) })

	require.NoError(t, svc.SignOut(context.Background(), claims.ID, claims.UserID))
	assert.NotContains(t, sessions.records, claims.ID)
	require.Len(t, got, 1)
	assert.Equal(t, types.SessionEvent{Type: enums.SessionEventSignedOut, UserID: resp.User.ID}, got[0])

	unsubscribe()
	unsubscribe()
	_, err = svc.SignIn(context.Background(), SignInRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, sessions := newTestService(t)
	resp := signUpAna(t, svc)
	svc.now = func() time.Time { return time.Now().Add(time.Minute) }

	pair, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, pair.RefreshToken)

	claims, err := pkgAuth.ParseAccessToken(testJWT, pair.AccessToken)
	require.NoError(t, err)
	assert.Contains(t, sessions.records, claims.ID)
	assert.Len(t, sessions.records, 1)

	_, err = svc.Refresh(context.Background(), RefreshRequest{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newTestService(t)
	resp := signUpAna(t, svc)

	user, err := svc.CurrentUser(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Calle 1", user.Address)

	_, err = svc.CurrentUser(context.Background(), uuid.New())
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestSignUpAssignsAdminToListedEmail(t *testing.T) {
	repo := users.NewRepository(dbtest.Open(t).DB())
	svc, _ := newServiceOn(t, repo, config.AdminConfig{Emails: []string{"admin@example.com"}})
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, SignUpRequest{Email: "Admin@Example.com", Password: "secret1", Name: "Admin"})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, resp.User.Role)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, claims.Role)

	other, err := svc.SignUp(ctx, SignUpRequest{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleCustomer, other.User.Role)
}

func TestSignInPromotesExistingAccountOnceListed(t *testing.T) {
	repo := users.NewRepository(dbtest.Open(t).DB())
	before, _ := newServiceOn(t, repo, config.AdminConfig{})
	signed := signUpAna(t, before)
	require.Equal(t, enums.UserRoleCustomer, signed.User.Role)

	after, _ := newServiceOn(t, repo, config.AdminConfig{Emails: []string{"ana@example.com"}})
	ctx := context.Background()
	resp, err := after.SignIn(ctx, SignInRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, resp.User.Role)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, claims.Role)

	stored, err := repo.FindByID(ctx, signed.User.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, stored.Role)
}
