package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/arashnm/gym-portal/internal/audit"
	"github.com/arashnm/gym-portal/internal/config"
	"github.com/arashnm/gym-portal/internal/model"
	"github.com/arashnm/gym-portal/internal/repository"
	"github.com/arashnm/gym-portal/internal/utils"
)

// ----- fakes shared by the middleware tests -----

type fakeDirectory struct {
	users map[uint64]*model.User
	err   error
}

func (f *fakeDirectory) FindByID(_ context.Context, id uint64) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

type fakeStore struct {
	revoked map[string]bool
	counts  map[uint64]int64
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{revoked: map[string]bool{}, counts: map[uint64]int64{}}
}

func (f *fakeStore) IsRevoked(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[token], nil
}

func (f *fakeStore) IncrementCounter(_ context.Context, userID uint64, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[userID]++
	return f.counts[userID], nil
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, StoreFailOpen: true}
}

func activeUser(id uint64, role string) *model.User {
	return &model.User{ID: id, Email: "u@example.com", Role: role, IsActive: true}
}

// invoke runs a request through the middleware with a trivial final
// handler that records whether it was reached.
func invoke(t *testing.T, mw echo.MiddlewareFunc, req *http.Request, setup func(echo.Context)) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	reached := false
	h := mw(func(c echo.Context) error {
		reached = true
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec, reached
}

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	return body.Error.Message
}

func bearerReq(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// ----- RequireAuth -----

func TestRequireAuth_NoToken(t *testing.T) {
	mw := RequireAuth(testConfig(), &fakeDirectory{}, newFakeStore(), audit.New(false))
	rec, reached := invoke(t, mw, bearerReq(""), nil)
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Authentication token is required.", errMessage(t, rec))
}

func TestRequireAuth_RevokedToken(t *testing.T) {
	cfg := testConfig()
	tok, err := utils.IssueAccessToken(cfg.JWTSecret, 1)
	require.NoError(t, err)

	dir := &fakeDirectory{users: map[uint64]*model.User{1: activeUser(1, model.RoleStudent)}}
	store := newFakeStore()
	store.revoked[tok.Token] = true

	mw := RequireAuth(cfg, dir, store, audit.New(false))
	rec, reached := invoke(t, mw, bearerReq(tok.Token), nil)
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Token has been invalidated.", errMessage(t, rec))
}

func TestRequireAuth_InvalidSignature(t *testing.T) {
	cfg := testConfig()
	forged, err := utils.IssueAccessToken("other-secret", 1)
	require.NoError(t, err)

	mw := RequireAuth(cfg, &fakeDirectory{}, newFakeStore(), audit.New(false))
	rec, reached := invoke(t, mw, bearerReq(forged.Token), nil)
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid authentication token.", errMessage(t, rec))
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	cfg := testConfig()
	// Mint a token whose issue time predates the validity window.
	claims := jwt.MapClaims{"sub": uint64(1), "iat": time.Now().UTC().Add(-2 * time.Hour).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	dir := &fakeDirectory{users: map[uint64]*model.User{1: activeUser(1, model.RoleStudent)}}
	mw := RequireAuth(cfg, dir, newFakeStore(), audit.New(false))
	rec, reached := invoke(t, mw, bearerReq(raw), nil)
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Token has expired, please login again.", errMessage(t, rec))
}

func TestRequireAuth_UserMissingOrInactive(t *testing.T) {
	cfg := testConfig()
	tok, err := utils.IssueAccessToken(cfg.JWTSecret, 7)
	require.NoError(t, err)

	// Unknown subject.
	mw := RequireAuth(cfg, &fakeDirectory{users: map[uint64]*model.User{}}, newFakeStore(), audit.New(false))
	rec, reached := invoke(t, mw, bearerReq(tok.Token), nil)
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "User no longer exists or is inactive.", errMessage(t, rec))

	// Deactivated account.
	inactive := activeUser(7, model.RoleStudent)
	inactive.IsActive = false
	mw = RequireAuth(cfg, &fakeDirectory{users: map[uint64]*model.User{7: inactive}}, newFakeStore(), audit.New(false))
	rec, reached = invoke(t, mw, bearerReq(tok.Token), nil)
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_PasswordChangedAfterIssue(t *testing.T) {
	cfg := testConfig()
	tok, err := utils.IssueAccessToken(cfg.JWTSecret, 3)
	require.NoError(t, err)

	u := activeUser(3, model.RoleTrainer)
	changed := time.Now().UTC().Add(time.Minute)
	u.PasswordChangedAt = &changed

	mw := RequireAuth(cfg, &fakeDirectory{users: map[uint64]*model.User{3: u}}, newFakeStore(), audit.New(false))
	rec, reached := invoke(t, mw, bearerReq(tok.Token), nil)
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Password was changed recently, please login again.", errMessage(t, rec))
}

func TestRequireAuth_AttachesIdentity(t *testing.T) {
	cfg := testConfig()
	tok, err := utils.IssueAccessToken(cfg.JWTSecret, 5)
	require.NoError(t, err)
	u := activeUser(5, model.RoleStudent)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(bearerReq(tok.Token), rec)

	mw := RequireAuth(cfg, &fakeDirectory{users: map[uint64]*model.User{5: u}}, newFakeStore(), audit.New(false))
	h := mw(func(c echo.Context) error {
		require.Equal(t, u, CurrentUser(c))
		require.Equal(t, tok.Token, CurrentToken(c))
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_StoreDownFailOpen(t *testing.T) {
	cfg := testConfig() // StoreFailOpen true
	tok, err := utils.IssueAccessToken(cfg.JWTSecret, 5)
	require.NoError(t, err)

	store := newFakeStore()
	store.err = repository.ErrStoreUnavailable
	dir := &fakeDirectory{users: map[uint64]*model.User{5: activeUser(5, model.RoleStudent)}}

	mw := RequireAuth(cfg, dir, store, audit.New(false))
	rec, reached := invoke(t, mw, bearerReq(tok.Token), nil)
	require.True(t, reached)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_StoreDownFailClosed(t *testing.T) {
	cfg := testConfig()
	cfg.StoreFailOpen = false
	tok, err := utils.IssueAccessToken(cfg.JWTSecret, 5)
	require.NoError(t, err)

	store := newFakeStore()
	store.err = repository.ErrStoreUnavailable
	dir := &fakeDirectory{users: map[uint64]*model.User{5: activeUser(5, model.RoleStudent)}}

	mw := RequireAuth(cfg, dir, store, audit.New(false))
	rec, reached := invoke(t, mw, bearerReq(tok.Token), nil)
	require.False(t, reached)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ----- OptionalAuth -----

func TestOptionalAuth_InvalidTokenContinuesAnonymously(t *testing.T) {
	cfg := testConfig()
	mw := OptionalAuth(cfg, &fakeDirectory{}, newFakeStore(), audit.New(false))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(bearerReq("not-a-token"), rec)
	h := mw(func(c echo.Context) error {
		require.Nil(t, CurrentUser(c))
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth_ValidTokenAttachesIdentity(t *testing.T) {
	cfg := testConfig()
	tok, err := utils.IssueAccessToken(cfg.JWTSecret, 9)
	require.NoError(t, err)
	u := activeUser(9, model.RoleTrainer)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(bearerReq(tok.Token), rec)

	mw := OptionalAuth(cfg, &fakeDirectory{users: map[uint64]*model.User{9: u}}, newFakeStore(), audit.New(false))
	h := mw(func(c echo.Context) error {
		require.Equal(t, u, CurrentUser(c))
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
}
