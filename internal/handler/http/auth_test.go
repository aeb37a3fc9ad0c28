package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kanavphull/stores-rest-api/internal/auth"
	"github.com/kanavphull/stores-rest-api/internal/domain"
	apperrors "github.com/kanavphull/stores-rest-api/pkg/errors"
)

// ============================================================================
// Register Tests
// ============================================================================

func TestRegister_Success(t *testing.T) {
	f := newRouterFixture(t)

	f.userRepo.On("ExistsByUsernameOrEmail", mock.Anything, "alice", "alice@example.com").Return(false, nil)
	f.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 1
	}).Return(nil)

	body := `{"username":"alice","email":"alice@example.com","password":"supersecret"}`
	rec := f.do(t, http.MethodPost, "/register", body, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	f.userRepo.AssertExpectations(t)
}

func TestRegister_DuplicateUsernameOrEmail(t *testing.T) {
	f := newRouterFixture(t)

	f.userRepo.On("ExistsByUsernameOrEmail", mock.Anything, "alice", "alice@example.com").Return(true, nil)

	body := `{"username":"alice","email":"alice@example.com","password":"supersecret"}`
	rec := f.do(t, http.MethodPost, "/register", body, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
	f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_InvalidJSON(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/register", `{invalid`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestRegister_ValidationError(t *testing.T) {
	f := newRouterFixture(t)

	// Password below the minimum length.
	body := `{"username":"alice","email":"alice@example.com","password":"short"}`
	rec := f.do(t, http.MethodPost, "/register", body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

// ============================================================================
// Login Tests
// ============================================================================

func registeredUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &domain.User{
		ID:           1,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}
}

func TestLogin_Success(t *testing.T) {
	f := newRouterFixture(t)

	user := registeredUser(t, "supersecret")
	f.userRepo.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

	rec := f.do(t, http.MethodPost, "/login", `{"username":"alice","password":"supersecret"}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newRouterFixture(t)

	user := registeredUser(t, "supersecret")
	f.userRepo.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

	rec := f.do(t, http.MethodPost, "/login", `{"username":"alice","password":"wrong-password"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_credentials", resp.Error.Code)
}

func TestLogin_UnknownUser_SameErrorAsWrongPassword(t *testing.T) {
	f := newRouterFixture(t)

	f.userRepo.On("GetByUsername", mock.Anything, "nobody").Return(nil, apperrors.NotFound("user", "nobody"))

	rec := f.do(t, http.MethodPost, "/login", `{"username":"nobody","password":"whatever1"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_credentials", resp.Error.Code)
}

// ============================================================================
// Refresh Tests
// ============================================================================

func TestRefresh_IssuesNonFreshAccessToken(t *testing.T) {
	f := newRouterFixture(t)

	refresh := f.refreshToken(t, 1)
	rec := f.do(t, http.MethodPost, "/refresh", "", refresh)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)

	issued, ok := data["access_token"].(string)
	require.True(t, ok)
	claims, err := f.jwt.Validate(issued)
	require.NoError(t, err)
	assert.False(t, claims.Fresh)
}

func TestRefresh_TokenIsSingleUse(t *testing.T) {
	f := newRouterFixture(t)

	refresh := f.refreshToken(t, 1)

	rec := f.do(t, http.MethodPost, "/refresh", "", refresh)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/refresh", "", refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeGateError(t, rec)
	assert.Equal(t, "token_revoked", body["code"])
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	f := newRouterFixture(t)

	access := f.accessToken(t, 1, true)
	rec := f.do(t, http.MethodPost, "/refresh", "", access)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeGateError(t, rec)
	assert.Equal(t, "invalid_token", body["code"])
}

func TestRefresh_MissingToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/refresh", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeGateError(t, rec)
	assert.Equal(t, "authorization_required", body["code"])
}

// ============================================================================
// Logout Tests
// ============================================================================

func TestLogout_RevokesToken(t *testing.T) {
	f := newRouterFixture(t)

	access := f.accessToken(t, 1, true)

	rec := f.do(t, http.MethodPost, "/logout", "", access)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The same token is now refused at the gate.
	rec = f.do(t, http.MethodPost, "/logout", "", access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeGateError(t, rec)
	assert.Equal(t, "token_revoked", body["code"])
}

func TestLogout_OtherTokensStayValid(t *testing.T) {
	f := newRouterFixture(t)

	first := f.accessToken(t, 1, true)
	second := f.accessToken(t, 1, true)

	rec := f.do(t, http.MethodPost, "/logout", "", first)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Revocation is per token, not per user.
	rec = f.do(t, http.MethodPost, "/logout", "", second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ============================================================================
// User Endpoint Tests
// ============================================================================

func TestGetUser_Public(t *testing.T) {
	f := newRouterFixture(t)

	user := registeredUser(t, "supersecret")
	f.userRepo.On("GetByID", mock.Anything, int64(1)).Return(user, nil)

	rec := f.do(t, http.MethodGet, "/user/1", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", data["username"])
	// The password hash never leaves the server.
	_, leaked := data["password_hash"]
	assert.False(t, leaked)
}

func TestGetUser_NotFound(t *testing.T) {
	f := newRouterFixture(t)

	f.userRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.NotFound("user", "99"))

	rec := f.do(t, http.MethodGet, "/user/99", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestDeleteUser_RequiresFreshToken(t *testing.T) {
	f := newRouterFixture(t)

	nonFresh := f.accessToken(t, 1, false)
	rec := f.do(t, http.MethodDelete, "/user/1", "", nonFresh)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeGateError(t, rec)
	assert.Equal(t, "fresh_token_required", body["code"])
	f.userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUser_FreshTokenSucceeds(t *testing.T) {
	f := newRouterFixture(t)

	f.userRepo.On("Delete", mock.Anything, int64(1)).Return(nil)

	fresh := f.accessToken(t, 1, true)
	rec := f.do(t, http.MethodDelete, "/user/1", "", fresh)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.userRepo.AssertExpectations(t)
}
