package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kanavphull/stores-rest-api/internal/auth"
	"github.com/kanavphull/stores-rest-api/internal/domain"
	"github.com/kanavphull/stores-rest-api/internal/service"
	"github.com/kanavphull/stores-rest-api/pkg/health"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockStoreRepo struct {
	mock.Mock
}

func (m *mockStoreRepo) Create(ctx context.Context, store *domain.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *mockStoreRepo) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *mockStoreRepo) List(ctx context.Context) ([]domain.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Store), args.Error(1)
}

func (m *mockStoreRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepo) CreateWithID(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *mockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTagRepo struct {
	mock.Mock
}

func (m *mockTagRepo) Create(ctx context.Context, tag *domain.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockTagRepo) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tag), args.Error(1)
}

func (m *mockTagRepo) ListByStoreID(ctx context.Context, storeID int64) ([]domain.Tag, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *mockTagRepo) ListByItemID(ctx context.Context, itemID int64) ([]domain.Tag, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *mockTagRepo) CountLinkedItems(ctx context.Context, tagID int64) (int64, error) {
	args := m.Called(ctx, tagID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTagRepo) Link(ctx context.Context, itemID, tagID int64) error {
	args := m.Called(ctx, itemID, tagID)
	return args.Error(0)
}

func (m *mockTagRepo) Unlink(ctx context.Context, itemID, tagID int64) error {
	args := m.Called(ctx, itemID, tagID)
	return args.Error(0)
}

func (m *mockTagRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Registration side effects are fire-and-forget; the router tests only need
// them to not fail.

type noopPublisher struct{}

func (noopPublisher) PublishUserRegistered(context.Context, *domain.User) error { return nil }

type noopSender struct{}

func (noopSender) Send(context.Context, string, string, string) error { return nil }

// ============================================================================
// Test Fixture
// ============================================================================

// routerFixture wires the full production router over mock repositories with
// a real JWT manager and in-memory blocklist, so the token gate runs exactly
// as it does in production.
type routerFixture struct {
	router    http.Handler
	userRepo  *mockUserRepo
	storeRepo *mockStoreRepo
	itemRepo  *mockItemRepo
	tagRepo   *mockTagRepo
	jwt       *auth.JWTManager
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	jwt := auth.NewJWTManager("test-secret-key-for-testing-0123456789", "stores-rest-api", 15*time.Minute, 7*24*time.Hour)

	f := &routerFixture{
		userRepo:  new(mockUserRepo),
		storeRepo: new(mockStoreRepo),
		itemRepo:  new(mockItemRepo),
		tagRepo:   new(mockTagRepo),
		jwt:       jwt,
	}

	authService := service.NewAuthService(f.userRepo, auth.NewMemoryBlocklist(), jwt, noopPublisher{}, noopSender{}, logger)
	storeService := service.NewStoreService(f.storeRepo, logger)
	itemService := service.NewItemService(f.itemRepo, logger)
	tagService := service.NewTagService(f.tagRepo, f.itemRepo, f.storeRepo, logger)

	f.router = NewRouter(
		authService,
		storeService,
		itemService,
		tagService,
		health.NewHandler(),
		logger,
		CORSConfig{Environment: "development"},
	)
	return f
}

func (f *routerFixture) accessToken(t *testing.T, userID int64, fresh bool) string {
	t.Helper()
	token, err := f.jwt.GenerateAccessToken(userID, fresh)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) refreshToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := f.jwt.GenerateRefreshToken(userID)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// decodeGateError decodes the flat {code, message} body written by the token
// gate middleware.
func decodeGateError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}
