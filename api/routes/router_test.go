package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/catalog-backend/internal/auth"
	product "github.com/angelmondragon/catalog-backend/internal/products"
	"github.com/angelmondragon/catalog-backend/internal/users"
	pkgAuth "github.com/angelmondragon/catalog-backend/pkg/auth"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Authenticate(ctx context.Context, username, password string) (pkgAuth.Actor, error) {
	switch {
	case username == "admin" && password == "pw":
		return pkgAuth.Actor{UserID: 1, Username: "admin", Role: enums.RoleAdmin}, nil
	case username == "shopper" && password == "pw":
		return pkgAuth.Actor{UserID: 2, Username: "shopper", Role: enums.RoleUser}, nil
	}
	return pkgAuth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "token", TokenType: "Bearer", ExpiresIn: 60}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, caller pkgAuth.Actor, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: 3, Username: req.Username, Role: enums.RoleUser}, nil
}

type stubProductService struct{}

func (stubProductService) Create(ctx context.Context, actor pkgAuth.Actor, input product.ProductInput) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: 1, Name: input.Name, Price: input.Price, UserID: actor.UserID}, nil
}

func (stubProductService) Get(ctx context.Context, id int64) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: id, Name: "Lamp", Price: decimal.NewFromInt(3)}, nil
}

func (stubProductService) Update(ctx context.Context, actor pkgAuth.Actor, id int64, input product.ProductInput) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: id, Name: input.Name, Price: input.Price}, nil
}

func (stubProductService) Delete(ctx context.Context, actor pkgAuth.Actor, id int64) error {
	return nil
}

func (stubProductService) List(ctx context.Context, params pagination.Params) (*pagination.Page[product.ProductDTO], error) {
	page := pagination.NewPage[product.ProductDTO](nil, params, 0)
	return &page, nil
}

func (stubProductService) SearchByName(ctx context.Context, name string) ([]product.ProductDTO, error) {
	return []product.ProductDTO{{ID: 4, Name: name}}, nil
}

type stubInteractionService struct{}

func (stubInteractionService) Toggle(ctx context.Context, productID int64, actor pkgAuth.Actor, dir enums.InteractionType) (int64, error) {
	return 1, nil
}

func (s stubInteractionService) Like(ctx context.Context, productID int64, actor pkgAuth.Actor) (int64, error) {
	return s.Toggle(ctx, productID, actor, enums.InteractionLike)
}

func (s stubInteractionService) Dislike(ctx context.Context, productID int64, actor pkgAuth.Actor) (int64, error) {
	return s.Toggle(ctx, productID, actor, enums.InteractionDislike)
}

type stubBulkLoader struct{}

func (stubBulkLoader) Load(ctx context.Context, actor pkgAuth.Actor, address string) (int64, error) {
	return 2, nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	return true, 1, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "catalog", ExpirationMinutes: 60},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:        time.Minute,
			LoginIPLimit:       100,
			LoginUsernameLimit: 100,
		},
	}
	return NewRouter(RouterParams{
		Config:             cfg,
		Logger:             logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		DB:                 stubPinger{},
		Redis:              stubPinger{},
		RateLimiter:        allowAllLimiter{},
		Registry:           prometheus.NewRegistry(),
		AuthService:        stubAuthService{},
		RegisterService:    stubRegisterService{},
		ProductService:     stubProductService{},
		InteractionService: stubInteractionService{},
		BulkLoadService:    stubBulkLoader{},
	})
}

func TestRouterStatusCodes(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		user   string
		want   int
	}{
		{"live", http.MethodGet, "/health/live", "", "", http.StatusOK},
		{"ready", http.MethodGet, "/health/ready", "", "", http.StatusOK},
		{"list anonymous", http.MethodGet, "/products", "", "", http.StatusOK},
		{"get anonymous", http.MethodGet, "/products/5", "", "", http.StatusAccepted},
		{"by name", http.MethodGet, "/products/name/Lamp", "", "", http.StatusOK},
		{"create anonymous", http.MethodPost, "/products", `{"name":"Lamp","price":1}`, "", http.StatusUnauthorized},
		{"create user", http.MethodPost, "/products", `{"name":"Lamp","price":1}`, "shopper", http.StatusCreated},
		{"update user", http.MethodPut, "/products/5", `{"name":"Lamp","price":2}`, "shopper", http.StatusOK},
		{"delete user", http.MethodDelete, "/products/5", "", "shopper", http.StatusOK},
		{"like anonymous", http.MethodPost, "/products/5/like", "", "", http.StatusUnauthorized},
		{"like user", http.MethodPost, "/products/5/like", "", "shopper", http.StatusOK},
		{"dislike user", http.MethodPost, "/products/5/dislike", "", "shopper", http.StatusOK},
		{"bulk load user", http.MethodPost, "/products/loading/products", `{"fileAddress":"a.csv"}`, "shopper", http.StatusForbidden},
		{"bulk load admin", http.MethodPost, "/products/loading/products", `{"fileAddress":"a.csv"}`, "admin", http.StatusCreated},
		{"register", http.MethodPost, "/auth/register", `{"username":"newbie","password":"secret1"}`, "", http.StatusCreated},
		{"login", http.MethodPost, "/auth/login", `{"username":"shopper","password":"pw"}`, "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			if tc.user != "" {
				req.SetBasicAuth(tc.user, "pw")
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.SetBasicAuth("shopper", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouterExportsRequestMetrics(t *testing.T) {
	router := newTestRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/9", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `route="/products/{id}"`) {
		t.Fatalf("expected route-labelled request metric, got:\n%s", rec.Body.String())
	}
}
