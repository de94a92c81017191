package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gestao-facil/gestao-facil/internal/app"
	"github.com/gestao-facil/gestao-facil/internal/auth"
	"github.com/gestao-facil/gestao-facil/internal/backup"
	"github.com/gestao-facil/gestao-facil/internal/clients"
	"github.com/gestao-facil/gestao-facil/internal/finance"
	"github.com/gestao-facil/gestao-facil/internal/lowstock"
	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/shared"
	"github.com/gestao-facil/gestao-facil/internal/store"
	"github.com/gestao-facil/gestao-facil/internal/taxonomy"
	"github.com/gestao-facil/gestao-facil/internal/transactions"
	_ "github.com/gestao-facil/gestao-facil/testing"
)

// apiClient drives the HTTP surface the way a browser session would: cookie
// jar plus the CSRF token returned at login.
type apiClient struct {
	t      *testing.T
	base   string
	http   *http.Client
	csrf   string
	userID string
}

func startServer(t *testing.T) *apiClient {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	kv := store.NewRedisStore(redisClient)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &app.Config{
		AppEnv:            "test",
		AppRequestTimeout: 10 * time.Second,
		CSRFSecret:        "csrf-secret",
		BackupRetention:   5,
	}

	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authService := auth.NewService(auth.NewRepository(kv))
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	productRepo := products.NewRepository(kv)
	monitor := lowstock.NewMonitor(logger, kv, productRepo, nil)
	productService := products.NewService(productRepo, monitor)

	clientRepo := clients.NewRepository(kv)

	summaryCache := finance.NewCache(redisClient, time.Minute)
	txRepo := transactions.NewRepository(kv)
	txService := transactions.NewService(logger, txRepo, productRepo, summaryCache, monitor)

	taxonomyService := taxonomy.NewService(taxonomy.NewRepository(kv), productRepo)
	financeService := finance.NewService(txRepo, summaryCache)
	backupService := backup.NewService(logger, kv, productRepo, clientRepo, txRepo, cfg.BackupRetention, summaryCache, monitor)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		SessionManager:      sessionManager,
		CSRFManager:         csrfManager,
		AuthHandler:         authHandler,
		ProductsHandler:     products.NewHandler(logger, productService),
		ClientsHandler:      clients.NewHandler(logger, clients.NewService(clientRepo)),
		TransactionsHandler: transactions.NewHandler(logger, txService),
		TaxonomyHandler:     taxonomy.NewHandler(logger, taxonomyService),
		FinanceHandler:      finance.NewHandler(logger, financeService),
		LowStockHandler:     lowstock.NewHandler(logger, monitor),
		BackupHandler:       backup.NewHandler(logger, backupService),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, base: server.URL, http: &http.Client{Jar: jar}}
}

func (c *apiClient) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.csrf != "" {
		req.Header.Set(shared.CSRFHeader, c.csrf)
	}
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	data, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	require.NoError(c.t, res.Body.Close())
	return res, data
}

func (c *apiClient) signup(name, email, password string) {
	c.t.Helper()
	res, _ := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(c.t, http.StatusCreated, res.StatusCode)

	res, data := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(c.t, http.StatusOK, res.StatusCode)
	var payload struct {
		ID        string `json:"id"`
		CSRFToken string `json:"csrf_token"`
	}
	require.NoError(c.t, json.Unmarshal(data, &payload))
	require.NotEmpty(c.t, payload.CSRFToken)
	c.csrf = payload.CSRFToken
	c.userID = payload.ID
}

func TestFullSaleFlow(t *testing.T) {
	api := startServer(t)
	api.signup("Maria Silva", "maria@test.local", "segredo123")

	res, data := api.do(http.MethodPost, "/api/products", map[string]any{
		"name": "Ração Premium", "category": "Alimentos",
		"cost": 50.0, "sale_price": 100.0, "quantity": 10, "min_stock": 2,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created products.Product
	require.NoError(t, json.Unmarshal(data, &created))
	require.NotZero(t, created.ID)

	res, _ = api.do(http.MethodPost, "/api/transactions", map[string]any{
		"type": "sale", "product_id": created.ID, "quantity": 3, "unit_price": 100.0,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, data = api.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []products.Product
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	require.Equal(t, 7, list[0].Quantity)

	res, data = api.do(http.MethodGet, "/api/finance/summary", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var summary finance.Summary
	require.NoError(t, json.Unmarshal(data, &summary))
	require.InDelta(t, 300.0, summary.TotalRevenue, 0.001)
}

func TestLowStockAndExportFlow(t *testing.T) {
	api := startServer(t)
	api.signup("Maria Silva", "maria@test.local", "segredo123")

	res, _ := api.do(http.MethodPost, "/api/products", map[string]any{
		"name": "Coleira", "category": "Acessórios",
		"cost": 5.0, "sale_price": 15.0, "quantity": 1, "min_stock": 3,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, data := api.do(http.MethodGet, "/api/alerts/low-stock", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var alerts []products.Product
	require.NoError(t, json.Unmarshal(data, &alerts))
	require.Len(t, alerts, 1)

	res, _ = api.do(http.MethodPost, "/api/alerts/refresh", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, data = api.do(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var notes []lowstock.Notification
	require.NoError(t, json.Unmarshal(data, &notes))
	require.Len(t, notes, 1)

	res, data = api.do(http.MethodGet, "/api/data/export", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, res.Header.Get("Content-Disposition"), "gestao-dados-")
	var snapshot backup.Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))
	require.Len(t, snapshot.Data.Products, 1)
	require.Equal(t, api.userID, snapshot.Metadata.UserID)
}

func TestAPIRejectsAnonymousAndCrossUserAccess(t *testing.T) {
	api := startServer(t)

	res, _ := api.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	api.signup("Maria Silva", "maria@test.local", "segredo123")
	res, _ = api.do(http.MethodPost, "/api/products", map[string]any{
		"name": "Brinquedo", "category": "Brinquedos",
		"cost": 2.0, "sale_price": 6.0, "quantity": 4, "min_stock": 1,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	// A second account must see an empty namespace.
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	second := &apiClient{t: t, base: api.base, http: &http.Client{Jar: jar}}
	second.signup("João Souza", "joao@test.local", "segredo123")

	res, data := second.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []products.Product
	require.NoError(t, json.Unmarshal(data, &list))
	require.Empty(t, list)
}
