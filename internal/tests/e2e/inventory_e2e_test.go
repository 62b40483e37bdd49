// Package e2e runs the inventory HTTP API against a real PostgreSQL started with testcontainers.
// Each test starts from an empty products table with the identity reset, so the first product is id 1.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/abgdnv/inventory/internal/app"
	"github.com/abgdnv/inventory/internal/migrations"
	"github.com/abgdnv/inventory/internal/service"
	"github.com/abgdnv/inventory/pkg/config"
	"github.com/abgdnv/inventory/pkg/telemetry"
	"github.com/abgdnv/inventory/pkg/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipE2ETests = "INVENTORY_SKIP_E2E_TESTS"

const productURL = "/products"

type InventoryE2ESuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	server      *httptest.Server
	httpClient  *http.Client
	logger      *slog.Logger
	ctx         context.Context
}

func (s *InventoryE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("inventory"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")
	for i := range 10 {
		if err = s.dbPool.Ping(s.ctx); err == nil {
			break
		}
		s.logger.Info("Waiting for PostgreSQL", "attempt", i+1)
		time.Sleep(2 * time.Second)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	require.NoError(s.T(), migrations.Up(connStr), "Failed to apply migrations")

	metricsHandler, _, err := telemetry.SetupMetrics(app.ServiceName, config.TelemetryConfig{
		Metrics: config.MetricsConfig{Enabled: true},
	})
	require.NoError(s.T(), err, "Failed to set up metrics")

	deps := app.SetupDependencies(s.dbPool, s.logger, metricsHandler)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.httpClient = s.server.Client()
	s.logger.Info("E2E test server started", "url", s.server.URL)
}

func (s *InventoryE2ESuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("Failed to terminate E2E PostgreSQL container", "error", err)
		}
	}
}

func (s *InventoryE2ESuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate products table")
}

func TestInventoryE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(InventoryE2ESuite))
}

func (s *InventoryE2ESuite) TestLaptopLifecycle() {
	// create
	created, status := s.createProduct(`{"name":"Laptop","description":"14 inch","price":1299.99,"stockQuantity":10}`)
	s.Require().Equal(http.StatusCreated, status)
	s.Equal(int64(1), created.ID)
	s.Equal("Laptop", created.Name)
	s.Require().NotNil(created.Description)
	s.Equal("14 inch", *created.Description)
	s.True(created.Price.Equal(decimal.RequireFromString("1299.99")))
	s.Equal(int64(10), created.StockQuantity)

	// reduce 5
	body, status := s.doRequest(http.MethodPut, "/1/reduceStock/5", "")
	s.Equal(http.StatusOK, status)
	s.Equal("Stock reduced!", string(body))
	s.Equal(int64(5), s.findByID(1).StockQuantity)

	// reduce 1000 fails without changing stock
	errBody, status := s.doError(http.MethodPut, "/1/reduceStock/1000", "")
	s.Equal(http.StatusBadRequest, status)
	s.Equal("Not enough stock for product Laptop", errBody.Message)
	s.Equal(int64(5), s.findByID(1).StockQuantity)

	// increase 10
	body, status = s.doRequest(http.MethodPut, "/1/increaseStock/10", "")
	s.Equal(http.StatusOK, status)
	s.Equal("Stock increased!", string(body))
	s.Equal(int64(15), s.findByID(1).StockQuantity)

	// delete
	body, status = s.doRequest(http.MethodDelete, "/1", "")
	s.Equal(http.StatusOK, status)
	s.Equal("Product deleted successfully!", string(body))

	// gone
	errBody, status = s.doError(http.MethodGet, "/1", "")
	s.Equal(http.StatusNotFound, status)
	s.Equal("Product not found with id: 1", errBody.Message)
}

func (s *InventoryE2ESuite) TestFindAll() {
	list, status := s.findAll()
	s.Equal(http.StatusOK, status)
	s.NotNil(list)
	s.Empty(list)

	for _, name := range []string{"Laptop", "Mouse", "Keyboard"} {
		_, status := s.createProduct(fmt.Sprintf(`{"name":%q,"price":1,"stockQuantity":1}`, name))
		s.Require().Equal(http.StatusCreated, status)
	}

	list, status = s.findAll()
	s.Equal(http.StatusOK, status)
	s.Require().Len(list, 3)
	s.Equal([]int64{1, 2, 3}, []int64{list[0].ID, list[1].ID, list[2].ID})
	s.Nil(list[0].Description)
}

func (s *InventoryE2ESuite) TestUpdate() {
	_, status := s.createProduct(`{"name":"Laptop","description":"old","price":1000,"stockQuantity":10}`)
	s.Require().Equal(http.StatusCreated, status)

	testCases := []struct {
		name            string
		path            string
		body            string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:           "full overwrite",
			path:           "/1",
			body:           `{"name":"Notebook","price":899.50,"stockQuantity":3}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:            "missing product",
			path:            "/2",
			body:            `{"name":"Notebook","price":1,"stockQuantity":1}`,
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Product not found with id: 2",
		},
		{
			name:            "validation failure",
			path:            "/1",
			body:            `{"name":"","price":-1,"stockQuantity":1}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Validation failed",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			if tc.expectedStatus != http.StatusOK {
				errBody, status := s.doError(http.MethodPut, tc.path, tc.body)
				s.Equal(tc.expectedStatus, status)
				s.Equal(tc.expectedMessage, errBody.Message)
				return
			}
			body, status := s.doRequest(http.MethodPut, tc.path, tc.body)
			s.Require().Equal(tc.expectedStatus, status)
			var updated service.ProductDto
			s.Require().NoError(json.Unmarshal(body, &updated))
			s.Equal(int64(1), updated.ID)
			s.Equal("Notebook", updated.Name)
			s.Nil(updated.Description)
			s.True(updated.Price.Equal(decimal.RequireFromString("899.5")))
			s.Equal(int64(3), updated.StockQuantity)
		})
	}

	// the failed update left the record alone
	s.Equal("Notebook", s.findByID(1).Name)
}

func (s *InventoryE2ESuite) TestErrorResponses() {
	_, status := s.createProduct(`{"name":"Laptop","price":1,"stockQuantity":1}`)
	s.Require().Equal(http.StatusCreated, status)

	testCases := []struct {
		name            string
		method          string
		path            string
		body            string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "non numeric id",
			method:          http.MethodGet,
			path:            "/abc",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid value 'abc' for parameter 'id'",
		},
		{
			name:            "zero id",
			method:          http.MethodGet,
			path:            "/0",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Product not found with id: 0",
		},
		{
			name:            "delete negative id",
			method:          http.MethodDelete,
			path:            "/-5",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Product not found with id: -5",
		},
		{
			name:            "price with three decimals",
			method:          http.MethodPost,
			path:            "",
			body:            `{"name":"Pen","price":999.999,"stockQuantity":1}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Validation failed",
		},
		{
			name:            "negative qty",
			method:          http.MethodPut,
			path:            "/1/reduceStock/-1",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid value '-1' for parameter 'qty'",
		},
		{
			name:            "negative stock on create",
			method:          http.MethodPost,
			path:            "",
			body:            `{"name":"Pen","price":1,"stockQuantity":-1}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Validation failed",
		},
		{
			name:            "method not allowed",
			method:          http.MethodPatch,
			path:            "/1",
			expectedStatus:  http.StatusMethodNotAllowed,
			expectedMessage: "HTTP method 'PATCH' not allowed. Allowed: [DELETE, GET, PUT]",
		},
		{
			name:            "malformed body",
			method:          http.MethodPost,
			path:            "",
			body:            `{"name":`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Malformed request body",
		},
		{
			name:            "increase beyond column range",
			method:          http.MethodPut,
			path:            "/1/increaseStock/9223372036854775807",
			expectedStatus:  http.StatusConflict,
			expectedMessage: "Database error: stock_quantity out of range",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			errBody, status := s.doError(tc.method, tc.path, tc.body)
			s.Equal(tc.expectedStatus, status)
			s.Equal(tc.expectedStatus, errBody.Status)
			s.Equal(tc.expectedMessage, errBody.Message)
		})
	}
}

// Concurrent reductions are not serialized: each one reads, checks and writes on its own,
// so the final stock is at least the fully-serialized result and never negative.
func (s *InventoryE2ESuite) TestConcurrentReductionsAreNotSerialized() {
	_, status := s.createProduct(`{"name":"Laptop","price":1,"stockQuantity":100}`)
	s.Require().Equal(http.StatusCreated, status)

	const workers = 10
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.doRequest(http.MethodPut, "/1/reduceStock/1", "")
		}()
	}
	wg.Wait()

	stock := s.findByID(1).StockQuantity
	s.GreaterOrEqual(stock, int64(100-workers))
	s.Less(stock, int64(100))
}

func (s *InventoryE2ESuite) TestHealthz() {
	resp, err := s.httpClient.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *InventoryE2ESuite) TestMetricsCountStockChanges() {
	_, status := s.createProduct(`{"name":"Mouse","price":19.99,"stockQuantity":3}`)
	s.Require().Equal(http.StatusCreated, status)
	_, status = s.doRequest(http.MethodPut, "/1/reduceStock/2", "")
	s.Require().Equal(http.StatusOK, status)

	body, status := s.doRequestURL(http.MethodGet, s.server.URL+"/metrics", "")

	s.Equal(http.StatusOK, status)
	s.Contains(string(body), "stock_units_changed")
	s.Contains(string(body), `direction="reduce"`)
}

// ---------- helpers ----------

func (s *InventoryE2ESuite) createProduct(payload string) (service.ProductDto, int) {
	s.T().Helper()
	body, status := s.doRequestURL(http.MethodPost, s.server.URL+productURL, payload)
	var product service.ProductDto
	if status == http.StatusCreated {
		require.NoError(s.T(), json.Unmarshal(body, &product))
	}
	return product, status
}

func (s *InventoryE2ESuite) findByID(id int64) service.ProductDto {
	s.T().Helper()
	body, status := s.doRequest(http.MethodGet, fmt.Sprintf("/%d", id), "")
	require.Equal(s.T(), http.StatusOK, status, string(body))
	var product service.ProductDto
	require.NoError(s.T(), json.Unmarshal(body, &product))
	return product
}

func (s *InventoryE2ESuite) findAll() ([]service.ProductDto, int) {
	s.T().Helper()
	body, status := s.doRequest(http.MethodGet, "", "")
	var products []service.ProductDto
	if status == http.StatusOK {
		require.NoError(s.T(), json.Unmarshal(body, &products))
	}
	return products, status
}

// doError performs the request and decodes the uniform error body.
func (s *InventoryE2ESuite) doError(method, path, payload string) (web.ErrorResponse, int) {
	s.T().Helper()
	body, status := s.doRequest(method, path, payload)
	var errBody web.ErrorResponse
	require.NoError(s.T(), json.Unmarshal(body, &errBody), string(body))
	return errBody, status
}

// doRequest sends payload to the products path suffix and returns the raw body and status.
func (s *InventoryE2ESuite) doRequest(method, path, payload string) ([]byte, int) {
	s.T().Helper()
	return s.doRequestURL(method, s.server.URL+productURL+path, payload)
}

func (s *InventoryE2ESuite) doRequestURL(method, url, payload string) ([]byte, int) {
	var body io.Reader
	if payload != "" {
		body = bytes.NewBufferString(payload)
	}
	req, err := http.NewRequestWithContext(s.ctx, method, url, body)
	require.NoError(s.T(), err, "Failed to create HTTP request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err, "HTTP request failed")
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err, "Failed to read response body")
	return bodyBytes, resp.StatusCode
}
