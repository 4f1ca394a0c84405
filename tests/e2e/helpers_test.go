//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	postgres "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres"
	attributerepo "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/attribute"
	auditrepo "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/audit"
	batchrepo "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/batch"
	employeerepo "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/employee"
	projectionrepo "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/projection"
	"github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/schema"
	"github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/testhelper"
	"github.com/nkhrm/salary-policy-backend/internal/adapter/xlsx"
	authpkg "github.com/nkhrm/salary-policy-backend/internal/auth"
	batchsvc "github.com/nkhrm/salary-policy-backend/internal/service/batch"
	projectionsvc "github.com/nkhrm/salary-policy-backend/internal/service/projection"
	registrysvc "github.com/nkhrm/salary-policy-backend/internal/service/registry"
	"github.com/nkhrm/salary-policy-backend/internal/transport/middleware"
	"github.com/nkhrm/salary-policy-backend/internal/transport/rest"
)

// employeeKeyHeader is the identity column alias the xlsx reader is
// configured with for the test server.
const employeeKeyHeader = "Số CCCD"

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Get pool from testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	// 3. Repositories.
	attrRepo := attributerepo.New(pool)
	auditRepo := auditrepo.New(pool)
	batRepo := batchrepo.New(pool)
	empRepo := employeerepo.New(pool)
	projRepo := projectionrepo.New(pool)
	materializer := schema.New(pool, logger)

	// 4. JWT manager with a test secret (>= 32 chars).
	jwtMgr := authpkg.NewJWTManager(
		"test-secret-at-least-32-chars-long-for-security",
		"nkhrm-test",
		15*time.Minute,
	)

	// 5. Services.
	projectionService := projectionsvc.NewService(logger, projRepo, attrRepo, batRepo)
	registryService := registrysvc.NewService(logger, attrRepo, materializer, projRepo, txm)
	batchService := batchsvc.NewService(
		logger, batRepo, attrRepo, empRepo, auditRepo,
		materializer, projectionService, txm,
		batchsvc.Config{DedupWindow: 3 * time.Second},
	)

	// 6. Spreadsheet reader.
	sheets := xlsx.NewReader(employeeKeyHeader, 10000)

	// 7. Handlers and router.
	mux := rest.NewRouter(rest.Handlers{
		Health:      rest.NewHealthHandler(pool, "test-version"),
		Attributes:  rest.NewAttributeHandler(registryService, logger),
		Batches:     rest.NewBatchHandler(batchService, sheets, logger),
		Projections: rest.NewProjectionHandler(projectionService, logger),
	})

	// 8. Middleware chain.
	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Auth(jwtMgr),
	)(mux)

	// 9. httptest server.
	srv := httptest.NewServer(handler)
	t.Cleanup(func() { srv.Close() })

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    jwtMgr,
	}
}

// ---------------------------------------------------------------------------
// Token helpers.
// ---------------------------------------------------------------------------

// adminToken returns a JWT carrying the admin role for a fresh actor.
func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	tok, err := ts.jwt.GenerateAccessToken(uuid.New(), authpkg.RoleAdmin)
	require.NoError(t, err)
	return tok
}

// operatorToken returns a JWT for a fresh non-admin actor.
func (ts *testServer) operatorToken(t *testing.T) string {
	t.Helper()
	tok, err := ts.jwt.GenerateAccessToken(uuid.New(), "operator")
	require.NoError(t, err)
	return tok
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

// doJSON sends a JSON request and returns status + decoded object body.
// Pass nil body for body-less requests.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	status, raw := ts.doRaw(t, method, path, token, body)
	if len(raw) == 0 {
		return status, nil
	}
	var result map[string]any
	require.NoError(t, json.Unmarshal(raw, &result), "body: %s", raw)
	return status, result
}

// doJSONList is doJSON for endpoints returning a JSON array.
func (ts *testServer) doJSONList(t *testing.T, method, path, token string, body any) (int, []any) {
	t.Helper()

	status, raw := ts.doRaw(t, method, path, token, body)
	var result []any
	require.NoError(t, json.Unmarshal(raw, &result), "body: %s", raw)
	return status, result
}

func (ts *testServer) doRaw(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// uploadWorkbook posts an xlsx workbook to POST /batches/{id}/import.
func (ts *testServer) uploadWorkbook(t *testing.T, batchID, token string, workbook []byte) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "import.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/batches/"+batchID+"/import", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result), "body: %s", raw)
	}
	return resp.StatusCode, result
}

// buildWorkbook produces an xlsx file with the given header row and data
// rows on the first sheet.
func buildWorkbook(t *testing.T, headers []string, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for rowIdx, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}
