package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restock-api/internal/application/inventory"
	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/application/sales"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/forecast"
	"github.com/jhoicas/restock-api/internal/infrastructure/broker"
	"github.com/jhoicas/restock-api/internal/infrastructure/cache"
	"github.com/jhoicas/restock-api/internal/infrastructure/chain"
	"github.com/jhoicas/restock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/restock-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/restock-api/internal/interfaces/http"
	"github.com/jhoicas/restock-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno: SQLite en memoria + ledger simulado + casos de uso reales
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app    *fiber.App
	ledger *chain.SimulatedLedger
}

func newEnv(t *testing.T, jwtSecret string) *testEnv {
	t.Helper()
	sim := chain.NewSimulatedLedger(nil)
	return &testEnv{app: newApp(t, jwtSecret, sim), ledger: sim}
}

func newApp(t *testing.T, jwtSecret string, ledger ports.Ledger) *fiber.App {
	t.Helper()
	repo, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	log := logger.Nop()
	recs := inventory.NewRecommendationUseCase(repo, cache.NoopCache{}, forecast.DefaultParams(), log)
	prio := inventory.NewPriorityUseCase(recs, ledger, inventory.ReadOptions{Timeout: time.Second, Concurrency: 4}, log)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		Recommendations: recs,
		Priority:        prio,
		Report:          inventory.NewReportUseCase(prio, pdf.NewMarotoPDFGenerator("restock-test")),
		Ledger:          inventory.NewLedgerUseCase(ledger, broker.NoopPublisher{}, log),
		Ingest:          sales.NewIngestUseCase(repo, cache.NoopCache{}, broker.NoopPublisher{}, log),
		Summary:         sales.NewSummaryUseCase(repo),
		ServiceName:     "restock-test",
		JWTSecret:       jwtSecret,
		Log:             log,
	})
	return app
}

// 101 vende 2/día y 102 vende 4/día: con lead time 7 y σ = 0, recomendado 14 y 28.
const steadyCSV = "date,product_id,quantity_sold\n" +
	"2026-01-01,101,2\n2026-01-02,101,2\n2026-01-03,101,2\n" +
	"2026-01-01,102,4\n2026-01-02,102,4\n2026-01-03,102,4\n"

func uploadRequest(t *testing.T, csv, charset string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	if charset != "" {
		require.NoError(t, w.WriteField("charset", charset))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingest_sales", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func ingest(t *testing.T, env *testEnv) {
	t.Helper()
	status, body := do(t, env.app, uploadRequest(t, steadyCSV, ""))
	require.Equal(t, http.StatusOK, status, body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	status, body := do(t, newEnv(t, "").app, jsonRequest(http.MethodGet, "/health", ""))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "restock-test", body["service"])
}

func TestIngestThenCalculateStock(t *testing.T) {
	env := newEnv(t, "")

	status, body := do(t, env.app, uploadRequest(t, steadyCSV, "utf-8"))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(6), body["rows_ingested"])
	assert.Equal(t, float64(6), body["rows_total"])
	assert.NotEmpty(t, body["batch_id"])

	status, body = do(t, env.app, jsonRequest(http.MethodGet, "/calculate_stock", ""))
	require.Equal(t, http.StatusOK, status)
	products := body["products"].(map[string]any)
	require.Len(t, products, 2)
	p101 := products["101"].(map[string]any)
	assert.Equal(t, float64(14), p101["recommended_qty"])
	assert.Equal(t, float64(2), p101["last_sales_avg"])
	assert.Equal(t, float64(28), products["102"].(map[string]any)["recommended_qty"])
	assert.Equal(t, float64(7), body["lead_time_days"])
}

func TestCalculateStock_QueryOverrides(t *testing.T) {
	env := newEnv(t, "")
	ingest(t, env)

	status, body := do(t, env.app, jsonRequest(http.MethodGet, "/calculate_stock?lead_time_days=3&window=2&z=0", ""))
	require.Equal(t, http.StatusOK, status)
	p101 := body["products"].(map[string]any)["101"].(map[string]any)
	assert.Equal(t, float64(6), p101["recommended_qty"])
	assert.Equal(t, float64(2), body["window"])
}

func TestCalculateStock_SingleProduct(t *testing.T) {
	env := newEnv(t, "")
	ingest(t, env)

	status, body := do(t, env.app, jsonRequest(http.MethodGet, "/calculate_stock/102?window=2", ""))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(102), body["product_id"])
	assert.Equal(t, float64(28), body["recommended_qty"])
	assert.Equal(t, float64(4), body["last_sales_avg"])
	assert.Equal(t, float64(0), body["std_dev"])
	assert.Equal(t, float64(3), body["records"])
	assert.Equal(t, float64(2), body["window"])

	status, body = do(t, env.app, jsonRequest(http.MethodGet, "/calculate_stock/999", ""))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, _ = do(t, env.app, jsonRequest(http.MethodGet, "/calculate_stock/abc", ""))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSalesSummary(t *testing.T) {
	env := newEnv(t, "")

	status, body := do(t, env.app, jsonRequest(http.MethodGet, "/sales/summary", ""))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["products"])

	ingest(t, env)
	ingest(t, env)
	status, body = do(t, env.app, jsonRequest(http.MethodGet, "/sales/summary", ""))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(12), body["rows_total"], "ingestar dos veces duplica")
	products := body["products"].([]any)
	require.Len(t, products, 2)
	p101 := products[0].(map[string]any)
	assert.Equal(t, float64(101), p101["product_id"])
	assert.Equal(t, float64(6), p101["records"])
	assert.Equal(t, float64(3), p101["days"])
	assert.Equal(t, float64(12), p101["total_units"])
	assert.Equal(t, "4", p101["avg_daily"], "12 unidades en 3 días")
	assert.Equal(t, "2026-01-01T00:00:00Z", p101["first_date"])
}

func TestCalculateStock_InvalidParams(t *testing.T) {
	env := newEnv(t, "")
	for _, q := range []string{"window=0", "lead_time_days=-1", "z=abc", "window=siete"} {
		status, body := do(t, env.app, jsonRequest(http.MethodGet, "/calculate_stock?"+q, ""))
		assert.Equal(t, http.StatusBadRequest, status, q)
		assert.Equal(t, "VALIDATION", body["code"], q)
	}
}

func TestCalculateStock_EmptyHistory(t *testing.T) {
	status, body := do(t, newEnv(t, "").app, jsonRequest(http.MethodGet, "/calculate_stock", ""))
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["products"])
}

func TestRestockPriority_RanksAgainstLedger(t *testing.T) {
	env := newEnv(t, "")
	ingest(t, env)

	status, _ := do(t, env.app, jsonRequest(http.MethodPost, "/restock_and_update_chain", `{"product_id":101,"new_qty":14}`))
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, env.app, jsonRequest(http.MethodGet, "/restock_priority", ""))
	require.Equal(t, http.StatusOK, status)
	list := body["priority"].([]any)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, float64(102), first["product_id"])
	assert.Equal(t, float64(28), first["need"])
	assert.Equal(t, float64(1), first["score"])
	second := list[1].(map[string]any)
	assert.Equal(t, float64(101), second["product_id"])
	assert.Equal(t, float64(0), second["score"])
	assert.NotContains(t, body, "ledger_read_failures")
}

func TestRestockPriority_ReadFailureReported(t *testing.T) {
	env := newEnv(t, "")
	ingest(t, env)
	_, err := env.ledger.WriteQuantity(context.Background(), 101, 14)
	require.NoError(t, err)
	_, err = env.ledger.WriteQuantity(context.Background(), 102, 28)
	require.NoError(t, err)
	env.ledger.FailReads(102)

	status, body := do(t, env.app, jsonRequest(http.MethodGet, "/restock_priority", ""))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{float64(102)}, body["ledger_read_failures"])
	first := body["priority"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(102), first["product_id"], "sin lectura cuenta como stock 0")
	assert.Equal(t, float64(0), first["current"])
}

func TestRestockPriority_EmptyIsEmptyList(t *testing.T) {
	status, body := do(t, newEnv(t, "").app, jsonRequest(http.MethodGet, "/restock_priority", ""))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["priority"])
}

func TestRestockPriorityPDF(t *testing.T) {
	env := newEnv(t, "")
	ingest(t, env)

	resp, err := env.app.Test(jsonRequest(http.MethodGet, "/restock_priority/pdf", ""), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestEOQ(t *testing.T) {
	app := newEnv(t, "").app

	status, body := do(t, app, jsonRequest(http.MethodGet, "/eoq?annual_demand=1000&setup_cost=50&holding_cost=2", ""))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(224), body["eoq"])

	status, body = do(t, app, jsonRequest(http.MethodGet, "/eoq?annual_demand=1000&setup_cost=50&holding_cost=0", ""))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, _ = do(t, app, jsonRequest(http.MethodGet, "/eoq?annual_demand=mil", ""))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetOnChain(t *testing.T) {
	env := newEnv(t, "")

	status, body := do(t, env.app, jsonRequest(http.MethodGet, "/products/101/on_chain", ""))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	_, err := env.ledger.WriteQuantity(context.Background(), 101, 9)
	require.NoError(t, err)
	status, body = do(t, env.app, jsonRequest(http.MethodGet, "/products/101/on_chain", ""))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(9), body["quantity"])
	assert.Equal(t, false, body["discount_applied"])

	status, _ = do(t, env.app, jsonRequest(http.MethodGet, "/products/abc/on_chain", ""))
	assert.Equal(t, http.StatusBadRequest, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerWrites(t *testing.T) {
	env := newEnv(t, "")

	status, body := do(t, env.app, jsonRequest(http.MethodPost, "/restock_and_update_chain", `{"product_id":7,"new_qty":10}`))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "on_chain_updated", body["status"])
	receipt := body["receipt"].(map[string]any)
	assert.Equal(t, float64(1), receipt["status"])
	assert.NotEmpty(t, receipt["tx_hash"])

	status, body = do(t, env.app, jsonRequest(http.MethodPost, "/restock", `{"product_id":7,"quantity":5}`))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "restocked_on_chain", body["status"])

	// Sin body: los parámetros también se aceptan por query.
	status, body = do(t, env.app, jsonRequest(http.MethodPost, "/apply_discount?product_id=7", ""))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "discount_applied_on_chain", body["status"])
	assert.Equal(t, float64(20), body["discount_percent"])

	state, err := env.ledger.ReadProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(15), state.Quantity)
	assert.True(t, state.DiscountApplied)
}

func TestLedgerWrites_Validation(t *testing.T) {
	app := newEnv(t, "").app

	cases := []struct {
		path, body, code string
	}{
		{"/restock", `{"product_id":7,"quantity":0}`, "VALIDATION"},
		{"/restock_and_update_chain", `{"product_id":0,"new_qty":3}`, "VALIDATION"},
		{"/apply_discount", `{"product_id":7,"discount_percent":150}`, "VALIDATION"},
		{"/restock", `{"product_id":"siete"}`, "INVALID_BODY"},
	}
	for _, tc := range cases {
		status, body := do(t, app, jsonRequest(http.MethodPost, tc.path, tc.body))
		assert.Equal(t, http.StatusBadRequest, status, tc.path+" "+tc.body)
		assert.Equal(t, tc.code, body["code"], tc.path+" "+tc.body)
	}
}

type downLedger struct{ *chain.SimulatedLedger }

func (*downLedger) Restock(context.Context, int64, int64) (*entity.LedgerReceipt, error) {
	return nil, domain.ErrLedgerUnavailable
}

func (*downLedger) WriteQuantity(context.Context, int64, int64) (*entity.LedgerReceipt, error) {
	return nil, domain.ErrLedgerWrite
}

func TestLedgerWrites_FailuresMapToGatewayErrors(t *testing.T) {
	app := newApp(t, "", &downLedger{chain.NewSimulatedLedger(nil)})

	status, body := do(t, app, jsonRequest(http.MethodPost, "/restock", `{"product_id":1,"quantity":1}`))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "LEDGER_UNAVAILABLE", body["code"])

	status, body = do(t, app, jsonRequest(http.MethodPost, "/restock_and_update_chain", `{"product_id":1,"new_qty":1}`))
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "LEDGER_WRITE_FAILED", body["code"])
}

func TestIngest_Errors(t *testing.T) {
	app := newEnv(t, "").app

	status, body := do(t, app, uploadRequest(t, "date,product_id,quantity_sold\n2026-01-01,1,-4\n", ""))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Contains(t, body["message"], "línea 2")

	status, body = do(t, app, jsonRequest(http.MethodPost, "/ingest_sales", `{}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", body["code"])
}

func TestUnknownRoute(t *testing.T) {
	status, body := do(t, newEnv(t, "").app, jsonRequest(http.MethodGet, "/no-existe", ""))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización de escrituras
// ──────────────────────────────────────────────────────────────────────────────

func TestWriteRoutes_RequireRoleWhenSecretSet(t *testing.T) {
	env := newEnv(t, testJWTSecret)
	restock := func(auth string) int {
		req := jsonRequest(http.MethodPost, "/restock", `{"product_id":3,"quantity":2}`)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		status, _ := do(t, env.app, req)
		return status
	}

	assert.Equal(t, http.StatusUnauthorized, restock(""))
	assert.Equal(t, http.StatusForbidden, restock(tokenForRole(t, "analista")))
	assert.Equal(t, http.StatusOK, restock(tokenForRole(t, "bodeguero")))

	// Los analistas sí cargan ventas.
	req := uploadRequest(t, steadyCSV, "")
	req.Header.Set("Authorization", tokenForRole(t, "analista"))
	status, _ := do(t, env.app, req)
	assert.Equal(t, http.StatusOK, status)

	// Las lecturas siguen públicas.
	status, _ = do(t, env.app, jsonRequest(http.MethodGet, "/restock_priority", ""))
	assert.Equal(t, http.StatusOK, status)
}
