package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/alumasa/almoxarifado-api/docs"
	"github.com/alumasa/almoxarifado-api/internal/application/audit"
	"github.com/alumasa/almoxarifado-api/internal/application/auth"
	"github.com/alumasa/almoxarifado-api/internal/application/backup"
	"github.com/alumasa/almoxarifado-api/internal/application/inventory"
	"github.com/alumasa/almoxarifado-api/internal/application/report"
	"github.com/alumasa/almoxarifado-api/internal/application/usecase"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/lock"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/memory"
	apphttp "github.com/alumasa/almoxarifado-api/internal/interfaces/http"
	pkgjwt "github.com/alumasa/almoxarifado-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa sobre el backend en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	adminPassword    = "admin123"
	operatorPassword = "almox123"
)

func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	adminHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	opHash, err := bcrypt.GenerateFromPassword([]byte(operatorPassword), bcrypt.MinCost)
	require.NoError(t, err)
	memory.Seed(store, string(adminHash), string(opHash), time.Now())

	loc := time.UTC
	auditSvc := audit.NewService(store.Audit(), loc)
	locker := lock.NewLocalLocker()
	txRunner := memory.NewTxRunner(store)

	deps := apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), auditSvc, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}).WithBcryptCost(bcrypt.MinCost),
		Ledger:     inventory.NewLedger(store.Items(), locker, auditSvc),
		Recorder:   inventory.NewMovementRecorder(txRunner, store.Items(), store.Suppliers(), locker, auditSvc, inventory.WithLocation(loc)),
		Reconciler: inventory.NewReconciler(store.Items(), txRunner, locker, auditSvc),
		Reports:    report.NewService(store.Items(), store.Movements(), store.Suppliers(), nil, loc),
		SupplierUC: usecase.NewSupplierUseCase(store.Suppliers(), auditSvc),
		UserUC:     usecase.NewUserUseCase(store.Users(), auditSvc).WithBcryptCost(bcrypt.MinCost),
		Audit:      auditSvc,
		Backup:     backup.NewService(store.SnapshotStore(), auditSvc, loc),
		JWTSecret:  testJWTSecret,
	}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, deps)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"username": username, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	tok, _ := decode(t, body)["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func createItem(t *testing.T, app *fiber.App, token, code string, qty int) map[string]any {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/items", token, fiber.Map{
		"code": code, "description": "Cantoneira de alumínio", "category": "Perfis",
		"location": "Pátio C", "unit": "barra", "quantity": qty, "min_quantity": 2, "unit_value": "10.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decode(t, body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Login(t *testing.T) {
	app := buildAPI(t)

	tok := login(t, app, "admin", adminPassword)
	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"username": "admin", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "UNAUTHORIZED")

	resp, body = call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	app := buildAPI(t)
	resp, _ := call(t, app, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_Health(t *testing.T) {
	app := buildAPI(t)
	resp, body := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")
}

func TestAPI_OpenAPI(t *testing.T) {
	app := buildAPI(t)
	resp, body := call(t, app, http.MethodGet, "/api/openapi.json", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decode(t, body)
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, string(body), "/api/movements/exits")
}

// ──────────────────────────────────────────────────────────────────────────────
// Itens y movimentações
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Items_CreateYDuplicado(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "almoxarife", operatorPassword)

	item := createItem(t, app, tok, "CNT-300", 10)
	assert.Equal(t, "10", item["quantity"])
	assert.Equal(t, "100", item["total_value"])

	resp, body := call(t, app, http.MethodPost, "/api/items", tok, fiber.Map{
		"code": "cnt-300", "description": "Outra", "category": "Perfis",
		"location": "Pátio C", "unit": "barra", "quantity": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "DUPLICATE_CODE")

	resp, body = call(t, app, http.MethodGet, "/api/items/code/CNT-300", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, item["id"], decode(t, body)["id"])
}

func TestAPI_Items_SinCantidadInicial_Retorna400(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "admin", adminPassword)

	resp, body := call(t, app, http.MethodPost, "/api/items", tok, fiber.Map{
		"code": "X-1", "description": "Sem quantidade", "category": "c", "location": "l", "unit": "un",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")
}

func TestAPI_Movements_EntradaYSalida(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "almoxarife", operatorPassword)
	item := createItem(t, app, tok, "CNT-301", 5)
	id := item["id"].(string)

	resp, body := call(t, app, http.MethodPost, "/api/movements/entries", tok, fiber.Map{
		"item_code": "CNT-301", "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "entry", decode(t, body)["direction"])

	resp, body = call(t, app, http.MethodPost, "/api/movements/exits", tok, fiber.Map{
		"item_id": id, "quantity": 100, "requester": "Produção", "responsible": "João",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")

	resp, body = call(t, app, http.MethodPost, "/api/movements/exits", tok, fiber.Map{
		"item_id": id, "quantity": 8, "requester": "Produção", "responsible": "João",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodGet, "/api/items/"+id, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode(t, body)
	assert.Equal(t, "0", got["quantity"])
	assert.Equal(t, true, got["low_stock"])

	resp, body = call(t, app, http.MethodGet, "/api/movements?item_id="+id, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "CNT-301")
}

func TestAPI_Movements_SalidaSinSolicitante_Retorna400(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "almoxarife", operatorPassword)
	item := createItem(t, app, tok, "CNT-302", 5)

	resp, _ := call(t, app, http.MethodPost, "/api/movements/exits", tok, fiber.Map{
		"item_id": item["id"], "quantity": 1, "responsible": "João",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contagem de inventário
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Count_FlujoCompleto(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "almoxarife", operatorPassword)
	item := createItem(t, app, tok, "CNT-400", 10)
	id := item["id"].(string)

	resp, body := call(t, app, http.MethodPost, "/api/counts", tok, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	sessionID := decode(t, body)["id"].(string)

	resp, body = call(t, app, http.MethodPut, "/api/counts/"+sessionID+"/items/"+id, tok, fiber.Map{"value": "7"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodGet, "/api/counts/"+sessionID+"/summary?search=CNT-400", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	sum := decode(t, body)
	assert.EqualValues(t, 1, sum["counted_items"])
	assert.EqualValues(t, 1, sum["divergence_count"])
	assert.Equal(t, "-30", sum["total_adjustment_value"])

	resp, _ = call(t, app, http.MethodPost, "/api/counts/"+sessionID+"/commit", tok, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "commit exige revisão prévia")

	resp, body = call(t, app, http.MethodPost, "/api/counts/"+sessionID+"/confirm", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodPost, "/api/counts/"+sessionID+"/commit", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodGet, "/api/items/"+id, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "7", decode(t, body)["quantity"])

	resp, _ = call(t, app, http.MethodGet, "/api/counts/"+sessionID, tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "la sesión se elimina tras confirmar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Relatórios, perfis y admin
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Reports_StockCSV(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "admin", adminPassword)

	resp, body := call(t, app, http.MethodGet, "/api/reports/stock.csv", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "estoque.csv")
	assert.Contains(t, string(body), "PAR-001")
}

func TestAPI_Reports_PDFSinRenderer_Retorna503(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "admin", adminPassword)

	resp, body := call(t, app, http.MethodGet, "/api/reports/stock.pdf", tok, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "PDF_UNAVAILABLE")
}

func TestAPI_Reports_LowStock(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "almoxarife", operatorPassword)

	resp, body := call(t, app, http.MethodGet, "/api/reports/low-stock", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// SIL-040 y EPI-100 del catálogo inicial están bajo el mínimo.
	assert.Contains(t, string(body), "SIL-040")
	assert.Contains(t, string(body), "EPI-100")
	assert.NotContains(t, string(body), "PAR-001")
}

func TestAPI_Consulta_NoPuedeEscribir(t *testing.T) {
	app := buildAPI(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "visitante", "consulta", testIssuer, testExpMin)
	require.NoError(t, err)

	resp, _ := call(t, app, http.MethodGet, "/api/items", tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := call(t, app, http.MethodPost, "/api/items", tok, fiber.Map{"code": "Z"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestAPI_Almoxarife_SinAccesoAdmin(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "almoxarife", operatorPassword)

	for _, path := range []string{"/api/users", "/api/audit", "/api/backup"} {
		resp, _ := call(t, app, http.MethodGet, path, tok, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestAPI_Backup_ExportYRestore(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "admin", adminPassword)

	resp, snapshot := call(t, app, http.MethodGet, "/api/backup", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "almoxarifado-backup.json")

	createItem(t, app, tok, "TMP-001", 1)

	req := httptest.NewRequest(http.MethodPost, "/api/backup/restore", bytes.NewReader(snapshot))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	restore, err := app.Test(req, -1)
	require.NoError(t, err)
	restore.Body.Close()
	require.Equal(t, http.StatusOK, restore.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/items/code/TMP-001", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "restore substitui o estado inteiro")

	req = httptest.NewRequest(http.MethodPost, "/api/backup/restore", bytes.NewReader([]byte(`{"items":"x"}`)))
	req.Header.Set("Authorization", "Bearer "+tok)
	bad, err := app.Test(req, -1)
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestAPI_Audit_RegistraLogin(t *testing.T) {
	app := buildAPI(t)
	tok := login(t, app, "admin", adminPassword)

	resp, body := call(t, app, http.MethodGet, "/api/audit?action=auth.login", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "admin")
}
