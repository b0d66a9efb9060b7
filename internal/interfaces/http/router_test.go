package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/orders"
	"github.com/jhoicas/stock-ledger-api/internal/application/reporting"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]*entity.Product
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, products []*entity.Product) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, products)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type testServer struct {
	app      *fiber.App
	authUC   *auth.AuthUseCase
	notifier *recordingNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	alerter := inventory.NewLowStockAlerter(notifier, logger.Nop())

	ledgerUC := inventory.NewLedgerUseCase(store, store.History(), alerter)
	authUC := auth.NewAuthUseCase(store.Users(), store.Tokens(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	})
	deps := apphttp.RouterDeps{
		AuthUC:     authUC,
		CategoryUC: usecase.NewCategoryUseCase(store.Categories()),
		SupplierUC: usecase.NewSupplierUseCase(store.Suppliers()),
		ProductUC:  usecase.NewProductUseCase(store.Products(), store.Categories(), store, ledgerUC, alerter),
		LedgerUC:   ledgerUC,
		OrderUC:    orders.NewOrderUseCase(store, ledgerUC, store.Orders(), alerter),
		ReportUC:   reporting.NewReportUseCase(store.Products(), store.History(), store.Reports(), alerter, nil),
		JWTSecret:  testJWTSecret,
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return &testServer{app: app, authUC: authUC, notifier: notifier}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// login registra al usuario y devuelve su token. Los admin se crean por el caso de uso,
// igual que los crea la CLI; el autorregistro HTTP solo produce staff.
func (s *testServer) login(t *testing.T, username, role string) string {
	t.Helper()
	if role == string(entity.RoleAdmin) {
		_, err := s.authUC.CreateUser(context.Background(), dto.CreateUserRequest{
			Username: username, Password: "password123", Role: role,
		})
		require.NoError(t, err)
	} else {
		status, _ := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": username, "password": "password123",
		})
		require.Equal(t, http.StatusCreated, status)
	}
	return s.loginExisting(t, username)
}

func (s *testServer) loginExisting(t *testing.T, username string) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

type productBody struct {
	ID               string `json:"id"`
	StockQuantity    int    `json:"stock_quantity"`
	IsBelowThreshold bool   `json:"is_below_threshold"`
}

type historyBody struct {
	Action          string `json:"action"`
	QuantityChanged int    `json:"quantity_changed"`
}

func TestOrderFlow_DescuentaStockYRegistraHistorial(t *testing.T) {
	s := newTestServer(t)
	staff := s.login(t, "ana", "staff")

	status, body := s.do(t, http.MethodPost, "/api/products", staff, map[string]any{
		"name": "Tornillo", "price": "2.50", "stock_quantity": 20, "threshold": 10,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	product := decode[productBody](t, body)

	status, body = s.do(t, http.MethodPost, "/api/orders", staff, map[string]any{
		"order_type": "sale",
		"items":      []map[string]any{{"product": product.ID, "quantity": 5, "price_at_purchase": "2.50"}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	order := decode[struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		TotalAmount string `json:"total_amount"`
	}](t, body)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "12.5", order.TotalAmount)

	status, body = s.do(t, http.MethodGet, "/api/products/"+product.ID, staff, nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[productBody](t, body)
	assert.Equal(t, 15, got.StockQuantity)
	assert.False(t, got.IsBelowThreshold)

	status, body = s.do(t, http.MethodGet, "/api/products/"+product.ID+"/history", staff, nil)
	require.Equal(t, http.StatusOK, status)
	history := decode[struct {
		Items []historyBody `json:"items"`
	}](t, body)
	require.Len(t, history.Items, 2)
	assert.Equal(t, historyBody{Action: "remove", QuantityChanged: -5}, history.Items[0])
	assert.Equal(t, historyBody{Action: "add", QuantityChanged: 20}, history.Items[1])
}

func TestOrderFlow_StockInsuficienteRetorna409SinCambios(t *testing.T) {
	s := newTestServer(t)
	staff := s.login(t, "ana", "staff")

	_, body := s.do(t, http.MethodPost, "/api/products", staff, map[string]any{"name": "A", "price": "1", "stock_quantity": 10})
	a := decode[productBody](t, body)
	_, body = s.do(t, http.MethodPost, "/api/products", staff, map[string]any{"name": "B", "price": "1", "stock_quantity": 2})
	b := decode[productBody](t, body)

	status, body := s.do(t, http.MethodPost, "/api/orders", staff, map[string]any{
		"order_type": "sale",
		"items": []map[string]any{
			{"product": a.ID, "quantity": 4, "price_at_purchase": "1"},
			{"product": b.ID, "quantity": 3, "price_at_purchase": "1"},
		},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")

	_, body = s.do(t, http.MethodGet, "/api/products/"+a.ID, staff, nil)
	assert.Equal(t, 10, decode[productBody](t, body).StockQuantity, "el primer ítem no debe quedar aplicado")

	_, body = s.do(t, http.MethodGet, "/api/orders", staff, nil)
	assert.Equal(t, 0, decode[struct {
		Total int `json:"total"`
	}](t, body).Total)
}

func TestOrders_OtroUsuarioRecibe403(t *testing.T) {
	s := newTestServer(t)
	owner := s.login(t, "ana", "staff")
	other := s.login(t, "beto", "staff")
	admin := s.login(t, "root", "admin")

	_, body := s.do(t, http.MethodPost, "/api/products", owner, map[string]any{"name": "A", "price": "1", "stock_quantity": 10})
	p := decode[productBody](t, body)
	_, body = s.do(t, http.MethodPost, "/api/orders", owner, map[string]any{
		"order_type": "purchase",
		"items":      []map[string]any{{"product": p.ID, "quantity": 1, "price_at_purchase": "1"}},
	})
	orderID := decode[struct {
		ID string `json:"id"`
	}](t, body).ID

	status, _ := s.do(t, http.MethodPut, "/api/orders/"+orderID, other, map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodPut, "/api/orders/"+orderID, admin, map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"completed"`)
}

func TestDelete_SoloAdmin(t *testing.T) {
	s := newTestServer(t)
	staff := s.login(t, "ana", "staff")
	admin := s.login(t, "root", "admin")

	_, body := s.do(t, http.MethodPost, "/api/categories", staff, map[string]any{"name": "Ferretería"})
	id := decode[struct {
		ID string `json:"id"`
	}](t, body).ID

	status, _ := s.do(t, http.MethodDelete, "/api/categories/"+id, staff, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodDelete, "/api/categories/"+id, admin, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestRegister_AutorregistroComoAdminQuedaStaff(t *testing.T) {
	s := newTestServer(t)
	owner := s.login(t, "ana", "staff")
	_, body := s.do(t, http.MethodPost, "/api/categories", owner, map[string]any{"name": "Ferretería"})
	id := decode[struct {
		ID string `json:"id"`
	}](t, body).ID

	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "mallory", "password": "password123", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Equal(t, "staff", decode[struct {
		Role string `json:"role"`
	}](t, body).Role)

	token := s.loginExisting(t, "mallory")
	status, _ = s.do(t, http.MethodDelete, "/api/categories/"+id, token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUsers_SoloAdminAsignaRol(t *testing.T) {
	s := newTestServer(t)
	staff := s.login(t, "ana", "staff")
	admin := s.login(t, "root", "admin")
	newUser := map[string]string{"username": "jefa", "password": "password123", "role": "admin"}

	status, _ := s.do(t, http.MethodPost, "/api/users", "", newUser)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodPost, "/api/users", staff, newUser)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.do(t, http.MethodPost, "/api/users", admin, newUser)
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Equal(t, "admin", decode[struct {
		Role string `json:"role"`
	}](t, body).Role)
}

func TestCategories_NombreDuplicadoRetorna409(t *testing.T) {
	s := newTestServer(t)
	staff := s.login(t, "ana", "staff")

	status, _ := s.do(t, http.MethodPost, "/api/categories", staff, map[string]any{"name": "Ferretería"})
	require.Equal(t, http.StatusCreated, status)
	status, body := s.do(t, http.MethodPost, "/api/categories", staff, map[string]any{"name": "ferretería"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "DUPLICATE")
}

func TestProducts_UmbralNegativoRetorna400(t *testing.T) {
	s := newTestServer(t)
	staff := s.login(t, "ana", "staff")

	status, body := s.do(t, http.MethodPost, "/api/products", staff, map[string]any{"name": "A", "price": "1", "threshold": -1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"field":"threshold"`)
}

func TestLowStock_UnaSolaNotificacion(t *testing.T) {
	s := newTestServer(t)
	staff := s.login(t, "ana", "staff")

	s.do(t, http.MethodPost, "/api/products", staff, map[string]any{"name": "A", "price": "1", "stock_quantity": 1})
	s.do(t, http.MethodPost, "/api/products", staff, map[string]any{"name": "B", "price": "1", "stock_quantity": 2})
	s.do(t, http.MethodPost, "/api/products", staff, map[string]any{"name": "C", "price": "1", "stock_quantity": 50})
	before := s.notifier.count()

	status, body := s.do(t, http.MethodGet, "/api/products/low-stock", staff, nil)
	require.Equal(t, http.StatusOK, status)
	out := decode[struct {
		Total    int  `json:"total"`
		Notified bool `json:"notified"`
	}](t, body)
	assert.Equal(t, 2, out.Total)
	assert.True(t, out.Notified)
	assert.Equal(t, before+1, s.notifier.count())
}

func TestInventoryReport_ValorYFechasInvalidas(t *testing.T) {
	s := newTestServer(t)
	staff := s.login(t, "ana", "staff")

	s.do(t, http.MethodPost, "/api/products", staff, map[string]any{"name": "A", "price": "10", "stock_quantity": 3})
	s.do(t, http.MethodPost, "/api/products", staff, map[string]any{"name": "B", "price": "5", "stock_quantity": 2})

	status, body := s.do(t, http.MethodGet, "/api/inventory/report", staff, nil)
	require.Equal(t, http.StatusOK, status)
	report := decode[struct {
		TotalInventoryValue string `json:"total_inventory_value"`
		TotalStock          int    `json:"total_stock"`
		History             []any  `json:"history"`
	}](t, body)
	assert.Equal(t, "40", report.TotalInventoryValue)
	assert.Equal(t, 5, report.TotalStock)
	assert.Len(t, report.History, 2)

	status, _ = s.do(t, http.MethodGet, "/api/inventory/report?start_date=2024-13-01", staff, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdjustments_RegistraDeltaConSigno(t *testing.T) {
	s := newTestServer(t)
	staff := s.login(t, "ana", "staff")

	_, body := s.do(t, http.MethodPost, "/api/products", staff, map[string]any{"name": "A", "price": "1", "stock_quantity": 5})
	p := decode[productBody](t, body)

	status, body := s.do(t, http.MethodPost, "/api/inventory/adjustments", staff, map[string]any{"product": p.ID, "quantity": -2})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Equal(t, historyBody{Action: "remove", QuantityChanged: -2}, decode[historyBody](t, body))

	status, _ = s.do(t, http.MethodPost, "/api/inventory/adjustments", staff, map[string]any{"product": p.ID, "quantity": -10})
	assert.Equal(t, http.StatusConflict, status)
}

func TestLogout_RevocaToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "ana", "staff")

	status, _ := s.do(t, http.MethodGet, "/api/products", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body := s.do(t, http.MethodGet, "/api/products", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(body), "SESSION_REVOKED")
}

func TestLogin_NuevoLoginReemplazaTokenAnterior(t *testing.T) {
	s := newTestServer(t)
	first := s.login(t, "ana", "staff")

	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ana", "password": "password123"})
	require.Equal(t, http.StatusOK, status)
	second := decode[struct {
		Token string `json:"token"`
	}](t, body).Token

	status, _ = s.do(t, http.MethodGet, "/api/products", first, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = s.do(t, http.MethodGet, "/api/products", second, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "ana", "staff")

	status, _ := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ana", "password": "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "nadie", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, status)
}
