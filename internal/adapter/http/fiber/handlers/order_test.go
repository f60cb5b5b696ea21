package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/adapter/http/fiber/middleware"
	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/mocks"
	"github.com/logdeltra/delivery-api/internal/ports"
)

func newOrderApp(svc ports.OrderService, principal *domain.User) *fiber.App {
	authService := &mocks.MockAuthService{
		AuthenticateFunc: func(ctx context.Context, token string) (*domain.User, error) {
			if token != "good" {
				return nil, domain.ErrInvalidToken
			}
			return principal, nil
		},
	}
	h := NewOrderHandler(svc, zap.NewNop())

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
	app.Post("/order/create", middleware.AuthRequired(authService), h.Create)
	app.Post("/order/update", middleware.AuthRequired(authService), h.Update)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestOrderHandler_Create(t *testing.T) {
	principal := &domain.User{ID: "user-1", EmailID: "store@b.com", Role: domain.RoleStore}

	var gotPrincipal *domain.User
	var gotReq ports.CreateOrderRequest
	svc := &mocks.MockOrderService{
		CreateOrderFunc: func(ctx context.Context, p *domain.User, req ports.CreateOrderRequest) (*domain.Order, error) {
			gotPrincipal, gotReq = p, req
			return &domain.Order{OrderID: "order-42", Status: domain.OrderStatusQueued}, nil
		},
	}
	app := newOrderApp(svc, principal)

	status, body := post(t, app, "/order/create",
		`{"emailId":"c@b.com","items":[{"name":"rice","quantity":2,"price":1.5}],"dropAddressNo":0,"storeAddressNo":7}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected status 200, got %d (%v)", status, body)
	}
	if body["orderId"] != "order-42" || body["message"] != "Order placed" {
		t.Errorf("unexpected body %v", body)
	}

	if gotPrincipal != principal {
		t.Errorf("expected the authenticated user to be passed as principal")
	}
	if gotReq.CustomerEmail != "c@b.com" || len(gotReq.Items) != 1 || gotReq.Items[0].Quantity != 2 {
		t.Errorf("unexpected request %+v", gotReq)
	}
	if gotReq.DropAddressNo != 0 {
		t.Errorf("expected drop address 0, got %d", gotReq.DropAddressNo)
	}
	if gotReq.StoreAddressNo == nil || *gotReq.StoreAddressNo != 7 {
		t.Errorf("expected store address 7, got %v", gotReq.StoreAddressNo)
	}
}

func TestOrderHandler_CreateValidation(t *testing.T) {
	called := false
	svc := &mocks.MockOrderService{
		CreateOrderFunc: func(ctx context.Context, p *domain.User, req ports.CreateOrderRequest) (*domain.Order, error) {
			called = true
			return nil, nil
		},
	}
	app := newOrderApp(svc, &domain.User{ID: "user-1", Role: domain.RoleCustomer})

	status, body := post(t, app, "/order/create", `{"emailId":"c@b.com","items":[]}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected status 400, got %d (%v)", status, body)
	}
	if body["message"] != "Validation failed" {
		t.Errorf("unexpected body %v", body)
	}
	if called {
		t.Error("service must not be called for an invalid body")
	}
}

func TestOrderHandler_Update(t *testing.T) {
	var gotID string
	svc := &mocks.MockOrderService{
		UpdateOrderFunc: func(ctx context.Context, orderID string, updates map[string]interface{}) (*domain.Order, error) {
			gotID = orderID
			if orderID == "missing" {
				return nil, domain.ErrOrderNotFound
			}
			return nil, domain.ErrOrderUpdateUnsupported
		},
	}
	app := newOrderApp(svc, &domain.User{ID: "user-1", Role: domain.RoleCustomer})

	status, _ := post(t, app, "/order/update", `{"orderId":"missing","updates":{"status":"fulfilled"}}`)
	if status != fiber.StatusNotFound {
		t.Errorf("expected status 404, got %d", status)
	}

	status, body := post(t, app, "/order/update", `{"orderId":"order-42","updates":{"status":"fulfilled"}}`)
	if status != fiber.StatusNotImplemented {
		t.Errorf("expected status 501, got %d", status)
	}
	if body["message"] != "Order updates are not supported yet" {
		t.Errorf("unexpected body %v", body)
	}
	if gotID != "order-42" {
		t.Errorf("expected order id to reach the service, got %q", gotID)
	}

	status, _ = post(t, app, "/order/update", `{"updates":{}}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("expected status 400 without orderId, got %d", status)
	}
}
