package order

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New()
	app.Post("/api/orders", CreateOrderHandler(svc))
	app.Get("/api/orders/:id", GetOrderHandler(svc))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestCreateOrderEndpointCreated(t *testing.T) {
	svc, _, _ := newTestService(nil)
	app := newTestApp(svc)

	status, body := postJSON(t, app, "/api/orders",
		`{"products":[{"product_id":1,"quantity":2}]}`)

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, float64(1), body["id"])
	products := body["products"].([]interface{})
	require.Len(t, products, 1)
}

func TestCreateOrderEndpointInsufficientStock(t *testing.T) {
	svc, _, _ := newTestService(map[uint]bool{1: true})
	app := newTestApp(svc)

	status, body := postJSON(t, app, "/api/orders",
		`{"products":[{"product_id":1,"quantity":52}]}`)

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, float64(0), first["index"])
	assert.Equal(t, "Insufficient stock for some ingredients for the product: 1", first["message"])
}

func TestCreateOrderEndpointShapeErrors(t *testing.T) {
	svc, _, _ := newTestService(nil)
	app := newTestApp(svc)

	status, body := postJSON(t, app, "/api/orders",
		`{"products":[{"product_id":1,"quantity":0}]}`)

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := body["errors"].([]interface{})
	require.NotEmpty(t, errs)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "quantity", first["field"])
	assert.Equal(t, float64(0), first["index"])
}

func TestCreateOrderEndpointEmptyProducts(t *testing.T) {
	svc, _, _ := newTestService(nil)
	app := newTestApp(svc)

	status, _ := postJSON(t, app, "/api/orders", `{"products":[]}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestGetOrderEndpoint(t *testing.T) {
	svc, _, _ := newTestService(nil)
	app := newTestApp(svc)

	status, created := postJSON(t, app, "/api/orders",
		`{"products":[{"product_id":1,"quantity":3}]}`)
	require.Equal(t, fiber.StatusCreated, status)

	req := httptest.NewRequest("GET", "/api/orders/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var fetched map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fetched))
	assert.Equal(t, created["id"], fetched["id"])
}
