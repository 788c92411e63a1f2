package controllers_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-entob/app/controllers"
	"github.com/km-arc/go-entob/app/providers"
	"github.com/km-arc/go-entob/app/services"
	"github.com/km-arc/go-entob/framework/container"
	"github.com/km-arc/go-entob/framework/routing"
)

func newServer(t *testing.T) *routing.Router {
	t.Helper()
	ledger, err := container.Get[*services.Ledger](providers.Ledger)
	require.NoError(t, err)

	r := routing.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.Prefix("/api/v1", controllers.NewPaymentController(ledger).Routes)
	return r
}

func send(t *testing.T, r http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Data    map[string]any      `json:"data"`
	Errors  map[string][]string `json:"errors"`
	Message string              `json:"message"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e), rr.Body.String())
	return e
}

func TestMoney_Normalizes(t *testing.T) {
	rr := send(t, newServer(t), http.MethodPost, "/api/v1/money", "application/json",
		`{"amount":"35.125","currency":"usd"}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, map[string]any{"amount": "35.13", "currency": "USD"}, decode(t, rr).Data)
}

func TestMoney_ValidationErrors(t *testing.T) {
	rr := send(t, newServer(t), http.MethodPost, "/api/v1/money", "application/json",
		`{"amount":"12","currency":"GBP"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, []string{"The selected currency is invalid."}, decode(t, rr).Errors["currency"])
}

func TestMoney_EmptyBody(t *testing.T) {
	rr := send(t, newServer(t), http.MethodPost, "/api/v1/money", "application/json", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMoney_BodyTooLarge(t *testing.T) {
	body := `{"amount":"1","currency":"USD","note":"` + strings.Repeat("x", 32<<20) + `"}`
	rr := send(t, newServer(t), http.MethodPost, "/api/v1/money", "application/json", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestStoreAndShow(t *testing.T) {
	srv := newServer(t)
	rr := send(t, srv, http.MethodPost, "/api/v1/payments", "application/json",
		`{"money":{"amount":10,"currency":"EUR"},"tags":["rent"],"description":" March "}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := decode(t, rr).Data
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "March", created["description"])
	assert.NotContains(t, created, "ledger")

	rr = send(t, srv, http.MethodGet, "/api/v1/payments/"+id, "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created, decode(t, rr).Data)
}

func TestStore_YAMLBodyAndResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments",
		strings.NewReader("money:\n  amount: 7\n  currency: RUB\nstatus: settled\n"))
	req.Header.Set("Content-Type", "application/yaml")
	req.Header.Set("Accept", "application/yaml")
	rr := httptest.NewRecorder()
	newServer(t).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var body struct {
		Data struct {
			Status string            `yaml:"status"`
			Money  map[string]string `yaml:"money"`
		} `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "settled", body.Data.Status)
	assert.Equal(t, map[string]string{"amount": "7.00", "currency": "RUB"}, body.Data.Money)
}

func TestStore_DuplicateID(t *testing.T) {
	srv := newServer(t)
	body := `{"id":"6f1c1f5e-2f4b-4b0e-9a53-3c2f0d9f2a11","money":{"amount":"1","currency":"USD"}}`

	require.Equal(t, http.StatusCreated, send(t, srv, http.MethodPost, "/api/v1/payments", "application/json", body).Code)
	rr := send(t, srv, http.MethodPost, "/api/v1/payments", "application/json", body)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestStore_FormInput(t *testing.T) {
	rr := send(t, newServer(t), http.MethodPost, "/api/v1/payments",
		"application/x-www-form-urlencoded", "status=failed&tags=a&tags=b")

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, []string{"The money field is required."}, decode(t, rr).Errors["money"])
}

func TestIndex(t *testing.T) {
	srv := newServer(t)
	for _, body := range []string{
		`{"money":{"amount":"1","currency":"USD"},"status":"failed"}`,
		`{"money":{"amount":"2","currency":"USD"},"status":"failed"}`,
	} {
		require.Equal(t, http.StatusCreated, send(t, srv, http.MethodPost, "/api/v1/payments", "application/json", body).Code)
	}

	rr := send(t, srv, http.MethodGet, "/api/v1/payments?status=failed&limit=1", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	data := decode(t, rr).Data
	assert.EqualValues(t, 1, data["count"])
	payments, _ := data["payments"].([]any)
	require.Len(t, payments, 1)
	assert.Equal(t, "failed", payments[0].(map[string]any)["status"])
	assert.Contains(t, data, "totals")
}

func TestIndex_InvalidQuery(t *testing.T) {
	rr := send(t, newServer(t), http.MethodGet, "/api/v1/payments?status=lost&limit=0", "", "")

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	errs := decode(t, rr).Errors
	assert.Contains(t, errs, "status")
	assert.Contains(t, errs, "limit")
}

func TestShow_NotFound(t *testing.T) {
	rr := send(t, newServer(t), http.MethodGet, "/api/v1/payments/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Payment not found.", decode(t, rr).Message)
}
