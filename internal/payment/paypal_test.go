package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakePayPal emulates the two endpoints the client touches: the OAuth
// token grant and the v2 checkout orders resource.
func fakePayPal(t *testing.T, tokenCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body struct {
			Intent        string `json:"intent"`
			PurchaseUnits []struct {
				Amount struct {
					CurrencyCode string `json:"currency_code"`
					Value        string `json:"value"`
				} `json:"amount"`
			} `json:"purchase_units"`
		}
		// This runs on the server goroutine, so report with Errorf
		// instead of require's FailNow.
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode order request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.Intent != "CAPTURE" {
			t.Errorf("intent = %q, want CAPTURE", body.Intent)
		}
		if len(body.PurchaseUnits) != 1 {
			t.Errorf("purchase_units = %d, want 1", len(body.PurchaseUnits))
		} else {
			amt := body.PurchaseUnits[0].Amount
			if amt.CurrencyCode != "PHP" || amt.Value != "350.00" {
				t.Errorf("amount = %s %s, want PHP 350.00", amt.CurrencyCode, amt.Value)
			}
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "ORDER-42",
			"status": "CREATED",
		})
	})
	mux.HandleFunc("/v2/checkout/orders/ORDER-42/capture", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "ORDER-42",
			"status": "COMPLETED",
			"purchase_units": []map[string]interface{}{
				{"payments": map[string]interface{}{
					"captures": []map[string]interface{}{
						{"id": "CAP-77", "status": "COMPLETED"},
					},
				}},
			},
		})
	})
	return httptest.NewServer(mux)
}

func TestCreateAndCaptureOrder(t *testing.T) {
	var tokenCalls int32
	srv := fakePayPal(t, &tokenCalls)
	defer srv.Close()

	p := NewPayPal(srv.URL, "client-id", "client-secret")
	ctx := context.Background()

	order, err := p.CreateOrder(ctx, 350, "PHP")
	require.NoError(t, err)
	require.Equal(t, "ORDER-42", order.ID)
	require.Equal(t, "CREATED", order.Status)

	captured, err := p.CaptureOrder(ctx, "ORDER-42")
	require.NoError(t, err)
	require.Equal(t, "CAP-77", captured.CaptureID)
	require.Equal(t, "COMPLETED", captured.Status)

	// The OAuth token is cached across calls.
	require.EqualValues(t, 1, atomic.LoadInt32(&tokenCalls))
}

func TestMissingCredentials(t *testing.T) {
	p := NewPayPal("https://api-m.sandbox.paypal.com", "", "")
	_, err := p.CreateOrder(context.Background(), 100, "PHP")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestWrongCredentials(t *testing.T) {
	var tokenCalls int32
	srv := fakePayPal(t, &tokenCalls)
	defer srv.Close()

	p := NewPayPal(srv.URL, "client-id", "oops")
	_, err := p.CreateOrder(context.Background(), 100, "PHP")
	require.ErrorIs(t, err, ErrGateway)
}

func TestGatewayErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "test-token",
				"expires_in":   3600,
			})
			return
		}
		http.Error(w, `{"name":"UNPROCESSABLE_ENTITY"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	p := NewPayPal(srv.URL, "client-id", "client-secret")
	_, err := p.CreateOrder(context.Background(), 100, "PHP")
	require.True(t, errors.Is(err, ErrGateway))
}

func TestCaptureResponseWithoutCaptureID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "test-token",
				"expires_in":   3600,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ORDER-1", "status": "COMPLETED"})
	}))
	defer srv.Close()

	p := NewPayPal(srv.URL, "client-id", "client-secret")
	_, err := p.CaptureOrder(context.Background(), "ORDER-1")
	require.ErrorIs(t, err, ErrGateway)
}
