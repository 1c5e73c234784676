package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// PayPal implements Gateway against the PayPal REST v2 checkout API.  It
// authenticates with client credentials and caches the bearer token until
// shortly before expiry.  Every call carries a bounded timeout so a slow
// gateway cannot pin a request handler.
type PayPal struct {
	baseURL  string
	clientID string
	secret   string
	httpc    *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewPayPal returns a PayPal gateway client.  baseURL selects sandbox or
// live.  Empty credentials are allowed; calls then fail with
// ErrNotConfigured so deployments without payments still boot.
func NewPayPal(baseURL, clientID, secret string) *PayPal {
	return &PayPal{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		secret:   secret,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

// accessToken returns a cached OAuth token, refreshing it via the
// client-credentials grant when missing or about to expire.
func (p *PayPal) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" && time.Now().Before(p.tokenExp) {
		return p.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request: %v", ErrGateway, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned %d", ErrGateway, resp.StatusCode)
	}
	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: token decode: %v", ErrGateway, err)
	}
	p.token = body.AccessToken
	// Refresh a minute early to avoid using a token at the edge of expiry.
	p.tokenExp = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - time.Minute)
	return p.token, nil
}

func (p *PayPal) call(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	if p.clientID == "" || p.secret == "" {
		return ErrNotConfigured
	}
	tok, err := p.accessToken(ctx)
	if err != nil {
		return err
	}
	var rd io.Reader
	if payload != nil {
		bs, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		rd = strings.NewReader(string(bs))
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrGateway, method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned %d", ErrGateway, method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrGateway, err)
		}
	}
	return nil
}

// orderResp covers both the create and capture responses; the capture
// response nests the capture id under purchase_units.payments.captures.
type orderResp struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CreateOrder creates a CAPTURE-intent order for the given amount.
func (p *PayPal) CreateOrder(ctx context.Context, amount float64, currency string) (Order, error) {
	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{"amount": map[string]string{
				"currency_code": currency,
				"value":         fmt.Sprintf("%.2f", amount),
			}},
		},
	}
	var resp orderResp
	if err := p.call(ctx, http.MethodPost, "/v2/checkout/orders", payload, &resp); err != nil {
		return Order{}, err
	}
	if resp.ID == "" {
		return Order{}, fmt.Errorf("%w: order response missing id", ErrGateway)
	}
	return Order{ID: resp.ID, Status: resp.Status}, nil
}

// CaptureOrder finalizes the payment for a previously created order and
// returns the gateway capture reference.
func (p *PayPal) CaptureOrder(ctx context.Context, orderID string) (Capture, error) {
	var resp orderResp
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	if err := p.call(ctx, http.MethodPost, path, struct{}{}, &resp); err != nil {
		return Capture{}, err
	}
	for _, pu := range resp.PurchaseUnits {
		for _, cpt := range pu.Payments.Captures {
			return Capture{CaptureID: cpt.ID, Status: cpt.Status}, nil
		}
	}
	return Capture{}, fmt.Errorf("%w: capture response missing capture id", ErrGateway)
}
