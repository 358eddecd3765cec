package payment

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"
)

// Client talks to a provider exposing the order/refund REST surface
// (Razorpay compatible).  Requests authenticate with HTTP basic auth
// using the key id and secret; the same secret keys the callback
// signature.
type Client struct {
    baseURL   string
    keyID     string
    keySecret string
    http      *http.Client
}

// NewClient builds a Client for the given provider endpoint and key
// pair.  A bounded timeout keeps a slow provider from holding the
// reservation transaction open indefinitely.
func NewClient(baseURL, keyID, keySecret string) *Client {
    return &Client{
        baseURL:   baseURL,
        keyID:     keyID,
        keySecret: keySecret,
        http:      &http.Client{Timeout: 10 * time.Second},
    }
}

type orderRequest struct {
    Amount         uint32 `json:"amount"`
    Currency       string `json:"currency"`
    Receipt        string `json:"receipt"`
    PaymentCapture int    `json:"payment_capture"`
}

type orderResponse struct {
    ID string `json:"id"`
}

// CreateOrder registers a provider order and returns its reference.
// payment_capture=1 asks the provider to capture automatically on
// authorization; the engine still requires a verified callback
// before trusting the capture.
func (c *Client) CreateOrder(ctx context.Context, amountCents uint32, currency, receipt string) (string, error) {
    body, err := json.Marshal(orderRequest{
        Amount:         amountCents,
        Currency:       currency,
        Receipt:        receipt,
        PaymentCapture: 1,
    })
    if err != nil {
        return "", err
    }
    resp, err := c.do(ctx, http.MethodPost, "/v1/orders", body)
    if err != nil {
        return "", fmt.Errorf("create order: %w", err)
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
        return "", fmt.Errorf("create order: provider returned %s", resp.Status)
    }
    var out orderResponse
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
        return "", fmt.Errorf("create order: decode response: %w", err)
    }
    if out.ID == "" {
        return "", fmt.Errorf("create order: provider returned empty order id")
    }
    return out.ID, nil
}

// VerifySignature checks the callback signature against the key
// secret.  Pure and deterministic; see the package level helpers.
func (c *Client) VerifySignature(orderRef, paymentID, sig string) bool {
    return VerifySignature(c.keySecret, orderRef, paymentID, sig)
}

// Refund asks the provider to return amountCents of a captured
// payment.  The provider treats repeated refund calls for the same
// payment and amount as one refund.
func (c *Client) Refund(ctx context.Context, providerPaymentID string, amountCents uint32) error {
    body, err := json.Marshal(map[string]uint32{"amount": amountCents})
    if err != nil {
        return err
    }
    resp, err := c.do(ctx, http.MethodPost, "/v1/payments/"+providerPaymentID+"/refund", body)
    if err != nil {
        return fmt.Errorf("refund: %w", err)
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
        msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
        return fmt.Errorf("refund: provider returned %s: %s", resp.Status, bytes.TrimSpace(msg))
    }
    return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
    req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
    if err != nil {
        return nil, err
    }
    req.Header.Set("Content-Type", "application/json")
    req.SetBasicAuth(c.keyID, c.keySecret)
    return c.http.Do(req)
}
