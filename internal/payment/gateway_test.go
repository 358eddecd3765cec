package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignatureDeterministic(t *testing.T) {
	a := Signature("secret", "order_1", "pay_1")
	b := Signature("secret", "order_1", "pay_1")
	if a != b {
		t.Fatalf("same inputs produced different signatures: %s vs %s", a, b)
	}
	if len(a) != 64 { // hex encoded SHA-256
		t.Fatalf("signature length = %d, want 64", len(a))
	}
}

func TestSignatureSensitivity(t *testing.T) {
	base := Signature("secret", "order_1", "pay_1")
	variants := []struct {
		name                       string
		secret, orderRef, payID    string
	}{
		{"different secret", "secre7", "order_1", "pay_1"},
		{"different order", "secret", "order_2", "pay_1"},
		{"different payment", "secret", "order_1", "pay_2"},
	}
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			if Signature(v.secret, v.orderRef, v.payID) == base {
				t.Error("altered input produced identical signature")
			}
		})
	}
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("secret", "order_1", "pay_1")
	if !VerifySignature("secret", "order_1", "pay_1", sig) {
		t.Error("valid signature rejected")
	}
	if VerifySignature("secret", "order_1", "pay_1", sig[:len(sig)-1]+"0") {
		t.Error("tampered signature accepted")
	}
	if VerifySignature("secret", "order_1", "pay_1", "") {
		t.Error("empty signature accepted")
	}
}

func TestClientCreateOrder(t *testing.T) {
	var got orderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "key" || pass != "secret" {
			t.Errorf("missing or wrong basic auth (%s:%s)", user, pass)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "order_abc123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret")
	id, err := c.CreateOrder(context.Background(), 1200, "INR", "rcpt-1")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if id != "order_abc123" {
		t.Errorf("order id = %s, want order_abc123", id)
	}
	if got.Amount != 1200 || got.Currency != "INR" || got.Receipt != "rcpt-1" {
		t.Errorf("order payload = %+v", got)
	}
	if got.PaymentCapture != 1 {
		t.Error("order did not request auto-capture")
	}
}

func TestClientCreateOrderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret")
	if _, err := c.CreateOrder(context.Background(), 1200, "INR", "rcpt-1"); err == nil {
		t.Fatal("CreateOrder succeeded against failing provider, want error")
	}
}

func TestClientRefund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/pay_9/refund" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]uint32
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["amount"] != 600 {
			t.Errorf("refund amount = %d, want 600", body["amount"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret")
	if err := c.Refund(context.Background(), "pay_9", 600); err != nil {
		t.Fatalf("Refund: %v", err)
	}
}
