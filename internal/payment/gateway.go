// Package payment adapts the external payment provider.  The core
// only depends on the Gateway interface: create an order for a
// pending booking, verify the capture signature the provider sends
// back, and issue refunds.  Signature verification is a keyed hash
// over "orderRef|paymentID" compared in constant time, so it can be
// checked locally without a provider round trip.
package payment

import (
    "context"
    "crypto/hmac"
    "crypto/sha256"
    "encoding/hex"
)

// Gateway is the contract the booking engine has with the payment
// provider.  All operations are safe to retry: creating an order
// twice for the same receipt yields independent orders (the caller
// persists at most one), verification is a pure function, and
// provider refunds are idempotent per payment.
type Gateway interface {
    // CreateOrder registers an order for the given amount in minor
    // units and returns the provider's order reference.  Orders are
    // created with auto-capture requested; confirmation still waits
    // for an explicitly verified callback.
    CreateOrder(ctx context.Context, amountCents uint32, currency, receipt string) (string, error)
    // VerifySignature reports whether sig is the provider's valid
    // signature for the (orderRef, paymentID) pair.
    VerifySignature(orderRef, paymentID, sig string) bool
    // Refund returns amountCents of a captured payment to the payer.
    Refund(ctx context.Context, providerPaymentID string, amountCents uint32) error
}

// Signature computes the expected provider signature for an order
// and payment id pair: hex encoded HMAC-SHA256 over
// "orderRef|paymentID" keyed with the shared secret.
func Signature(secret, orderRef, paymentID string) string {
    mac := hmac.New(sha256.New, []byte(secret))
    mac.Write([]byte(orderRef + "|" + paymentID))
    return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the supplied signature with the expected
// one byte for byte in constant time.
func VerifySignature(secret, orderRef, paymentID, sig string) bool {
    expected := Signature(secret, orderRef, paymentID)
    return hmac.Equal([]byte(expected), []byte(sig))
}
