package model

import "time"

// Payment tracks the provider-side order attached to a booking.  A
// payment is created in the same unit of work as its booking; a
// booking without a payment row is never persisted.  The amount and
// currency always equal the booking's at creation time.
//
// Fields:
//  ID                – primary key identifier.
//  BookingID         – linked booking (unique, one payment per booking).
//  OrderRef          – provider order identifier returned at order creation.
//  ProviderPaymentID – provider payment identifier supplied on capture (nullable).
//  AmountCents       – amount in minor units, equals booking total.
//  Currency          – ISO currency code, equals booking currency.
//  Status            – CREATED, CAPTURED, FAILED or REFUNDED.
//  Signature         – provider signature stored once verified (nullable).
//  RefundAmountCents – amount refunded on cancellation, zero otherwise.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Payment struct {
    ID                uint64    // payments.id
    BookingID         uint64    // payments.booking_id
    OrderRef          string    // payments.order_ref
    ProviderPaymentID *string   // payments.provider_payment_id (nullable)
    AmountCents       uint32    // payments.amount_cents
    Currency          string    // payments.currency
    Status            string    // payments.status
    Signature         *string   // payments.signature (nullable)
    RefundAmountCents uint32    // payments.refund_amount_cents
    CreatedAt         time.Time // payments.created_at
    UpdatedAt         time.Time // payments.updated_at
}

// Payment status values.
const (
    PaymentCreated  = "CREATED"
    PaymentCaptured = "CAPTURED"
    PaymentFailed   = "FAILED"
    PaymentRefunded = "REFUNDED"
)
