// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when payment verification flips a
// booking to CONFIRMED. It contains enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type BookingConfirmedEvent struct {
    BookingID        uint64   `json:"booking_id"`
    UserID           uint64   `json:"user_id"`
    GroundID         uint64   `json:"ground_id"`
    Sport            string   `json:"sport"`
    PlayDate         string   `json:"play_date"`
    StartHour        int      `json:"start_hour"`
    EndHour          int      `json:"end_hour"`
    CourtIDs         []uint64 `json:"court_ids"`
    TotalAmountCents uint32   `json:"total_amount_cents"`
    Currency         string   `json:"currency"`
    ConfirmedAt      string   `json:"confirmed_at"`
}

// RefundRequestedEvent is published when a cancellation leaves a
// refund owed on a captured payment. The refund worker consumes it
// and calls the payment provider; the cancelled state never waits on
// that call.
type RefundRequestedEvent struct {
    BookingID         uint64 `json:"booking_id"`
    PaymentID         uint64 `json:"payment_id"`
    ProviderPaymentID string `json:"provider_payment_id"`
    AmountCents       uint32 `json:"amount_cents"`
    Currency          string `json:"currency"`
    Reason            string `json:"reason"`
    RequestedAt       string `json:"requested_at"`
}
