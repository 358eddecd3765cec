package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/playspot/ground-reservation/internal/model"
)

// PaymentRepo provides data access to the payments table.  Each
// booking has at most one payment row, created in the same
// transaction as the booking itself, so a pending booking always
// carries a payment intent.
type PaymentRepo struct {
    db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment row within the provided transaction and
// populates the generated ID.  Status should be CREATED; amount and
// currency must equal the booking's.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
    const q = `INSERT INTO payments (booking_id, order_ref, amount_cents, currency, status)
               VALUES (?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, p.BookingID, p.OrderRef, p.AmountCents, p.Currency, p.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

const paymentColumns = `id, booking_id, order_ref, provider_payment_id, amount_cents,
       currency, status, signature, refund_amount_cents, created_at, updated_at`

func scanPayment(scan func(dest ...interface{}) error) (*model.Payment, error) {
    var p model.Payment
    var providerID, sig sql.NullString
    err := scan(
        &p.ID, &p.BookingID, &p.OrderRef, &providerID, &p.AmountCents,
        &p.Currency, &p.Status, &sig, &p.RefundAmountCents, &p.CreatedAt, &p.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if providerID.Valid {
        s := providerID.String
        p.ProviderPaymentID = &s
    }
    if sig.Valid {
        s := sig.String
        p.Signature = &s
    }
    return &p, nil
}

// GetByBookingTx loads the payment linked to a booking with a row
// lock, so capture and refund transitions serialize with the booking
// transition they accompany.  Returns sql.ErrNoRows when the booking
// has no payment (which indicates a bug: bookings and payments are
// created together).
func (r *PaymentRepo) GetByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Payment, error) {
    row := tx.QueryRowContext(ctx,
        `SELECT `+paymentColumns+` FROM payments WHERE booking_id = ? FOR UPDATE`, bookingID)
    return scanPayment(row.Scan)
}

// GetByBooking loads the payment linked to a booking without locking.
func (r *PaymentRepo) GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+paymentColumns+` FROM payments WHERE booking_id = ?`, bookingID)
    return scanPayment(row.Scan)
}

// MarkCapturedTx records a verified capture: provider payment id and
// signature are stored and the status moves CREATED -> CAPTURED.  A
// zero row count means the payment was not in CREATED state, which
// callers treat as ErrInvalidState.
func (r *PaymentRepo) MarkCapturedTx(ctx context.Context, tx *sql.Tx, id uint64, providerPaymentID, signature string) error {
    const q = `UPDATE payments
               SET status = ?, provider_payment_id = ?, signature = ?
               WHERE id = ? AND status = ?`
    res, err := tx.ExecContext(ctx, q,
        model.PaymentCaptured, providerPaymentID, signature, id, model.PaymentCreated)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrInvalidState
    }
    return nil
}

// MarkRefundedTx records the refund obligation computed by the
// cancellation policy and moves the payment CAPTURED -> REFUNDED.
// The actual disbursement is queued separately and retried without
// touching booking or payment state again.
func (r *PaymentRepo) MarkRefundedTx(ctx context.Context, tx *sql.Tx, id uint64, refundCents uint32) error {
    const q = `UPDATE payments
               SET status = ?, refund_amount_cents = ?
               WHERE id = ? AND status = ?`
    res, err := tx.ExecContext(ctx, q, model.PaymentRefunded, refundCents, id, model.PaymentCaptured)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrInvalidState
    }
    return nil
}

// IsNoRows reports whether err is the driver's no-rows sentinel.
func IsNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
