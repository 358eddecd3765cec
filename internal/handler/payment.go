package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/playspot/ground-reservation/internal/booking"
    "github.com/playspot/ground-reservation/internal/model"
    "github.com/playspot/ground-reservation/internal/payment"
    "github.com/playspot/ground-reservation/internal/queue"
    "github.com/playspot/ground-reservation/internal/repository"
    queue_publisher "github.com/playspot/ground-reservation/internal/service"
)

// PaymentHandler verifies provider payment callbacks and flips
// bookings from PENDING to CONFIRMED.
type PaymentHandler struct {
    BookingRepo *repository.BookingRepo
    PaymentRepo *repository.PaymentRepo
    Gateway     payment.Gateway
    HoldWindow  time.Duration
}

// NewPaymentHandler constructs a PaymentHandler.  All dependencies
// must be non-nil.
func NewPaymentHandler(bookings *repository.BookingRepo, payments *repository.PaymentRepo, gw payment.Gateway, holdWindow time.Duration) *PaymentHandler {
    if bookings == nil || payments == nil || gw == nil {
        panic("nil dependency passed to NewPaymentHandler")
    }
    return &PaymentHandler{BookingRepo: bookings, PaymentRepo: payments, Gateway: gw, HoldWindow: holdWindow}
}

type verifyPaymentReq struct {
    BookingID uint64 `json:"booking_id"`
    OrderID   string `json:"order_id"`
    PaymentID string `json:"payment_id"`
    Signature string `json:"signature"`
}

// VerifyPayment handles POST /v1/payments/verify.  The client posts
// the provider's order id, payment id and signature after checkout;
// a valid signature confirms the booking and captures the payment in
// one transaction.  The endpoint is idempotent: re-posting the same
// verified payment returns 200 without side effects.  A signature
// mismatch leaves the booking PENDING so the client can retry within
// the hold window, while verification against an already expired hold
// records the expiry and returns 409.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body verifyPaymentReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.OrderID = strings.TrimSpace(body.OrderID)
    body.PaymentID = strings.TrimSpace(body.PaymentID)
    body.Signature = strings.TrimSpace(body.Signature)
    if body.BookingID == 0 || body.OrderID == "" || body.PaymentID == "" || body.Signature == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id, order_id, payment_id and signature are required"})
    }

    ctx := c.Request().Context()
    tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    b, err := h.BookingRepo.GetForUpdateTx(ctx, tx, body.BookingID)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
    }
    if b.UserID != userID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    pay, err := h.PaymentRepo.GetByBookingTx(ctx, tx, b.ID)
    if err != nil {
        if repository.IsNoRows(err) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no payment for booking"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payment"})
    }

    // idempotent replay of a verification that already succeeded
    if b.Status == booking.StatusConfirmed && pay.Status == model.PaymentCaptured {
        return c.JSON(http.StatusOK, echo.Map{
            "booking_id": b.ID,
            "status":     booking.StatusConfirmed,
        })
    }
    if b.Status != booking.StatusPending {
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not awaiting payment"})
    }

    now := time.Now().UTC()
    if booking.EffectiveStatus(b.Status, b.CreatedAt, h.HoldWindow, now) == booking.StatusExpired {
        if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, booking.StatusPending, booking.StatusExpired, nil); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
        }
        if err := tx.Commit(); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
        }
        committed = true
        return c.JSON(http.StatusConflict, echo.Map{"error": "payment hold expired"})
    }

    if body.OrderID != pay.OrderRef || !h.Gateway.VerifySignature(body.OrderID, body.PaymentID, body.Signature) {
        // leave the booking pending; the client may retry with the
        // correct parameters until the hold expires
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment verification failed"})
    }

    if err := h.PaymentRepo.MarkCapturedTx(ctx, tx, pay.ID, body.PaymentID, body.Signature); err != nil {
        if errors.Is(err, repository.ErrInvalidState) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "payment state changed, retry"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to capture payment"})
    }
    if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, booking.StatusPending, booking.StatusConfirmed, nil); err != nil {
        if errors.Is(err, repository.ErrInvalidState) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "booking state changed, retry"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
    }
    courts, err := h.BookingRepo.CourtIDsTx(ctx, tx, b.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking courts"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    _ = queue_publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
        BookingID:        b.ID,
        UserID:           b.UserID,
        GroundID:         b.GroundID,
        Sport:            b.Sport,
        PlayDate:         b.PlayDate.Format(booking.DateLayout),
        StartHour:        b.StartHour,
        EndHour:          b.StartHour + b.DurationHours,
        CourtIDs:         courts,
        TotalAmountCents: b.TotalAmountCents,
        Currency:         b.Currency,
        ConfirmedAt:      now.Format(time.RFC3339),
    })

    return c.JSON(http.StatusOK, echo.Map{
        "booking_id": b.ID,
        "status":     booking.StatusConfirmed,
    })
}
