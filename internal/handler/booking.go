package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/playspot/ground-reservation/internal/booking"
    "github.com/playspot/ground-reservation/internal/model"
    "github.com/playspot/ground-reservation/internal/payment"
    "github.com/playspot/ground-reservation/internal/queue"
    "github.com/playspot/ground-reservation/internal/repository"
    queue_publisher "github.com/playspot/ground-reservation/internal/service"
)

// BookingHandler groups the repositories and collaborators required
// to create, list and cancel bookings.  All methods assume JWT
// authentication and role validation has been performed by
// middleware.  Reservation creation runs its conflict check and
// insert inside one transaction so concurrent requests for the same
// interval serialize; see BookingRepo.ConflictingCourtsTx.
type BookingHandler struct {
    GroundRepo  *repository.GroundRepo  // ground catalog reads
    CourtRepo   *repository.CourtRepo   // court membership checks
    BookingRepo *repository.BookingRepo // booking persistence
    PaymentRepo *repository.PaymentRepo // payment intent persistence
    Gateway     payment.Gateway         // provider order creation
    HoldWindow  time.Duration           // how long a pending booking holds its slot
    Policy      booking.RefundPolicy    // refund fractions on cancellation
}

// NewBookingHandler constructs a BookingHandler.  All dependencies
// must be non-nil.
func NewBookingHandler(grounds *repository.GroundRepo, courts *repository.CourtRepo, bookings *repository.BookingRepo, payments *repository.PaymentRepo, gw payment.Gateway, holdWindow time.Duration, policy booking.RefundPolicy) *BookingHandler {
    if grounds == nil || courts == nil || bookings == nil || payments == nil || gw == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{
        GroundRepo:  grounds,
        CourtRepo:   courts,
        BookingRepo: bookings,
        PaymentRepo: payments,
        Gateway:     gw,
        HoldWindow:  holdWindow,
        Policy:      policy,
    }
}

type createBookingReq struct {
    GroundID      uint64   `json:"ground_id"`
    CourtIDs      []uint64 `json:"court_ids"`
    Sport         string   `json:"sport"`
    Date          string   `json:"date"` // YYYY-MM-DD
    StartHour     int      `json:"start_hour"`
    DurationHours int      `json:"duration_hours"`
    Players       int      `json:"players"`
}

// CreateBooking handles POST /v1/bookings.  It validates the request
// against the ground's calendar, reserves the court set with a
// PENDING booking and creates the provider payment order, all as one
// unit of work.  If order creation fails the transaction rolls back
// and no booking is persisted.  On success it returns 201 with the
// booking id, the fixed total and the order reference the client
// completes payment against.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body createBookingReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    date, err := time.ParseInLocation(booking.DateLayout, strings.TrimSpace(body.Date), time.UTC)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    dateStr := date.Format(booking.DateLayout)
    sport := strings.ToUpper(strings.TrimSpace(body.Sport))
    if sport == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "sport is required"})
    }
    // deduplicate court IDs; the request is a set
    unique := make([]uint64, 0, len(body.CourtIDs))
    seen := make(map[uint64]struct{})
    for _, id := range body.CourtIDs {
        if id == 0 {
            continue
        }
        if _, ok := seen[id]; !ok {
            seen[id] = struct{}{}
            unique = append(unique, id)
        }
    }

    ctx := c.Request().Context()
    ground, err := h.GroundRepo.GetActiveByID(ctx, body.GroundID)
    if err != nil {
        if errors.Is(err, repository.ErrGroundNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    req := booking.Request{
        GroundID:      ground.ID,
        CourtIDs:      unique,
        Sport:         sport,
        Date:          date,
        StartHour:     body.StartHour,
        DurationHours: body.DurationHours,
        Players:       body.Players,
    }
    if err := booking.Validate(*ground, req, time.Now()); err != nil {
        status := http.StatusBadRequest
        if errors.Is(err, booking.ErrOutsideOperatingHours) {
            status = http.StatusUnprocessableEntity
        }
        return c.JSON(status, echo.Map{"error": err.Error()})
    }

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

    // clear stale holds for this ground/date before checking availability
    if _, err := h.BookingRepo.ExpireStaleTx(ctx, tx, ground.ID, dateStr, h.HoldWindow); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired holds"})
    }
    // every requested court must be an active court of this ground hosting the sport
    if _, err := h.CourtRepo.GetByIDsTx(ctx, tx, ground.ID, sport, unique); err != nil {
        if errors.Is(err, repository.ErrUnknownCourt) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more courts do not belong to this ground"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check courts"})
    }
    slot := req.Slot()
    taken, err := h.BookingRepo.ConflictingCourtsTx(ctx, tx, ground.ID, dateStr, slot.StartHour, slot.EndHour, unique)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
    }
    if len(taken) > 0 {
        return c.JSON(http.StatusConflict, echo.Map{
            "error":       "slot unavailable",
            "unavailable": taken,
        })
    }

    total := booking.Quote(*ground, req)
    rec := &model.Booking{
        GroundID:         ground.ID,
        UserID:           userID,
        Sport:            sport,
        PlayDate:         date,
        StartHour:        body.StartHour,
        DurationHours:    body.DurationHours,
        Players:          body.Players,
        TotalAmountCents: total,
        Currency:         ground.Currency,
        Status:           booking.StatusPending,
    }
    if err := h.BookingRepo.CreateTx(ctx, tx, rec); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
    }
    if err := h.BookingRepo.AddCourtsTx(ctx, tx, rec.ID, unique); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve courts"})
    }

    // Create the provider order before committing: the reservation and
    // the payment intent are one unit of work.  A gateway failure here
    // rolls back the booking so no pending row ever exists without an
    // order to pay against.
    receipt := uuid.NewString()
    orderRef, err := h.Gateway.CreateOrder(ctx, total, ground.Currency, receipt)
    if err != nil {
        c.Logger().Errorf("payment order creation failed: %v", err)
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment order creation failed"})
    }
    pay := &model.Payment{
        BookingID:   rec.ID,
        OrderRef:    orderRef,
        AmountCents: total,
        Currency:    ground.Currency,
        Status:      model.PaymentCreated,
    }
    if err := h.PaymentRepo.CreateTx(ctx, tx, pay); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create payment"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    return c.JSON(http.StatusCreated, echo.Map{
        "booking_id":         rec.ID,
        "status":             rec.Status,
        "total_amount_cents": total,
        "currency":           ground.Currency,
        "order_ref":          orderRef,
        "hold_expires_at":    rec.CreatedAt.Add(h.HoldWindow).UTC().Format(time.RFC3339),
    })
}

// ListMyBookings handles GET /v1/my-bookings.  The optional status
// query parameter filters by effective status; "all" or an empty
// value returns everything.  Stale pending bookings are reported as
// expired.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
    if status == "ALL" {
        status = ""
    }
    switch status {
    case "", booking.StatusPending, booking.StatusConfirmed, booking.StatusCancelled,
        booking.StatusExpired, booking.StatusCompleted:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
    }
    items, err := h.BookingRepo.ListByUser(c.Request().Context(), userID, status, h.HoldWindow)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  A booking is visible to
// the player who made it, the owner of the booked ground and admins.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    detail, err := h.BookingRepo.GetDetail(c.Request().Context(), id, h.HoldWindow)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
    }
    if detail.UserID != userID && detail.GroundOwnerID() != userID && getRole(c) != RoleAdmin {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

type cancelReq struct {
    Reason string `json:"reason"`
}

// CancelBooking handles POST /v1/bookings/:id/cancel.  The requester
// must be the booking's player, the ground's owner or an admin.  The
// booking must be pending or confirmed and its date must not be in
// the past.  The slot is released synchronously; any refund owed
// under the policy is recorded on the payment and handed to the
// refund queue for disbursement, so cancellation never blocks on the
// gateway.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var body cancelReq
    _ = c.Bind(&body)
    reason := strings.TrimSpace(body.Reason)
    if reason == "" {
        reason = "cancelled by requester"
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

    b, err := h.BookingRepo.GetForUpdateTx(ctx, tx, id)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
    }
    if b.UserID != userID && getRole(c) != RoleAdmin {
        ground, err := h.GroundRepo.GetByID(ctx, b.GroundID)
        if err != nil || ground.OwnerID != userID {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
    }

    now := time.Now().UTC()
    // a stale pending booking is already expired in effect; record it
    status := booking.EffectiveStatus(b.Status, b.CreatedAt, h.HoldWindow, now)
    if status == booking.StatusExpired && b.Status == booking.StatusPending {
        if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, booking.StatusPending, booking.StatusExpired, nil); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
        }
        if err := tx.Commit(); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
        }
        committed = true
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking already expired"})
    }
    if !booking.Cancellable(status) {
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled in state " + status})
    }
    today := now.Truncate(24 * time.Hour)
    if b.PlayDate.Before(today) {
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking date already passed"})
    }

    if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, status, booking.StatusCancelled, &reason); err != nil {
        if errors.Is(err, repository.ErrInvalidState) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "booking state changed, retry"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
    }

    // refund obligation: a pure function of lead time and captured amount
    var refundCents uint32
    pay, err := h.PaymentRepo.GetByBookingTx(ctx, tx, b.ID)
    if err != nil && !repository.IsNoRows(err) {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payment"})
    }
    if pay != nil && pay.Status == model.PaymentCaptured {
        startsAt := b.PlayDate.Add(time.Duration(b.StartHour) * time.Hour)
        refundCents = h.Policy.RefundAmount(pay.AmountCents, startsAt.Sub(now))
        if refundCents > 0 {
            if err := h.PaymentRepo.MarkRefundedTx(ctx, tx, pay.ID, refundCents); err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record refund"})
            }
        }
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    // queue the disbursement after commit; delivery failures are logged
    // by the publisher and never affect the cancelled state
    if refundCents > 0 && pay != nil && pay.ProviderPaymentID != nil {
        _ = queue_publisher.PublishRefundRequested(ctx, queue.RefundRequestedEvent{
            BookingID:         b.ID,
            PaymentID:         pay.ID,
            ProviderPaymentID: *pay.ProviderPaymentID,
            AmountCents:       refundCents,
            Currency:          pay.Currency,
            Reason:            reason,
            RequestedAt:       now.Format(time.RFC3339),
        })
    }

    return c.JSON(http.StatusOK, echo.Map{
        "booking_id":          b.ID,
        "status":              booking.StatusCancelled,
        "refund_amount_cents": refundCents,
    })
}
