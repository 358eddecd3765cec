package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/playspot/ground-reservation/internal/model"
    "github.com/playspot/ground-reservation/internal/repository"
)

// OwnerGroundHandler serves the venue-management endpoints available
// to ground owners: creating and updating grounds, registering courts
// and reviewing the booking ledger of an owned ground.
type OwnerGroundHandler struct {
    GroundRepo  *repository.GroundRepo
    CourtRepo   *repository.CourtRepo
    BookingRepo *repository.BookingRepo
    HoldWindow  time.Duration
}

// NewOwnerGroundHandler constructs an OwnerGroundHandler.  All
// repositories must be non-nil.
func NewOwnerGroundHandler(grounds *repository.GroundRepo, courts *repository.CourtRepo, bookings *repository.BookingRepo, holdWindow time.Duration) *OwnerGroundHandler {
    if grounds == nil || courts == nil || bookings == nil {
        panic("nil repository passed to NewOwnerGroundHandler")
    }
    return &OwnerGroundHandler{GroundRepo: grounds, CourtRepo: courts, BookingRepo: bookings, HoldWindow: holdWindow}
}

type createGroundReq struct {
    Name              string `json:"name"`
    City              string `json:"city"`
    OpenHour          int    `json:"open_hour"`
    CloseHour         int    `json:"close_hour"`
    WorkingDays       string `json:"working_days"` // "MON,TUE,..."
    WeekdayPriceCents uint32 `json:"weekday_price_cents"`
    WeekendPriceCents uint32 `json:"weekend_price_cents"`
    Currency          string `json:"currency"`
}

// normalizeWorkingDays upper-cases, trims and validates a CSV of day
// abbreviations.  It returns the canonical CSV or an error message.
func normalizeWorkingDays(csv string) (string, error) {
    parts := strings.Split(csv, ",")
    out := make([]string, 0, len(parts))
    seen := make(map[string]struct{})
    for _, p := range parts {
        day := strings.ToUpper(strings.TrimSpace(p))
        if day == "" {
            continue
        }
        if !model.ValidDayAbbrev(day) {
            return "", errors.New("unknown day abbreviation: " + day)
        }
        if _, dup := seen[day]; !dup {
            seen[day] = struct{}{}
            out = append(out, day)
        }
    }
    if len(out) == 0 {
        return "", errors.New("working_days must name at least one day")
    }
    return strings.Join(out, ","), nil
}

// CreateGround handles POST /v1/owner/grounds.  New grounds start
// ACTIVE and are immediately bookable.
func (h *OwnerGroundHandler) CreateGround(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body createGroundReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Name = strings.TrimSpace(body.Name)
    body.City = strings.TrimSpace(body.City)
    if body.Name == "" || body.City == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
    }
    if body.OpenHour < 0 || body.CloseHour > 24 || body.OpenHour >= body.CloseHour {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "hours must satisfy 0 <= open < close <= 24"})
    }
    if body.WeekdayPriceCents == 0 || body.WeekendPriceCents == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "hourly prices must be positive"})
    }
    days, err := normalizeWorkingDays(body.WorkingDays)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    currency := strings.ToUpper(strings.TrimSpace(body.Currency))
    if currency == "" {
        currency = "INR"
    }

    g := &model.Ground{
        OwnerID:           ownerID,
        Name:              body.Name,
        City:              body.City,
        OpenHour:          body.OpenHour,
        CloseHour:         body.CloseHour,
        WorkingDays:       days,
        WeekdayPriceCents: body.WeekdayPriceCents,
        WeekendPriceCents: body.WeekendPriceCents,
        Currency:          currency,
        Status:            model.GroundActive,
    }
    if err := h.GroundRepo.Create(c.Request().Context(), g); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create ground"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"ground": g})
}

type updateGroundReq struct {
    Name              *string `json:"name"`
    City              *string `json:"city"`
    OpenHour          *int    `json:"open_hour"`
    CloseHour         *int    `json:"close_hour"`
    WorkingDays       *string `json:"working_days"`
    WeekdayPriceCents *uint32 `json:"weekday_price_cents"`
    WeekendPriceCents *uint32 `json:"weekend_price_cents"`
    Status            *string `json:"status"`
}

// UpdateGround handles PATCH /v1/owner/grounds/:id.  Only fields
// present in the body change.  Price and hour changes affect future
// bookings only; existing bookings keep the total fixed at creation.
func (h *OwnerGroundHandler) UpdateGround(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ground id"})
    }
    var body updateGroundReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    upd := repository.GroundUpdate{
        Name:              body.Name,
        City:              body.City,
        OpenHour:          body.OpenHour,
        CloseHour:         body.CloseHour,
        WeekdayPriceCents: body.WeekdayPriceCents,
        WeekendPriceCents: body.WeekendPriceCents,
    }
    if body.OpenHour != nil && (*body.OpenHour < 0 || *body.OpenHour > 23) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "open_hour out of range"})
    }
    if body.CloseHour != nil && (*body.CloseHour < 1 || *body.CloseHour > 24) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "close_hour out of range"})
    }
    if body.WorkingDays != nil {
        days, err := normalizeWorkingDays(*body.WorkingDays)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        upd.WorkingDays = &days
    }
    if body.Status != nil {
        status := strings.ToUpper(strings.TrimSpace(*body.Status))
        if status != model.GroundActive && status != model.GroundInactive {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be ACTIVE or INACTIVE"})
        }
        upd.Status = &status
    }

    if err := h.GroundRepo.Update(c.Request().Context(), id, ownerID, upd); err != nil {
        switch {
        case errors.Is(err, repository.ErrGroundNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ground"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update ground"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "ground updated"})
}

type addCourtReq struct {
    Label string `json:"label"`
    Sport string `json:"sport"`
}

// AddCourt handles POST /v1/owner/grounds/:id/courts.
func (h *OwnerGroundHandler) AddCourt(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ground id"})
    }
    var body addCourtReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Label = strings.TrimSpace(body.Label)
    sport := strings.ToUpper(strings.TrimSpace(body.Sport))
    if body.Label == "" || sport == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "label and sport are required"})
    }

    ctx := c.Request().Context()
    ground, err := h.GroundRepo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrGroundNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ground"})
    }
    if ground.OwnerID != ownerID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ground"})
    }

    court := &model.Court{
        GroundID: ground.ID,
        Label:    body.Label,
        Sport:    sport,
        IsActive: true,
    }
    if err := h.CourtRepo.Create(ctx, court); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create court"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"court": court})
}

// ListGroundBookings handles GET /v1/owner/grounds/:id/bookings and
// returns every booking of a ground the requester owns.
func (h *OwnerGroundHandler) ListGroundBookings(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ground id"})
    }
    items, err := h.BookingRepo.ListByGroundForOwner(c.Request().Context(), id, ownerID, h.HoldWindow)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrGroundNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ground"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MyGrounds handles GET /v1/owner/grounds and lists the requester's
// grounds, including inactive ones.
func (h *OwnerGroundHandler) MyGrounds(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    grounds, err := h.GroundRepo.ListByOwner(c.Request().Context(), ownerID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load grounds"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": grounds})
}

// SetGroundStatus handles POST /v1/admin/grounds/:id/status, letting
// admins activate or deactivate any ground regardless of owner.
func (h *OwnerGroundHandler) SetGroundStatus(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ground id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    status := strings.ToUpper(strings.TrimSpace(body.Status))
    if status != model.GroundActive && status != model.GroundInactive {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be ACTIVE or INACTIVE"})
    }
    if err := h.GroundRepo.SetStatus(c.Request().Context(), id, status); err != nil {
        if errors.Is(err, repository.ErrGroundNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update ground"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "ground status updated"})
}
