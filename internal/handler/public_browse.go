package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/playspot/ground-reservation/internal/booking"
    "github.com/playspot/ground-reservation/internal/repository"
)

// BrowseHandler serves the unauthenticated catalog endpoints:
// listing active grounds, ground detail with courts and the per-date
// availability view.
type BrowseHandler struct {
    GroundRepo  *repository.GroundRepo
    CourtRepo   *repository.CourtRepo
    BookingRepo *repository.BookingRepo
    HoldWindow  time.Duration
}

// NewBrowseHandler constructs a BrowseHandler.  All repositories must
// be non-nil.
func NewBrowseHandler(grounds *repository.GroundRepo, courts *repository.CourtRepo, bookings *repository.BookingRepo, holdWindow time.Duration) *BrowseHandler {
    if grounds == nil || courts == nil || bookings == nil {
        panic("nil repository passed to NewBrowseHandler")
    }
    return &BrowseHandler{GroundRepo: grounds, CourtRepo: courts, BookingRepo: bookings, HoldWindow: holdWindow}
}

// ListGrounds handles GET /v1/grounds.  Only active grounds are
// listed; an optional city parameter narrows the result.
func (h *BrowseHandler) ListGrounds(c echo.Context) error {
    grounds, err := h.GroundRepo.ListActive(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load grounds"})
    }
    if city := strings.TrimSpace(c.QueryParam("city")); city != "" {
        filtered := grounds[:0]
        for _, g := range grounds {
            if strings.EqualFold(g.City, city) {
                filtered = append(filtered, g)
            }
        }
        grounds = filtered
    }
    return c.JSON(http.StatusOK, echo.Map{"items": grounds})
}

// GetGround handles GET /v1/grounds/:id and returns the ground with
// its active courts.
func (h *BrowseHandler) GetGround(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ground id"})
    }
    ctx := c.Request().Context()
    ground, err := h.GroundRepo.GetActiveByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrGroundNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ground"})
    }
    courts, err := h.CourtRepo.ListByGround(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load courts"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "ground": ground,
        "courts": courts,
    })
}

type courtAvailability struct {
    CourtID   uint64             `json:"court_id"`
    Label     string             `json:"label"`
    Sport     string             `json:"sport"`
    Occupied  []availabilitySlot `json:"occupied"`
    FreeHours []int              `json:"free_hours"`
}

type availabilitySlot struct {
    StartHour int `json:"start_hour"`
    EndHour   int `json:"end_hour"`
}

// GetAvailability handles GET /v1/grounds/:id/availability?date=.  For
// each active court of the ground it reports the occupied [start,end)
// intervals and the remaining free start hours inside operating
// hours.  The view counts confirmed bookings and pending bookings
// still inside their hold window; expired holds do not block a slot.
func (h *BrowseHandler) GetAvailability(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ground id"})
    }
    dateStr := strings.TrimSpace(c.QueryParam("date"))
    date, err := time.ParseInLocation(booking.DateLayout, dateStr, time.UTC)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }

    ctx := c.Request().Context()
    ground, err := h.GroundRepo.GetActiveByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrGroundNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ground not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ground"})
    }
    if !ground.WorksOn(date.Weekday()) {
        return c.JSON(http.StatusOK, echo.Map{
            "ground_id": ground.ID,
            "date":      dateStr,
            "closed":    true,
            "courts":    []courtAvailability{},
        })
    }
    courts, err := h.CourtRepo.ListByGround(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load courts"})
    }
    occupied, err := h.BookingRepo.OccupiedIntervals(ctx, id, dateStr, h.HoldWindow)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
    }
    byCourt := make(map[uint64][]availabilitySlot, len(courts))
    for _, o := range occupied {
        byCourt[o.CourtID] = append(byCourt[o.CourtID], availabilitySlot{StartHour: o.StartHour, EndHour: o.EndHour})
    }

    out := make([]courtAvailability, 0, len(courts))
    for _, court := range courts {
        if !court.IsActive {
            continue
        }
        slots := byCourt[court.ID]
        free := make([]int, 0, ground.CloseHour-ground.OpenHour)
        for hr := ground.OpenHour; hr < ground.CloseHour; hr++ {
            taken := false
            for _, s := range slots {
                if s.StartHour <= hr && hr < s.EndHour {
                    taken = true
                    break
                }
            }
            if !taken {
                free = append(free, hr)
            }
        }
        if slots == nil {
            slots = []availabilitySlot{}
        }
        out = append(out, courtAvailability{
            CourtID:   court.ID,
            Label:     court.Label,
            Sport:     court.Sport,
            Occupied:  slots,
            FreeHours: free,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "ground_id": ground.ID,
        "date":      dateStr,
        "open_hour": ground.OpenHour,
        "close_hour": ground.CloseHour,
        "courts":    out,
    })
}
