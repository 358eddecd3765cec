package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/playspot/ground-reservation/internal/booking"
    "github.com/playspot/ground-reservation/internal/model"
)

// BookingRepo provides CRUD operations for bookings and their
// courts.  A booking groups one or more courts reserved together for
// an hour interval on a ground and date.  Courts reserved under a
// booking are stored in the booking_courts table.  All timestamp
// fields are stored in UTC.
//
// The pair ConflictingCourtsTx + CreateTx is the availability
// check-and-write at the heart of the engine; callers must run both
// inside one transaction so that two concurrent requests for an
// overlapping interval serialize on the row locks and exactly one
// succeeds.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning bookings, payments and courts.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided model.  The caller must commit or roll back the
// transaction.  Status should normally be PENDING; the row's
// created_at starts the hold window.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings
        (ground_id, user_id, sport, play_date, start_hour, duration_hours,
         players, total_amount_cents, currency, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q,
        b.GroundID, b.UserID, b.Sport, b.PlayDate.Format(booking.DateLayout),
        b.StartHour, b.DurationHours, b.Players, b.TotalAmountCents, b.Currency, b.Status,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    const sel = `SELECT created_at, status_changed_at FROM bookings WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.StatusChangedAt)
}

// AddCourtsTx inserts the booking_courts rows for a booking in a
// single statement.  Passing an empty slice has no effect.
func (r *BookingRepo) AddCourtsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, courtIDs []uint64) error {
    if len(courtIDs) == 0 {
        return nil
    }
    q := `INSERT INTO booking_courts (booking_id, court_id) VALUES `
    args := make([]interface{}, 0, len(courtIDs)*2)
    for i, id := range courtIDs {
        if i > 0 {
            q += ","
        }
        q += "(?, ?)"
        args = append(args, bookingID, id)
    }
    _, err := tx.ExecContext(ctx, q, args...)
    return err
}

// ExpireStaleTx rewrites PENDING bookings for a ground and date whose
// hold window has elapsed to EXPIRED, releasing their intervals.  It
// returns the number of bookings expired.  Run this at the start of
// any availability-affecting transaction so stale holds never block
// a live request; the sweeper performs the same rewrite globally.
func (r *BookingRepo) ExpireStaleTx(ctx context.Context, tx *sql.Tx, groundID uint64, date string, holdWindow time.Duration) (int64, error) {
    const q = `UPDATE bookings
               SET status = ?, status_changed_at = UTC_TIMESTAMP()
               WHERE ground_id = ? AND play_date = ? AND status = ?
                 AND created_at <= UTC_TIMESTAMP() - INTERVAL ? SECOND`
    res, err := tx.ExecContext(ctx, q,
        booking.StatusExpired, groundID, date, booking.StatusPending,
        int64(holdWindow/time.Second))
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// ConflictingCourtsTx returns the subset of courtIDs already taken by
// a PENDING or CONFIRMED booking whose [start, end) hours overlap the
// requested interval on the same ground and date.  The SELECT locks
// the matching rows (FOR UPDATE) so a concurrent overlapping request
// blocks until this transaction resolves; combined with ExpireStaleTx
// having already cleared stale holds, an empty result means the whole
// court set is free to reserve.
func (r *BookingRepo) ConflictingCourtsTx(ctx context.Context, tx *sql.Tx, groundID uint64, date string, startHour, endHour int, courtIDs []uint64) ([]uint64, error) {
    if len(courtIDs) == 0 {
        return nil, nil
    }
    placeholders := make([]string, 0, len(courtIDs))
    args := make([]interface{}, 0, len(courtIDs)+6)
    args = append(args, groundID, date, booking.StatusPending, booking.StatusConfirmed, startHour, endHour)
    for _, id := range courtIDs {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    q := `SELECT DISTINCT bc.court_id
          FROM bookings b
          JOIN booking_courts bc ON bc.booking_id = b.id
          WHERE b.ground_id = ? AND b.play_date = ?
            AND b.status IN (?, ?)
            AND b.start_hour < ? AND ? < b.start_hour + b.duration_hours
            AND bc.court_id IN (` + strings.Join(placeholders, ",") + `)
          FOR UPDATE`
    rows, err := tx.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var taken []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        taken = append(taken, id)
    }
    return taken, rows.Err()
}

// GetForUpdateTx loads a booking by id with a row lock so status
// transitions serialize.  Returns ErrBookingNotFound when absent.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
    const q = `SELECT id, ground_id, user_id, sport, play_date, start_hour, duration_hours,
                      players, total_amount_cents, currency, status, cancel_reason,
                      created_at, status_changed_at
               FROM bookings WHERE id = ? FOR UPDATE`
    var b model.Booking
    var reason sql.NullString
    err := tx.QueryRowContext(ctx, q, id).Scan(
        &b.ID, &b.GroundID, &b.UserID, &b.Sport, &b.PlayDate, &b.StartHour, &b.DurationHours,
        &b.Players, &b.TotalAmountCents, &b.Currency, &b.Status, &reason,
        &b.CreatedAt, &b.StatusChangedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    if reason.Valid {
        s := reason.String
        b.CancelReason = &s
    }
    return &b, nil
}

// UpdateStatusTx moves a booking from one status to another within a
// transaction.  The WHERE clause guards on the expected current
// status so a lost race surfaces as ErrInvalidState instead of a
// silent double transition.  A non-nil reason is recorded as the
// cancellation reason.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string, reason *string) error {
    if !booking.CanTransition(from, to) {
        return ErrInvalidState
    }
    const q = `UPDATE bookings
               SET status = ?, status_changed_at = UTC_TIMESTAMP(),
                   cancel_reason = COALESCE(?, cancel_reason)
               WHERE id = ? AND status = ?`
    res, err := tx.ExecContext(ctx, q, to, reason, id, from)
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

// CourtIDsTx returns the court ids reserved under a booking.
func (r *BookingRepo) CourtIDsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]uint64, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT court_id FROM booking_courts WHERE booking_id = ?`, bookingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}

// OccupiedInterval is one court's reserved hour range on a date, as
// exposed by the availability surface.
type OccupiedInterval struct {
    CourtID    uint64 `json:"court_id"`
    CourtLabel string `json:"court_label"`
    StartHour  int    `json:"start_hour"`
    EndHour    int    `json:"end_hour"`
}

// OccupiedIntervals derives the availability index for a ground and
// date: every (court, [start,end)) interval held by a CONFIRMED
// booking or a PENDING booking still inside its hold window.  The
// read is pure; stale pendings are excluded by the time predicate
// without being rewritten, so the view is correct even between
// sweeps.  Intervals are ordered per court by start hour.
func (r *BookingRepo) OccupiedIntervals(ctx context.Context, groundID uint64, date string, holdWindow time.Duration) ([]OccupiedInterval, error) {
    const q = `SELECT bc.court_id, c.label, b.start_hour, b.start_hour + b.duration_hours
               FROM bookings b
               JOIN booking_courts bc ON bc.booking_id = b.id
               JOIN courts c ON c.id = bc.court_id
               WHERE b.ground_id = ? AND b.play_date = ?
                 AND (b.status = ?
                      OR (b.status = ? AND b.created_at > UTC_TIMESTAMP() - INTERVAL ? SECOND))
               ORDER BY bc.court_id, b.start_hour`
    rows, err := r.db.QueryContext(ctx, q,
        groundID, date, booking.StatusConfirmed, booking.StatusPending,
        int64(holdWindow/time.Second))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    intervals := make([]OccupiedInterval, 0)
    for rows.Next() {
        var iv OccupiedInterval
        if err := rows.Scan(&iv.CourtID, &iv.CourtLabel, &iv.StartHour, &iv.EndHour); err != nil {
            return nil, err
        }
        intervals = append(intervals, iv)
    }
    return intervals, rows.Err()
}

// BookingDetail aggregates a booking with its ground and court
// labels for display to players and owners.
type BookingDetail struct {
    ID               uint64   `json:"id"`
    GroundID         uint64   `json:"ground_id"`
    GroundName       string   `json:"ground_name"`
    UserID           uint64   `json:"user_id"`
    Sport            string   `json:"sport"`
    PlayDate         string   `json:"play_date"`
    StartHour        int      `json:"start_hour"`
    EndHour          int      `json:"end_hour"`
    Players          int      `json:"players"`
    TotalAmountCents uint32   `json:"total_amount_cents"`
    Currency         string   `json:"currency"`
    Status           string   `json:"status"`
    CancelReason     *string  `json:"cancel_reason,omitempty"`
    CourtLabels      []string `json:"courts"`
    CreatedAt        string   `json:"created_at"`

    groundOwnerID uint64
}

// GroundOwnerID reports the owner of the booked ground, for
// authorization decisions in handlers.
func (d BookingDetail) GroundOwnerID() uint64 { return d.groundOwnerID }

const detailQuery = `SELECT b.id, b.ground_id, g.name, g.owner_id, b.user_id, b.sport,
       b.play_date, b.start_hour, b.duration_hours, b.players,
       b.total_amount_cents, b.currency, b.status, b.cancel_reason, b.created_at
FROM bookings b
JOIN grounds g ON g.id = b.ground_id`

func scanDetail(rows interface {
    Scan(dest ...interface{}) error
}, holdWindow time.Duration, now time.Time) (BookingDetail, error) {
    var d BookingDetail
    var playDate, createdAt time.Time
    var duration int
    var reason sql.NullString
    err := rows.Scan(
        &d.ID, &d.GroundID, &d.GroundName, &d.groundOwnerID, &d.UserID, &d.Sport,
        &playDate, &d.StartHour, &duration, &d.Players,
        &d.TotalAmountCents, &d.Currency, &d.Status, &reason, &createdAt,
    )
    if err != nil {
        return d, err
    }
    d.PlayDate = playDate.Format(booking.DateLayout)
    d.EndHour = d.StartHour + duration
    if reason.Valid {
        s := reason.String
        d.CancelReason = &s
    }
    d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
    // Report stale pendings as expired even before the sweep rewrites them.
    d.Status = booking.EffectiveStatus(d.Status, createdAt, holdWindow, now)
    return d, nil
}

// GetDetail returns a single booking with ground and court info.
// Authorization is left to the caller; the detail carries both the
// booking's user and the ground's owner.  Returns ErrBookingNotFound
// when absent.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64, holdWindow time.Duration) (*BookingDetail, error) {
    row := r.db.QueryRowContext(ctx, detailQuery+` WHERE b.id = ?`, id)
    d, err := scanDetail(row, holdWindow, time.Now().UTC())
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    if err := r.attachCourts(ctx, []*BookingDetail{&d}); err != nil {
        return nil, err
    }
    return &d, nil
}

// ListByUser returns all bookings created by a user, newest first,
// optionally filtered by effective status (empty string means all).
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, status string, holdWindow time.Duration) ([]BookingDetail, error) {
    rows, err := r.db.QueryContext(ctx,
        detailQuery+` WHERE b.user_id = ? ORDER BY b.created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    return r.collectDetails(ctx, rows, status, holdWindow)
}

// ListByGroundForOwner returns all bookings on a ground when
// requested by its owner.  It returns ErrGroundNotFound when the
// ground does not exist and ErrForbidden when it belongs to someone
// else.
func (r *BookingRepo) ListByGroundForOwner(ctx context.Context, groundID, ownerID uint64, holdWindow time.Duration) ([]BookingDetail, error) {
    var actualOwner uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT owner_id FROM grounds WHERE id = ?`, groundID).Scan(&actualOwner)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrGroundNotFound
        }
        return nil, err
    }
    if actualOwner != ownerID {
        return nil, ErrForbidden
    }
    rows, err := r.db.QueryContext(ctx,
        detailQuery+` WHERE b.ground_id = ? ORDER BY b.play_date DESC, b.start_hour DESC`, groundID)
    if err != nil {
        return nil, err
    }
    return r.collectDetails(ctx, rows, "", holdWindow)
}

func (r *BookingRepo) collectDetails(ctx context.Context, rows *sql.Rows, status string, holdWindow time.Duration) ([]BookingDetail, error) {
    defer rows.Close()
    now := time.Now().UTC()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        d, err := scanDetail(rows, holdWindow, now)
        if err != nil {
            return nil, err
        }
        if status != "" && d.Status != status {
            continue
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    refs := make([]*BookingDetail, len(details))
    for i := range details {
        refs[i] = &details[i]
    }
    if err := r.attachCourts(ctx, refs); err != nil {
        return nil, err
    }
    return details, nil
}

// attachCourts populates CourtLabels for all details in one query.
func (r *BookingRepo) attachCourts(ctx context.Context, details []*BookingDetail) error {
    if len(details) == 0 {
        return nil
    }
    index := make(map[uint64]*BookingDetail, len(details))
    placeholders := make([]string, 0, len(details))
    args := make([]interface{}, 0, len(details))
    for _, d := range details {
        d.CourtLabels = []string{}
        index[d.ID] = d
        placeholders = append(placeholders, "?")
        args = append(args, d.ID)
    }
    q := `SELECT bc.booking_id, c.label
          FROM booking_courts bc
          JOIN courts c ON c.id = bc.court_id
          WHERE bc.booking_id IN (` + strings.Join(placeholders, ",") + `)
          ORDER BY bc.booking_id, c.label`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var bid uint64
        var label string
        if err := rows.Scan(&bid, &label); err != nil {
            return err
        }
        if d, ok := index[bid]; ok {
            d.CourtLabels = append(d.CourtLabels, label)
        }
    }
    return rows.Err()
}

// SweepExpired rewrites every stale PENDING booking to EXPIRED,
// regardless of ground.  Used by the periodic sweeper.
func (r *BookingRepo) SweepExpired(ctx context.Context, holdWindow time.Duration) (int64, error) {
    const q = `UPDATE bookings
               SET status = ?, status_changed_at = UTC_TIMESTAMP()
               WHERE status = ? AND created_at <= UTC_TIMESTAMP() - INTERVAL ? SECOND`
    res, err := r.db.ExecContext(ctx, q,
        booking.StatusExpired, booking.StatusPending, int64(holdWindow/time.Second))
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// SweepCompleted rewrites CONFIRMED bookings whose date has fully
// elapsed to COMPLETED.  Advisory only; past slots never participate
// in conflict checks anyway.
func (r *BookingRepo) SweepCompleted(ctx context.Context) (int64, error) {
    const q = `UPDATE bookings
               SET status = ?, status_changed_at = UTC_TIMESTAMP()
               WHERE status = ? AND play_date < UTC_DATE()`
    res, err := r.db.ExecContext(ctx, q, booking.StatusCompleted, booking.StatusConfirmed)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
