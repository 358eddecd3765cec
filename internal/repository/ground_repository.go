package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/playspot/ground-reservation/internal/model"
)

// GroundRepo provides CRUD operations for grounds.  Grounds are the
// venues owned by facility owners; the booking engine reads them for
// operating hours, working days and pricing and never mutates them
// as part of a reservation.
type GroundRepo struct {
    db *sql.DB
}

// NewGroundRepo returns a new GroundRepo bound to the given database.
func NewGroundRepo(db *sql.DB) *GroundRepo { return &GroundRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span multiple repositories.
func (r *GroundRepo) DB() *sql.DB { return r.db }

const groundColumns = `id, owner_id, name, city, open_hour, close_hour, working_days,
       weekday_price_cents, weekend_price_cents, currency, status, created_at, updated_at`

func scanGround(row *sql.Row) (*model.Ground, error) {
    var g model.Ground
    err := row.Scan(
        &g.ID, &g.OwnerID, &g.Name, &g.City, &g.OpenHour, &g.CloseHour, &g.WorkingDays,
        &g.WeekdayPriceCents, &g.WeekendPriceCents, &g.Currency, &g.Status,
        &g.CreatedAt, &g.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrGroundNotFound
        }
        return nil, err
    }
    return &g, nil
}

// Create inserts a new ground and populates the generated ID and
// timestamps on the provided model.
func (r *GroundRepo) Create(ctx context.Context, g *model.Ground) error {
    const q = `INSERT INTO grounds
        (owner_id, name, city, open_hour, close_hour, working_days,
         weekday_price_cents, weekend_price_cents, currency, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        g.OwnerID, g.Name, g.City, g.OpenHour, g.CloseHour, g.WorkingDays,
        g.WeekdayPriceCents, g.WeekendPriceCents, g.Currency, g.Status,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    g.ID = uint64(id)
    created, err := r.GetByID(ctx, g.ID)
    if err != nil {
        return err
    }
    *g = *created
    return nil
}

// GetByID returns a ground by id regardless of status.  Returns
// ErrGroundNotFound when no such row exists.
func (r *GroundRepo) GetByID(ctx context.Context, id uint64) (*model.Ground, error) {
    return scanGround(r.db.QueryRowContext(ctx,
        `SELECT `+groundColumns+` FROM grounds WHERE id = ?`, id))
}

// GetActiveByID returns a ground only when it exists and is ACTIVE.
// Inactive grounds are indistinguishable from absent ones to keep
// moderated listings out of the booking flow.
func (r *GroundRepo) GetActiveByID(ctx context.Context, id uint64) (*model.Ground, error) {
    return scanGround(r.db.QueryRowContext(ctx,
        `SELECT `+groundColumns+` FROM grounds WHERE id = ? AND status = ?`,
        id, model.GroundActive))
}

// ListActive returns all ACTIVE grounds ordered by city then name,
// for the public browse surface.
func (r *GroundRepo) ListActive(ctx context.Context) ([]model.Ground, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+groundColumns+` FROM grounds WHERE status = ? ORDER BY city, name`,
        model.GroundActive)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    grounds := make([]model.Ground, 0)
    for rows.Next() {
        var g model.Ground
        if err := rows.Scan(
            &g.ID, &g.OwnerID, &g.Name, &g.City, &g.OpenHour, &g.CloseHour, &g.WorkingDays,
            &g.WeekdayPriceCents, &g.WeekendPriceCents, &g.Currency, &g.Status,
            &g.CreatedAt, &g.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        grounds = append(grounds, g)
    }
    return grounds, rows.Err()
}

// ListByOwner returns all grounds belonging to an owner, any status.
func (r *GroundRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Ground, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+groundColumns+` FROM grounds WHERE owner_id = ? ORDER BY name`, ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    grounds := make([]model.Ground, 0)
    for rows.Next() {
        var g model.Ground
        if err := rows.Scan(
            &g.ID, &g.OwnerID, &g.Name, &g.City, &g.OpenHour, &g.CloseHour, &g.WorkingDays,
            &g.WeekdayPriceCents, &g.WeekendPriceCents, &g.Currency, &g.Status,
            &g.CreatedAt, &g.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        grounds = append(grounds, g)
    }
    return grounds, rows.Err()
}

// GroundUpdate lists the mutable ground fields.  Nil pointers leave
// the column untouched.  Price changes only affect bookings created
// afterwards; existing bookings keep their fixed total.
type GroundUpdate struct {
    Name              *string
    City              *string
    OpenHour          *int
    CloseHour         *int
    WorkingDays       *string
    WeekdayPriceCents *uint32
    WeekendPriceCents *uint32
    Status            *string
}

// Update applies a partial update to a ground owned by ownerID.  It
// returns ErrGroundNotFound when the ground does not exist and
// ErrForbidden when it belongs to a different owner.
func (r *GroundRepo) Update(ctx context.Context, id, ownerID uint64, upd GroundUpdate) error {
    var actualOwner uint64
    err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM grounds WHERE id = ?`, id).Scan(&actualOwner)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrGroundNotFound
        }
        return err
    }
    if actualOwner != ownerID {
        return ErrForbidden
    }
    sets := make([]string, 0, 8)
    args := make([]interface{}, 0, 9)
    add := func(col string, v interface{}) {
        sets = append(sets, col+" = ?")
        args = append(args, v)
    }
    if upd.Name != nil {
        add("name", *upd.Name)
    }
    if upd.City != nil {
        add("city", *upd.City)
    }
    if upd.OpenHour != nil {
        add("open_hour", *upd.OpenHour)
    }
    if upd.CloseHour != nil {
        add("close_hour", *upd.CloseHour)
    }
    if upd.WorkingDays != nil {
        add("working_days", *upd.WorkingDays)
    }
    if upd.WeekdayPriceCents != nil {
        add("weekday_price_cents", *upd.WeekdayPriceCents)
    }
    if upd.WeekendPriceCents != nil {
        add("weekend_price_cents", *upd.WeekendPriceCents)
    }
    if upd.Status != nil {
        add("status", *upd.Status)
    }
    if len(sets) == 0 {
        return nil
    }
    args = append(args, id)
    _, err = r.db.ExecContext(ctx,
        `UPDATE grounds SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
    return err
}

// SetStatus force-sets a ground's status without an ownership check.
// Reserved for admin moderation.
func (r *GroundRepo) SetStatus(ctx context.Context, id uint64, status string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE grounds SET status = ? WHERE id = ?`, status, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrGroundNotFound
    }
    return nil
}
