package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/playspot/ground-reservation/internal/model"
)

// CourtRepo provides data access to the courts table.  Courts are
// the unit of exclusivity in the availability index; every booking
// reserves one or more of them for its hour interval.
type CourtRepo struct {
    db *sql.DB
}

// NewCourtRepo returns a new CourtRepo bound to the given database.
func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

// Create inserts a court for a ground and populates the generated ID.
func (r *CourtRepo) Create(ctx context.Context, c *model.Court) error {
    const q = `INSERT INTO courts (ground_id, label, sport, is_active) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, c.GroundID, c.Label, c.Sport, c.IsActive)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    return nil
}

// ListByGround returns all active courts of a ground ordered by label.
func (r *CourtRepo) ListByGround(ctx context.Context, groundID uint64) ([]model.Court, error) {
    const q = `SELECT id, ground_id, label, sport, is_active, created_at
               FROM courts WHERE ground_id = ? AND is_active = 1 ORDER BY label`
    rows, err := r.db.QueryContext(ctx, q, groundID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    courts := make([]model.Court, 0)
    for rows.Next() {
        var c model.Court
        if err := rows.Scan(&c.ID, &c.GroundID, &c.Label, &c.Sport, &c.IsActive, &c.CreatedAt); err != nil {
            return nil, err
        }
        courts = append(courts, c)
    }
    return courts, rows.Err()
}

// GetByIDsTx loads the given courts within a transaction and checks
// that every requested id is an active court of the ground hosting
// the requested sport.  Returns ErrUnknownCourt when any id is
// missing, inactive, belongs to another ground or hosts a different
// sport.  The all-or-nothing check mirrors the reservation rule: a
// booking's court set is a matched bundle, not independently
// substitutable.
func (r *CourtRepo) GetByIDsTx(ctx context.Context, tx *sql.Tx, groundID uint64, sport string, courtIDs []uint64) ([]model.Court, error) {
    if len(courtIDs) == 0 {
        return nil, ErrUnknownCourt
    }
    placeholders := make([]string, 0, len(courtIDs))
    args := make([]interface{}, 0, len(courtIDs)+2)
    args = append(args, groundID, sport)
    for _, id := range courtIDs {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    q := `SELECT id, ground_id, label, sport, is_active, created_at
          FROM courts
          WHERE ground_id = ? AND sport = ? AND is_active = 1
            AND id IN (` + strings.Join(placeholders, ",") + `)`
    rows, err := tx.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    courts := make([]model.Court, 0, len(courtIDs))
    for rows.Next() {
        var c model.Court
        if err := rows.Scan(&c.ID, &c.GroundID, &c.Label, &c.Sport, &c.IsActive, &c.CreatedAt); err != nil {
            return nil, err
        }
        courts = append(courts, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(courts) != len(courtIDs) {
        return nil, ErrUnknownCourt
    }
    return courts, nil
}
