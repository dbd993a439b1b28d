// This file defines repository methods for buildings. A building is a
// property owned by an OWNER account and groups the rooms offered for
// rent. Ownership checks live here so handlers never have to compare
// owner IDs themselves.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roomhive/room-rental-api/internal/model"
)

// BuildingRepo encapsulates all database queries related to buildings.
type BuildingRepo struct {
	db *sql.DB
}

// NewBuildingRepo constructs a BuildingRepo with the provided DB handle.
func NewBuildingRepo(db *sql.DB) *BuildingRepo {
	return &BuildingRepo{db: db}
}

// Create inserts a new building. On success the ID, CreatedAt and
// UpdatedAt fields are populated from the stored row.
func (r *BuildingRepo) Create(ctx context.Context, b *model.Building) error {
	const qInsert = `INSERT INTO buildings (owner_id, name, street, city, state, postal_code)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, b.OwnerID, b.Name, b.Street, b.City, b.State, b.PostalCode)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const qSelect = `SELECT id, owner_id, name, street, city, state, postal_code, created_at, updated_at
	                 FROM buildings WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, b.ID).
		Scan(&b.ID, &b.OwnerID, &b.Name, &b.Street, &b.City, &b.State, &b.PostalCode, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID fetches a building regardless of owner.
func (r *BuildingRepo) GetByID(ctx context.Context, id uint64) (*model.Building, error) {
	const q = `SELECT id, owner_id, name, street, city, state, postal_code, created_at, updated_at
	           FROM buildings WHERE id = ?`
	var b model.Building
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&b.ID, &b.OwnerID, &b.Name, &b.Street, &b.City, &b.State, &b.PostalCode, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetByIDAndOwner fetches a building only if it belongs to the given
// owner. A building owned by someone else yields ErrForbidden so the
// handler can answer 403 instead of leaking existence.
func (r *BuildingRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Building, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return b, nil
}

// ListByOwner returns all buildings owned by an account.
func (r *BuildingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Building, error) {
	const q = `SELECT id, owner_id, name, street, city, state, postal_code, created_at, updated_at
	           FROM buildings WHERE owner_id = ? ORDER BY id`
	return r.list(ctx, q, ownerID)
}

// ListAll returns every building for the public browse surface.
func (r *BuildingRepo) ListAll(ctx context.Context) ([]model.Building, error) {
	const q = `SELECT id, owner_id, name, street, city, state, postal_code, created_at, updated_at
	           FROM buildings ORDER BY id`
	return r.list(ctx, q)
}

// Update modifies the name and address of an owned building.
func (r *BuildingRepo) Update(ctx context.Context, b *model.Building) error {
	const q = `UPDATE buildings SET name=?, street=?, city=?, state=?, postal_code=?, updated_at=NOW()
	           WHERE id=? AND owner_id=?`
	res, err := r.db.ExecContext(ctx, q, b.Name, b.Street, b.City, b.State, b.PostalCode, b.ID, b.OwnerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an owned building. Buildings that still contain rooms
// cannot be deleted; the caller receives ErrConflict.
func (r *BuildingRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	var rooms int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rooms WHERE building_id=?", id).Scan(&rooms); err != nil {
		return err
	}
	if rooms > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM buildings WHERE id=? AND owner_id=?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BuildingRepo) list(ctx context.Context, q string, args ...any) ([]model.Building, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Building
	for rows.Next() {
		var b model.Building
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Street, &b.City, &b.State, &b.PostalCode, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
