// This file defines repository methods for rooms, the rentable units of
// the marketplace. Rooms always belong to a building; ownership is
// resolved through the parent building's owner_id.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/roomhive/room-rental-api/internal/model"
)

// RoomRepo provides methods to create and retrieve rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = "id, building_id, number, capacity, rent_cents, status, created_at, updated_at"

// Create inserts a new room under a building. The (building_id, number)
// pair is unique; a duplicate surfaces as ErrConflict.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const qInsert = `INSERT INTO rooms (building_id, number, capacity, rent_cents, status)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, rm.BuildingID, rm.Number, rm.Capacity, rm.RentCents, rm.Status)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	const qSelect = "SELECT " + roomColumns + " FROM rooms WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, rm.ID).
		Scan(&rm.ID, &rm.BuildingID, &rm.Number, &rm.Capacity, &rm.RentCents, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt)
}

// GetByID fetches a room by its ID.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = "SELECT " + roomColumns + " FROM rooms WHERE id = ?"
	var rm model.Room
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&rm.ID, &rm.BuildingID, &rm.Number, &rm.Capacity, &rm.RentCents, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// OwnerOf returns the owner account ID of the building a room belongs
// to. Used by handlers to enforce ownership on room mutations.
func (r *RoomRepo) OwnerOf(ctx context.Context, roomID uint64) (uint64, error) {
	const q = `SELECT b.owner_id FROM rooms r JOIN buildings b ON b.id = r.building_id WHERE r.id = ?`
	var ownerID uint64
	if err := r.db.QueryRowContext(ctx, q, roomID).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return ownerID, nil
}

// ListByBuilding returns the rooms of a building. When availableOnly is
// set, only AVAILABLE rooms are returned (the public browse surface).
func (r *RoomRepo) ListByBuilding(ctx context.Context, buildingID uint64, availableOnly bool) ([]model.Room, error) {
	q := "SELECT " + roomColumns + " FROM rooms WHERE building_id = ?"
	args := []any{buildingID}
	if availableOnly {
		q += " AND status = ?"
		args = append(args, model.RoomAvailable)
	}
	q += " ORDER BY number"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Room
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.BuildingID, &rm.Number, &rm.Capacity, &rm.RentCents, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Update modifies a room's number, capacity and rent.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	const q = "UPDATE rooms SET number=?, capacity=?, rent_cents=?, updated_at=NOW() WHERE id=?"
	res, err := r.db.ExecContext(ctx, q, rm.Number, rm.Capacity, rm.RentCents, rm.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	return requireRow(res)
}

// SetStatus changes a room's availability status.
func (r *RoomRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	const q = "UPDATE rooms SET status=?, updated_at=NOW() WHERE id=?"
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a room.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
