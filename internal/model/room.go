package model

import "time"

// Room statuses. AVAILABLE rooms show up in public browse results;
// MAINTENANCE is set by owners or field technicians.
const (
	RoomAvailable   = "AVAILABLE"
	RoomOccupied    = "OCCUPIED"
	RoomMaintenance = "MAINTENANCE"
)

// ValidRoomStatus reports whether s is a known room status.
func ValidRoomStatus(s string) bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance:
		return true
	}
	return false
}

// Room represents a row in the `rooms` table. A room belongs to a
// building and is the rentable unit of the marketplace.
//
// Fields:
//  ID         – primary key identifier.
//  BuildingID – parent building.
//  Number     – room number or label within the building (unique per building).
//  Capacity   – number of occupants the room accommodates.
//  RentCents  – monthly rent in cents.
//  Status     – one of the Room* status constants.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Room struct {
	ID         uint64    `json:"id"`
	BuildingID uint64    `json:"building_id"`
	Number     string    `json:"number"`
	Capacity   uint32    `json:"capacity"`
	RentCents  uint64    `json:"rent_cents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
