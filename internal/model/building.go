package model

import "time"

// Building represents a row in the `buildings` table. A building belongs
// to exactly one owner account and groups the rooms offered for rent.
//
// Fields:
//  ID         – primary key identifier.
//  OwnerID    – account ID of the property owner.
//  Name       – display name of the building.
//  Street     – street address.
//  City       – city.
//  State      – state or province.
//  PostalCode – postal code.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Building struct {
	ID         uint64    `json:"id"`
	OwnerID    uint64    `json:"owner_id"`
	Name       string    `json:"name"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
