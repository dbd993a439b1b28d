package model

import "time"

// Account roles form a closed set. An account's role is fixed at
// registration; changing it is an administrative operation handled
// outside this service.
const (
	RoleUser       = "USER"       // standard user renting rooms
	RoleOwner      = "OWNER"      // property owner listing buildings and rooms
	RoleTechnician = "TECHNICIAN" // field technician maintaining rooms
	RoleAdmin      = "ADMIN"      // administrator
)

// ValidRole reports whether s is a member of the closed role set.
func ValidRole(s string) bool {
	switch s {
	case RoleUser, RoleOwner, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// Address holds the structured postal address attached to an account.
// All sub-fields are required at registration.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Preferences stores per-account notification settings.
type Preferences struct {
	EmailUpdates bool `json:"email_updates"`
	SMSUpdates   bool `json:"sms_updates"`
}

// Account represents a row in the `accounts` table.
//
// Fields:
//  ID           – primary key identifier.
//  FullName     – display name.
//  Email        – unique, stored lowercased; the account's identity.
//  PasswordHash – bcrypt hash of the password. Never serialized.
//  Phone        – contact number, exactly 10 digits.
//  Role         – one of the Role* constants.
//  IsVerified   – flipped to true by the email verification flow.
//  IsBanned     – set administratively; banned accounts cannot log in.
//  Address      – structured postal address.
//  Preferences  – notification preferences.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Account struct {
	ID           uint64
	FullName     string
	Email        string
	PasswordHash string
	Phone        string
	Role         string
	IsVerified   bool
	IsBanned     bool
	Address      Address
	Preferences  Preferences
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicAccount is the shape of an account as returned across the trust
// boundary. It deliberately has no password hash field at all, so the
// secret cannot leak through serialization.
type PublicAccount struct {
	ID          uint64      `json:"id"`
	FullName    string      `json:"full_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Role        string      `json:"role"`
	IsVerified  bool        `json:"is_verified"`
	IsBanned    bool        `json:"is_banned"`
	Address     Address     `json:"address"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Public converts an Account into its redacted public form. Every account
// that leaves the service passes through this single choke point.
func Public(a Account) PublicAccount {
	return PublicAccount{
		ID:          a.ID,
		FullName:    a.FullName,
		Email:       a.Email,
		Phone:       a.Phone,
		Role:        a.Role,
		IsVerified:  a.IsVerified,
		IsBanned:    a.IsBanned,
		Address:     a.Address,
		Preferences: a.Preferences,
		CreatedAt:   a.CreatedAt,
	}
}
