package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/roomhive/room-rental-api/internal/model"
)

// AccountRepo persists account records in the `accounts` table. It is the
// credential store of the service: the only component that reads or
// writes password hashes.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountColumns = `id, full_name, email, password_hash, phone, role,
 is_verified, is_banned, street, city, state, postal_code,
 pref_email_updates, pref_sms_updates, created_at, updated_at`

// Create inserts an account and returns its ID. The caller supplies an
// already-hashed password. A duplicate email, whether detected here or in
// a race with a concurrent registration, surfaces as ErrEmailExists via
// the unique index (MySQL error 1062).
func (r *AccountRepo) Create(ctx context.Context, a model.Account) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(a.Email))
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO accounts
		 (full_name, email, password_hash, phone, role, street, city, state, postal_code,
		  pref_email_updates, pref_sms_updates)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		a.FullName, email, a.PasswordHash, a.Phone, a.Role,
		a.Address.Street, a.Address.City, a.Address.State, a.Address.PostalCode,
		a.Preferences.EmailUpdates, a.Preferences.SMSUpdates)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email=? LIMIT 1", email))
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id=? LIMIT 1", id))
}

// UpdatePassword replaces the stored password hash. The old hash becomes
// unusable for login the moment this statement commits.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET password_hash=?, updated_at=NOW() WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetVerified flips the email verification flag.
func (r *AccountRepo) SetVerified(ctx context.Context, id uint64, verified bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET is_verified=?, updated_at=NOW() WHERE id=?", verified, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetBanned flips the ban flag. Banning is an administrative operation;
// the session service only reads the flag at login.
func (r *AccountRepo) SetBanned(ctx context.Context, id uint64, banned bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET is_banned=?, updated_at=NOW() WHERE id=?", banned, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateProfile updates the mutable profile attributes. Email, role and
// password are deliberately not updatable through this path.
func (r *AccountRepo) UpdateProfile(ctx context.Context, id uint64, name, phone string, addr model.Address, prefs model.Preferences) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE accounts SET full_name=?, phone=?, street=?, city=?, state=?, postal_code=?,
		 pref_email_updates=?, pref_sms_updates=?, updated_at=NOW() WHERE id=?`,
		name, phone, addr.Street, addr.City, addr.State, addr.PostalCode,
		prefs.EmailUpdates, prefs.SMSUpdates, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *AccountRepo) scanOne(row *sql.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.PasswordHash, &a.Phone, &a.Role,
		&a.IsVerified, &a.IsBanned,
		&a.Address.Street, &a.Address.City, &a.Address.State, &a.Address.PostalCode,
		&a.Preferences.EmailUpdates, &a.Preferences.SMSUpdates,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// requireRow maps a zero-row update to ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
