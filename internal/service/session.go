package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/roomhive/room-rental-api/internal/config"
	"github.com/roomhive/room-rental-api/internal/model"
	"github.com/roomhive/room-rental-api/internal/queue"
	"github.com/roomhive/room-rental-api/internal/repository"
	"github.com/roomhive/room-rental-api/internal/utils"
)

// AccountStore is the credential store the session service depends on.
// *repository.AccountRepo implements it; tests use in-memory fakes.
type AccountStore interface {
	Create(ctx context.Context, a model.Account) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	GetByID(ctx context.Context, id uint64) (model.Account, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	SetVerified(ctx context.Context, id uint64, verified bool) error
	SetBanned(ctx context.Context, id uint64, banned bool) error
	UpdateProfile(ctx context.Context, id uint64, name, phone string, addr model.Address, prefs model.Preferences) error
}

// Blacklist is the revocation store. *repository.BlacklistRepo implements
// it over Redis.
type Blacklist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Mailer enqueues outbound email. *EmailPublisher implements it over
// RabbitMQ. Every call site treats publishing as best effort.
type Mailer interface {
	Publish(ctx context.Context, ev queue.EmailRequestedEvent) error
}

// SessionService orchestrates the account and session lifecycle across
// the credential store, the revocation store and the mailer.
type SessionService struct {
	Cfg       config.Config
	Accounts  AccountStore
	Blacklist Blacklist
	Mail      Mailer
	Log       *slog.Logger
}

func NewSessionService(cfg config.Config, accounts AccountStore, bl Blacklist, mail Mailer, log *slog.Logger) *SessionService {
	return &SessionService{Cfg: cfg, Accounts: accounts, Blacklist: bl, Mail: mail, Log: log}
}

// dummyHash is compared against when login hits an unknown email, so the
// request costs a bcrypt verification either way and response timing does
// not reveal whether the account exists. It is not a real credential.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// RegisterRequest carries the registration input after transport
// decoding. Role may be empty; only USER and OWNER are self-registrable.
type RegisterRequest struct {
	FullName    string
	Email       string
	Phone       string
	Password    string
	Role        string
	Address     model.Address
	Preferences model.Preferences
}

// TokenPair is a freshly issued access + refresh token pair.
type TokenPair struct {
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// AuthResult is returned by Register and Login: the redacted account and
// a new token pair.
type AuthResult struct {
	Account model.PublicAccount
	Tokens  TokenPair
}

// Register validates the input, creates the account with a hashed
// password and verification pending, issues a token pair and enqueues the
// verification email. Email dispatch is fire-and-forget: a publish
// failure is logged and never fails the registration.
func (s *SessionService) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRegistration(req); err != nil {
		return AuthResult{}, err
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleOwner {
		role = model.RoleUser
	}

	// Existence pre-check. Only an optimization: the unique index on
	// accounts.email is the source of truth under concurrent registration.
	if _, err := s.Accounts.GetByEmail(ctx, req.Email); err == nil {
		return AuthResult{}, E(KindAccountExists, "an account with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return AuthResult{}, wrapE(KindInternal, "account lookup failed", err)
	}

	hash, err := utils.HashPassword(req.Password, s.Cfg.BcryptCost)
	if err != nil {
		return AuthResult{}, wrapE(KindInternal, "password hashing failed", err)
	}

	id, err := s.Accounts.Create(ctx, model.Account{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		Address:      req.Address,
		Preferences:  req.Preferences,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			// Lost a race with a concurrent registration of the same email.
			return AuthResult{}, E(KindAccountExists, "an account with this email already exists")
		}
		return AuthResult{}, wrapE(KindInternal, "account creation failed", err)
	}

	acct, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return AuthResult{}, wrapE(KindInternal, "account reload failed", err)
	}

	pair, err := s.issuePair(acct)
	if err != nil {
		return AuthResult{}, err
	}

	s.sendActionEmail(ctx, acct, utils.PurposeVerifyEmail, queue.TemplateVerifyEmail)

	return AuthResult{Account: model.Public(acct), Tokens: pair}, nil
}

// Login authenticates an email/password pair and issues a fresh token
// pair. Unknown email and wrong password produce the identical error so
// responses cannot be used to enumerate accounts. Prior sessions are left
// untouched; concurrent sessions per account are permitted.
func (s *SessionService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	acct, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a bcrypt comparison anyway to keep timing uniform.
			_ = utils.VerifyPassword(dummyHash, password)
			return AuthResult{}, E(KindInvalidCredentials, "invalid email or password")
		}
		return AuthResult{}, wrapE(KindInternal, "account lookup failed", err)
	}
	if !utils.VerifyPassword(acct.PasswordHash, password) {
		return AuthResult{}, E(KindInvalidCredentials, "invalid email or password")
	}
	if acct.IsBanned {
		return AuthResult{}, E(KindAccountBanned, "account is banned")
	}

	pair, err := s.issuePair(acct)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Account: model.Public(acct), Tokens: pair}, nil
}

// VerifyEmail consumes a verification action token and flips the
// account's verification flag.
func (s *SessionService) VerifyEmail(ctx context.Context, token string) (model.PublicAccount, error) {
	claims, err := utils.VerifyToken(s.Cfg.JWTActionSecret, token)
	if err != nil || claims.Purpose != utils.PurposeVerifyEmail {
		return model.PublicAccount{}, E(KindInvalidToken, "invalid or expired verification token")
	}
	acct, err := s.Accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicAccount{}, E(KindAccountNotFound, "account no longer exists")
		}
		return model.PublicAccount{}, wrapE(KindInternal, "account lookup failed", err)
	}
	if !acct.IsVerified {
		if err := s.Accounts.SetVerified(ctx, acct.ID, true); err != nil {
			return model.PublicAccount{}, wrapE(KindInternal, "verification update failed", err)
		}
		acct.IsVerified = true
		s.sendTemplateEmail(ctx, acct, queue.TemplateWelcome, nil)
	}
	return model.Public(acct), nil
}

// Refresh exchanges a valid refresh token for a brand new access token
// AND a brand new refresh token. The consumed refresh token is
// blacklisted, closing the replay window that motivates rotation in the
// first place.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	claims, err := utils.VerifyToken(s.Cfg.JWTRefreshSecret, refreshToken)
	if err != nil {
		return AuthResult{}, E(KindInvalidRefreshToken, "invalid refresh token")
	}
	revoked, err := s.Blacklist.IsRevoked(ctx, refreshToken)
	if err != nil {
		return AuthResult{}, wrapE(KindInternal, "revocation lookup failed", err)
	}
	if revoked {
		return AuthResult{}, E(KindInvalidRefreshToken, "invalid refresh token")
	}

	acct, err := s.Accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, E(KindInvalidRefreshToken, "invalid refresh token")
		}
		return AuthResult{}, wrapE(KindInternal, "account lookup failed", err)
	}
	if acct.IsBanned {
		return AuthResult{}, E(KindAccountBanned, "account is banned")
	}

	pair, err := s.issuePair(acct)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.Blacklist.Revoke(ctx, refreshToken, claims.Exp); err != nil {
		s.Log.Warn("refresh rotation: revoking consumed token failed", "err", err)
	}
	return AuthResult{Account: model.Public(acct), Tokens: pair}, nil
}

// Logout revokes the presented access token, and the refresh token too
// when the caller supplies one. The refresh token is never revoked
// implicitly.
func (s *SessionService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.RevokeToken(ctx, accessToken); err != nil {
		return err
	}
	if refreshToken != "" {
		return s.RevokeToken(ctx, refreshToken)
	}
	return nil
}

// RevokeToken inserts a token into the blacklist until its natural
// expiry. The token's expiry is decoded without signature verification:
// revoking an already-invalid token is harmless, so only undecodable
// input is rejected.
func (s *SessionService) RevokeToken(ctx context.Context, token string) error {
	exp, err := utils.DecodeExpiry(token)
	if err != nil {
		return E(KindInvalidToken, "malformed token")
	}
	if err := s.Blacklist.Revoke(ctx, token, exp); err != nil {
		return wrapE(KindInternal, "revocation failed", err)
	}
	return nil
}

// IsRevoked is the point lookup used by the authorization gate on every
// authenticated request.
func (s *SessionService) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.Blacklist.IsRevoked(ctx, token)
}

// ChangePassword replaces the password after verifying the current one.
func (s *SessionService) ChangePassword(ctx context.Context, accountID uint64, current, newPassword string) error {
	acct, err := s.Accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return E(KindAccountNotFound, "account not found")
		}
		return wrapE(KindInternal, "account lookup failed", err)
	}
	if !utils.VerifyPassword(acct.PasswordHash, current) {
		return E(KindInvalidCredentials, "current password is incorrect")
	}
	return s.replacePassword(ctx, acct.ID, newPassword)
}

// RequestPasswordReset enqueues a reset email when the account exists.
// It reports success either way so the endpoint cannot be used to probe
// for registered addresses.
func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	acct, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return wrapE(KindInternal, "account lookup failed", err)
	}
	s.sendActionEmail(ctx, acct, utils.PurposeResetPassword, queue.TemplateResetPassword)
	return nil
}

// ResetPassword consumes a reset action token and replaces the password.
// The consumed token is blacklisted so a reset link works exactly once.
func (s *SessionService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := utils.VerifyToken(s.Cfg.JWTActionSecret, token)
	if err != nil || claims.Purpose != utils.PurposeResetPassword {
		return E(KindInvalidResetToken, "invalid or expired reset token")
	}
	revoked, err := s.Blacklist.IsRevoked(ctx, token)
	if err != nil {
		return wrapE(KindInternal, "revocation lookup failed", err)
	}
	if revoked {
		return E(KindInvalidResetToken, "invalid or expired reset token")
	}
	if err := s.replacePassword(ctx, claims.AccountID, newPassword); err != nil {
		return err
	}
	if err := s.Blacklist.Revoke(ctx, token, claims.Exp); err != nil {
		s.Log.Warn("reset: revoking consumed token failed", "err", err)
	}
	return nil
}

// GetAccount returns the redacted account for the profile endpoint.
func (s *SessionService) GetAccount(ctx context.Context, id uint64) (model.PublicAccount, error) {
	acct, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicAccount{}, E(KindAccountNotFound, "account not found")
		}
		return model.PublicAccount{}, wrapE(KindInternal, "account lookup failed", err)
	}
	return model.Public(acct), nil
}

// UpdateProfile updates mutable profile attributes and returns the fresh
// redacted account.
func (s *SessionService) UpdateProfile(ctx context.Context, id uint64, name, phone string, addr model.Address, prefs model.Preferences) (model.PublicAccount, error) {
	if strings.TrimSpace(name) == "" || !allAddressFields(addr) {
		return model.PublicAccount{}, E(KindMissingFields, "name and full address are required")
	}
	if !utils.ValidPhone(phone) {
		return model.PublicAccount{}, E(KindInvalidPhone, "phone must be exactly 10 digits")
	}
	if err := s.Accounts.UpdateProfile(ctx, id, strings.TrimSpace(name), strings.TrimSpace(phone), addr, prefs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicAccount{}, E(KindAccountNotFound, "account not found")
		}
		return model.PublicAccount{}, wrapE(KindInternal, "profile update failed", err)
	}
	return s.GetAccount(ctx, id)
}

// SetBan flips the ban flag. Administrative: exposed only behind the
// ADMIN role.
func (s *SessionService) SetBan(ctx context.Context, id uint64, banned bool) error {
	if err := s.Accounts.SetBanned(ctx, id, banned); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return E(KindAccountNotFound, "account not found")
		}
		return wrapE(KindInternal, "ban update failed", err)
	}
	return nil
}

// ----- internals -----

func (s *SessionService) issuePair(acct model.Account) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.Cfg.JWTAccessSecret, acct.ID, acct.Role, s.Cfg.AccessTTLMin)
	if err != nil {
		return TokenPair{}, wrapE(KindInternal, "access token issue failed", err)
	}
	refresh, err := utils.NewRefreshToken(s.Cfg.JWTRefreshSecret, acct.ID, s.Cfg.RefreshTTLDays)
	if err != nil {
		return TokenPair{}, wrapE(KindInternal, "refresh token issue failed", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *SessionService) replacePassword(ctx context.Context, id uint64, newPassword string) error {
	if !utils.ValidPassword(newPassword) {
		return E(KindWeakPassword, "password must be at least 8 characters with 3 of 4 character classes")
	}
	hash, err := utils.HashPassword(newPassword, s.Cfg.BcryptCost)
	if err != nil {
		return wrapE(KindInternal, "password hashing failed", err)
	}
	if err := s.Accounts.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return E(KindAccountNotFound, "account not found")
		}
		return wrapE(KindInternal, "password update failed", err)
	}
	return nil
}

// sendActionEmail issues a one-hour action token and enqueues the email
// carrying it. Best effort only: failures are logged and swallowed.
func (s *SessionService) sendActionEmail(ctx context.Context, acct model.Account, purpose, template string) {
	token, _, err := utils.NewActionToken(s.Cfg.JWTActionSecret, acct.ID, purpose, s.Cfg.ActionTTLMin)
	if err != nil {
		s.Log.Warn("action token issue failed", "purpose", purpose, "err", err)
		return
	}
	s.sendTemplateEmail(ctx, acct, template, map[string]string{"token": token})
}

func (s *SessionService) sendTemplateEmail(ctx context.Context, acct model.Account, template string, data map[string]string) {
	ev := queue.EmailRequestedEvent{
		To:          acct.Email,
		Name:        acct.FullName,
		Template:    template,
		Data:        data,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Mail.Publish(ctx, ev); err != nil {
		s.Log.Warn("email enqueue failed", "template", template, "err", err)
	}
}

func validateRegistration(req RegisterRequest) error {
	if strings.TrimSpace(req.FullName) == "" || req.Email == "" || req.Phone == "" ||
		req.Password == "" || !allAddressFields(req.Address) {
		return E(KindMissingFields, "name, email, phone, password and full address are required")
	}
	if !utils.ValidEmail(req.Email) {
		return E(KindInvalidEmail, "invalid email format")
	}
	if !utils.ValidPhone(req.Phone) {
		return E(KindInvalidPhone, "phone must be exactly 10 digits")
	}
	if !utils.ValidPassword(req.Password) {
		return E(KindWeakPassword, "password must be at least 8 characters with 3 of 4 character classes")
	}
	return nil
}

func allAddressFields(a model.Address) bool {
	return strings.TrimSpace(a.Street) != "" && strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.State) != "" && strings.TrimSpace(a.PostalCode) != ""
}
