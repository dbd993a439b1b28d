package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomhive/room-rental-api/internal/config"
	"github.com/roomhive/room-rental-api/internal/model"
	"github.com/roomhive/room-rental-api/internal/queue"
	"github.com/roomhive/room-rental-api/internal/repository"
	"github.com/roomhive/room-rental-api/internal/utils"
)

// ----- in-memory fakes -----

type fakeAccounts struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]model.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{nextID: 1, byID: map[uint64]model.Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, a model.Account) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.byID {
		if ex.Email == a.Email {
			return 0, repository.ErrEmailExists
		}
	}
	a.ID = f.nextID
	f.nextID++
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	f.byID[a.ID] = a
	return a.ID, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Account{}, repository.ErrNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id uint64) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return model.Account{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id uint64, hash string) error {
	return f.patch(id, func(a *model.Account) { a.PasswordHash = hash })
}

func (f *fakeAccounts) SetVerified(_ context.Context, id uint64, v bool) error {
	return f.patch(id, func(a *model.Account) { a.IsVerified = v })
}

func (f *fakeAccounts) SetBanned(_ context.Context, id uint64, b bool) error {
	return f.patch(id, func(a *model.Account) { a.IsBanned = b })
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, id uint64, name, phone string, addr model.Address, prefs model.Preferences) error {
	return f.patch(id, func(a *model.Account) {
		a.FullName, a.Phone, a.Address, a.Preferences = name, phone, addr, prefs
	})
}

func (f *fakeAccounts) patch(id uint64, fn func(*model.Account)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&a)
	a.UpdatedAt = time.Now().UTC()
	f.byID[id] = a
	return nil
}

type fakeBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: map[string]time.Time{}}
}

func (f *fakeBlacklist) Revoke(_ context.Context, token string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if time.Until(exp) <= 0 {
		return nil
	}
	f.revoked[token] = exp
	return nil
}

func (f *fakeBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[token]
	return ok, nil
}

type fakeMailer struct {
	mu     sync.Mutex
	events []queue.EmailRequestedEvent
}

func (f *fakeMailer) Publish(_ context.Context, ev queue.EmailRequestedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeMailer) byTemplate(tpl string) []queue.EmailRequestedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []queue.EmailRequestedEvent
	for _, ev := range f.events {
		if ev.Template == tpl {
			out = append(out, ev)
		}
	}
	return out
}

// ----- harness -----

func testConfig() config.Config {
	return config.Config{
		Env:              "test",
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTActionSecret:  "action-secret",
		AccessTTLMin:     15,
		RefreshTTLDays:   7,
		ActionTTLMin:     60,
		BcryptCost:       4, // minimum cost keeps the suite fast
	}
}

func newTestService() (*SessionService, *fakeAccounts, *fakeBlacklist, *fakeMailer) {
	accounts := newFakeAccounts()
	bl := newFakeBlacklist()
	mailer := &fakeMailer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSessionService(testConfig(), accounts, bl, mailer, log), accounts, bl, mailer
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		FullName: "Ann Example",
		Email:    "ann@x.com",
		Phone:    "0123456789",
		Password: "Abcd123!",
		Address: model.Address{
			Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701",
		},
	}
}

// ----- registration -----

func TestRegisterIssuesTokensAndQueuesVerification(t *testing.T) {
	svc, _, _, mailer := newTestService()

	res, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "ann@x.com", res.Account.Email)
	assert.Equal(t, model.RoleUser, res.Account.Role)
	assert.False(t, res.Account.IsVerified)
	assert.NotEmpty(t, res.Tokens.Access.Token)
	assert.NotEmpty(t, res.Tokens.Refresh.Token)
	assert.NotEqual(t, res.Tokens.Access.Token, res.Tokens.Refresh.Token)

	sent := mailer.byTemplate(queue.TemplateVerifyEmail)
	require.Len(t, sent, 1)
	assert.Equal(t, "ann@x.com", sent[0].To)
	assert.NotEmpty(t, sent[0].Data["token"])
}

func TestRegisterNormalizesEmailAndDefaultsRole(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRegistration()
	req.Email = "  Ann@X.Com "
	req.Role = "ADMIN" // not self-registrable; falls back to USER

	res, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", res.Account.Email)
	assert.Equal(t, model.RoleUser, res.Account.Role)
}

func TestRegisterOwnerRole(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRegistration()
	req.Role = "OWNER"
	res, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, res.Account.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	assert.Equal(t, KindAccountExists, KindOf(err))
}

func TestRegisterConcurrentDuplicateExactlyOneWins(t *testing.T) {
	svc, _, _, _ := newTestService()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), validRegistration())
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		if err == nil {
			ok++
		} else if KindOf(err) == KindAccountExists {
			dup++
		}
	}
	assert.Equal(t, 1, ok, "exactly one registration must succeed")
	assert.Equal(t, 1, dup, "the loser must see ACCOUNT_EXISTS")
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
		kind   Kind
	}{
		{"missing name", func(r *RegisterRequest) { r.FullName = "" }, KindMissingFields},
		{"missing street", func(r *RegisterRequest) { r.Address.Street = "" }, KindMissingFields},
		{"missing postal code", func(r *RegisterRequest) { r.Address.PostalCode = " " }, KindMissingFields},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, KindInvalidEmail},
		{"short phone", func(r *RegisterRequest) { r.Phone = "12345" }, KindInvalidPhone},
		{"alpha phone", func(r *RegisterRequest) { r.Phone = "01234abcde" }, KindInvalidPhone},
		{"short password", func(r *RegisterRequest) { r.Password = "Ab1!" }, KindWeakPassword},
		{"two classes only", func(r *RegisterRequest) { r.Password = "abcdefgh1" }, KindWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegistration()
			tc.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tc.kind, KindOf(err))
		})
	}
}

func TestRegisterAcceptsThreeOfFourClasses(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRegistration()
	req.Password = "abcdEFGH1" // lower + upper + digit, no special
	_, err := svc.Register(context.Background(), req)
	assert.NoError(t, err)
}

// ----- login -----

func TestLoginUnknownEmailAndWrongPasswordAreIdentical(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, errUnknown := svc.Login(context.Background(), "ghost@x.com", "Abcd123!")
	_, errWrong := svc.Login(context.Background(), "ann@x.com", "Wrong123!")

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, KindInvalidCredentials, KindOf(errUnknown))
	assert.Equal(t, KindInvalidCredentials, KindOf(errWrong))
	// Same message too, or the body would leak which check failed.
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLoginBannedAccount(t *testing.T) {
	svc, accounts, _, _ := newTestService()

	res, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NoError(t, accounts.SetBanned(context.Background(), res.Account.ID, true))

	_, err = svc.Login(context.Background(), "ann@x.com", "Abcd123!")
	require.Error(t, err)
	assert.Equal(t, KindAccountBanned, KindOf(err))
}

func TestLoginIssuesFreshPairWithoutTouchingPriorSessions(t *testing.T) {
	svc, _, bl, _ := newTestService()

	reg, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), "ann@x.com", "Abcd123!")
	require.NoError(t, err)

	assert.NotEqual(t, reg.Tokens.Access.Token, login.Tokens.Access.Token)
	assert.NotEqual(t, reg.Tokens.Refresh.Token, login.Tokens.Refresh.Token)

	// Registration's tokens are still honored.
	revoked, err := bl.IsRevoked(context.Background(), reg.Tokens.Access.Token)
	require.NoError(t, err)
	assert.False(t, revoked)
}

// ----- email verification -----

func TestVerifyEmailFlipsFlagOnce(t *testing.T) {
	svc, _, _, mailer := newTestService()

	res, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.False(t, res.Account.IsVerified)

	token := mailer.byTemplate(queue.TemplateVerifyEmail)[0].Data["token"]
	acct, err := svc.VerifyEmail(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, acct.IsVerified)
	assert.Len(t, mailer.byTemplate(queue.TemplateWelcome), 1)

	// Verifying again is a no-op, not an error, and sends no second welcome.
	acct, err = svc.VerifyEmail(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, acct.IsVerified)
	assert.Len(t, mailer.byTemplate(queue.TemplateWelcome), 1)
}

func TestVerifyEmailRejectsWrongPurposeAndGarbage(t *testing.T) {
	svc, _, _, _ := newTestService()

	res, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	// A reset token must not verify an email even though the secret matches.
	reset, _, err := utils.NewActionToken(testConfig().JWTActionSecret, res.Account.ID, utils.PurposeResetPassword, 60)
	require.NoError(t, err)

	_, errPurpose := svc.VerifyEmail(context.Background(), reset)
	_, errGarbage := svc.VerifyEmail(context.Background(), "not.a.token")
	assert.Equal(t, KindInvalidToken, KindOf(errPurpose))
	assert.Equal(t, KindInvalidToken, KindOf(errGarbage))
}

// ----- refresh rotation -----

func TestRefreshRotatesBothTokensAndConsumesOld(t *testing.T) {
	svc, _, _, _ := newTestService()

	reg, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	oldRefresh := reg.Tokens.Refresh.Token

	res, err := svc.Refresh(context.Background(), oldRefresh)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tokens.Access.Token)
	assert.NotEqual(t, oldRefresh, res.Tokens.Refresh.Token, "refresh token must rotate")
	assert.False(t, res.Tokens.Access.Exp.Before(reg.Tokens.Access.Exp))

	// Replaying the consumed refresh token fails.
	_, err = svc.Refresh(context.Background(), oldRefresh)
	require.Error(t, err)
	assert.Equal(t, KindInvalidRefreshToken, KindOf(err))
}

func TestRefreshRejectsExpiredAndForeignTokens(t *testing.T) {
	svc, _, _, _ := newTestService()

	reg, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	expired, err := utils.NewRefreshToken(testConfig().JWTRefreshSecret, reg.Account.ID, -1)
	require.NoError(t, err)

	_, errExpired := svc.Refresh(context.Background(), expired.Token)
	assert.Equal(t, KindInvalidRefreshToken, KindOf(errExpired))

	// An access token is signed with the access secret and must not pass
	// as a refresh token.
	_, errAccess := svc.Refresh(context.Background(), reg.Tokens.Access.Token)
	assert.Equal(t, KindInvalidRefreshToken, KindOf(errAccess))
}

// ----- revocation -----

func TestLogoutBlacklistsAccessTokenImmediately(t *testing.T) {
	svc, _, _, _ := newTestService()

	reg, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	access := reg.Tokens.Access.Token
	refresh := reg.Tokens.Refresh.Token

	require.NoError(t, svc.Logout(context.Background(), access, ""))

	revoked, err := svc.IsRevoked(context.Background(), access)
	require.NoError(t, err)
	assert.True(t, revoked, "revocation must be visible immediately")

	// The paired refresh token is NOT implicitly revoked.
	revoked, err = svc.IsRevoked(context.Background(), refresh)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestLogoutWithRefreshTokenRevokesBoth(t *testing.T) {
	svc, _, _, _ := newTestService()

	reg, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), reg.Tokens.Access.Token, reg.Tokens.Refresh.Token))

	for _, tok := range []string{reg.Tokens.Access.Token, reg.Tokens.Refresh.Token} {
		revoked, err := svc.IsRevoked(context.Background(), tok)
		require.NoError(t, err)
		assert.True(t, revoked)
	}
}

func TestRevokeMalformedToken(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.RevokeToken(context.Background(), "garbage")
	require.Error(t, err)
	assert.Equal(t, KindInvalidToken, KindOf(err))
}

// ----- password management -----

func TestChangePasswordRequiresCurrent(t *testing.T) {
	svc, _, _, _ := newTestService()

	reg, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), reg.Account.ID, "Wrong123!", "Newpass1!")
	assert.Equal(t, KindInvalidCredentials, KindOf(err))

	require.NoError(t, svc.ChangePassword(context.Background(), reg.Account.ID, "Abcd123!", "Newpass1!"))

	_, err = svc.Login(context.Background(), "ann@x.com", "Newpass1!")
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), "ann@x.com", "Abcd123!")
	assert.Equal(t, KindInvalidCredentials, KindOf(err))
}

func TestResetPasswordRoundTrip(t *testing.T) {
	svc, _, _, mailer := newTestService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ann@x.com"))
	sent := mailer.byTemplate(queue.TemplateResetPassword)
	require.Len(t, sent, 1)
	token := sent[0].Data["token"]

	require.NoError(t, svc.ResetPassword(context.Background(), token, "Fresh123!"))

	_, err = svc.Login(context.Background(), "ann@x.com", "Fresh123!")
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), "ann@x.com", "Abcd123!")
	assert.Equal(t, KindInvalidCredentials, KindOf(err))

	// The reset link is single-use.
	err = svc.ResetPassword(context.Background(), token, "Another1!")
	assert.Equal(t, KindInvalidResetToken, KindOf(err))
}

func TestResetPasswordRejectsVerificationToken(t *testing.T) {
	svc, _, _, _ := newTestService()

	reg, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	verify, _, err := utils.NewActionToken(testConfig().JWTActionSecret, reg.Account.ID, utils.PurposeVerifyEmail, 60)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), verify, "Fresh123!")
	assert.Equal(t, KindInvalidResetToken, KindOf(err))
}

func TestRequestPasswordResetHidesUnknownEmails(t *testing.T) {
	svc, _, _, mailer := newTestService()

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@x.com"))
	assert.Empty(t, mailer.byTemplate(queue.TemplateResetPassword))
}

func TestWeakNewPasswordRejectedEverywhere(t *testing.T) {
	svc, _, _, mailer := newTestService()

	reg, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), reg.Account.ID, "Abcd123!", "weakpass")
	assert.Equal(t, KindWeakPassword, KindOf(err))

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ann@x.com"))
	token := mailer.byTemplate(queue.TemplateResetPassword)[0].Data["token"]
	err = svc.ResetPassword(context.Background(), token, "weakpass")
	assert.Equal(t, KindWeakPassword, KindOf(err))
}
