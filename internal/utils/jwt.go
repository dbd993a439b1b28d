package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel errors for verification failures
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"       // unique jti claim per issued token
)

// Action token purposes. Action tokens are short-lived single-purpose
// credentials carried in email links; the purpose claim prevents a
// verification token from being replayed as a reset token.
const (
    PurposeVerifyEmail   = "verify-email"
    PurposeResetPassword = "reset-password"
)

// Verification failures are collapsed into two sentinel errors: expiry is
// reported separately from every other defect (bad signature, wrong
// algorithm, malformed structure) so callers can surface distinct kinds.
var (
    ErrTokenExpired = errors.New("token expired")
    ErrTokenInvalid = errors.New("token invalid")
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and carried in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long-lived signed token used solely to obtain
// new access tokens. It is signed with its own secret so a leaked access
// secret never compromises refresh capability, and vice versa.
type RefreshToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // UTC expiration time
}

// Claims is the decoded content of a verified token.
type Claims struct {
    AccountID uint64    // sub claim
    Role      string    // role claim (access tokens only)
    Purpose   string    // purpose claim (action tokens only)
    Exp       time.Time // expiration time
    TokenID   string    // jti claim
}

// NewAccessToken builds and signs an HS256 JWT for an account. The JWT
// carries the subject (sub), the account's role, expiration (exp), issued
// at (iat) and a unique token ID (jti).
func NewAccessToken(secret string, accountID uint64, role string, ttlMin int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  accountID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
        "jti":  uuid.NewString(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs a refresh JWT. Refresh tokens carry no
// role claim: the role is re-read from the account record when the token
// is exchanged, so a role change takes effect on the next refresh.
func NewRefreshToken(secret string, accountID uint64, ttlDays int) (RefreshToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "sub": accountID,
        "exp": exp.Unix(),
        "iat": time.Now().UTC().Unix(),
        "jti": uuid.NewString(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{Token: signed, Exp: exp}, nil
}

// NewActionToken builds and signs a short-lived single-purpose token for
// email verification or password reset links.
func NewActionToken(secret string, accountID uint64, purpose string, ttlMin int) (string, time.Time, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":     accountID,
        "purpose": purpose,
        "exp":     exp.Unix(),
        "iat":     time.Now().UTC().Unix(),
        "jti":     uuid.NewString(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

// VerifyToken parses and validates a token against the given secret. It
// returns ErrTokenExpired when the token is past its exp claim and
// ErrTokenInvalid for every other defect. A token signed with a different
// secret (e.g. an access token presented where a refresh token is
// expected) fails with ErrTokenInvalid.
func VerifyToken(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens using a signing method other than HMAC.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return Claims{}, ErrTokenExpired
        }
        return Claims{}, ErrTokenInvalid
    }
    if !tok.Valid {
        return Claims{}, ErrTokenInvalid
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrTokenInvalid
    }
    return claimsFromMap(mc)
}

// DecodeExpiry extracts the exp claim of a token WITHOUT validating its
// signature. Revocation uses this: blacklisting an already-invalid token
// is harmless, so revocation only needs the token to be decodable.
func DecodeExpiry(raw string) (time.Time, error) {
    tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
    if err != nil {
        return time.Time{}, ErrTokenInvalid
    }
    exp, err := tok.Claims.GetExpirationTime()
    if err != nil || exp == nil {
        return time.Time{}, ErrTokenInvalid
    }
    return exp.Time, nil
}

// claimsFromMap converts jwt.MapClaims into a typed Claims struct. JWT
// numeric values decode as float64; sub is converted back to uint64.
func claimsFromMap(mc jwt.MapClaims) (Claims, error) {
    var c Claims
    sub, ok := mc["sub"].(float64)
    if !ok || sub <= 0 {
        return Claims{}, ErrTokenInvalid
    }
    c.AccountID = uint64(sub)
    if role, ok := mc["role"].(string); ok {
        c.Role = role
    }
    if purpose, ok := mc["purpose"].(string); ok {
        c.Purpose = purpose
    }
    if jti, ok := mc["jti"].(string); ok {
        c.TokenID = jti
    }
    if exp, ok := mc["exp"].(float64); ok {
        c.Exp = time.Unix(int64(exp), 0).UTC()
    }
    return c, nil
}
