package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The three JWT secrets are deliberately distinct:
// access, refresh and action (email verification / password reset) tokens are
// signed with different keys so a leaked key only compromises one token kind.
type Config struct {
    Env              string // application environment (e.g. "dev", "prod")
    Port             string // HTTP port to listen on
    DBUser           string // database username
    DBPass           string // database password (optional)
    DBHost           string // database host address
    DBPort           string // database port number
    DBName           string // database name
    JWTAccessSecret  string // secret used to sign access tokens
    JWTRefreshSecret string // secret used to sign refresh tokens
    JWTActionSecret  string // secret used to sign verification/reset tokens
    AccessTTLMin     int    // access token time-to-live in minutes (15)
    RefreshTTLDays   int    // refresh token time-to-live in days (7)
    ActionTTLMin     int    // action token time-to-live in minutes (60)
    BcryptCost       int    // bcrypt cost for password hashing (10)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:              must("APP_ENV"),
        Port:             must("APP_PORT"),
        DBUser:           must("DB_USER"),
        DBPass:           os.Getenv("DB_PASS"), // empty allowed
        DBHost:           must("DB_HOST"),
        DBPort:           must("DB_PORT"),
        DBName:           must("DB_NAME"),
        JWTAccessSecret:  must("JWT_ACCESS_SECRET"),
        JWTRefreshSecret: must("JWT_REFRESH_SECRET"),
        JWTActionSecret:  must("JWT_ACTION_SECRET"),
        AccessTTLMin:     mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays:   mustInt("REFRESH_TOKEN_TTL_DAYS"),
        ActionTTLMin:     mustInt("ACTION_TOKEN_TTL_MIN"),
        BcryptCost:       mustInt("BCRYPT_COST"),
    }
}

// IsDev reports whether the service runs in a development posture.
// Internal error detail is only ever included in responses when it does.
func (c Config) IsDev() bool { return c.Env == "dev" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
