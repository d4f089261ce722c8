package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and capacities.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing
    Booking        BookingConfig // seating capacity and slot grid settings
}

// BookingConfig describes the restaurant's seating capacity and the grid of
// reservable time slots.  All values come from environment variables with
// defaults that match the café's physical layout: 30 covers across 10
// tables, half-hour slots between 09:00 and 21:30, peak demand around
// lunch and dinner.  Peak ranges are informational and never block a
// booking.
type BookingConfig struct {
    SeatsPerSlot  int    // maximum guests across all confirmed reservations in one slot (C)
    TablesPerSlot int    // maximum confirmed reservations in one slot (T)
    OpenHour      int    // first reservable hour of the day (inclusive)
    CloseHour     int    // last reservable hour of the day (inclusive)
    SlotMinutes   int    // slot granularity in minutes; must divide 60
    PeakRanges    string // comma-separated HH:MM-HH:MM ranges flagged as peak
    MaxPartySize  int    // largest party bookable online; bigger groups call the café
    MaxCommentLen int    // upper bound on reservation comment length
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Booking settings all
// have defaults so a bare environment still yields a working slot grid.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),             // environment (dev/test/prod)
        Port:           must("APP_PORT"),            // port to bind the HTTP server
        DBUser:         must("DB_USER"),             // database user
        DBPass:         os.Getenv("DB_PASS"),        // database password (empty allowed)
        DBHost:         must("DB_HOST"),             // database host
        DBPort:         must("DB_PORT"),             // database port
        DBName:         must("DB_NAME"),             // database name
        JWTSecret:      must("JWT_SECRET"),          // secret used for signing JWTs
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
        BcryptCost:     mustInt("BCRYPT_COST"),      // bcrypt cost factor
        Booking:        LoadBookingConfig(),         // capacity and slot settings
    }
}

// LoadBookingConfig builds a BookingConfig from the environment.  Values
// that are unset or nonsensical fall back to defaults rather than aborting
// startup; capacity misconfiguration should never take the site down.
func LoadBookingConfig() BookingConfig {
    b := BookingConfig{
        SeatsPerSlot:  envInt("SEATS_PER_SLOT", 30),
        TablesPerSlot: envInt("TABLES_PER_SLOT", 10),
        OpenHour:      envInt("OPEN_HOUR", 9),
        CloseHour:     envInt("CLOSE_HOUR", 21),
        SlotMinutes:   envInt("SLOT_MINUTES", 30),
        PeakRanges:    envStr("PEAK_RANGES", "12:00-14:00,19:00-21:00"),
        MaxPartySize:  envInt("MAX_PARTY_SIZE", 12),
        MaxCommentLen: envInt("MAX_COMMENT_LEN", 500),
    }
    if b.SeatsPerSlot < 1 { b.SeatsPerSlot = 1 }
    if b.TablesPerSlot < 1 { b.TablesPerSlot = 1 }
    if b.SlotMinutes < 1 || 60%b.SlotMinutes != 0 { b.SlotMinutes = 30 }
    if b.OpenHour < 0 || b.OpenHour > 23 { b.OpenHour = 9 }
    if b.CloseHour < b.OpenHour || b.CloseHour > 23 { b.CloseHour = 21 }
    if b.MaxPartySize < 1 { b.MaxPartySize = 1 }
    if b.MaxCommentLen < 0 { b.MaxCommentLen = 0 }
    return b
}

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
