package config

import (
    "crypto/rand"
    "encoding/hex"
    "os"
    "strconv"
)

type Config struct {
    Port           int
    DBDriver       string
    DBDsn          string
    JWTSecret      string
    JWTTTL         int64
    CookieName     string
    AdminInitUser  string
    AdminInitPass  string
    RateLimitRPS   int
    RateLimitBurst int

    // SMTP delivery for gift card notification mails. Empty host means
    // delivery is simulated: the payload is logged and the request reports success.
    SMTPHost     string
    SMTPPort     string
    SMTPUsername string
    SMTPPassword string
    SMTPSender   string
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func getinti(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        if i, err := strconv.Atoi(v); err == nil {
            return i
        }
    }
    return def
}

func getint64(key string, def int64) int64 {
    if v := os.Getenv(key); v != "" {
        if i, err := strconv.ParseInt(v, 10, 64); err == nil {
            return i
        }
    }
    return def
}

func generateJWTSecret() string {
    bytes := make([]byte, 32)
    if _, err := rand.Read(bytes); err != nil {
        panic("failed to generate JWT secret: " + err.Error())
    }
    return hex.EncodeToString(bytes)
}

func Load() *Config {
    jwtSecret := getenv("JWT_SECRET", "")
    if jwtSecret == "" || jwtSecret == "please_change_me" {
        jwtSecret = generateJWTSecret()
    }

    return &Config{
        Port:           getinti("PORT", 8000),
        DBDriver:       getenv("DB_DRIVER", "sqlite"),
        DBDsn:          getenv("DB_DSN", "./data/app.db"),
        JWTSecret:      jwtSecret,
        JWTTTL:         getint64("JWT_TTL", 86400),
        CookieName:     getenv("COOKIE_NAME", "auth_token"),
        AdminInitUser:  getenv("ADMIN_INIT_USER", ""),
        AdminInitPass:  getenv("ADMIN_INIT_PASS", ""),
        RateLimitRPS:   getinti("RATE_LIMIT_RPS", 20),
        RateLimitBurst: getinti("RATE_LIMIT_BURST", 40),
        SMTPHost:       getenv("SMTP_HOST", ""),
        SMTPPort:       getenv("SMTP_PORT", "587"),
        SMTPUsername:   getenv("SMTP_USERNAME", ""),
        SMTPPassword:   getenv("SMTP_PASSWORD", ""),
        SMTPSender:     getenv("SMTP_SENDER", "noreply@syrianstore.com"),
    }
}
