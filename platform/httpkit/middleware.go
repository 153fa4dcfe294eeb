package httpkit

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"convosell_backend/platform/config"
	"convosell_backend/platform/logger"
)

// RequestID attaches a request ID to each request and echoes it in the
// response headers. Incoming X-Request-ID values are trusted and reused.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(string(logger.RequestIDKey), requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestLogger logs each request with method, path, status and latency.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := float64(time.Since(start).Microseconds()) / 1000.0
		log.HTTPRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), latency, c.ClientIP())
	}
}

// SecurityHeaders sets common security response headers.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// ipRateLimiter keeps a token bucket per client IP.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

func newIPRateLimiter(r rate.Limit, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// RateLimit limits requests per client IP. Intended for public endpoints
// such as the chat and order-tracking routes.
func RateLimit(log *logger.Logger, perSecond float64, burst int) gin.HandlerFunc {
	limiter := newIPRateLimiter(rate.Limit(perSecond), burst)
	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			log.RateLimitExceeded(c.ClientIP(), c.Request.URL.Path)
			Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthRateLimit is a stricter limiter for login and signup endpoints.
func AuthRateLimit(log *logger.Logger) gin.HandlerFunc {
	return RateLimit(log, 1, 5)
}

// AuthRequired validates the Bearer token and stores the caller identity in
// the request context. When AUTH_DEV_BYPASS is enabled (development only,
// enforced at config load) a fixed identity is injected instead.
func AuthRequired(cfg config.JWTConfig, log *logger.Logger) gin.HandlerFunc {
	devIdentity := NewIdentity(uuid.MustParse("00000000-0000-0000-0000-000000000001"), "dev@localhost")

	return func(c *gin.Context) {
		if cfg.GetAuthDevBypass() {
			setIdentity(c, devIdentity)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.GetJWTAccessSecret()), nil
		})
		if err != nil || !token.Valid {
			Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token", nil)
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token subject", nil)
			c.Abort()
			return
		}
		email, _ := claims["email"].(string)

		setIdentity(c, NewIdentity(userID, email))
		c.Set(string(logger.UserIDKey), userID.String())
		c.Next()
	}
}
