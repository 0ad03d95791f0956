package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"smartband-store/internal/logging"
	"smartband-store/internal/metrics"
	"smartband-store/internal/service/session"
)

const (
	requestIDHeader = "X-Request-Id"
	sessionHeader   = "X-Session-Token"
	sessionCtxKey   = "session"
	reqBodyLimit    = 8 * 1024
)

var redactedKeys = map[string]bool{
	"password":        true,
	"confirmpassword": true,
	"token":           true,
	"authorization":   true,
}

func redactJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return raw
	}
	var m any
	if err := json.Unmarshal(raw, &m); err != nil {
		return raw
	}
	var scrub func(any) any
	scrub = func(x any) any {
		switch v := x.(type) {
		case map[string]any:
			for k, val := range v {
				if redactedKeys[strings.ToLower(k)] {
					v[k] = "***redacted***"
					continue
				}
				v[k] = scrub(val)
			}
			return v
		case []any:
			for i := range v {
				v[i] = scrub(v[i])
			}
			return v
		default:
			return v
		}
	}
	b, err := json.Marshal(scrub(m))
	if err != nil {
		return raw
	}
	return b
}

// requestLogger tags every request with an id, stores a request-scoped logger
// and logs one line per request with the redacted JSON body.
func requestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		l := base.With("req_id", reqID, "method", c.Request.Method, "path", c.FullPath(), "remote", c.ClientIP())
		logging.With(c, l)

		var reqBody string
		if strings.Contains(c.GetHeader("Content-Type"), "application/json") && c.Request.Body != nil {
			var buf bytes.Buffer
			_, _ = io.CopyN(&buf, c.Request.Body, reqBodyLimit+1)
			rest, _ := io.ReadAll(c.Request.Body)
			_ = c.Request.Body.Close()
			full := append(buf.Bytes(), rest...)
			c.Request.Body = io.NopCloser(bytes.NewReader(full))
			logged := full
			if len(logged) > reqBodyLimit {
				logged = logged[:reqBodyLimit]
			}
			reqBody = string(redactJSON(logged))
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"dur_ms", time.Since(start).Milliseconds(),
			"resp_bytes", strconv.Itoa(c.Writer.Size()),
		}
		if reqBody != "" {
			attrs = append(attrs, "req_body", reqBody)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}
		if status >= http.StatusInternalServerError {
			l.Error("http_request", attrs...)
			return
		}
		l.Info("http_request", attrs...)
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// sessionMiddleware resolves the visitor's session from the X-Session-Token
// header or the session cookie and hands a new token back when one is minted.
func sessionMiddleware(resolver sessionResolver, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(sessionHeader)
		if token == "" {
			if v, err := c.Cookie(opts.CookieName); err == nil {
				token = v
			}
		}
		issued, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			logging.From(c, slog.Default()).Error("resolve session failed", "err", err)
			abortError(c, http.StatusServiceUnavailable, "session unavailable")
			return
		}
		if issued.Fresh {
			maxAge := int(time.Until(issued.ExpiresAt).Seconds())
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(opts.CookieName, issued.Token, maxAge, "/", "", opts.CookieSecure, true)
		}
		c.Header(sessionHeader, issued.Token)
		c.Set(sessionCtxKey, issued.Session)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionCtxKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

// rateLimiter caps requests per client, method and route in fixed windows. A
// nil counter disables it. Counter failures let the request through.
func rateLimiter(counter rateCounter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || maxRequests <= 0 || window <= 0 {
			c.Next()
			return
		}
		key := c.ClientIP() + ":" + c.Request.Method + ":" + c.FullPath()
		count, resetAt, err := counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			logging.From(c, slog.Default()).Warn("rate limiter unavailable", "err", err)
			c.Next()
			return
		}
		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
		if int(count) > maxRequests {
			abortError(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
