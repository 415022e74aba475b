package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// pending records expire on their own if the process dies mid-request
	pendingLockTTL = 60 * time.Second
	maxClockSkew   = 10 * time.Minute
	storeTimeout   = 2 * time.Second
)

// SubjectFunc returns the authenticated user id of the request, or "".
type SubjectFunc func(c echo.Context) string

type captureWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func nowUTC() time.Time { return time.Now().UTC() }

func reject(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// IdempotencyMiddleware makes mutating requests safe to retry. Each request
// carries Ax-Request-Id and Ax-Request-At; the first response for a given
// method, route, caller and request id is stored for ttl and replayed for
// repeats with the same body. A different body under the same id is a 409.
// It must run after authentication so subject can resolve the caller.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration, subject SubjectFunc) echo.MiddlewareFunc {
	store := &replayStore{rdb: rdb, lockTTL: pendingLockTTL, ttl: ttl}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			meta, err := parseRequestMeta(req.Header, nowUTC(), maxClockSkew)
			if err != nil {
				return reject(c, http.StatusBadRequest, err.Error())
			}
			userID := strings.TrimSpace(subject(c))
			if userID == "" {
				return reject(c, http.StatusUnauthorized, "unauthenticated")
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return reject(c, http.StatusBadRequest, "unreadable body")
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			digest := hashBody(body)

			key := recordKey(req.Method, c.Path(), userID, meta.ID)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			won, err := store.reserve(ctx, key, record{
				Pending:   true,
				BodyHash:  digest,
				RequestID: meta.ID,
				RequestAt: meta.At.UnixMilli(),
				StoredAt:  nowUTC(),
			})
			if err != nil {
				slog.Warn("idempotency: reserve", slog.String("key", key), slog.Any("err", err))
				return reject(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !won {
				cur, err := store.load(ctx, key)
				if err != nil && !errors.Is(err, redis.Nil) {
					slog.Warn("idempotency: load", slog.String("key", key), slog.Any("err", err))
				}
				switch {
				case cur.BodyHash != "" && cur.BodyHash != digest:
					return reject(c, http.StatusConflict, headerRequestID+" reused with different body")
				case cur.replayable():
					return c.Blob(cur.Status, echo.MIMEApplicationJSON, cur.Body)
				default:
					return reject(c, http.StatusConflict, "request is already in progress")
				}
			}

			w := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(req.Context()), storeTimeout)
			defer cancelSave()
			if w.status >= http.StatusInternalServerError {
				// server failures stay retryable
				if err := store.release(saveCtx, key); err != nil {
					slog.Warn("idempotency: release", slog.String("key", key), slog.Any("err", err))
				}
				return nil
			}
			err = store.commit(saveCtx, key, record{
				Status:    w.status,
				Body:      w.buf.Bytes(),
				BodyHash:  digest,
				RequestID: meta.ID,
				RequestAt: meta.At.UnixMilli(),
				StoredAt:  nowUTC(),
			})
			if err != nil {
				slog.Warn("idempotency: commit", slog.String("key", key), slog.Any("err", err))
			}
			return nil
		}
	}
}
