package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	headerRequestID = "Ax-Request-Id"
	headerRequestAt = "Ax-Request-At"
)

var (
	errMissingRequestID = errors.New("missing " + headerRequestID)
	errBadRequestID     = errors.New("invalid " + headerRequestID + " format")
	errMissingRequestAt = errors.New("missing " + headerRequestAt)
	errBadRequestAt     = errors.New(headerRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
	errSkewedRequestAt  = errors.New(headerRequestAt + " too skewed")
)

type requestMeta struct {
	ID string
	At time.Time
}

func parseRequestMeta(h http.Header, now time.Time, skew time.Duration) (requestMeta, error) {
	raw := strings.TrimSpace(h.Get(headerRequestID))
	if raw == "" {
		return requestMeta{}, errMissingRequestID
	}
	id, ok := canonicalRequestID(raw)
	if !ok {
		return requestMeta{}, errBadRequestID
	}
	at, err := parseRequestAt(h.Get(headerRequestAt))
	if err != nil {
		return requestMeta{}, err
	}
	if at.Before(now.Add(-skew)) || at.After(now.Add(skew)) {
		return requestMeta{}, errSkewedRequestAt
	}
	return requestMeta{ID: id, At: at}, nil
}

// canonicalRequestID accepts any 128-bit id uuid.Parse understands (dashed,
// 32-hex, braces, urn) and folds it to the lowercase dashed form, so every
// spelling of one id maps to one key.
func canonicalRequestID(raw string) (string, bool) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// parseRequestAt accepts epoch seconds, epoch milliseconds or RFC3339 with a
// zone. Timestamps without a zone are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errMissingRequestAt
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errBadRequestAt
	}
	return t.UTC(), nil
}
