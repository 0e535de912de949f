package idempotency

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/logging"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"

	DefaultTTL = 24 * time.Hour
)

type record struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Middleware replays the stored response when a request repeats an
// Idempotency-Key already used by the same caller on the same path. Requests
// without the header pass through. Only successful responses are stored, so a
// failed attempt can be retried with the same key. A store outage degrades to
// plain pass-through.
func Middleware(store Store, ttl time.Duration, scopeOf func(echo.Context) string) echo.MiddlewareFunc {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idemKey := strings.TrimSpace(c.Request().Header.Get(HeaderKey))
			if store == nil || idemKey == "" {
				return next(c)
			}
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return apperr.New(apperr.CodeValidation, "could not read request body")
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.Key(scopeOf(c)+"|"+c.Request().Method+"|"+c.Request().URL.Path, idemKey)

			stored, err := store.Get(ctx, key)
			switch {
			case err == nil:
				rec, decodeErr := decodeRecord(stored)
				if decodeErr != nil {
					return apperr.Internal(decodeErr, "decode idempotency record")
				}
				if rec.RequestHash != requestHash {
					return apperr.Conflict("Idempotency-Key reused with a different request body.")
				}
				return writeStoredResponse(c, rec)
			case !errors.Is(err, ErrMiss):
				l.Warn().Err(err).Msg("idempotency_lookup_failed")
				return next(c)
			}

			capture := &responseCapture{ResponseWriter: c.Response().Writer}
			c.Response().Writer = capture
			if err := next(c); err != nil {
				return err
			}

			status := c.Response().Status
			if status < 200 || status >= 300 {
				return nil
			}
			payload, err := json.Marshal(record{
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				RequestHash: requestHash,
			})
			if err != nil {
				l.Error().Err(err).Msg("marshal idempotency record")
				return nil
			}
			if _, err := store.SetNX(ctx, key, string(payload), ttl); err != nil {
				l.Error().Err(err).Msg("persist idempotency record")
			}
			return nil
		}
	}
}

func decodeRecord(payload string) (*record, error) {
	var rec record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func writeStoredResponse(c echo.Context, rec *record) error {
	body, err := base64.StdEncoding.DecodeString(rec.Body)
	if err != nil {
		return apperr.Internal(err, "decode idempotency body")
	}
	c.Response().Header().Set(HeaderReplayed, "true")
	contentType := rec.ContentType
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(rec.Status, contentType, body)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type responseCapture struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *responseCapture) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
