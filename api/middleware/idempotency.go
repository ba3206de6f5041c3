package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ajcastillo/gearmart-backend/api/responses"
	pkgerrors "github.com/ajcastillo/gearmart-backend/pkg/errors"
	"github.com/ajcastillo/gearmart-backend/pkg/logger"
	pkgredis "github.com/ajcastillo/gearmart-backend/pkg/redis"
)

const (
	defaultReplayTTL = 24 * time.Hour
	// A retried placement must never create a second order, so order routes
	// keep their first reply around much longer.
	placementReplayTTL = 7 * 24 * time.Hour
)

// replayTTLs maps "METHOD pattern" for each guarded mutation to how long its
// first reply stays replayable.
var replayTTLs = map[string]time.Duration{
	"POST /api/v1/auth/register":   defaultReplayTTL,
	"PUT /api/v1/cart":             defaultReplayTTL,
	"POST /api/v1/orders":          placementReplayTTL,
	"POST /api/v1/orders/checkout": placementReplayTTL,
}

func replayTTL(method, pattern string) (time.Duration, bool) {
	if pattern == "" {
		return 0, false
	}
	// Nested chi routers report "/api/v1/orders/" for a Post("/") leaf.
	ttl, ok := replayTTLs[method+" "+strings.TrimSuffix(pattern, "/")]
	return ttl, ok
}

// storedReply is the serialized first response for an idempotency key, held
// in redis until its TTL lapses.
type storedReply struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored first response when a client retries a
// guarded mutation with the same Idempotency-Key. A nil store disables the
// guard entirely.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, guarded := replayTTL(r.Method, routePattern(r))
			if !guarded || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if clientKey == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := requestFingerprint(body)
			key := store.IdempotencyKey(replayScope(r), clientKey)

			stored, err := store.Get(r.Context(), key)
			if err != nil && !errors.Is(err, redis.Nil) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if stored != "" {
				var reply storedReply
				if err := json.Unmarshal([]byte(stored), &reply); err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode stored reply"))
					return
				}
				if reply.RequestHash != fingerprint {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				writeReply(w, reply)
				return
			}

			rec := &replyRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			reply := storedReply{
				Status:      rec.statusOr(http.StatusOK),
				Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
				ContentType: rec.Header().Get("Content-Type"),
				RequestHash: fingerprint,
			}
			payload, err := json.Marshal(reply)
			if err != nil {
				logError(r.Context(), logg, "marshal stored reply", err)
				return
			}
			if _, err := store.SetNX(r.Context(), key, string(payload), ttl); err != nil {
				logError(r.Context(), logg, "persist stored reply", err)
			}
		})
	}
}

// replayScope ties a key to the caller and route; two shoppers reusing the
// same Idempotency-Key value never collide.
func replayScope(r *http.Request) string {
	shopper := strconv.FormatUint(uint64(UserIDFromContext(r.Context())), 10)
	return shopper + "|" + r.Method + "|" + r.URL.Path
}

func requestFingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func writeReply(w http.ResponseWriter, reply storedReply) {
	if reply.ContentType != "" {
		w.Header().Set("Content-Type", reply.ContentType)
	}
	w.WriteHeader(reply.Status)
	if decoded, err := base64.StdEncoding.DecodeString(reply.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func routePattern(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

type replyRecorder struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *replyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *replyRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *replyRecorder) statusOr(fallback int) int {
	if r.status == 0 {
		return fallback
	}
	return r.status
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
