package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// RequestIDKey is the context key for the request id.
const RequestIDKey contextKey = "request_id"

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// GetRequestID extracts the request id from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Logging logs every HTTP request. It reuses an incoming X-Request-Id or
// generates one, stores it in the context and echoes it in the response.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"request_id", requestID,
		)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(WithRequestID(r.Context(), requestID)))

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", requestID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// Outcome is implemented by response messages that summarize what a call
// did, such as rows imported or lines returned.
type Outcome interface {
	LogAttrs() []any
}

// RPCLogging returns a Connect interceptor that logs every unary call with
// its request id. Calls that did not pass through Logging take the id from
// the X-Request-Id header or get a fresh one. Rejected requests
// (invalid_argument, not_found) log at warn, other failures at error.
func RPCLogging() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			requestID := GetRequestID(ctx)
			if requestID == "" {
				requestID = req.Header().Get(RequestIDHeader)
				if requestID == "" {
					requestID = uuid.NewString()
				}
				ctx = WithRequestID(ctx, requestID)
			}

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"request_id", requestID,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				code := connect.CodeOf(err)
				attrs = append(attrs, "code", code.String(), "error", err)
				switch code {
				case connect.CodeInvalidArgument, connect.CodeNotFound:
					slog.Warn("RPC rejected", attrs...)
				default:
					slog.Error("RPC failed", attrs...)
				}
				return resp, err
			}

			if o, ok := resp.Any().(Outcome); ok {
				attrs = append(attrs, o.LogAttrs()...)
			}
			slog.Info("RPC completed", attrs...)
			return resp, nil
		}
	}
}
