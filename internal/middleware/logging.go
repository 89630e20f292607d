package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/warikan/internal/api"
)

// LoggingInterceptor returns a Connect interceptor that writes one log record
// per RPC. Install it after SessionAuth so the session ID is available.
//
// Caller mistakes (bad arguments, unknown or foreign sessions) are logged at
// warn, server faults at error. Successful calls that carry a split log
// whether a result was computed and, if not, why.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"protocol", req.Peer().Protocol,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if id := GetSessionID(ctx); id != "" {
				attrs = append(attrs, "session_id", id)
			}

			if err != nil {
				code := connect.CodeOf(err)
				attrs = append(attrs, "code", code.String(), "error", err)
				slog.Log(ctx, levelForCode(code), "RPC failed", attrs...)
				return resp, err
			}

			if resp != nil {
				if split := splitOf(resp.Any()); split != nil {
					attrs = append(attrs, "computed", split.Computed)
					if !split.Computed {
						attrs = append(attrs, "reason", split.Reason)
					}
				}
			}
			slog.Info("RPC ok", attrs...)
			return resp, nil
		}
	}
}

func levelForCode(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound,
		connect.CodeUnauthenticated, connect.CodePermissionDenied,
		connect.CodeCanceled, connect.CodeDeadlineExceeded:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// splitOf extracts the split outcome from responses that carry one.
func splitOf(msg any) *api.SplitResponse {
	switch m := msg.(type) {
	case *api.SplitResponse:
		return m
	case *api.CalculateResponse:
		return m.Split
	}
	return nil
}
