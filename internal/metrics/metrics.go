// Package metrics exposes Prometheus instrumentation for split computations
// and RPC handling.
package metrics

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "warikan"

// Outcome labels for split computations.
const (
	OutcomeComputed = "computed"
	OutcomeInvalid  = "invalid_input"
)

// Metrics holds the collectors registered for one server.
type Metrics struct {
	Computations *prometheus.CounterVec
	RPCDuration  *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Computations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "split_computations_total",
			Help:      "Split computations by mode and outcome.",
		}, []string{"mode", "outcome"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Unary RPC handling time by procedure and Connect code.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"procedure", "code"}),
	}
}

// ObserveSplit counts one computation for mode.
func (m *Metrics) ObserveSplit(mode string, computed bool) {
	outcome := OutcomeComputed
	if !computed {
		outcome = OutcomeInvalid
	}
	m.Computations.WithLabelValues(mode, outcome).Inc()
}

// Interceptor returns a Connect interceptor recording RPC durations.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.RPCDuration.WithLabelValues(req.Spec().Procedure, code).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}
