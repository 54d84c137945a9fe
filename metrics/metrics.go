// Package metrics exposes the progress of value iteration runs to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeu5/ctrm-reach/vi"
)

// Collector groups the metrics of the engine
type Collector struct {
	layers        prometheus.Counter
	runs          *prometheus.CounterVec
	lambdaMax     prometheus.Gauge
	productStates prometheus.Gauge
	value         prometheus.Gauge
	duration      prometheus.Histogram
}

// NewCollector creates the metrics and registers them on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		layers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ctrm_vi_layers_total",
			Help: "Total number of time layers computed",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ctrm_vi_runs_total",
			Help: "Total number of runs by result",
		}, []string{"result"}),
		lambdaMax: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ctrm_vi_lambda_max",
			Help: "Maximum exit rate of the last run",
		}),
		productStates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ctrm_vi_product_states",
			Help: "Number of product states of the last run",
		}),
		value: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ctrm_vi_success_probability",
			Help: "Success probability computed by the last run",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ctrm_vi_run_duration_seconds",
			Help:    "Duration of successful runs",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	reg.MustRegister(c.layers, c.runs, c.lambdaMax, c.productStates, c.value, c.duration)
	return c
}

// Hooks records the engine events
func (c *Collector) Hooks() vi.Hooks {
	return vi.Hooks{
		OnDiscretized: func(e vi.DiscretizationEvent) {
			c.lambdaMax.Set(e.LambdaMax)
		},
		OnLayer: func(vi.LayerEvent) {
			c.layers.Inc()
		},
		OnComplete: func(e vi.CompleteEvent) {
			c.runs.WithLabelValues("success").Inc()
			c.productStates.Set(float64(e.ProductStates))
			c.value.Set(e.Value)
			c.duration.Observe(e.Duration.Seconds())
		},
	}
}

// RecordFailure counts a failed run under the kind of its error
func (c *Collector) RecordFailure(err error) {
	result := "error"
	switch {
	case errors.Is(err, vi.ErrInvalidParameter):
		result = "invalid_parameter"
	case errors.Is(err, vi.ErrDegenerateModel):
		result = "degenerate_model"
	case errors.Is(err, vi.ErrUnreachableState):
		result = "unreachable_state"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		result = "canceled"
	}
	c.runs.WithLabelValues(result).Inc()
}

// Serve exposes the gatherer on addr at /metrics until ctx is done
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	shutdown := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		shutdown <- server.Shutdown(shutdownCtx)
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	return nil
}
