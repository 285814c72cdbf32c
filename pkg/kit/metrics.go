package kit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelOp     = "op"
	labelResult = "result"

	resultOK    = "ok"
	resultError = "error"
)

// Metrics tracks catalog operations. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Operations *prometheus.CounterVec
	Latency    *prometheus.HistogramVec
	Items      prometheus.Gauge
	Units      prometheus.Gauge
	Value      prometheus.Gauge

	reg *prometheus.Registry
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_operations_total",
				Help: "Catalog operations by result",
			},
			[]string{labelOp, labelResult},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_operation_duration_seconds",
				Help:    "Catalog operation latency",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{labelOp},
		),
		Items: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_items",
			Help: "Distinct products in the catalog",
		}),
		Units: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_units",
			Help: "Total units across all products",
		}),
		Value: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_value",
			Help: "Total stock value",
		}),
		reg: reg,
	}

	reg.MustRegister(m.Operations, m.Latency, m.Items, m.Units, m.Value)
	return m
}

// Observe runs fn and records its latency and outcome under op.
func (m *Metrics) Observe(op string, fn func() error) error {
	if m == nil {
		return fn()
	}

	start := time.Now()
	err := fn()
	m.Latency.WithLabelValues(op).Observe(time.Since(start).Seconds())

	result := resultOK
	if err != nil {
		result = resultError
	}
	m.Operations.WithLabelValues(op, result).Inc()
	return err
}

func (m *Metrics) SetTotals(items int, units, value float64) {
	if m == nil {
		return
	}
	m.Items.Set(float64(items))
	m.Units.Set(units)
	m.Value.Set(value)
}

// WriteTextfile dumps every registered metric in the text exposition format
// for a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.reg)
}
