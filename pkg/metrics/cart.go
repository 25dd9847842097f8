package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "talesbyhand"

// Cart add outcomes.
const (
	CartAddCreated  = "created"
	CartAddUpdated  = "updated"
	CartAddRejected = "rejected"
	CartAddFailed   = "failed"
)

// CartMetrics counts add-to-cart calls and the units they add.
type CartMetrics struct {
	adds  *prometheus.CounterVec
	units prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	adds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_add_total",
		Help:      "Add-to-cart calls by outcome.",
	}, []string{"outcome"})
	units := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_units_added_total",
		Help:      "Units added to carts by successful calls.",
	})
	reg.MustRegister(adds, units)
	return &CartMetrics{adds: adds, units: units}
}

// ObserveAdd records one add-to-cart call. quantity only counts on success.
func (c *CartMetrics) ObserveAdd(outcome string, quantity int) {
	if c == nil || c.adds == nil {
		return
	}
	c.adds.WithLabelValues(normalizeLabel(outcome)).Inc()
	if (outcome == CartAddCreated || outcome == CartAddUpdated) && quantity > 0 {
		c.units.Add(float64(quantity))
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
