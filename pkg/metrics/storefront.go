package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// StorefrontMetrics counts cart and order activity.
type StorefrontMetrics struct {
	staleRefs     *prometheus.CounterVec
	itemsAdded    prometheus.Counter
	checkouts     *prometheus.CounterVec
	orderValue    prometheus.Histogram
	statusChanges *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	m := &StorefrontMetrics{
		staleRefs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_stale_option_refs_total",
			Help: "Selected (group, option) pairs that no longer resolve against the product.",
		}, []string{"source"}),
		itemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_items_added_total",
			Help: "Line items added to carts.",
		}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "order_total_amount",
			Help:    "Totals of placed orders.",
			Buckets: []float64{5, 10, 20, 35, 50, 75, 100, 150, 250},
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_changes_total",
			Help: "Order status updates by target status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.staleRefs, m.itemsAdded, m.checkouts, m.orderValue, m.statusChanges)
	return m
}

// IncStaleRef counts one unresolvable selection pair seen by source ("price" or "describe").
func (m *StorefrontMetrics) IncStaleRef(source string) {
	if m == nil || m.staleRefs == nil {
		return
	}
	m.staleRefs.WithLabelValues(normalizeLabel(source)).Inc()
}

func (m *StorefrontMetrics) IncItemsAdded() {
	if m == nil || m.itemsAdded == nil {
		return
	}
	m.itemsAdded.Inc()
}

// ObserveCheckout records a checkout outcome and, on success, the order total.
func (m *StorefrontMetrics) ObserveCheckout(success bool, total decimal.Decimal) {
	if m == nil || m.checkouts == nil {
		return
	}
	if !success {
		m.checkouts.WithLabelValues("failure").Inc()
		return
	}
	m.checkouts.WithLabelValues("success").Inc()
	m.orderValue.Observe(total.InexactFloat64())
}

func (m *StorefrontMetrics) IncStatusChange(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
