package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics records the booking engine's domain counters.
type BookingMetrics struct {
	bookingsCreated        *prometheus.CounterVec
	slotConflicts          prometheus.Counter
	limitRejections        *prometheus.CounterVec
	cascadeCancellations   prometheus.Counter
	cascadeFailures        prometheus.Counter
	blacklistWriteFailures prometheus.Counter
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	bookingsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Appointments successfully created, by actor role.",
	}, []string{"role"})
	slotConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_slot_conflicts_total",
		Help: "Booking attempts rejected because the slot was taken.",
	})
	limitRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_limit_rejections_total",
		Help: "Booking attempts rejected by a quota, by limit window.",
	}, []string{"limit"})
	cascadeCancellations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cascade_cancellations_total",
		Help: "Appointments cancelled by time-off cascades.",
	})
	cascadeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cascade_cancellation_failures_total",
		Help: "Appointments a time-off cascade failed to cancel.",
	})
	blacklistWriteFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blacklist_write_failures_total",
		Help: "No-show blacklist appends that failed after commit.",
	})
	reg.MustRegister(
		bookingsCreated,
		slotConflicts,
		limitRejections,
		cascadeCancellations,
		cascadeFailures,
		blacklistWriteFailures,
	)
	return &BookingMetrics{
		bookingsCreated:        bookingsCreated,
		slotConflicts:          slotConflicts,
		limitRejections:        limitRejections,
		cascadeCancellations:   cascadeCancellations,
		cascadeFailures:        cascadeFailures,
		blacklistWriteFailures: blacklistWriteFailures,
	}
}

// IncBookingCreated increments the created counter for the actor role.
func (m *BookingMetrics) IncBookingCreated(role string) {
	if m == nil || m.bookingsCreated == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(normalizeLabel(role)).Inc()
}

// IncSlotConflict increments the slot conflict counter.
func (m *BookingMetrics) IncSlotConflict() {
	if m == nil || m.slotConflicts == nil {
		return
	}
	m.slotConflicts.Inc()
}

// IncLimitRejection increments the limit rejection counter for the window.
func (m *BookingMetrics) IncLimitRejection(limit string) {
	if m == nil || m.limitRejections == nil {
		return
	}
	m.limitRejections.WithLabelValues(normalizeLabel(limit)).Inc()
}

// IncCascadeCancellation increments the cascade cancellation counter.
func (m *BookingMetrics) IncCascadeCancellation() {
	if m == nil || m.cascadeCancellations == nil {
		return
	}
	m.cascadeCancellations.Inc()
}

// IncCascadeFailure increments the cascade failure counter.
func (m *BookingMetrics) IncCascadeFailure() {
	if m == nil || m.cascadeFailures == nil {
		return
	}
	m.cascadeFailures.Inc()
}

// IncBlacklistWriteFailure increments the blacklist write failure counter.
func (m *BookingMetrics) IncBlacklistWriteFailure() {
	if m == nil || m.blacklistWriteFailures == nil {
		return
	}
	m.blacklistWriteFailures.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
