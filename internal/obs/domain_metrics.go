package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// BookingCreatedTotal counts booking creation attempts by outcome.
	BookingCreatedTotal *prometheus.CounterVec
	// BookingStatusTotal counts booking status transitions.
	BookingStatusTotal *prometheus.CounterVec
	// LedgerEntriesTotal counts posted journal entries.
	LedgerEntriesTotal prometheus.Counter
	// WizardStepTotal counts wizard step submissions by step and outcome.
	WizardStepTotal *prometheus.CounterVec
	// NotifyDeliveriesTotal counts notification deliveries by channel and outcome.
	NotifyDeliveriesTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		BookingCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_created_total",
			Help:      "Count of booking creation outcomes.",
		}, []string{"result"})
		BookingStatusTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_total",
			Help:      "Count of booking status transitions.",
		}, []string{"status"})
		LedgerEntriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_entries_total",
			Help:      "Number of journal entries posted.",
		})
		WizardStepTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_step_total",
			Help:      "Count of booking wizard step submissions by outcome.",
		}, []string{"step", "result"})
		NotifyDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_deliveries_total",
			Help:      "Count of notification delivery outcomes.",
		}, []string{"channel", "result"})

		mustRegisterCollector(reg, BookingCreatedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BookingCreatedTotal = v
			}
		})
		mustRegisterCollector(reg, BookingStatusTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BookingStatusTotal = v
			}
		})
		mustRegisterCollector(reg, LedgerEntriesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				LedgerEntriesTotal = v
			}
		})
		mustRegisterCollector(reg, WizardStepTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				WizardStepTotal = v
			}
		})
		mustRegisterCollector(reg, NotifyDeliveriesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				NotifyDeliveriesTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, onExisting func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			onExisting(are.ExistingCollector)
			return
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
}
