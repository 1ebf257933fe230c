// Package metrics exposes store and HTTP activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/roster/internal/core"
)

// Metrics implements core.Observer and records HTTP request metrics.
type Metrics struct {
	registry *prometheus.Registry

	identitiesRegistered prometheus.Counter
	registrationRejects  *prometheus.CounterVec
	attendanceRecorded   prometheus.Counter
	attendanceRejects    *prometheus.CounterVec
	importRows           *prometheus.CounterVec
	importDuration       prometheus.Histogram
	collectionsCleared   *prometheus.CounterVec
	collectionsRecovered *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
}

// New registers all roster metrics on a fresh registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		identitiesRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "roster_identities_registered_total",
			Help: "Identities registered, individually or by import",
		}),
		registrationRejects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_registrations_rejected_total",
			Help: "Single registrations rejected, by reason",
		}, []string{"reason"}),
		attendanceRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "roster_attendance_recorded_total",
			Help: "Attendance check-ins recorded",
		}),
		attendanceRejects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_attendance_rejected_total",
			Help: "Attendance submissions rejected, by reason",
		}, []string{"reason"}),
		importRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_import_rows_total",
			Help: "Imported CSV rows, by outcome",
		}, []string{"outcome"}),
		importDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "roster_import_duration_seconds",
			Help:    "Duration of bulk identity imports",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		collectionsCleared: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_collections_cleared_total",
			Help: "Collection clear operations",
		}, []string{"collection"}),
		collectionsRecovered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_collections_recovered_total",
			Help: "Unreadable persisted collections treated as empty",
		}, []string{"collection"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_http_request_duration_seconds",
			Help:    "HTTP request duration by route pattern and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IdentityRegistered() {
	m.identitiesRegistered.Inc()
}

func (m *Metrics) RegistrationRejected(reason string) {
	m.registrationRejects.WithLabelValues(reason).Inc()
}

func (m *Metrics) AttendanceRecorded() {
	m.attendanceRecorded.Inc()
}

func (m *Metrics) AttendanceRejected(reason string) {
	m.attendanceRejects.WithLabelValues(reason).Inc()
}

// ImportFinished records row outcomes. Registered rows are already counted
// through IdentityRegistered as each batch is saved.
func (m *Metrics) ImportFinished(r core.ImportResult) {
	m.importRows.WithLabelValues("registered").Add(float64(r.RegisteredCount))
	m.importRows.WithLabelValues("skipped").Add(float64(r.SkippedCount))
	m.importDuration.Observe(r.Duration.Seconds())
}

func (m *Metrics) CollectionCleared(c core.Collection) {
	m.collectionsCleared.WithLabelValues(string(c)).Inc()
}

func (m *Metrics) CollectionRecovered(c core.Collection) {
	m.collectionsRecovered.WithLabelValues(string(c)).Inc()
}

// ObserveRequest records one HTTP request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

var _ core.Observer = (*Metrics)(nil)
