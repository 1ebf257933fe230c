package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/roster/internal/core"
)

func TestMetrics_Observer(t *testing.T) {
	m := New()

	m.IdentityRegistered()
	m.IdentityRegistered()
	m.RegistrationRejected("duplicate")
	m.AttendanceRecorded()
	m.AttendanceRejected("unknown_identity")
	m.AttendanceRejected("unknown_identity")
	m.ImportFinished(core.ImportResult{RegisteredCount: 9, SkippedCount: 1, Duration: 20 * time.Millisecond})
	m.CollectionCleared(core.CollectionAttendance)
	m.CollectionRecovered(core.CollectionIdentities)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"identities registered", testutil.ToFloat64(m.identitiesRegistered), 2},
		{"duplicate rejects", testutil.ToFloat64(m.registrationRejects.WithLabelValues("duplicate")), 1},
		{"attendance recorded", testutil.ToFloat64(m.attendanceRecorded), 1},
		{"unknown identity rejects", testutil.ToFloat64(m.attendanceRejects.WithLabelValues("unknown_identity")), 2},
		{"import registered rows", testutil.ToFloat64(m.importRows.WithLabelValues("registered")), 9},
		{"import skipped rows", testutil.ToFloat64(m.importRows.WithLabelValues("skipped")), 1},
		{"attendance cleared", testutil.ToFloat64(m.collectionsCleared.WithLabelValues("attendanceHistory")), 1},
		{"identities recovered", testutil.ToFloat64(m.collectionsRecovered.WithLabelValues("registeredUsers")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/identities", http.StatusOK, time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`roster_http_request_duration_seconds_count{method="GET",route="/api/identities",status="200"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
