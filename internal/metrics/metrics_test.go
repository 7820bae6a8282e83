package metrics

import "testing"

func TestNew_RegistersCollectors(t *testing.T) {
	m := New()

	// Touch each collector so Gather has samples to report.
	m.RequestsTotal.WithLabelValues("GET", "200", "/").Inc()
	m.RequestDuration.WithLabelValues("GET", "200", "/").Observe(0.1)
	m.RequestsInFlight.Inc()
	m.OriginDuration.WithLabelValues("GET").Observe(0.2)
	m.OriginResponses.WithLabelValues("GET", "206").Inc()
	m.RelayFailures.WithLabelValues("invalid_token").Inc()

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	want := map[string]bool{
		"vidgate_http_requests_total":             false,
		"vidgate_http_request_duration_seconds":   false,
		"vidgate_http_requests_in_flight":         false,
		"vidgate_origin_request_duration_seconds": false,
		"vidgate_origin_responses_total":          false,
		"vidgate_relay_failures_total":            false,
	}
	for _, f := range families {
		if _, ok := want[f.GetName()]; ok {
			want[f.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric %q not gathered", name)
		}
	}
}

func TestNormalizeMethod(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"GET", "GET"},
		{"HEAD", "HEAD"},
		{"OPTIONS", "OPTIONS"},
		{"POST", "other"},
		{"DELETE", "other"},
		{"XYZZY", "other"},
		{"", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := NormalizeMethod(tt.method); got != tt.want {
				t.Errorf("NormalizeMethod(%q) = %q, want %q", tt.method, got, tt.want)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/healthz", "/healthz"},
		{"/vidgate/status", "/vidgate/status"},
		{"/metrics", "/metrics"},
		{"/unknown", "other"},
		{"/healthzz", "other"},
		{"", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
