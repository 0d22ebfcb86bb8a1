package clients

import (
	"context"
	"net/http"
	"time"
)

// HealthProbe names one upstream and the path that answers its liveness.
type HealthProbe struct {
	Name   string
	Client *Client
	Path   string
}

type HealthResult struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	StatusCode int    `json:"statusCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

func CheckHealth(ctx context.Context, probe HealthProbe) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	// Probes go straight to the transport so a dead upstream is reported
	// once, not after the read retries.
	u := probe.Client.BaseURL.JoinPath(probe.Path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return HealthResult{Name: probe.Name, Error: err.Error()}
	}
	resp, err := probe.Client.HTTP.HTTPClient.Do(req)
	if err != nil {
		return HealthResult{Name: probe.Name, Error: err.Error()}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	return HealthResult{Name: probe.Name, OK: ok, StatusCode: resp.StatusCode}
}
