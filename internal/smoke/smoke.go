// Package smoke exercises a running API through its public routes.
package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/iliyamo/mind-mirror/internal/handler"
)

// DefaultBase is the API root of a locally running server.
const DefaultBase = "http://localhost:34567/api"

// Check is the outcome of calling one route.
type Check struct {
	Name     string
	Path     string
	Status   int
	Count    int    // records returned, -1 for the health route
	FirstID  string // id of the first record, if any
	Err      error
	Response string // health status or records error label
}

// OK reports whether the route answered 200 with a successful body.
func (c Check) OK() bool { return c.Err == nil && c.Status == http.StatusOK }

var routes = []struct{ name, path string }{
	{"records", "/records"},
	{"today", "/records/today"},
	{"recent", "/records/recent?count=5"},
}

// Client calls the API rooted at Base.
type Client struct {
	Base string
	HTTP *http.Client
}

func (cl Client) httpClient() *http.Client {
	if cl.HTTP != nil {
		return cl.HTTP
	}
	return http.DefaultClient
}

// Run calls the health route and the three records routes in order.  Each
// route is checked independently; one failure does not stop the others.
func (cl Client) Run(ctx context.Context) []Check {
	base := strings.TrimSuffix(cl.Base, "/")
	if base == "" {
		base = DefaultBase
	}

	checks := make([]Check, 0, len(routes)+1)

	health := Check{Name: "health", Path: "/health", Count: -1}
	var hb handler.HealthResponse
	health.Status, health.Err = cl.getJSON(ctx, base+health.Path, &hb)
	health.Response = hb.Status
	if health.Err == nil && hb.Status != "ok" {
		health.Err = fmt.Errorf("unexpected health status %q", hb.Status)
	}
	checks = append(checks, health)

	for _, r := range routes {
		c := Check{Name: r.name, Path: r.path}
		var body struct {
			handler.RecordsResponse
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		c.Status, c.Err = cl.getJSON(ctx, base+r.path, &body)
		c.Count = body.Count
		if len(body.Data) > 0 {
			c.FirstID = body.Data[0].ID
		}
		if c.Err == nil && !body.Success {
			c.Response = body.Error
			c.Err = fmt.Errorf("%s: %s", body.Error, body.Message)
		}
		checks = append(checks, c)
	}
	return checks
}

func (cl Client) getJSON(ctx context.Context, url string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := cl.httpClient().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", url, err)
	}
	return resp.StatusCode, nil
}
