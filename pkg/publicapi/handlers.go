package publicapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/jailmon-project/jailmon/pkg/logger"
	"github.com/jailmon-project/jailmon/pkg/rctl"
	"github.com/jailmon-project/jailmon/pkg/system"

	"github.com/rs/zerolog/log"
)

// HealthzPath is reserved for the health endpoint, so the metrics path may
// not claim it.
const HealthzPath = "/healthz"

const indexPageTemplate = `<!DOCTYPE html>
<html lang="en">
    <head>
        <meta charset="UTF-8">
        <title>Jail Exporter</title>
    </head>
    <body>
        <h1>Jail Exporter</h1>
        <p><a href="{{.}}">Metrics</a></p>
    </body>
</html>`

// renderIndexPage fills in the landing page served at / so that a human
// following the scrape URL in a browser finds a link to the metrics.
func renderIndexPage(telemetryPath string) ([]byte, error) {
	tmpl, err := template.New("index").Parse(indexPageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing index page template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, telemetryPath); err != nil {
		return nil, fmt.Errorf("rendering index page: %w", err)
	}
	return buf.Bytes(), nil
}

func (apiServer *APIServer) index(res http.ResponseWriter, req *http.Request) {
	// "/" is a catch-all pattern, everything unrouted lands here.
	if req.URL.Path != "/" {
		http.NotFound(res, req)
		return
	}

	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(http.StatusOK)
	_, _ = res.Write(apiServer.indexPage)
}

// metrics runs a collection pass against the kernel and serves whatever the
// registry gathered. Scrapes observe live counters, not a cached snapshot.
func (apiServer *APIServer) metrics(res http.ResponseWriter, req *http.Request) {
	ctx, span := system.GetSpanFromRequest(req, "apiServer/metrics")
	defer span.End()

	err := apiServer.Exporter.Collect(ctx)
	log.Ctx(ctx).WithLevel(logger.ErrOrDebug(err)).Err(err).Msg("Collection pass finished")
	if err != nil {
		http.Error(res, fmt.Sprintf("Error collecting jail metrics: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	apiServer.metricsHandler.ServeHTTP(res, req)
}

type healthzResponse struct {
	RACCT string `json:"racct"`
}

// healthz reports whether the kernel is in a state this collector can work
// with. Anything other than an enabled RACCT answers 503 so that process
// supervisors notice a collector that can only ever serve empty pages.
func (apiServer *APIServer) healthz(res http.ResponseWriter, req *http.Request) {
	ctx, span := system.GetSpanFromRequest(req, "apiServer/healthz")
	defer span.End()

	state := rctl.CheckState()
	status := http.StatusOK
	if !state.IsEnabled() {
		status = http.StatusServiceUnavailable
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	if err := json.NewEncoder(res).Encode(healthzResponse{RACCT: state.String()}); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to encode healthz response")
	}
}
