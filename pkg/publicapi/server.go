package publicapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jailmon-project/jailmon/pkg/exporter"
	"github.com/jailmon-project/jailmon/pkg/publicapi/handlerwrapper"
	"github.com/jailmon-project/jailmon/pkg/system"

	sync "github.com/bacalhau-project/golang-mutex-tracer"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type APIServerConfig struct {
	// These are TCP connection deadlines and not HTTP timeouts. They don't control the time it takes for our handlers
	// to complete. Deadlines operate on the connection, so our server will fail to return a result only after
	// the handlers try to access connection properties
	ReadHeaderTimeout time.Duration // the amount of time allowed to read request headers
	ReadTimeout       time.Duration // the maximum duration for reading the entire request, including the body
	WriteTimeout      time.Duration // the maximum duration before timing out writes of the response

	// This represents maximum duration for handlers to complete, or else fail the request with 503 error code.
	RequestHandlerTimeout time.Duration
}

var DefaultAPIServerConfig = &APIServerConfig{
	ReadHeaderTimeout:     10 * time.Second,
	ReadTimeout:           20 * time.Second,
	WriteTimeout:          20 * time.Second,
	RequestHandlerTimeout: 30 * time.Second,
}

// APIServer serves the collector's telemetry over HTTP: the metrics page,
// a health probe and a landing page for humans.
type APIServer struct {
	Exporter      *exporter.Exporter
	Auth          *BasicAuthConfig
	Host          string
	Port          int
	TelemetryPath string
	Config        *APIServerConfig

	hostname       string
	indexPage      []byte
	metricsHandler http.Handler
}

func init() { //nolint:gochecknoinits
	sync.SetGlobalOpts(sync.Opts{
		Threshold: 10 * time.Millisecond,
		Enabled:   true,
		Id:        "<UNKNOWN>",
	})
}

// NewServer returns an API server for the given exporter. A nil auth config
// serves everything unauthenticated.
func NewServer(
	host string,
	port int,
	telemetryPath string,
	e *exporter.Exporter,
	auth *BasicAuthConfig,
) *APIServer {
	return NewServerWithConfig(host, port, telemetryPath, e, auth, DefaultAPIServerConfig)
}

func NewServerWithConfig(
	host string,
	port int,
	telemetryPath string,
	e *exporter.Exporter,
	auth *BasicAuthConfig,
	config *APIServerConfig,
) *APIServer {
	hostname, _ := os.Hostname()
	return &APIServer{
		Exporter:      e,
		Auth:          auth,
		Host:          host,
		Port:          port,
		TelemetryPath: telemetryPath,
		Config:        config,
		hostname:      hostname,
		metricsHandler: promhttp.HandlerFor(e.Registry(), promhttp.HandlerOpts{
			ErrorHandling: promhttp.HTTPErrorOnError,
		}),
	}
}

// GetURI returns the HTTP URI that the server is listening on.
func (apiServer *APIServer) GetURI() string {
	return fmt.Sprintf("http://%s:%d", apiServer.Host, apiServer.Port)
}

// ListenAndServe listens for and serves HTTP requests against the API server.
func (apiServer *APIServer) ListenAndServe(ctx context.Context, cm *system.CleanupManager) error {
	indexPage, err := renderIndexPage(apiServer.TelemetryPath)
	if err != nil {
		return err
	}
	apiServer.indexPage = indexPage

	sm := http.NewServeMux()
	sm.Handle("/", apiServer.instrument("index", apiServer.index))
	sm.Handle(HealthzPath, apiServer.instrument("healthz", apiServer.healthz))
	sm.Handle(apiServer.TelemetryPath, apiServer.instrument("metrics", apiServer.metrics))

	var handler http.Handler = sm
	if apiServer.Auth.Enabled() {
		log.Ctx(ctx).Debug().Msgf("HTTP basic auth enabled with %d users", len(apiServer.Auth.Users))
		handler = apiServer.Auth.Middleware(handler)
	}

	srv := http.Server{
		Handler:           handler,
		Addr:              fmt.Sprintf("%s:%d", apiServer.Host, apiServer.Port),
		ReadHeaderTimeout: apiServer.Config.ReadHeaderTimeout,
		ReadTimeout:       apiServer.Config.ReadTimeout,
		WriteTimeout:      apiServer.Config.WriteTimeout,
	}

	log.Ctx(ctx).Debug().Msgf("Telemetry server listening on %s...", srv.Addr)

	// Cleanup resources when system is done:
	cm.RegisterCallback(func() error {
		return srv.Shutdown(ctx)
	})

	err = srv.ListenAndServe()
	if err == http.ErrServerClosed {
		log.Ctx(ctx).Debug().Msgf("Telemetry server closed on %s.", srv.Addr)
		return nil // expected error if the server is shut down
	}

	return err
}

func (apiServer *APIServer) instrument(name string, fn http.HandlerFunc) http.Handler {
	// otel handler
	handler := otelhttp.NewHandler(fn, fmt.Sprintf("pkg/publicapi/%s", name))

	// throttling handler
	handler = tollbooth.LimitHandler(
		tollbooth.NewLimiter(
			1000, //nolint:gomnd
			&limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour}),
		handler)

	// timeout handler
	handler = http.TimeoutHandler(handler, apiServer.Config.RequestHandlerTimeout, "Server Timeout!")

	// logging handler. Should be last in the chain.
	return handlerwrapper.NewHTTPHandlerWrapper(apiServer.hostname, handler, handlerwrapper.NewJSONLogHandler())
}
