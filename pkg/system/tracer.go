package system

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
)

const tracerName = "github.com/jailmon-project/jailmon"

var tracer oteltrace.Tracer

func init() { //nolint:gochecknoinits // use of init here is idiomatic
	newTraceProvider()
}

// ----------------------------------------
// Tracer Setup and Teardown
// ----------------------------------------

func newTraceProvider() {
	_ = godotenv.Load() // Load environment variables from .env file - necessary here for dev keys

	tp, err := otelTraceProvider()
	if err != nil {
		// don't error here because for CLI users they get a red message
		log.Trace().Err(err).Msg("failed to initialize tracer, falling back to logging tracer")

		tp, err = loggerTraceProvider()
		if err != nil {
			// need to panic now with a nice message otherwise we'd throw a nil pointer dereference panic when we access tracer
			panic(fmt.Errorf("failed to initialize debug tracer: %w", err))
		}
	}

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Err(err).Msg("Error occurred while handling spans")
	}))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	tracer = tp.Tracer(tracerName)
}

// CleanupTraceProvider flushes the remaining spans in memory to the exporter and releases any tracing resources.
func CleanupTraceProvider() error {
	type shutdown interface {
		oteltrace.TracerProvider
		Shutdown(ctx context.Context) error
	}
	return otel.GetTracerProvider().(shutdown).Shutdown(context.Background())
}

// ----------------------------------------
// Tracer helpers
// ----------------------------------------

func GetTracer() oteltrace.Tracer {
	return tracer
}

// ----------------------------------------
// Span helpers
// ----------------------------------------

func GetSpanFromRequest(req *http.Request, name string) (context.Context, oteltrace.Span) {
	ctx := req.Context()
	ctx, span := tracer.Start(ctx, name)
	return ctx, span
}

// Span creates and starts a new span, and a context containing it.
// spanName is the name of the span, inside the service.
func Span(ctx context.Context, spanName string,
	opts ...oteltrace.SpanStartOption) (context.Context, oteltrace.Span) {
	spanName = fmt.Sprintf("service/%s", spanName)

	return GetTracer().Start(ctx, spanName, opts...)
}

// ----------------------------------------
// Providers
// ----------------------------------------

func otelTraceProvider() (*sdktrace.TracerProvider, error) {
	if !viper.IsSet("trace_endpoint") {
		return nil, fmt.Errorf("no trace endpoint configured")
	}

	options := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(viper.GetString("trace_endpoint"))}

	if viper.IsSet("trace_insecure") && viper.GetBool("trace_insecure") {
		options = append(options, otlptracegrpc.WithInsecure())
	} else {
		options = append(options,
			otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}

	if viper.IsSet("trace_headers") {
		options = append(options, otlptracegrpc.WithHeaders(viper.GetStringMapString("trace_headers")))
	}

	// The context passed in to the exporter is only passed to the client and used when connecting to the endpoint
	exp, err := otlptrace.New(context.Background(), otlptracegrpc.NewClient(options...))
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceNameKey.String("jailmon"),
			),
		),
	), nil
}

func loggerTraceProvider() (*sdktrace.TracerProvider, error) {
	exp, err := stdouttrace.New(
		stdouttrace.WithPrettyPrint(),
		stdouttrace.WithWriter(jsonLogger()))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp))

	return tp, nil
}

// jsonLogger returns a writer that trace logs all JSON objects thrown at it.
func jsonLogger() io.Writer {
	r, w := io.Pipe()
	go func(r io.Reader) {
		d := json.NewDecoder(r)

		for {
			var data map[string]interface{}
			if err := d.Decode(&data); err != nil {
				if err == io.EOF {
					return
				}

				log.Trace().Msgf("error parsing json span: %v", err)
				continue
			}

			bs, err := json.Marshal(data)
			if err != nil {
				log.Trace().Msgf("error marshaling json span: %v", err)
				continue
			}

			log.Trace().Msg(string(bs))
		}
	}(r)

	return w
}
