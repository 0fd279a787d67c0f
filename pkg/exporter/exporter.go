// Package exporter reconciles the kernel's per-jail resource accounting
// into a Prometheus registry: stable series for live jails, rebased
// counters for the monotonic resources, and prompt removal of series for
// jails that have gone away.
package exporter

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog/log"

	"github.com/jailmon-project/jailmon/pkg/jail"
	"github.com/jailmon-project/jailmon/pkg/logger"
	"github.com/jailmon-project/jailmon/pkg/rctl"
	"github.com/jailmon-project/jailmon/pkg/system"
	"github.com/jailmon-project/jailmon/pkg/version"
)

// metricNamespace prefixes every series. The domain is jails, whatever the
// binary is called.
const metricNamespace = "jail"

// JailLister enumerates the running jails.
type JailLister interface {
	List(ctx context.Context) ([]jail.Jail, error)
}

// UsageSource reports a subject's current resource usage.
type UsageSource interface {
	GetUsage(ctx context.Context, subject rctl.Subject) (rctl.Usage, error)
}

// gaugeSpec names one point-in-time resource series. Help text follows
// rctl(8) where possible.
type gaugeSpec struct {
	name string
	help string
}

// gaugeSpecs covers every resource except the two monotonic ones, which are
// counters with bookkeeping. Sizes carry a _bytes suffix; the per-second
// rates keep their kernel names, readings already being rates.
var gaugeSpecs = map[rctl.Resource]gaugeSpec{
	rctl.ResourceCoreDumpSize:    {"coredumpsize_bytes", "core dump size, in bytes"},
	rctl.ResourceDataSize:        {"datasize_bytes", "data size, in bytes"},
	rctl.ResourceStackSize:       {"stacksize_bytes", "stack size, in bytes"},
	rctl.ResourceMemoryUse:       {"memoryuse_bytes", "resident set size, in bytes"},
	rctl.ResourceMemoryLocked:    {"memorylocked_bytes", "locked memory, in bytes"},
	rctl.ResourceVMemoryUse:      {"vmemoryuse_bytes", "address space limit, in bytes"},
	rctl.ResourceSwapUse:         {"swapuse_bytes", "swap space that may be reserved or used, in bytes"},
	rctl.ResourceMsgqSize:        {"msgqsize_bytes", "SysV message queue size, in bytes"},
	rctl.ResourceShmSize:         {"shmsize_bytes", "SysV shared memory size, in bytes"},
	rctl.ResourceMaxProcesses:    {"maxproc", "number of processes"},
	rctl.ResourceOpenFiles:       {"openfiles", "file descriptor table size"},
	rctl.ResourcePseudoTerminals: {"pseudoterminals", "number of PTYs"},
	rctl.ResourceNThreads:        {"nthr", "number of threads"},
	rctl.ResourceMsgqQueued:      {"msgqqueued", "number of queued SysV messages"},
	rctl.ResourceNMsgq:           {"nmsgq", "number of SysV message queues"},
	rctl.ResourceNSem:            {"nsem", "number of SysV semaphores"},
	rctl.ResourceNSemop:          {"nsemop", "number of SysV semaphores modified in a single semop(2) call"},
	rctl.ResourceNShm:            {"nshm", "number of SysV shared memory segments"},
	rctl.ResourcePercentCPU:      {"pcpu_used", "%CPU, in percents of a single CPU core"},
	rctl.ResourceReadBps:         {"readbps", "filesystem reads, in bytes per second"},
	rctl.ResourceWriteBps:        {"writebps", "filesystem writes, in bytes per second"},
	rctl.ResourceReadIops:        {"readiops", "filesystem reads, in operations per second"},
	rctl.ResourceWriteIops:       {"writeiops", "filesystem writes, in operations per second"},
}

// counterSpecs covers the monotonic resources.
var counterSpecs = map[rctl.Resource]gaugeSpec{
	rctl.ResourceCPUTime:   {"cputime_seconds_total", "CPU time, in seconds"},
	rctl.ResourceWallclock: {"wallclock_seconds_total", "wallclock time, in seconds"},
}

// Exporter owns the registry and every per-jail series in it.
type Exporter struct {
	jails JailLister
	usage UsageSource

	registry *prometheus.Registry

	gauges   map[rctl.Resource]*prometheus.GaugeVec
	counters map[rctl.Resource]*prometheus.CounterVec
	books    map[rctl.Resource]*counterBook

	jailID    *prometheus.GaugeVec
	jailTotal prometheus.Gauge
	buildInfo *prometheus.GaugeVec
}

// New builds an exporter with a fresh registry containing one series family
// per accounted resource, plus the id, num and build info families.
func New(jails JailLister, usage UsageSource) *Exporter {
	registry := prometheus.NewRegistry()
	labels := []string{"name"}

	e := &Exporter{
		jails:    jails,
		usage:    usage,
		registry: registry,
		gauges:   make(map[rctl.Resource]*prometheus.GaugeVec, len(gaugeSpecs)),
		counters: make(map[rctl.Resource]*prometheus.CounterVec, len(counterSpecs)),
		books:    make(map[rctl.Resource]*counterBook, len(counterSpecs)),
	}

	for resource, spec := range gaugeSpecs {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      spec.name,
			Help:      spec.help,
		}, labels)
		registry.MustRegister(vec)
		e.gauges[resource] = vec
	}

	for resource, spec := range counterSpecs {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      spec.name,
			Help:      spec.help,
		}, labels)
		registry.MustRegister(vec)
		e.counters[resource] = vec
		e.books[resource] = newCounterBook(spec.name)
	}

	e.jailID = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "id",
		Help:      "ID of the named jail.",
	}, labels)
	registry.MustRegister(e.jailID)

	e.jailTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "num",
		Help:      "Current number of running jails.",
	})
	registry.MustRegister(e.jailTotal)

	e.buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "exporter_build_info",
		Help:      "A metric with a constant '1' value labelled by the version and Go runtime the exporter was built with.",
	}, []string{"goversion", "version"})
	registry.MustRegister(e.buildInfo)
	e.buildInfo.WithLabelValues(runtime.Version(), version.Get().GitVersion).Set(1)

	return e
}

// Registry exposes the exporter's registry for HTTP serving.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Collect refreshes every series from the kernel: one usage query per
// running jail, then removal of series belonging to jails that are gone.
// Any kernel failure aborts the refresh so a scrape never silently serves a
// partial picture.
func (e *Exporter) Collect(ctx context.Context) error {
	ctx, span := system.Span(ctx, "pkg/exporter.Collect")
	defer span.End()

	e.jailTotal.Set(0)
	seen := make(map[string]struct{})

	jails, err := e.jails.List(ctx)
	if err != nil {
		return fmt.Errorf("listing jails: %w", err)
	}

	for _, j := range jails {
		jailCtx := logger.ContextWithJailLogger(ctx, j.Name)
		usage, err := e.usage.GetUsage(jailCtx, rctl.JailSubject(j.Name))
		if err != nil {
			return fmt.Errorf("collecting usage of jail %q: %w", j.Name, err)
		}
		log.Ctx(jailCtx).Trace().Msgf("jid %d: %d resources accounted", j.JID, len(usage))

		seen[j.Name] = struct{}{}
		e.record(j.Name, usage)
		e.jailID.WithLabelValues(j.Name).Set(float64(j.JID))
		e.jailTotal.Inc()
	}

	e.reap(ctx, e.deadJails(seen))
	return nil
}

// Export runs one collection and renders the registry in the Prometheus
// text exposition format.
func (e *Exporter) Export(ctx context.Context) ([]byte, error) {
	if err := e.Collect(ctx); err != nil {
		return nil, err
	}

	families, err := e.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metric families: %w", err)
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", family.GetName(), err)
		}
	}
	return buf.Bytes(), nil
}

// record applies one jail's usage to the registry. Monotonic resources go
// through their book; everything else is a plain gauge set.
func (e *Exporter) record(name string, usage rctl.Usage) {
	for resource, value := range usage {
		if book, ok := e.books[resource]; ok {
			counter := e.counters[resource]
			book.advance(name, value, func(inc uint64) {
				counter.WithLabelValues(name).Add(float64(inc))
			})
			continue
		}
		if gauge, ok := e.gauges[resource]; ok {
			gauge.WithLabelValues(name).Set(float64(value))
		}
	}
}

// deadJails returns every jail the books know about that this collection
// did not see, sorted for determinism.
func (e *Exporter) deadJails(seen map[string]struct{}) []string {
	dead := make(map[string]struct{})
	for _, book := range e.books {
		for _, name := range book.names() {
			if _, ok := seen[name]; !ok {
				dead[name] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(dead))
	for name := range dead {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// reap removes every series and book entry belonging to dead jails, so
// scrapes stop reporting stale values for jails that no longer exist.
func (e *Exporter) reap(ctx context.Context, dead []string) {
	for _, name := range dead {
		for _, gauge := range e.gauges {
			gauge.DeleteLabelValues(name)
		}
		for _, counter := range e.counters {
			counter.DeleteLabelValues(name)
		}
		e.jailID.DeleteLabelValues(name)
		for _, book := range e.books {
			book.forget(name)
		}
		log.Ctx(ctx).Debug().Msgf("reaped series for dead jail %q", name)
	}
}
