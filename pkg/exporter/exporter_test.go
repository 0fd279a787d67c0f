//go:build unit || !integration

package exporter

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/jailmon-project/jailmon/pkg/jail"
	"github.com/jailmon-project/jailmon/pkg/logger"
	"github.com/jailmon-project/jailmon/pkg/rctl"
)

// fakeKernel stands in for both the jail lister and the usage source, keyed
// by the subject's rendered form.
type fakeKernel struct {
	jails    []jail.Jail
	usage    map[string]rctl.Usage
	listErr  error
	usageErr error
}

func (f *fakeKernel) List(ctx context.Context) ([]jail.Jail, error) {
	return f.jails, f.listErr
}

func (f *fakeKernel) GetUsage(ctx context.Context, subject rctl.Subject) (rctl.Usage, error) {
	if f.usageErr != nil {
		return nil, f.usageErr
	}
	return f.usage[subject.String()], nil
}

func TestSpecsCoverEveryResource(t *testing.T) {
	for _, resource := range rctl.Resources() {
		_, isGauge := gaugeSpecs[resource]
		_, isCounter := counterSpecs[resource]
		require.True(t, isGauge != isCounter,
			"resource %q must be exactly one of gauge or counter", resource)
		require.Equal(t, resource.Monotonic(), isCounter,
			"monotonic resources and counters must coincide for %q", resource)
	}
	require.Len(t, gaugeSpecs, 23)
	require.Len(t, counterSpecs, 2)
}

func TestCollectRecordsRunningJails(t *testing.T) {
	logger.ConfigureTestLogging(t)
	kernel := &fakeKernel{
		jails: []jail.Jail{
			{JID: 1, Name: "www"},
			{JID: 3, Name: "db"},
		},
		usage: map[string]rctl.Usage{
			"jail:www": {
				rctl.ResourceCPUTime:      121,
				rctl.ResourceMemoryUse:    99418112,
				rctl.ResourceMaxProcesses: 19,
			},
			"jail:db": {
				rctl.ResourceCPUTime:   7,
				rctl.ResourceMemoryUse: 1024,
			},
		},
	}
	e := New(kernel, kernel)

	require.NoError(t, e.Collect(context.Background()))

	require.Equal(t, float64(2), testutil.ToFloat64(e.jailTotal))
	require.Equal(t, float64(1), testutil.ToFloat64(e.jailID.WithLabelValues("www")))
	require.Equal(t, float64(3), testutil.ToFloat64(e.jailID.WithLabelValues("db")))
	require.Equal(t, float64(99418112),
		testutil.ToFloat64(e.gauges[rctl.ResourceMemoryUse].WithLabelValues("www")))
	require.Equal(t, float64(19),
		testutil.ToFloat64(e.gauges[rctl.ResourceMaxProcesses].WithLabelValues("www")))
	require.Equal(t, float64(121),
		testutil.ToFloat64(e.counters[rctl.ResourceCPUTime].WithLabelValues("www")))
	require.Equal(t, float64(7),
		testutil.ToFloat64(e.counters[rctl.ResourceCPUTime].WithLabelValues("db")))
}

func TestCountersRebaseAcrossCollections(t *testing.T) {
	logger.ConfigureTestLogging(t)
	for resource := range counterSpecs {
		kernel := &fakeKernel{
			jails: []jail.Jail{{JID: 1, Name: "www"}},
		}
		e := New(kernel, kernel)
		series := func() float64 {
			return testutil.ToFloat64(e.counters[resource].WithLabelValues("www"))
		}

		raws := []uint64{1000, 1020, 10, 50, 50}
		totals := []float64{1000, 1020, 1030, 1070, 1070}
		for i, raw := range raws {
			kernel.usage = map[string]rctl.Usage{
				"jail:www": {resource: raw},
			}
			require.NoError(t, e.Collect(context.Background()))
			require.Equal(t, totals[i], series(), "%s reading %d", resource, i)
		}
	}
}

func TestDeadJailsComputedFromBooks(t *testing.T) {
	kernel := &fakeKernel{}
	e := New(kernel, kernel)

	for _, name := range []string{"test_a", "test_b", "test_c"} {
		e.record(name, rctl.Usage{rctl.ResourceCPUTime: 1000})
	}

	seen := map[string]struct{}{
		"test_a": {},
		"test_c": {},
	}
	require.Equal(t, []string{"test_b"}, e.deadJails(seen))
}

func TestCollectReapsDeadJails(t *testing.T) {
	logger.ConfigureTestLogging(t)
	kernel := &fakeKernel{
		jails: []jail.Jail{
			{JID: 1, Name: "www"},
			{JID: 2, Name: "db"},
		},
		usage: map[string]rctl.Usage{
			"jail:www": {rctl.ResourceCPUTime: 100, rctl.ResourceMemoryUse: 512},
			"jail:db":  {rctl.ResourceCPUTime: 200, rctl.ResourceMemoryUse: 1024},
		},
	}
	e := New(kernel, kernel)
	require.NoError(t, e.Collect(context.Background()))
	require.Equal(t, 2, testutil.CollectAndCount(e.counters[rctl.ResourceCPUTime]))

	// db goes away.
	kernel.jails = kernel.jails[:1]
	require.NoError(t, e.Collect(context.Background()))

	require.Equal(t, 1, testutil.CollectAndCount(e.counters[rctl.ResourceCPUTime]))
	require.Equal(t, 1, testutil.CollectAndCount(e.gauges[rctl.ResourceMemoryUse]))
	require.Equal(t, 1, testutil.CollectAndCount(e.jailID))
	require.Equal(t, float64(1), testutil.ToFloat64(e.jailTotal))

	// A jail coming back under the same name starts its counters over.
	kernel.jails = []jail.Jail{{JID: 1, Name: "www"}, {JID: 9, Name: "db"}}
	kernel.usage["jail:db"] = rctl.Usage{rctl.ResourceCPUTime: 5}
	require.NoError(t, e.Collect(context.Background()))
	require.Equal(t, float64(5),
		testutil.ToFloat64(e.counters[rctl.ResourceCPUTime].WithLabelValues("db")))
}

func TestCollectFailsFast(t *testing.T) {
	logger.ConfigureTestLogging(t)
	boom := errors.New("racct is off")

	kernel := &fakeKernel{listErr: boom}
	e := New(kernel, kernel)
	require.ErrorIs(t, e.Collect(context.Background()), boom)

	kernel = &fakeKernel{
		jails:    []jail.Jail{{JID: 1, Name: "www"}},
		usageErr: boom,
	}
	e = New(kernel, kernel)
	require.ErrorIs(t, e.Collect(context.Background()), boom)
}

func TestExportRendersTextFormat(t *testing.T) {
	logger.ConfigureTestLogging(t)
	kernel := &fakeKernel{
		jails: []jail.Jail{{JID: 1, Name: "www"}},
		usage: map[string]rctl.Usage{
			"jail:www": {
				rctl.ResourceCPUTime:   121,
				rctl.ResourceMemoryUse: 2048,
			},
		},
	}
	e := New(kernel, kernel)

	payload, err := e.Export(context.Background())
	require.NoError(t, err)

	text := string(payload)
	require.Contains(t, text, "# TYPE jail_cputime_seconds_total counter")
	require.Contains(t, text, `jail_cputime_seconds_total{name="www"} 121`)
	require.Contains(t, text, `jail_memoryuse_bytes{name="www"} 2048`)
	require.Contains(t, text, `jail_id{name="www"} 1`)
	require.Contains(t, text, "jail_num 1")
	require.Contains(t, text, "jail_exporter_build_info")
}
