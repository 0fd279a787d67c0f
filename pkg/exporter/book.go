package exporter

import (
	"sort"
	"time"

	sync "github.com/bacalhau-project/golang-mutex-tracer"
)

// counterBook remembers the last raw kernel reading of one monotonic
// resource per jail. Kernel counters restart from zero when a jail is
// recreated, so the book rebases each reading into an increment that never
// goes backwards.
type counterBook struct {
	mu    sync.Mutex
	prior map[string]uint64
}

func newCounterBook(id string) *counterBook {
	book := &counterBook{
		prior: make(map[string]uint64),
	}
	book.mu.EnableTracerWithOpts(sync.Opts{
		Threshold: 10 * time.Millisecond,
		Id:        "counterBook." + id,
	})
	return book
}

// advance folds one raw reading into the series for name. A reading below
// the previous one means the kernel counter reset, in which case the whole
// reading is the increment. The increment is handed to apply while the book
// is still locked, so the registry update lands before any later reading
// can move the book.
func (b *counterBook) advance(name string, raw uint64, apply func(inc uint64)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prior := b.prior[name]
	inc := raw
	if raw >= prior {
		inc = raw - prior
	}
	b.prior[name] = raw
	apply(inc)
}

// forget drops the series for name.
func (b *counterBook) forget(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.prior, name)
}

// names returns every jail the book is tracking, sorted for determinism.
func (b *counterBook) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, 0, len(b.prior))
	for name := range b.prior {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
