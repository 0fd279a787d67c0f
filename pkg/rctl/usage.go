package rctl

import (
	"fmt"
	"strconv"
	"strings"
)

// Usage maps each accounted resource to its current raw kernel value, in
// the resource's base unit.
type Usage map[Resource]uint64

// ParseUsage decodes a kernel usage response: comma-separated
// "resource=value" pairs. The empty response is a valid empty usage, which
// is what a subject with no accounting entries reports. If a resource
// repeats, the last value wins.
func ParseUsage(s string) (Usage, error) {
	usage := make(Usage)
	if s == "" {
		return usage, nil
	}

	for _, pair := range strings.Split(s, ",") {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatistics, pair)
		}
		resource, err := ParseResource(name)
		if err != nil {
			return nil, err
		}
		amount, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNumeral, value)
		}
		usage[resource] = amount
	}

	return usage, nil
}
