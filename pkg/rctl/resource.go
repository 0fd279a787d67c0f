package rctl

import (
	"fmt"
)

// Resource is one of the kernel's accounted resources. The tokens match the
// kernel grammar byte for byte.
type Resource int

const (
	resourceUnknown Resource = iota // must be first
	ResourceCPUTime
	ResourceDataSize
	ResourceStackSize
	ResourceCoreDumpSize
	ResourceMemoryUse
	ResourceMemoryLocked
	ResourceMaxProcesses
	ResourceOpenFiles
	ResourceVMemoryUse
	ResourcePseudoTerminals
	ResourceSwapUse
	ResourceNThreads
	ResourceMsgqQueued
	ResourceMsgqSize
	ResourceNMsgq
	ResourceNSem
	ResourceNSemop
	ResourceNShm
	ResourceShmSize
	ResourceWallclock
	ResourcePercentCPU
	ResourceReadBps
	ResourceWriteBps
	ResourceReadIops
	ResourceWriteIops
	resourceDone // must be last
)

var resourceNames = map[Resource]string{
	ResourceCPUTime:         "cputime",
	ResourceDataSize:        "datasize",
	ResourceStackSize:       "stacksize",
	ResourceCoreDumpSize:    "coredumpsize",
	ResourceMemoryUse:       "memoryuse",
	ResourceMemoryLocked:    "memorylocked",
	ResourceMaxProcesses:    "maxproc",
	ResourceOpenFiles:       "openfiles",
	ResourceVMemoryUse:      "vmemoryuse",
	ResourcePseudoTerminals: "pseudoterminals",
	ResourceSwapUse:         "swapuse",
	ResourceNThreads:        "nthr",
	ResourceMsgqQueued:      "msgqqueued",
	ResourceMsgqSize:        "msgqsize",
	ResourceNMsgq:           "nmsgq",
	ResourceNSem:            "nsem",
	ResourceNSemop:          "nsemop",
	ResourceNShm:            "nshm",
	ResourceShmSize:         "shmsize",
	ResourceWallclock:       "wallclock",
	ResourcePercentCPU:      "pcpu",
	ResourceReadBps:         "readbps",
	ResourceWriteBps:        "writebps",
	ResourceReadIops:        "readiops",
	ResourceWriteIops:       "writeiops",
}

// ParseResource matches the exact lowercase resource tokens.
func ParseResource(s string) (Resource, error) {
	for r := resourceUnknown + 1; r < resourceDone; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return resourceUnknown, fmt.Errorf("%w: %q", ErrUnknownResource, s)
}

func (r Resource) String() string {
	return resourceNames[r]
}

func (r Resource) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Resource) UnmarshalText(text []byte) error {
	res, err := ParseResource(string(text))
	if err != nil {
		return err
	}
	*r = res
	return nil
}

// Resources returns every accounted resource in kernel declaration order.
func Resources() []Resource {
	out := make([]Resource, 0, int(resourceDone)-1)
	for r := resourceUnknown + 1; r < resourceDone; r++ {
		out = append(out, r)
	}
	return out
}

// IsBytes reports whether the resource is accounted in bytes (sizes and byte
// rates) rather than plain counts, seconds or percent.
func (r Resource) IsBytes() bool {
	switch r {
	case ResourceDataSize, ResourceStackSize, ResourceCoreDumpSize,
		ResourceMemoryUse, ResourceMemoryLocked, ResourceVMemoryUse,
		ResourceSwapUse, ResourceMsgqSize, ResourceShmSize,
		ResourceReadBps, ResourceWriteBps:
		return true
	default:
		return false
	}
}

// Monotonic reports whether the kernel accumulates this resource as an
// ever-growing total (which resets when the subject is recreated) rather
// than a point-in-time level.
func (r Resource) Monotonic() bool {
	return r == ResourceCPUTime || r == ResourceWallclock
}
