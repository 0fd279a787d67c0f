//go:build freebsd

package rctl

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

func (op exchangeOp) trap() uintptr {
	switch op {
	case opGetRacct:
		return unix.SYS_RCTL_GET_RACCT
	case opGetRules:
		return unix.SYS_RCTL_GET_RULES
	case opGetLimits:
		return unix.SYS_RCTL_GET_LIMITS
	case opAddRule:
		return unix.SYS_RCTL_ADD_RULE
	default:
		return unix.SYS_RCTL_REMOVE_RULE
	}
}

// exchange performs one rctl request. The request goes to the kernel
// NUL-terminated; the response comes back as NUL-terminated text in outbuf,
// with ERANGE signalling that outbuf was too small. This is the only place
// in the package that touches the raw syscall interface.
func exchange(op exchangeOp, request string, config ChannelConfig) (string, error) {
	inbuf, err := unix.ByteSliceFromString(request)
	if err != nil {
		return "", fmt.Errorf("encoding %s request %q: %w", op, request, err)
	}

	size := config.InitialBufferSize
	for attempt := 1; ; attempt++ {
		outbuf := make([]byte, size)
		_, _, errno := unix.Syscall6(op.trap(),
			uintptr(unsafe.Pointer(&inbuf[0])), uintptr(len(inbuf)),
			uintptr(unsafe.Pointer(&outbuf[0])), uintptr(len(outbuf)),
			0, 0)
		switch errno {
		case 0:
			return unix.ByteSliceToString(outbuf), nil
		case unix.ERANGE:
			if attempt >= config.MaxAttempts || size+config.InitialBufferSize > config.MaxBufferSize {
				return "", fmt.Errorf("%w: %s still needs more than %d bytes after %d attempts",
					ErrBufferExhausted, op, size, attempt)
			}
			size += config.InitialBufferSize
		case unix.EPERM:
			// EPERM with accounting enabled is a real permission problem;
			// otherwise the kernel is telling us racct is off.
			if state := CheckState(); !state.IsEnabled() {
				return "", &StateError{State: state}
			}
			return "", &OSError{Op: op.String(), Errno: unix.EPERM}
		case unix.ENOSYS:
			return "", &StateError{State: CheckState()}
		case unix.ESRCH:
			// The subject has no accounting entries, e.g. a jail that
			// died mid-query. Callers treat this as empty.
			return "", nil
		default:
			return "", &OSError{Op: op.String(), Errno: errno}
		}
	}
}
