package rctl

import (
	"fmt"
)

// Signal is a deliverable signal, numbered the way FreeBSD numbers them.
// Note that the numbering differs from Linux for SIGEMT, SIGBUS, SIGSYS and
// everything from SIGURG up.
type Signal int

const (
	SIGHUP Signal = iota + 1
	SIGINT
	SIGQUIT
	SIGILL
	SIGTRAP
	SIGABRT
	SIGEMT
	SIGFPE
	SIGKILL
	SIGBUS
	SIGSEGV
	SIGSYS
	SIGPIPE
	SIGALRM
	SIGTERM
	SIGURG
	SIGSTOP
	SIGTSTP
	SIGCONT
	SIGCHLD
	SIGTTIN
	SIGTTOU
	SIGIO
	SIGXCPU
	SIGXFSZ
	SIGVTALRM
	SIGPROF
	SIGWINCH
	SIGINFO
	SIGUSR1
	SIGUSR2

	signalDone // must be last
)

var signalNames = map[Signal]string{
	SIGHUP:    "sighup",
	SIGINT:    "sigint",
	SIGQUIT:   "sigquit",
	SIGILL:    "sigill",
	SIGTRAP:   "sigtrap",
	SIGABRT:   "sigabrt",
	SIGEMT:    "sigemt",
	SIGFPE:    "sigfpe",
	SIGKILL:   "sigkill",
	SIGBUS:    "sigbus",
	SIGSEGV:   "sigsegv",
	SIGSYS:    "sigsys",
	SIGPIPE:   "sigpipe",
	SIGALRM:   "sigalrm",
	SIGTERM:   "sigterm",
	SIGURG:    "sigurg",
	SIGSTOP:   "sigstop",
	SIGTSTP:   "sigtstp",
	SIGCONT:   "sigcont",
	SIGCHLD:   "sigchld",
	SIGTTIN:   "sigttin",
	SIGTTOU:   "sigttou",
	SIGIO:     "sigio",
	SIGXCPU:   "sigxcpu",
	SIGXFSZ:   "sigxfsz",
	SIGVTALRM: "sigvtalrm",
	SIGPROF:   "sigprof",
	SIGWINCH:  "sigwinch",
	SIGINFO:   "siginfo",
	SIGUSR1:   "sigusr1",
	SIGUSR2:   "sigusr2",
}

// ParseSignal matches the symbolic lowercase signal names the kernel grammar
// uses, e.g. "sigterm". Numeric forms are not part of the grammar.
func ParseSignal(s string) (Signal, error) {
	for sig := Signal(1); sig < signalDone; sig++ {
		if sig.String() == s {
			return sig, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

func (s Signal) String() string {
	return signalNames[s]
}

type actionKind int

const (
	actionUnknown actionKind = iota
	actionDeny
	actionLog
	actionDevCtl
	actionSignal
	actionThrottle
)

// Action describes what the kernel does when a rule's limit is hit. Actions
// are comparable values; signal actions carry the signal to deliver.
type Action struct {
	kind actionKind
	sig  Signal
}

var (
	ActionDeny     = Action{kind: actionDeny}
	ActionLog      = Action{kind: actionLog}
	ActionDevCtl   = Action{kind: actionDevCtl}
	ActionThrottle = Action{kind: actionThrottle}
)

// ActionSignal returns the action that delivers sig to the offending
// process.
func ActionSignal(sig Signal) Action {
	return Action{kind: actionSignal, sig: sig}
}

// ParseAction matches "deny", "log", "devctl", "throttle" or one of the
// symbolic signal names.
func ParseAction(s string) (Action, error) {
	switch s {
	case "deny":
		return ActionDeny, nil
	case "log":
		return ActionLog, nil
	case "devctl":
		return ActionDevCtl, nil
	case "throttle":
		return ActionThrottle, nil
	}
	sig, err := ParseSignal(s)
	if err != nil {
		return Action{}, err
	}
	return ActionSignal(sig), nil
}

func (a Action) String() string {
	switch a.kind {
	case actionDeny:
		return "deny"
	case actionLog:
		return "log"
	case actionDevCtl:
		return "devctl"
	case actionThrottle:
		return "throttle"
	case actionSignal:
		return a.sig.String()
	default:
		return ""
	}
}
