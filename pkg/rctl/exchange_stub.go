//go:build !freebsd

package rctl

// exchange needs the FreeBSD rctl entry points; everywhere else the grammar
// still works but the kernel exchange does not.
func exchange(op exchangeOp, request string, config ChannelConfig) (string, error) {
	return "", ErrPlatformUnsupported
}
