//go:build !freebsd

package jail

func list() ([]Jail, error) {
	return nil, ErrPlatformUnsupported
}
