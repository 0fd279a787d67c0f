// Package jail enumerates running FreeBSD jails through jail_get(2).
package jail

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// ErrPlatformUnsupported is returned on systems without jails.
var ErrPlatformUnsupported = errors.New("jail enumeration is only supported on FreeBSD")

// Jail identifies one running jail.
type Jail struct {
	JID  int32
	Name string
}

// Source lists running jails from the kernel.
type Source struct{}

func NewSource() *Source {
	return &Source{}
}

// List returns every running jail in ascending JID order. Dying jails are
// not included; whatever usage they still hold disappears with them.
func (s *Source) List(ctx context.Context) ([]Jail, error) {
	jails, err := list()
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Trace().Msgf("jail_get reported %d running jails", len(jails))
	return jails, nil
}
