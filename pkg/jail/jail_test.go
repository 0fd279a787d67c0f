//go:build unit || !integration

package jail

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListOffFreeBSD(t *testing.T) {
	if runtime.GOOS == "freebsd" {
		t.Skip("this asserts the stub behavior")
	}
	_, err := NewSource().List(context.Background())
	require.ErrorIs(t, err, ErrPlatformUnsupported)
}
