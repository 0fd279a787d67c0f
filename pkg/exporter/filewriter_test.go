//go:build unit || !integration

package exporter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jailmon-project/jailmon/pkg/jail"
	"github.com/jailmon-project/jailmon/pkg/logger"
	"github.com/jailmon-project/jailmon/pkg/rctl"
)

func TestFileWriterReplacesAtomically(t *testing.T) {
	logger.ConfigureTestLogging(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "jail.prom")

	kernel := &fakeKernel{
		jails: []jail.Jail{{JID: 1, Name: "www"}},
		usage: map[string]rctl.Usage{
			"jail:www": {rctl.ResourceMemoryUse: 2048},
		},
	}
	writer := NewFileWriter(New(kernel, kernel), path)

	require.NoError(t, writer.Export(context.Background()))

	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(payload), "jail_num 1")
	require.Contains(t, string(payload), `jail_memoryuse_bytes{name="www"} 2048`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// Exporting again replaces the file and leaves no temporaries behind.
	require.NoError(t, writer.Export(context.Background()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "jail.prom", entries[0].Name())
}

func TestFileWriterPropagatesCollectErrors(t *testing.T) {
	logger.ConfigureTestLogging(t)
	path := filepath.Join(t.TempDir(), "jail.prom")

	kernel := &fakeKernel{listErr: errors.New("racct is off")}
	writer := NewFileWriter(New(kernel, kernel), path)

	require.Error(t, writer.Export(context.Background()))

	// Nothing was written on failure.
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
