package actions

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stake-plus/capapp/src/audit"
	"github.com/stake-plus/capapp/src/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenAuditStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "factchecks.json")

	store, err := OpenAuditStore(config.FactCheckConfig{AuditBackend: "file", LogPath: path}, nil)
	require.NoError(t, err)
	fs, ok := store.(*audit.FileStore)
	require.True(t, ok)
	assert.Equal(t, path, fs.Path())

	_, err = OpenAuditStore(config.FactCheckConfig{AuditBackend: "mysql"}, nil)
	assert.Error(t, err)

	_, err = OpenAuditStore(config.FactCheckConfig{AuditBackend: "s3"}, nil)
	assert.Error(t, err)
}

func TestStartAllRequiresToken(t *testing.T) {
	_, err := StartAll(context.Background(), config.FactCheckConfig{}, config.ServerConfig{}, nil, zap.NewNop())
	assert.ErrorContains(t, err, "DISCORD_TOKEN")
}

func TestCloserModule(t *testing.T) {
	closed := 0
	mod := closer("thing", func() error { closed++; return errors.New("already closed") }, zap.NewNop())

	mgr := NewManager(mod)
	require.NoError(t, mgr.Start(context.Background()))
	mgr.Stop(context.Background())
	assert.Equal(t, 1, closed)
	assert.Equal(t, "thing", mod.Name())
}
