package worker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMessages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("messages:\n  - heartbeat ok\n  - queue drained\n"), 0o644))

	msgs, err := LoadMessages(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"heartbeat ok", "queue drained"}, msgs)
}

func TestLoadMessages_EmptyPath(t *testing.T) {
	msgs, err := LoadMessages("")
	require.NoError(t, err)
	assert.Nil(t, msgs)
}

func TestLoadMessages_EmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("messages: []\n"), 0o644))

	_, err := LoadMessages(path)
	assert.Error(t, err)
}

func TestLoadMessages_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{messages: [unclosed"), 0o644))

	_, err := LoadMessages(path)
	assert.Error(t, err)
}
