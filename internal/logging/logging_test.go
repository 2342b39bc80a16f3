package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_File(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "lingua.log")
	closer, err := Setup("debug", path)
	require.NoError(t, err)

	logrus.WithField("node", 3).Debug("task fetched")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "task fetched")
	assert.Contains(t, string(data), "node=3")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestSetup_BadLevel(t *testing.T) {
	_, err := Setup("loud", "")
	assert.Error(t, err)
}

func TestDefaultFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	p, err := DefaultFile()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/state/lingua/lingua.log", p)
}
