package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, EnableFile(path))
	t.Cleanup(Disable)

	require.NotEmpty(t, Session())
	Log("engine", "on key=%d", 60)
	for i := 0; i < 4; i++ {
		LogEvery(2, "synth", "render")
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "session "+Session())
	assert.Contains(t, out, "engine     on key=60")
	assert.Equal(t, 2, strings.Count(out, "render (every 2"))
}

func TestLogDisabledIsSilent(t *testing.T) {
	Disable()
	Log("engine", "dropped")
	assert.Empty(t, Session())
}
