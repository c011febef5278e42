package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-violet/mapping"
	"go-violet/theory"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetChordFlags() {
	chordType = "maj"
	chordExts = nil
	chordVoicing = 0
	chordKey = ""
	chordMode = "chord"
	chordPlay = 0
}

func TestChordCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "major by name",
			args: []string{"chord", "C4"},
			want: "C  C4 E4 G4  (60 64 67)\n",
		},
		{
			name: "minor seventh",
			args: []string{"chord", "60", "--type", "min", "--ext", "m7"},
			want: "Cm^m7  C4 D#4 G4 A#4  (60 63 67 70)\n",
		},
		{
			name: "quantized to key",
			args: []string{"chord", "61", "--key", "C-maj"},
			want: "C  C4 E4 G4  (60 64 67)\n",
		},
		{
			name: "voicing",
			args: []string{"chord", "60", "--voicing", "1"},
			want: "C  E4 G4 C5  (64 67 72)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetChordFlags()
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	t.Run("bad input", func(t *testing.T) {
		resetChordFlags()
		_, err := run(t, "chord", "H4")
		assert.ErrorIs(t, err, theory.ErrBadNote)

		resetChordFlags()
		_, err = run(t, "chord", "60", "--key", "C-lydian")
		assert.ErrorIs(t, err, theory.ErrBadKey)
	})
}

func TestMappingsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midi-mappings.json")
	store := mapping.NewFileStore(path)
	require.NoError(t, store.Save(mapping.Table{
		Enabled:  true,
		Mappings: []mapping.Mapping{{Note: 36, Action: mapping.ActionChordMin, Device: "pads"}},
	}))

	out, err := run(t, "mappings", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "mappings enabled, 1 learned")
	assert.Contains(t, out, "C2 (36)  pads")

	out, err = run(t, "mappings", "clear", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	t2, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, t2.Mappings)
	assert.True(t, t2.Enabled)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
