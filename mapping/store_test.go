package mapping

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope", FileName))
	tbl, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultTable(), tbl)
}

func TestFileStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", FileName)
	s := NewFileStore(path)

	want := Table{
		Mappings: []Mapping{
			{Note: 36, Action: ActionChordMaj},
			{Note: 38, Action: ActionExtMajor7, Device: "Pads"},
		},
		Enabled: false,
	}
	require.NoError(t, s.Save(want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"action": "extM7"`)
	assert.Contains(t, string(data), `"deviceId": "Pads"`)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"mappings":[{"note":1,"action":"bogus"}]}`), 0644))

	tbl, err := NewFileStore(path).Load()
	assert.Error(t, err)
	assert.Equal(t, DefaultTable(), tbl)
}

func TestDebouncedStoreCoalesces(t *testing.T) {
	inner := &memStore{}
	s := NewDebouncedStore(inner, 20*time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(Table{Mappings: []Mapping{{Note: i, Action: ActionExt6}}, Enabled: true}))
	}
	assert.Eventually(t, func() bool {
		_, saves := inner.snapshot()
		return saves > 0
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	saved, saves := inner.snapshot()
	assert.Equal(t, 1, saves)
	assert.Equal(t, 4, saved.Mappings[0].Note)
}

func TestDebouncedStoreFlush(t *testing.T) {
	inner := &memStore{}
	s := NewDebouncedStore(inner, time.Hour)
	require.NoError(t, s.Save(DefaultTable()))
	require.NoError(t, s.Flush())
	_, saves := inner.snapshot()
	assert.Equal(t, 1, saves)
	require.NoError(t, s.Flush())
	_, saves = inner.snapshot()
	assert.Equal(t, 1, saves)
}
