package pack_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/redback/pack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathForExecutable(t *testing.T) {
	tests := []struct {
		exe  string
		want string
	}{
		{exe: filepath.Join("games", "orbit"), want: filepath.Join("games", "orbit.eupak")},
		{exe: filepath.Join("games", "orbit.exe"), want: filepath.Join("games", "orbit.eupak")},
		{exe: "orbit", want: "orbit.eupak"},
	}

	for _, tt := range tests {
		t.Run(tt.exe, func(t *testing.T) {
			assert.Equal(t, tt.want, pack.PathForExecutable(tt.exe))
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := pack.ReadFile(filepath.Join(dir, "missing.eupak"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.eupak was not found")

	b, err := pack.Encode(sampleData())
	require.NoError(t, err)
	path := filepath.Join(dir, "game.eupak")
	require.NoError(t, os.WriteFile(path, b, 0o644))

	data, err := pack.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Default", data.Scenes[0].Name)
}
