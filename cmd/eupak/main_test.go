package main

import (
	"path/filepath"
	"testing"

	"github.com/plus3/redback/pack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDemoProject(t *testing.T) {
	out := filepath.Join(t.TempDir(), "demo"+pack.Extension)

	built, err := build(filepath.Join("..", "..", "examples", "demo", "project.yaml"), out)
	require.NoError(t, err)

	data, err := pack.ReadFile(out)
	require.NoError(t, err)

	require.Len(t, data.Scenes, 2)
	assert.Equal(t, "Courtyard", data.Scenes[0].Name)
	assert.Equal(t, "Hall", data.Scenes[1].Name)
	assert.Contains(t, data.Scripts, "wander.lua")
	assert.Contains(t, data.Scripts, "gate.lua")
	assert.Equal(t, built.Scripts, data.Scripts)
}

func TestBuildMissingManifest(t *testing.T) {
	_, err := build(filepath.Join(t.TempDir(), "missing.yaml"), filepath.Join(t.TempDir(), "out.eupak"))
	assert.Error(t, err)
}
