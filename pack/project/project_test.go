package project_test

import (
	"testing"
	"testing/fstest"

	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/pack/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `
scenes:
  - name: Default
    entities:
      - label: Hero
        model: builtin:cube
        position: [1, 2, 3]
        script: scripts/patrol.lua
        properties:
          health: 100
          speed: 2.5
          title: knight
          spawn: [0, 1, 0]
      - label: Guard
        model: models/guard.obj
        script: scripts/patrol.lua
    cameras:
      - type: player
        follow:
          label: Hero
          offset: [0, 5, -10]
    lights:
      - label: sun
        kind: directional
        enabled: false
  - name: Level2
`

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"game/project.yaml":       {Data: []byte(manifest)},
		"game/scripts/patrol.lua": {Data: []byte("return {}")},
	}

	data, err := project.Load(fsys, "game/project.yaml")
	require.NoError(t, err)

	require.Len(t, data.Scenes, 2)
	assert.Equal(t, "Default", data.Scenes[0].Name)
	assert.Equal(t, "Level2", data.Scenes[1].Name)
	assert.Equal(t, map[string]string{"patrol.lua": "return {}"}, data.Scripts)

	hero := data.Scenes[0].Entities[0]
	assert.Equal(t, mathx.Vec3{X: 1, Y: 2, Z: 3}, hero.Transform.Position)
	assert.Equal(t, mathx.One3, hero.Transform.Scale)
	assert.Equal(t, &pack.ScriptRef{Name: "patrol.lua", Path: "scripts/patrol.lua"}, hero.Script)
	assert.Equal(t, int64(100), hero.Properties["health"])
	assert.Equal(t, 2.5, hero.Properties["speed"])
	assert.Equal(t, "knight", hero.Properties["title"])
	assert.Equal(t, mathx.Vec3{Y: 1}, hero.Properties["spawn"])

	cam := data.Scenes[0].Cameras[0]
	assert.Equal(t, pack.CameraPlayer, cam.Type)
	assert.Equal(t, float32(45), cam.FovY)
	require.NotNil(t, cam.Follow)
	assert.Equal(t, mathx.Vec3{Y: 5, Z: -10}, cam.Follow.Offset)

	assert.False(t, data.Scenes[0].Lights[0].Enabled)
}

func TestParseRejectsInvalidManifests(t *testing.T) {
	tests := map[string]string{
		"missing scenes":   `other: 1`,
		"unknown camera":   "scenes:\n  - name: A\n    cameras:\n      - type: cinematic\n",
		"short vector":     "scenes:\n  - name: A\n    entities:\n      - label: x\n        model: m\n        position: [1, 2]\n",
		"entity w/o model": "scenes:\n  - name: A\n    entities:\n      - label: x\n",
		"not yaml":         "scenes: [",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := project.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestBuildRejectsDuplicateScenes(t *testing.T) {
	m, err := project.Parse([]byte("scenes:\n  - name: A\n  - name: A\n"))
	require.NoError(t, err)

	_, err = m.Build(fstest.MapFS{}, ".")
	assert.ErrorContains(t, err, `duplicate scene "A"`)
}

func TestBuildMissingScript(t *testing.T) {
	m, err := project.Parse([]byte("scenes:\n  - name: A\n    entities:\n      - label: x\n        model: m\n        script: gone.lua\n"))
	require.NoError(t, err)

	_, err = m.Build(fstest.MapFS{}, ".")
	assert.Error(t, err)
}
