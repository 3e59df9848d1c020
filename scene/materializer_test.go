package scene_test

import (
	"bytes"
	"errors"
	"log"
	"reflect"
	"sort"
	"testing"

	"github.com/plus3/redback/asset"
	"github.com/plus3/redback/camera"
	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/render"
	"github.com/plus3/redback/scene"
	"github.com/plus3/redback/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMaterializer(assets asset.Constructor) (*scene.Materializer, *bytes.Buffer) {
	var buf bytes.Buffer
	return &scene.Materializer{Assets: assets, Logger: log.New(&buf, "", 0)}, &buf
}

func levelScene() *pack.SceneConfig {
	return &pack.SceneConfig{
		Name: "Default",
		Entities: []pack.EntityConfig{
			{
				Label:      "Hero",
				ModelPath:  "builtin:cube",
				Transform:  pack.DefaultTransform(),
				Properties: map[string]any{"speed": 2.0},
				Script:     &pack.ScriptRef{Name: "patrol.lua", Path: "scripts/patrol.lua"},
			},
			{Label: "Floor", ModelPath: "builtin:plane", Transform: pack.DefaultTransform()},
		},
		Cameras: []pack.CameraConfig{
			withType(camera.DefaultConfig(), "debug", pack.CameraDebug),
			withType(camera.DefaultConfig(), "player", pack.CameraPlayer),
		},
		Lights: []pack.LightConfig{
			{Label: "sun", Kind: pack.LightDirectional, Transform: pack.DefaultTransform(), Enabled: true},
		},
	}
}

func withType(cfg pack.CameraConfig, label string, cameraType pack.CameraType) pack.CameraConfig {
	cfg.Label = label
	cfg.Type = cameraType
	return cfg
}

// composition returns the sorted component type lists of every entity.
func composition(storage *ecs.Storage) []string {
	var out []string
	for archetype := range storage.Archetypes() {
		for range archetype.Iter() {
			out = append(out, typeNames(archetype.Types()))
		}
	}
	sort.Strings(out)
	return out
}

func typeNames(types []reflect.Type) string {
	s := ""
	for _, typ := range types {
		s += typ.String() + ";"
	}
	return s
}

func TestMaterialize(t *testing.T) {
	storage := scene.NewWorld()
	m, _ := newMaterializer(&asset.Static{})

	out, err := m.Materialize(storage, levelScene(), render.NewRecorder(800, 600))
	require.NoError(t, err)

	assert.Equal(t, "Default", out.Scene)
	assert.Len(t, out.Entities, 2)
	assert.Len(t, out.Cameras, 2)
	assert.Len(t, out.Lights, 1)
	assert.Equal(t, 5, storage.Len())
	assert.False(t, out.FallbackCamera)

	hero := out.Entities[0]
	assert.Equal(t, world.Label("Hero"), *ecs.ReadComponent[world.Label](storage, hero))
	assert.Equal(t, 2.0, ecs.ReadComponent[world.Properties](storage, hero).Values["speed"])
	visual := ecs.ReadComponent[world.Visual](storage, hero)
	require.NotNil(t, visual)
	assert.Equal(t, "Hero", visual.Model.Label)

	require.Len(t, out.Scripted, 1)
	assert.Equal(t, hero, out.Scripted[0].ID)
	assert.Equal(t, "patrol.lua", out.Scripted[0].Script.Name)
	assert.Nil(t, ecs.ReadComponent[world.ScriptComponent](storage, out.Entities[1]))

	assert.Equal(t, out.Cameras[1], out.ActiveCamera)

	light := ecs.ReadComponent[world.Light](storage, out.Lights[0])
	require.NotNil(t, light)
	assert.Equal(t, "sun", light.Label)
	assert.NotNil(t, light.Model)
}

func TestMaterializeIsIdempotent(t *testing.T) {
	storage := scene.NewWorld()
	m, _ := newMaterializer(&asset.Static{})
	r := render.NewRecorder(800, 600)

	first, err := m.Materialize(storage, levelScene(), r)
	require.NoError(t, err)
	once := composition(storage)
	count := storage.Len()

	second, err := m.Materialize(storage, levelScene(), r)
	require.NoError(t, err)

	assert.Equal(t, count, storage.Len())
	assert.Equal(t, once, composition(storage))

	for _, id := range first.Entities {
		assert.False(t, storage.Alive(id), "handle %s survived a reload", id)
		assert.NotContains(t, second.Entities, id)
	}
}

func TestMaterializeAssetFailureLeavesWorldUntouched(t *testing.T) {
	storage := scene.NewWorld()
	boom := errors.New("boom")
	m, _ := newMaterializer(&asset.Static{Fail: map[string]error{"models/broken.obj": boom}})
	r := render.NewRecorder(800, 600)

	before, err := m.Materialize(storage, levelScene(), r)
	require.NoError(t, err)

	broken := levelScene()
	broken.Name = "Broken"
	broken.Entities = append(broken.Entities, pack.EntityConfig{Label: "Bad", ModelPath: "models/broken.obj"})

	_, err = m.Materialize(storage, broken, r)
	require.Error(t, err)
	assert.ErrorIs(t, err, scene.ErrAssetFailure)
	assert.ErrorIs(t, err, boom)

	var loadErr *scene.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "Broken", loadErr.Scene)

	for _, id := range before.Entities {
		assert.True(t, storage.Alive(id))
	}
	assert.Equal(t, 5, storage.Len())
}

func TestCameraActivation(t *testing.T) {
	normal := withType(camera.DefaultConfig(), "normal", pack.CameraNormal)
	debug := withType(camera.DefaultConfig(), "debug", pack.CameraDebug)
	player := withType(camera.DefaultConfig(), "player", pack.CameraPlayer)

	tests := []struct {
		name     string
		cameras  []pack.CameraConfig
		want     string
		fallback bool
	}{
		{name: "player wins", cameras: []pack.CameraConfig{normal, debug, player}, want: "player"},
		{name: "debug without player", cameras: []pack.CameraConfig{normal, debug}, want: "debug"},
		{name: "first declared otherwise", cameras: []pack.CameraConfig{normal}, want: "normal"},
		{name: "none declared", cameras: nil, want: "default", fallback: true},
		{name: "duplicate type", cameras: []pack.CameraConfig{player, player}, want: "default", fallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := scene.NewWorld()
			m, logs := newMaterializer(&asset.Static{})

			out, err := m.Materialize(storage, &pack.SceneConfig{Name: "S", Cameras: tt.cameras}, nil)
			require.NoError(t, err)

			component := ecs.ReadComponent[camera.Component](storage, out.ActiveCamera)
			require.NotNil(t, component)
			assert.Equal(t, tt.want, component.Label)
			assert.Equal(t, tt.fallback, out.FallbackCamera)
			if tt.fallback {
				assert.Equal(t, pack.CameraDebug, component.Type)
				assert.Len(t, out.Cameras, 1)
				assert.Contains(t, logs.String(), "default debug camera")
			}
		})
	}
}

func TestMalformedCameraFallsBack(t *testing.T) {
	storage := scene.NewWorld()
	m, logs := newMaterializer(&asset.Static{})

	bad := withType(camera.DefaultConfig(), "broken", pack.CameraPlayer)
	bad.Up = mathx.Vec3{}

	out, err := m.Materialize(storage, &pack.SceneConfig{Name: "S", Cameras: []pack.CameraConfig{bad}}, nil)
	require.NoError(t, err)
	assert.True(t, out.FallbackCamera)
	assert.Contains(t, logs.String(), "WARN")
	assert.Contains(t, logs.String(), "zero up vector")
}

func TestFollowTargetRecorded(t *testing.T) {
	storage := scene.NewWorld()
	m, _ := newMaterializer(&asset.Static{})

	player := withType(camera.DefaultConfig(), "player", pack.CameraPlayer)
	player.Follow = &pack.FollowTarget{Label: "Hero", Offset: mathx.Vec3{Y: 5, Z: -10}}

	out, err := m.Materialize(storage, &pack.SceneConfig{Name: "S", Cameras: []pack.CameraConfig{player}}, nil)
	require.NoError(t, err)

	follow := ecs.ReadComponent[camera.FollowTarget](storage, out.ActiveCamera)
	require.NotNil(t, follow)
	assert.Equal(t, "Hero", follow.Label)
	assert.Equal(t, mathx.Vec3{Y: 5, Z: -10}, follow.Offset)
}
