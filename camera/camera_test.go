package camera_test

import (
	"bytes"
	"log"
	"testing"

	"github.com/plus3/redback/camera"
	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/input"
	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-4

func newWorld() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	world.Register(registry)
	camera.Register(registry)
	return ecs.NewStorage(registry)
}

func spawnCamera(t *testing.T, storage *ecs.Storage, cfg pack.CameraConfig, follow *camera.FollowTarget) ecs.EntityId {
	t.Helper()
	cam, err := camera.New(cfg)
	require.NoError(t, err)

	components := []any{cam, camera.Component{Type: cfg.Type, Label: cfg.Label}}
	if follow != nil {
		components = append(components, *follow)
	}
	return storage.Spawn(components...)
}

func newController() (*camera.Controller, *bytes.Buffer) {
	var buf bytes.Buffer
	return camera.NewController(log.New(&buf, "", 0)), &buf
}

func playerConfig() pack.CameraConfig {
	cfg := camera.DefaultConfig()
	cfg.Label = "player"
	cfg.Type = pack.CameraPlayer
	return cfg
}

func TestNewRejectsMalformed(t *testing.T) {
	tests := map[string]func(*pack.CameraConfig){
		"zero up":        func(c *pack.CameraConfig) { c.Up = mathx.Vec3{} },
		"eye at target":  func(c *pack.CameraConfig) { c.Eye = c.Target },
		"zero fov":       func(c *pack.CameraConfig) { c.FovY = 0 },
		"inverted clips": func(c *pack.CameraConfig) { c.ZNear, c.ZFar = 10, 1 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := camera.DefaultConfig()
			mutate(&cfg)
			_, err := camera.New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestValidateRejectsDuplicateTypes(t *testing.T) {
	a := playerConfig()
	b := playerConfig()
	b.Label = "other"

	assert.Error(t, camera.Validate([]pack.CameraConfig{a, b}))
	assert.NoError(t, camera.Validate([]pack.CameraConfig{a, camera.DefaultConfig()}))
}

func TestUpdateFollowing(t *testing.T) {
	storage := newWorld()
	controller, _ := newController()

	hero := storage.Spawn(world.Label("Hero"), world.Transform{Rotation: mathx.IdentityQuat(), Scale: mathx.One3})
	id := spawnCamera(t, storage, playerConfig(), &camera.FollowTarget{Label: "Hero", Offset: mathx.Vec3{Y: 5, Z: -10}})
	controller.Reset(id)

	controller.UpdateFollowing(storage, 0.016)

	cam := ecs.ReadComponent[camera.Camera](storage, id)
	assert.Equal(t, mathx.Vec3{}, cam.Target)
	assert.Equal(t, mathx.Vec3{Y: 5, Z: -10}, cam.Eye)

	t.Run("tracks the target as it moves", func(t *testing.T) {
		ecs.ReadComponent[world.Transform](storage, hero).Position = mathx.Vec3{X: 3}
		controller.UpdateFollowing(storage, 0.016)
		assert.Equal(t, mathx.Vec3{X: 3}, cam.Target)
		assert.Equal(t, mathx.Vec3{X: 3, Y: 5, Z: -10}, cam.Eye)
	})

	t.Run("missing target keeps last position", func(t *testing.T) {
		storage.Delete(hero)
		controller.UpdateFollowing(storage, 0.016)
		assert.Equal(t, mathx.Vec3{X: 3}, cam.Target)
		assert.Equal(t, mathx.Vec3{X: 3, Y: 5, Z: -10}, cam.Eye)
	})
}

func TestUpdateFollowingFirstMatchWins(t *testing.T) {
	storage := newWorld()
	controller, _ := newController()

	storage.Spawn(world.Label("Hero"), world.Transform{Position: mathx.Vec3{X: 1}})
	storage.Spawn(world.Label("Hero"), world.Transform{Position: mathx.Vec3{X: 2}}, world.Properties{})
	id := spawnCamera(t, storage, playerConfig(), &camera.FollowTarget{Label: "Hero"})
	controller.Reset(id)

	controller.UpdateFollowing(storage, 0)
	assert.Equal(t, mathx.Vec3{X: 1}, ecs.ReadComponent[camera.Camera](storage, id).Target)
}

func TestUpdateFollowingSkipsInactiveCameras(t *testing.T) {
	storage := newWorld()
	controller, _ := newController()

	storage.Spawn(world.Label("Hero"), world.Transform{Position: mathx.Vec3{X: 4}})
	debug := spawnCamera(t, storage, camera.DefaultConfig(), nil)
	player := spawnCamera(t, storage, playerConfig(), &camera.FollowTarget{Label: "Hero"})
	controller.Reset(debug)

	before := *ecs.ReadComponent[camera.Camera](storage, player)
	controller.UpdateFollowing(storage, 0)
	assert.Equal(t, before, *ecs.ReadComponent[camera.Camera](storage, player))

	require.True(t, controller.SetActive(storage, pack.CameraPlayer))
	controller.UpdateFollowing(storage, 0)
	assert.Equal(t, mathx.Vec3{X: 4}, ecs.ReadComponent[camera.Camera](storage, player).Target)
}

func TestFollowingDoesNotMutateOtherEntities(t *testing.T) {
	storage := newWorld()
	controller, _ := newController()

	hero := storage.Spawn(world.Label("Hero"), world.Transform{Position: mathx.Vec3{X: 7}})
	id := spawnCamera(t, storage, playerConfig(), &camera.FollowTarget{Label: "Hero", Offset: mathx.Vec3{Z: 4}})
	controller.Reset(id)

	controller.UpdateFollowing(storage, 0)
	controller.UpdateAll(storage, 800, 600)
	assert.Equal(t, world.Transform{Position: mathx.Vec3{X: 7}}, *ecs.ReadComponent[world.Transform](storage, hero))
}

func TestSetActive(t *testing.T) {
	storage := newWorld()
	controller, logs := newController()

	debug := spawnCamera(t, storage, camera.DefaultConfig(), nil)
	player := spawnCamera(t, storage, playerConfig(), nil)
	controller.Reset(debug)

	assert.True(t, controller.SetActive(storage, pack.CameraPlayer))
	id, _, err := controller.Active(storage)
	require.NoError(t, err)
	assert.Equal(t, player, id)

	assert.False(t, controller.SetActive(storage, pack.CameraNormal))
	id, _, err = controller.Active(storage)
	require.NoError(t, err)
	assert.Equal(t, player, id)
	assert.Contains(t, logs.String(), "no Normal camera")
}

func TestActiveAfterClear(t *testing.T) {
	storage := newWorld()
	controller, _ := newController()

	id := spawnCamera(t, storage, camera.DefaultConfig(), nil)
	controller.Reset(id)
	controller.UpdateAll(storage, 800, 600)
	before := controller.Bindings(storage)

	storage.Clear()
	_, _, err := controller.Active(storage)
	assert.ErrorIs(t, err, camera.ErrNoActiveCamera)
	assert.Equal(t, before, controller.Bindings(storage))
}

func TestUpdateAllAspect(t *testing.T) {
	storage := newWorld()
	controller, _ := newController()

	id := spawnCamera(t, storage, camera.DefaultConfig(), nil)
	controller.Reset(id)

	controller.UpdateAll(storage, 1600, 900)
	cam := ecs.ReadComponent[camera.Camera](storage, id)
	assert.InDelta(t, 16.0/9.0, float64(cam.Aspect), epsilon)
	assert.Equal(t, cam.Eye, cam.Uniform.ViewPosition)

	controller.UpdateAll(storage, 1600, 0)
	assert.InDelta(t, 16.0/9.0, float64(cam.Aspect), epsilon)
}

func TestTrackMouseDelta(t *testing.T) {
	storage := newWorld()
	controller, _ := newController()

	id := spawnCamera(t, storage, camera.DefaultConfig(), nil)
	controller.Reset(id)
	cam := ecs.ReadComponent[camera.Camera](storage, id)
	target := cam.Target

	state := input.NewState()
	controller.TrackMouseDelta(storage, &state, 50, 0)
	assert.Equal(t, target, cam.Target, "unlocked cursor must not turn the camera")

	state.ToggleCursorLock()
	controller.TrackMouseDelta(storage, &state, 50, 0)
	assert.NotEqual(t, target, cam.Target)
	assert.InDelta(t, float64(target.Sub(cam.Eye).Length()), float64(cam.Target.Sub(cam.Eye).Length()), epsilon)

	controller.TrackMouseDelta(storage, &state, 0, -1e6)
	assert.LessOrEqual(t, cam.Pitch, mathx.Radians(89)+epsilon)
}

func TestDrive(t *testing.T) {
	storage := newWorld()
	controller, _ := newController()

	id := spawnCamera(t, storage, camera.DefaultConfig(), nil)
	controller.Reset(id)
	cam := ecs.ReadComponent[camera.Camera](storage, id)
	eye := cam.Eye

	state := input.NewState()
	state.KeyDown(input.KeySpace)

	controller.Drive(storage, &state, 1)
	assert.Equal(t, eye, cam.Eye, "unlocked cursor must not move the camera")

	state.ToggleCursorLock()
	controller.Drive(storage, &state, 1)
	assert.True(t, cam.Eye.ApproxEqual(eye.Add(mathx.Vec3{Y: 1}), epsilon), "got %v", cam.Eye)

	t.Run("player cameras are not driven", func(t *testing.T) {
		player := spawnCamera(t, storage, playerConfig(), nil)
		controller.Reset(player)
		playerCam := ecs.ReadComponent[camera.Camera](storage, player)
		before := playerCam.Eye
		controller.Drive(storage, &state, 1)
		assert.Equal(t, before, playerCam.Eye)
	})
}
