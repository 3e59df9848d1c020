package ebitenrender

import (
	"testing"

	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePipeline(t *testing.T) {
	r := New(640, 480)

	model, err := r.CreatePipeline(render.ModelShader, render.TextureLayout, render.LightLayout)
	require.NoError(t, err)
	light, err := r.CreatePipeline(render.LightShader, render.LightLayout)
	require.NoError(t, err)

	assert.True(t, model.Valid())
	assert.NotEqual(t, model.ID, light.ID)
	assert.Equal(t, render.LightShader.Name, light.Shader)

	_, err = r.CreatePipeline(render.Shader{Name: "custom"})
	assert.Error(t, err)
}

func TestViewportWithoutTarget(t *testing.T) {
	r := New(640, 480)
	w, h := r.Viewport()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	r.Resize(800, 600)
	w, h = r.Viewport()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	pass := r.BeginFrame(render.ClearColor)
	pass.Draw(&render.Model{}, render.CameraBindings{}, render.LightBindings{})
	pass.End()
}

func TestProject(t *testing.T) {
	x, y, ok := Project(mathx.Identity(), mathx.Vec3{}, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, 400, x, 1e-3)
	assert.InDelta(t, 300, y, 1e-3)

	x, y, ok = Project(mathx.Identity(), mathx.Vec3{X: 1, Y: 1}, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, 800, x, 1e-3)
	assert.InDelta(t, 0, y, 1e-3)
}

func TestProjectBehindCamera(t *testing.T) {
	view := mathx.LookAt(mathx.Vec3{Z: -5}, mathx.Vec3{}, mathx.Vec3{Y: 1})
	proj := mathx.Perspective(mathx.Radians(45), 1, 0.1, 100)
	mvp := proj.Mul(view)

	_, _, ok := Project(mvp, mathx.Vec3{}, 100, 100)
	assert.True(t, ok)

	_, _, ok = Project(mvp, mathx.Vec3{Z: -10}, 100, 100)
	assert.False(t, ok)
}

func TestShade(t *testing.T) {
	dark := Shade(render.LightBindings{})
	assert.Equal(t, dark.R, dark.G)
	assert.Less(t, dark.R, uint8(128))

	lit := Shade(render.LightBindings{Lights: []render.LightUniform{
		{Color: mathx.Vec3{X: 1, Y: 1, Z: 1}, Intensity: 4},
	}})
	assert.Equal(t, uint8(255), lit.R)
	assert.Equal(t, uint8(255), lit.B)
}
