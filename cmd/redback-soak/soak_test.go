package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/pack/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demo(t *testing.T) (*pack.RuntimeData, string) {
	t.Helper()
	dir := filepath.Join("..", "..", "examples", "demo")
	data, err := project.Load(os.DirFS(dir), "project.yaml")
	require.NoError(t, err)
	return data, dir
}

func TestSoakDemoProject(t *testing.T) {
	data, dir := demo(t)
	var logs bytes.Buffer

	report, err := Soak(context.Background(), data, os.DirFS(dir), Options{
		Frames:      30,
		DeltaTime:   1.0 / 60.0,
		SwitchEvery: 10,
		Width:       640,
		Height:      480,
	}, log.New(&logs, "", 0))
	require.NoError(t, err)

	assert.EqualValues(t, 30, report.TotalFrames)
	assert.Equal(t, 2, report.Switches)
	assert.Zero(t, report.FailedSwitches)
	assert.False(t, report.Quit)
	assert.Equal(t, "Courtyard", report.FinalScene)
	assert.Equal(t, 2, report.Bindings)
	assert.Positive(t, report.DrawsPerFrame())
	assert.Len(t, report.UpdateTime.Samples, 30)
	assert.LessOrEqual(t, report.UpdateTime.Min, report.UpdateTime.Max)
	assert.Contains(t, logs.String(), "Hero starts wandering")

	var out bytes.Buffer
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "# Soak Report")
	assert.Contains(t, out.String(), "ScriptSystem")
}

func TestSoakStopsWhenScriptQuits(t *testing.T) {
	data := &pack.RuntimeData{
		Scenes: []pack.SceneConfig{{
			Name: "Default",
			Entities: []pack.EntityConfig{{
				Label:     "quitter",
				ModelPath: "builtin:cube",
				Transform: pack.DefaultTransform(),
				Script:    &pack.ScriptRef{Name: "quit.lua"},
			}},
		}},
		Scripts: map[string]string{
			"quit.lua": "local m = {}\nfunction m:on_update(entity, dt) scene.quit() end\nreturn m\n",
		},
	}

	report, err := Soak(context.Background(), data, fstest.MapFS{}, Options{
		Frames:    100,
		DeltaTime: 0.016,
		Width:     320,
		Height:    240,
	}, log.New(&bytes.Buffer{}, "", 0))
	require.NoError(t, err)

	assert.True(t, report.Quit)
	assert.EqualValues(t, 1, report.TotalFrames)
	assert.Empty(t, report.FinalScene)
}

func TestSoakDuration(t *testing.T) {
	data, dir := demo(t)

	report, err := Soak(context.Background(), data, os.DirFS(dir), Options{
		Duration:  20 * time.Millisecond,
		DeltaTime: 0.016,
		Width:     320,
		Height:    240,
	}, log.New(&bytes.Buffer{}, "", 0))
	require.NoError(t, err)
	assert.Positive(t, report.TotalFrames)
}
