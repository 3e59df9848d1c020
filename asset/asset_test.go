package asset_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/plus3/redback/asset"
	"github.com/plus3/redback/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`

func TestParseOBJ(t *testing.T) {
	meshes, err := asset.ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	mesh := meshes[0]
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	assert.Len(t, mesh.Edges, 5)
}

func TestParseOBJNegativeIndicesAndGroups(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\ng a\nf -3 -2 -1\ng b\nv 0 0 1\nf 1 2 4\n"
	meshes, err := asset.ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, meshes, 2)
	assert.Equal(t, []uint32{0, 1, 2}, meshes[0].Indices)
	assert.Len(t, meshes[1].Vertices, 3)
}

func TestParseOBJErrors(t *testing.T) {
	tests := map[string]string{
		"no faces":     "v 0 0 0\n",
		"bad index":    "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n",
		"bad vertex":   "v 0 zero 0\n",
		"short face":   "v 0 0 0\nf 1 1\n",
		"not a number": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf a b c\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := asset.ParseOBJ(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoader(t *testing.T) {
	fsys := fstest.MapFS{"models/quad.obj": {Data: []byte(quadOBJ)}}
	loader := asset.NewLoader(fsys)
	r := render.NewRecorder(800, 600)

	model, err := loader.ConstructEntity(r, "models/quad.obj", "floor")
	require.NoError(t, err)
	assert.Equal(t, "floor", model.Label)
	assert.Len(t, model.Meshes, 1)

	again, err := loader.ConstructEntity(r, "models/quad.obj", "wall")
	require.NoError(t, err)
	assert.Equal(t, "wall", again.Label)
	assert.NotSame(t, model, again)

	cube, err := loader.ConstructEntity(r, "builtin:cube", "box")
	require.NoError(t, err)
	assert.Len(t, cube.Meshes[0].Vertices, 8)
	assert.Len(t, cube.Meshes[0].Edges, 18)

	_, err = loader.ConstructEntity(r, "models/missing.obj", "ghost")
	assert.Error(t, err)

	_, err = loader.ConstructEntity(r, "builtin:teapot", "tea")
	assert.ErrorIs(t, err, asset.ErrUnknownModel)
}

func TestStatic(t *testing.T) {
	boom := errors.New("boom")
	static := &asset.Static{
		Models: map[string]*render.Model{"hero.obj": {Path: "hero.obj"}},
		Fail:   map[string]error{"broken.obj": boom},
	}

	model, err := static.ConstructEntity(nil, "hero.obj", "Hero")
	require.NoError(t, err)
	assert.Equal(t, "Hero", model.Label)

	_, err = static.ConstructEntity(nil, "broken.obj", "x")
	assert.ErrorIs(t, err, boom)

	_, err = static.ConstructEntity(nil, asset.LightModelPath, "sun")
	assert.NoError(t, err)

	assert.Equal(t, []string{"hero.obj", "broken.obj", asset.LightModelPath}, static.Calls)
}
