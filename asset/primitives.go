package asset

import (
	"fmt"

	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/render"
)

// Builtin returns one of the named primitives: cube, plane or light.
func Builtin(name string) (render.Mesh, error) {
	var mesh render.Mesh
	switch name {
	case "cube":
		mesh = cube()
	case "plane":
		mesh = plane()
	case "light":
		mesh = octahedron(0.2)
	default:
		return render.Mesh{}, fmt.Errorf("%w: builtin %q", ErrUnknownModel, name)
	}
	mesh.BuildEdges()
	return mesh, nil
}

func cube() render.Mesh {
	return render.Mesh{
		Vertices: []mathx.Vec3{
			{X: -0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: -0.5},
			{X: 0.5, Y: 0.5, Z: -0.5}, {X: -0.5, Y: 0.5, Z: -0.5},
			{X: -0.5, Y: -0.5, Z: 0.5}, {X: 0.5, Y: -0.5, Z: 0.5},
			{X: 0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: 0.5},
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2, // back
			4, 5, 6, 4, 6, 7, // front
			0, 4, 7, 0, 7, 3, // left
			1, 2, 6, 1, 6, 5, // right
			3, 7, 6, 3, 6, 2, // top
			0, 1, 5, 0, 5, 4, // bottom
		},
	}
}

func plane() render.Mesh {
	return render.Mesh{
		Vertices: []mathx.Vec3{
			{X: -0.5, Z: -0.5}, {X: 0.5, Z: -0.5},
			{X: 0.5, Z: 0.5}, {X: -0.5, Z: 0.5},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}

func octahedron(r float32) render.Mesh {
	return render.Mesh{
		Vertices: []mathx.Vec3{
			{X: r}, {X: -r}, {Y: r}, {Y: -r}, {Z: r}, {Z: -r},
		},
		Indices: []uint32{
			0, 2, 4, 4, 2, 1, 1, 2, 5, 5, 2, 0,
			4, 3, 0, 1, 3, 4, 5, 3, 1, 0, 3, 5,
		},
	}
}
