package asset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/render"
)

// ParseOBJ reads vertex positions and faces from a Wavefront OBJ stream.
// Each "o" or "g" statement starts a new mesh; polygons are fan
// triangulated. Texture coordinates, normals and materials are ignored.
func ParseOBJ(r io.Reader) ([]render.Mesh, error) {
	var (
		positions []mathx.Vec3
		meshes    []render.Mesh
		current   *render.Mesh
		remap     map[int]uint32
	)

	startMesh := func() {
		meshes = append(meshes, render.Mesh{})
		current = &meshes[len(meshes)-1]
		remap = make(map[int]uint32)
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates", line)
			}
			var xyz [3]float32
			for i := range xyz {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				xyz[i] = float32(f)
			}
			positions = append(positions, mathx.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]})

		case "o", "g":
			if current == nil || len(current.Indices) > 0 {
				startMesh()
			}

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 vertices", line)
			}
			if current == nil {
				startMesh()
			}

			corners := make([]uint32, 0, len(fields)-1)
			for _, field := range fields[1:] {
				ref, _, _ := strings.Cut(field, "/")
				idx, err := strconv.Atoi(ref)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				if idx < 0 {
					idx = len(positions) + idx
				} else {
					idx--
				}
				if idx < 0 || idx >= len(positions) {
					return nil, fmt.Errorf("obj line %d: vertex index %s out of range", line, ref)
				}

				local, ok := remap[idx]
				if !ok {
					local = uint32(len(current.Vertices))
					current.Vertices = append(current.Vertices, positions[idx])
					remap[idx] = local
				}
				corners = append(corners, local)
			}

			for i := 1; i+1 < len(corners); i++ {
				current.Indices = append(current.Indices, corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	out := meshes[:0]
	for _, mesh := range meshes {
		if len(mesh.Indices) == 0 {
			continue
		}
		mesh.BuildEdges()
		out = append(out, mesh)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("obj: no faces")
	}
	return out, nil
}
