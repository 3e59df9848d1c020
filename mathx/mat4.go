package mathx

import "github.com/chewxy/math32"

// Mat4 is a column-major 4x4 matrix.
type Mat4 [16]float32

func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func (m Mat4) at(row, col int) float32 {
	return m[col*4+row]
}

// Mul returns m * other.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m.at(row, k) * other.at(k, col)
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// TransformPoint multiplies (v, 1) by m and returns the homogeneous result.
func (m Mat4) TransformPoint(v Vec3) (x, y, z, w float32) {
	x = m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]
	y = m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]
	z = m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]
	w = m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	return
}

// LookAt builds a right-handed view matrix.
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective builds a right-handed projection with a [0, 1] depth range.
// fovy is in radians.
func Perspective(fovy, aspect, znear, zfar float32) Mat4 {
	f := 1 / math32.Tan(fovy/2)
	rangeInv := 1 / (znear - zfar)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, zfar * rangeInv, -1,
		0, 0, znear * zfar * rangeInv, 0,
	}
}

// Compose builds translation * rotation * scale.
func Compose(translation Vec3, rotation Quat, scale Vec3) Mat4 {
	q := rotation.Normalize()
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	return Mat4{
		(1 - 2*(yy+zz)) * scale.X, 2 * (xy + wz) * scale.X, 2 * (xz - wy) * scale.X, 0,
		2 * (xy - wz) * scale.Y, (1 - 2*(xx+zz)) * scale.Y, 2 * (yz + wx) * scale.Y, 0,
		2 * (xz + wy) * scale.Z, 2 * (yz - wx) * scale.Z, (1 - 2*(xx+yy)) * scale.Z, 0,
		translation.X, translation.Y, translation.Z, 1,
	}
}
