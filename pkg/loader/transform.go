package loader

import (
	"github.com/qmuntal/gltf"
	"gonum.org/v1/gonum/num/quat"

	"github.com/philipparndt/goview/pkg/geometry"
)

// transform is a 4x4 matrix in glTF's column-major order
type transform [16]float64

func identity() transform {
	return transform{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func (a transform) mul(b transform) transform {
	var out transform
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

func (a transform) apply(p geometry.Vector3) geometry.Vector3 {
	return geometry.Vector3{
		X: a[0]*p.X + a[4]*p.Y + a[8]*p.Z + a[12],
		Y: a[1]*p.X + a[5]*p.Y + a[9]*p.Z + a[13],
		Z: a[2]*p.X + a[6]*p.Y + a[10]*p.Z + a[14],
	}
}

// nodeTransform prefers an explicit matrix and otherwise composes
// translation * rotation * scale. Zero rotation and scale fields are treated
// as their identity defaults.
func nodeTransform(n *gltf.Node) transform {
	var zero [16]float32
	if n.Matrix != zero && n.Matrix != gltf.DefaultMatrix {
		var t transform
		for i, v := range n.Matrix {
			t[i] = float64(v)
		}
		return t
	}

	r := quat.Number{Real: 1}
	if n.Rotation != ([4]float32{}) {
		r = quat.Number{
			Imag: float64(n.Rotation[0]),
			Jmag: float64(n.Rotation[1]),
			Kmag: float64(n.Rotation[2]),
			Real: float64(n.Rotation[3]),
		}
	}
	s := [3]float64{1, 1, 1}
	if n.Scale != ([3]float32{}) {
		s = [3]float64{float64(n.Scale[0]), float64(n.Scale[1]), float64(n.Scale[2])}
	}

	x := rotate(r, geometry.NewVector3(s[0], 0, 0))
	y := rotate(r, geometry.NewVector3(0, s[1], 0))
	z := rotate(r, geometry.NewVector3(0, 0, s[2]))

	return transform{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		float64(n.Translation[0]), float64(n.Translation[1]), float64(n.Translation[2]), 1,
	}
}

// rotate applies the unit quaternion q to v as q * v * conj(q)
func rotate(q quat.Number, v geometry.Vector3) geometry.Vector3 {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return geometry.NewVector3(r.Imag, r.Jmag, r.Kmag)
}
