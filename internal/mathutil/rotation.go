package mathutil

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Euler returns Rz(rz) × Ry(ry) × Rx(rx); angles in degrees.
func Euler(rx, ry, rz float64) Mat3 {
	return Mat3Mul(Mat3Mul(RotZ(Deg2Rad(rz)), RotY(Deg2Rad(ry))), RotX(Deg2Rad(rx)))
}

// NormalMatrix returns the inverse transpose of the linear part of m, the
// matrix that keeps transformed normals perpendicular to their surfaces.
// Its rows are the cofactor rows divided by the determinant. A singular
// linear part is returned unchanged.
func NormalMatrix(m Mat4) Mat3 {
	l := m.Linear()
	r0, r1, r2 := l.Row(0), l.Row(1), l.Row(2)
	c0, c1, c2 := r1.Cross(r2), r2.Cross(r0), r0.Cross(r1)
	det := r0.Dot(c0)
	if det == 0 {
		return l
	}
	inv := 1 / det
	return fromRows(c0.Scale(inv), c1.Scale(inv), c2.Scale(inv))
}
