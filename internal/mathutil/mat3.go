package mathutil

// Mat3 is a row-major 3×3 matrix, the linear part of model and normal
// transforms.
type Mat3 [9]float64

// Mat3Diag is a scale matrix.
func Mat3Diag(x, y, z float64) Mat3 {
	return Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
}

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		row := a.Row(r)
		for c := 0; c < 3; c++ {
			m[r*3+c] = row.Dot(Vec3{b[c], b[3+c], b[6+c]})
		}
	}
	return m
}

// Row returns row r.
func (m Mat3) Row(r int) Vec3 {
	return Vec3{m[r*3], m[r*3+1], m[r*3+2]}
}

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}

func fromRows(a, b, c Vec3) Mat3 {
	return Mat3{a[0], a[1], a[2], b[0], b[1], b[2], c[0], c[1], c[2]}
}
