package mathutil

// Mat4 is a 4×4 matrix stored row-major. Used for the model-view-projection
// and viewport transforms.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix, ignoring the bottom row.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// Project transforms a point (w=1) and divides by the resulting w.
func (m Mat4) Project(v Vec3) Vec3 {
	p := m.MulPoint(v)
	w := m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]
	if w == 0 || w == 1 {
		return p
	}
	return Vec3{p[0] / w, p[1] / w, p[2] / w}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 linear part and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Linear returns the upper-left 3×3 block.
func (m Mat4) Linear() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// LookAt builds a view matrix placing the camera at eye looking toward center.
func LookAt(eye, center, up Vec3) Mat4 {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()
	rot := Mat3{
		x[0], x[1], x[2],
		y[0], y[1], y[2],
		z[0], z[1], z[2],
	}
	return FromMat3Translation(rot, rot.MulVec3(center).Scale(-1))
}

// Projection is the one-parameter perspective used by the pipeline:
// w' = 1 + coeff*z, with coeff = -1/|eye-center|. coeff 0 is orthographic.
func Projection(coeff float64) Mat4 {
	m := Mat4Identity()
	m[14] = coeff
	return m
}

// Viewport maps the [-1,1] cube onto the x,y,w,h screen rectangle and
// z onto [0, depth].
func Viewport(x, y, w, h, depth float64) Mat4 {
	return Mat4{
		w / 2, 0, 0, x + w/2,
		0, h / 2, 0, y + h/2,
		0, 0, depth / 2, depth / 2,
		0, 0, 0, 1,
	}
}
