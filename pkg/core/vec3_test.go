package core

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(1, 5, 7)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(2, 7, 10)},
		{"subtract", a.Subtract(b), NewVec3(0, -3, -4)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"divide", a.Divide(2), NewVec3(0.5, 1, 1.5)},
		{"hadamard", a.MultiplyVec(b), NewVec3(1, 10, 21)},
		{"cross", a.Cross(b), NewVec3(-1, -4, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecNear(tt.result, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}

	if a.Dot(b) != 32 {
		t.Errorf("Expected dot 32, got %f", a.Dot(b))
	}
	if a.LengthSquared() != 14 {
		t.Errorf("Expected length squared 14, got %f", a.LengthSquared())
	}
	if math.Abs(NewVec3(3, 4, 0).Length()-5) > 1e-12 {
		t.Errorf("Expected length 5, got %f", NewVec3(3, 4, 0).Length())
	}
}

func TestVec3_ArithmeticDoesNotMutate(t *testing.T) {
	a := NewVec3(1, 2, 3)
	_ = a.Add(NewVec3(1, 1, 1))
	_ = a.Multiply(10)
	_ = a.Normalize()
	if a != NewVec3(1, 2, 3) {
		t.Errorf("Value operations mutated receiver: %v", a)
	}
}

func TestVec3_InPlace(t *testing.T) {
	acc := Vec3{}
	acc.AddInPlace(NewVec3(1, 2, 3))
	acc.AddInPlace(NewVec3(1, 2, 3))
	if acc != NewVec3(2, 4, 6) {
		t.Fatalf("AddInPlace: got %v", acc)
	}
	acc.SubtractInPlace(NewVec3(1, 1, 1))
	if acc != NewVec3(1, 3, 5) {
		t.Fatalf("SubtractInPlace: got %v", acc)
	}
	acc.MultiplyInPlace(0.5)
	if acc != NewVec3(0.5, 1.5, 2.5) {
		t.Fatalf("MultiplyInPlace: got %v", acc)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(0, 3, -4).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if !vecNear(v, NewVec3(0, 0.6, -0.8), 1e-12) {
		t.Errorf("Expected (0, 0.6, -0.8), got %v", v)
	}
}

func TestVec3_ClampAndGamma(t *testing.T) {
	c := NewVec3(-0.5, 0.25, 2).Clamp(0, 0.999)
	if c != NewVec3(0, 0.25, 0.999) {
		t.Errorf("Clamp: got %v", c)
	}

	g := NewVec3(0.25, 1, 0).GammaCorrect(2.0)
	if !vecNear(g, NewVec3(0.5, 1, 0), 1e-12) {
		t.Errorf("GammaCorrect(2): got %v", g)
	}
}

func TestReflect_Involution(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 1, 0).Normalize(),
		NewVec3(-0.3, 0.2, 0.9).Normalize(),
	}
	vectors := []Vec3{
		NewVec3(1, -1, 0),
		NewVec3(0.2, 0.7, -3),
		NewVec3(-5, 0, 1e-3),
	}

	for _, n := range normals {
		for _, v := range vectors {
			reflected := Reflect(v, n)
			back := Reflect(reflected.Negate(), n).Negate()
			if !vecNear(back, v, 1e-12) {
				t.Errorf("Reflect involution failed for v=%v n=%v: got %v", v, n, back)
			}
			if math.Abs(reflected.Length()-v.Length()) > 1e-12 {
				t.Errorf("Reflect changed length for v=%v n=%v", v, n)
			}
		}
	}
}

func TestReflect_Mirror(t *testing.T) {
	r := Reflect(NewVec3(1, -1, 0), NewVec3(0, 1, 0))
	if !vecNear(r, NewVec3(1, 1, 0), 1e-12) {
		t.Errorf("Expected (1, 1, 0), got %v", r)
	}
}

func TestRefract(t *testing.T) {
	n := NewVec3(0, 1, 0)

	// Ratio 1 leaves the direction unchanged
	uv := NewVec3(1, -1, 0).Normalize()
	if r := Refract(uv, n, 1.0); !vecNear(r, uv, 1e-12) {
		t.Errorf("Expected unchanged direction %v, got %v", uv, r)
	}

	// Normal incidence passes straight through for any ratio
	straight := NewVec3(0, -1, 0)
	if r := Refract(straight, n, 1/1.5); !vecNear(r, straight, 1e-12) {
		t.Errorf("Expected straight through, got %v", r)
	}

	// Snell's law: eta_i sin(theta_i) = eta_t sin(theta_t)
	ratio := 1 / 1.5
	r := Refract(uv, n, ratio)
	sinI := math.Sqrt(1 - math.Pow(uv.Negate().Dot(n), 2))
	sinT := math.Sqrt(1 - math.Pow(r.Negate().Dot(n), 2))
	if math.Abs(ratio*sinI-sinT) > 1e-12 {
		t.Errorf("Snell's law violated: %f * %f != %f", ratio, sinI, sinT)
	}
	if math.Abs(r.Length()-1) > 1e-12 {
		t.Errorf("Refracted vector should be unit length, got %f", r.Length())
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))
	if p := ray.At(0.5); p != NewVec3(1, 2, 2) {
		t.Errorf("Expected (1, 2, 2), got %v", p)
	}
	if p := ray.At(0); p != ray.Origin {
		t.Errorf("Expected origin at t=0, got %v", p)
	}
}

func TestHitRecord_SetFaceNormal(t *testing.T) {
	n := NewVec3(0, 0, 1)

	tests := []struct {
		name           string
		direction      Vec3
		expectedFront  bool
		expectedNormal Vec3
	}{
		{"against normal", NewVec3(0, 0, -1), true, n},
		{"oblique against normal", NewVec3(1, 1, -0.1), true, n},
		{"along normal", NewVec3(0, 0, 1), false, n.Negate()},
		{"perpendicular", NewVec3(1, 0, 0), false, n.Negate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec HitRecord
			rec.SetFaceNormal(NewRay(Vec3{}, tt.direction), n)
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, rec.FrontFace)
			}
			if rec.Normal != tt.expectedNormal {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, rec.Normal)
			}
		})
	}
}
