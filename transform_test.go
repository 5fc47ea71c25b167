package imreg

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestIsUnity(t *testing.T) {
	tests := []struct {
		name string
		tr   *Transform
		want bool
	}{
		{"zero translation", FromTranslation(0, 0), true},
		{"identity parameters", New([6]float64{1, 0, 0, 1, 0, 0}, [2]float64{10, 20}, [2]int{64, 64}), true},
		{"translation", FromTranslation(1, 0), false},
		{"perturbed linear block", New([6]float64{1 + 1e-15, 0, 0, 1, 0, 0}, [2]float64{}, [2]int{}), false},
		{"scale", New([6]float64{2, 0, 0, 2, 0, 0}, [2]float64{}, [2]int{}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.IsUnity(); got != tt.want {
				t.Errorf("IsUnity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrixLayout(t *testing.T) {
	tr := New([6]float64{1, 2, 3, 4, 5, 6}, [2]float64{}, [2]int{})
	want := Matrix{
		{1, 2, 5},
		{3, 4, 6},
		{0, 0, 1},
	}
	if got := tr.Matrix(); got != want {
		t.Errorf("Matrix() = %v, want %v", got, want)
	}

	tr.DParameters = [6]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	wantD := Matrix{
		{0.1, 0.2, 0.5},
		{0.3, 0.4, 0.6},
		{0, 0, 1},
	}
	if got := tr.DMatrix(); got != wantD {
		t.Errorf("DMatrix() = %v, want %v", got, wantD)
	}
}

func TestMulComposition(t *testing.T) {
	a := New([6]float64{2, 0, 0, 2, 3, 4}, [2]float64{7, 8}, [2]int{100, 200})
	b := New([6]float64{1, 0, 0, 1, 1, 1}, [2]float64{-1, -2}, [2]int{50, 60})

	got := a.Mul(b)

	// Linear block stays 2*I, translation is a.M*b.t + a.t.
	want := [6]float64{2, 0, 0, 2, 5, 6}
	if got.Parameters != want {
		t.Errorf("Mul parameters = %v, want %v", got.Parameters, want)
	}
	if got.Origin != a.Origin {
		t.Errorf("Mul origin = %v, want left operand's %v", got.Origin, a.Origin)
	}
	if got.Shape != a.Shape {
		t.Errorf("Mul shape = %v, want left operand's %v", got.Shape, a.Shape)
	}

	// Mul must not touch its operands.
	if a.Parameters != [6]float64{2, 0, 0, 2, 3, 4} || b.Parameters != [6]float64{1, 0, 0, 1, 1, 1} {
		t.Error("Mul mutated an operand")
	}
}

func TestMulMatchesMatrixProduct(t *testing.T) {
	a := New([6]float64{0.8, -0.6, 0.6, 0.8, 1.5, -2.5}, [2]float64{}, [2]int{})
	b := New([6]float64{1.2, 0.1, -0.3, 0.9, 10, 0}, [2]float64{}, [2]int{})

	got := a.Mul(b).Matrix()
	want := a.Matrix().Mul(b.Matrix())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if got[i][j] != want[i][j] {
				t.Fatalf("entry (%d,%d) = %g, want %g", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestMulUncertaintyPropagation(t *testing.T) {
	// d(AB) = dA*B + A*dB, applied entrywise.
	a := New([6]float64{2, 0, 0, 2, 0, 0}, [2]float64{}, [2]int{})
	a.DParameters = [6]float64{0.1, 0, 0, 0.1, 0, 0}
	b := New([6]float64{1, 0, 0, 1, 5, 7}, [2]float64{}, [2]int{})
	b.DParameters = [6]float64{0, 0, 0, 0, 0.2, 0.3}

	got := a.Mul(b)
	want := [6]float64{0.1, 0, 0, 0.1, 0.1*5 + 2*0.2, 0.1*7 + 2*0.3}
	for i := range want {
		if !almostEqual(got.DParameters[i], want[i], 1e-12) {
			t.Errorf("dparameters[%d] = %g, want %g", i, got.DParameters[i], want[i])
		}
	}
}

func TestMulWithUnityKeepsUncertainty(t *testing.T) {
	a := New([6]float64{1.5, 0.2, -0.1, 0.9, 3, -4}, [2]float64{}, [2]int{})
	a.DParameters = [6]float64{0.01, 0.02, 0.03, 0.04, 0.5, 0.6}
	unity := FromTranslation(0, 0)

	got := a.Mul(unity)
	if got.Parameters != a.Parameters {
		t.Errorf("parameters = %v, want %v", got.Parameters, a.Parameters)
	}
	if got.DParameters != a.DParameters {
		t.Errorf("dparameters = %v, want %v", got.DParameters, a.DParameters)
	}
}

func TestMulZeroUncertaintyStaysZero(t *testing.T) {
	// Composing transforms of unknown (all-zero) uncertainty must not
	// manufacture uncertainty, whatever the translations involved.
	tests := []struct {
		name string
		a, b *Transform
	}{
		{"translations", FromTranslation(10, 0), FromTranslation(5, 0)},
		{
			"general blocks",
			New([6]float64{1.2, 0.3, -0.2, 0.8, 7, -3}, [2]float64{1, 2}, [2]int{4, 4}),
			New([6]float64{0.9, 0, 0, 1.1, -6, 12}, [2]float64{}, [2]int{}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Mul(tt.b).DParameters; got != ([6]float64{}) {
				t.Errorf("dparameters = %v, want all zero", got)
			}
		})
	}
}

func TestInverse(t *testing.T) {
	tests := []struct {
		name   string
		params [6]float64
	}{
		{"axis scale with translation", [6]float64{1.2, 0, 0, 1, 10, 0}},
		{"rotation-like", [6]float64{0.8, -0.6, 0.6, 0.8, -3, 7}},
		{"shear", [6]float64{1, 0.5, 0, 1, 2, 2}},
		{"ill conditioned", [6]float64{1, 1, 1, 1.01, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.params, [2]float64{31.5, 31.5}, [2]int{64, 64})
			tr.DParameters = [6]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1}

			inv, err := tr.Inverse()
			if err != nil {
				t.Fatalf("Inverse() failed: %v", err)
			}

			// Composing with the inverse must give the identity map.
			m := tr.Mul(inv).Matrix()
			id := Identity()
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					if !almostEqual(m[i][j], id[i][j], 1e-9) {
						t.Errorf("(t*inv)[%d][%d] = %g, want %g", i, j, m[i][j], id[i][j])
					}
				}
			}

			// Inversion does not propagate uncertainty.
			if inv.DParameters != ([6]float64{}) {
				t.Errorf("inverse dparameters = %v, want all zero", inv.DParameters)
			}
			if inv.Origin != tr.Origin || inv.Shape != tr.Shape {
				t.Errorf("inverse origin/shape = %v/%v, want %v/%v", inv.Origin, inv.Shape, tr.Origin, tr.Shape)
			}
		})
	}
}

func TestInverseNonInvertible(t *testing.T) {
	tests := []struct {
		name   string
		params [6]float64
	}{
		{"rank one", [6]float64{1, 2, 2, 4, 0, 0}},
		{"zero block", [6]float64{0, 0, 0, 0, 5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params, [2]float64{}, [2]int{}).Inverse()
			if !errors.Is(err, ErrNonInvertible) {
				t.Errorf("Inverse() error = %v, want ErrNonInvertible", err)
			}
		})
	}
}

func TestInverseNearZeroDeterminant(t *testing.T) {
	// Only an exactly zero determinant is an error; tiny ones are the
	// caller's problem.
	tr := New([6]float64{1e-9, 0, 0, 1e-9, 0, 0}, [2]float64{}, [2]int{})
	if _, err := tr.Inverse(); err != nil {
		t.Errorf("Inverse with determinant 1e-18 failed: %v", err)
	}
}

func TestTransformPoint(t *testing.T) {
	tr := New([6]float64{2, 0, 0, 3, 1, -1}, [2]float64{}, [2]int{})
	got := tr.TransformPoint(Pt(4, 5))
	want := Pt(2*4+1, 3*5-1)
	if got != want {
		t.Errorf("TransformPoint = %v, want %v", got, want)
	}
}

func TestTransformCoordinates(t *testing.T) {
	tr := FromTranslation(10, -3)

	got, err := tr.TransformCoordinates([][]float64{{0, 0}, {1, 2}, {-5, 4}})
	if err != nil {
		t.Fatalf("TransformCoordinates failed: %v", err)
	}
	want := [][]float64{{10, -3}, {11, -1}, {5, 1}}
	for i := range want {
		if got[i][0] != want[i][0] || got[i][1] != want[i][1] {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTransformCoordinatesEmpty(t *testing.T) {
	got, err := FromTranslation(1, 2).TransformCoordinates(nil)
	if err != nil {
		t.Fatalf("TransformCoordinates(nil) failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d rows, want 0", len(got))
	}
}

func TestTransformCoordinatesBadShape(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
	}{
		{"three columns", [][]float64{{1, 2, 3}}},
		{"one column", [][]float64{{1}}},
		{"mixed", [][]float64{{1, 2}, {3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromTranslation(0, 0).TransformCoordinates(tt.rows)
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("error = %v, want ErrShapeMismatch", err)
			}
		})
	}
}

func TestAdapt(t *testing.T) {
	tests := []struct {
		name       string
		origin     [2]float64
		newShape   [2]int
		wantOrigin [2]float64
	}{
		{"crop", [2]float64{299.5, 399.5}, [2]int{400, 600}, [2]float64{399.5, 499.5}},
		{"grow", [2]float64{299.5, 399.5}, [2]int{700, 900}, [2]float64{249.5, 349.5}},
		{"same shape", [2]float64{299.5, 399.5}, [2]int{600, 800}, [2]float64{299.5, 399.5}},
		{"fresh origin", [2]float64{0, 0}, [2]int{600, 800}, [2]float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New([6]float64{1.1, 0, 0, 0.9, 2, 3}, [2]float64{299.5, 399.5}, [2]int{600, 800})
			params := tr.Parameters

			tr.Adapt(tt.origin, tt.newShape)

			if tr.Origin != tt.wantOrigin {
				t.Errorf("origin = %v, want %v", tr.Origin, tt.wantOrigin)
			}
			if tr.Shape != tt.newShape {
				t.Errorf("shape = %v, want %v", tr.Shape, tt.newShape)
			}
			if tr.Parameters != params {
				t.Errorf("Adapt changed parameters: %v", tr.Parameters)
			}
		})
	}
}

func TestTransformEquality(t *testing.T) {
	a := New([6]float64{1, 0, 0, 1, 2, 3}, [2]float64{4, 5}, [2]int{6, 7})
	b := New([6]float64{1, 0, 0, 1, 2, 3}, [2]float64{4, 5}, [2]int{6, 7})
	if *a != *b {
		t.Error("identical transforms compare unequal")
	}
	b.DParameters[3] = 0.5
	if *a == *b {
		t.Error("transforms with different uncertainty compare equal")
	}
}
