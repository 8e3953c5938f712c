package dyncore

import "testing"

func TestRelaxationNoOpWhenTauZero(t *testing.T) {
	r := &Relaxation{}
	target := NewSpectral(4)
	current := NewSpectral(4)
	current.Set(1, 0, complex(3, 0))
	r.Apply(target, current, 0)
	if v := target.At(1, 0); v != 0 {
		t.Fatalf("Apply with Tau<=0 modified target: %v", v)
	}
}

func TestRelaxationNudgesTowardTarget(t *testing.T) {
	r := &Relaxation{Tau: 1000}
	target := NewSpectral(4)
	current := NewSpectral(4)
	current.Set(1, 0, complex(10, 0))
	current.Set(2, 0, complex(10, 0))
	r.Apply(target, current, 0)
	v1 := target.At(1, 0)
	v2 := target.At(2, 0)
	if real(v1) == 0 && imag(v1) == 0 {
		t.Fatal("Apply left (1,0) untouched")
	}
	if real(v2) == 0 && imag(v2) == 0 {
		t.Fatal("Apply left (2,0) untouched")
	}
}

func TestRelaxationOnlyTouchesTwoModes(t *testing.T) {
	r := &Relaxation{Tau: 1000}
	target := NewSpectral(4)
	current := NewSpectral(4)
	r.Apply(target, current, 0)
	for m := 0; m <= target.M; m++ {
		for l := m; l <= target.L; l++ {
			if (l == 1 || l == 2) && m == 0 {
				continue
			}
			if v := target.At(l, m); v != 0 {
				t.Fatalf("Apply wrote to (%d,%d) = %v, want untouched", l, m, v)
			}
		}
	}
}
