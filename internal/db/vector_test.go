package db

import (
	"math"
	"testing"
)

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0.1, -2.5, 0, 1e-7, math.MaxFloat32}

	out := BytesToVector(VectorToBytes(in))
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestVectorToBytesLength(t *testing.T) {
	if got := len(VectorToBytes(make([]float32, 768))); got != 768*4 {
		t.Errorf("len = %d, want %d", got, 768*4)
	}
	if got := VectorToBytes(nil); got != "" {
		t.Errorf("nil vector = %q, want empty", got)
	}
}

func TestBytesToVectorInvalidLength(t *testing.T) {
	if v := BytesToVector("abc"); v != nil {
		t.Errorf("got %v, want nil for truncated input", v)
	}
}
