package coord

import "testing"

func TestInt128AddSub(t *testing.T) {
	a := Int128FromInt64(1000)
	b := Int128FromInt64(-1000)
	if got := a.Add(b); !got.IsZero() {
		t.Fatalf("a+b = %v, want zero", got)
	}
	if got := a.Sub(a); !got.IsZero() {
		t.Fatalf("a-a = %v, want zero", got)
	}
}

func TestInt128CmpOrdering(t *testing.T) {
	small := Int128FromInt64(5)
	big := Int128FromInt64(500000)
	if small.Cmp(big) >= 0 {
		t.Fatalf("expected small < big")
	}
	if big.Cmp(small) <= 0 {
		t.Fatalf("expected big > small")
	}
	if small.Cmp(small) != 0 {
		t.Fatalf("expected equal")
	}
}

func TestInt128NegativeOverflowBorrow(t *testing.T) {
	zero := Int128{}
	one := Int128FromInt64(1)
	got := zero.Sub(one)
	want := Int128{Hi: -1, Lo: ^uint64(0)}
	if got != want {
		t.Fatalf("0-1 = %v, want %v", got, want)
	}
}

func TestInt128FloatRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1000000, -1000000, 9007199254740992}
	for _, c := range cases {
		v := Int128FromInt64(c)
		f := v.Float64()
		back := Int128FromFloat64Round(f)
		if back.Cmp(v) != 0 {
			t.Errorf("round-trip %d: got %v want %v", c, back, v)
		}
	}
}
