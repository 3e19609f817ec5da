package cell

import (
	"errors"
	"testing"

	"github.com/bdwalton/nonogrid/palette"
)

func TestLearnNarrowsAndReportsNewInfo(t *testing.T) {
	cases := []struct {
		name      string
		start     Cell
		color     palette.Color
		wantNew   bool
		wantErr   error
		wantKnown palette.Color
	}{
		{name: "unknown to known", start: FromColors(1, 2, 3), color: 2, wantNew: true, wantKnown: 2},
		{name: "already known to same color", start: FromColor(2), color: 2, wantNew: false, wantKnown: 2},
		{name: "ruled out color is a contradiction", start: FromColors(1, 2), color: 5, wantErr: ErrContradiction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.start
			gotNew, err := c.Learn(tc.color)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Learn(%d) = _, %v; want %v", tc.color, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Learn(%d): unexpected error %v", tc.color, err)
			}
			if gotNew != tc.wantNew {
				t.Errorf("Learn(%d) new = %v, want %v", tc.color, gotNew, tc.wantNew)
			}
			if got, ok := c.KnownOr(); !ok || got != tc.wantKnown {
				t.Errorf("KnownOr() = %v, %v; want %v, true", got, ok, tc.wantKnown)
			}
		})
	}
}

func TestLearnIntersect(t *testing.T) {
	a := FromColors(1, 2, 3)
	changed, err := a.LearnIntersect(FromColors(2, 3, 4))
	if err != nil {
		t.Fatalf("LearnIntersect: %v", err)
	}
	if !changed {
		t.Errorf("LearnIntersect: want changed=true")
	}
	if a.CanBe(1) || !a.CanBe(2) || !a.CanBe(3) || a.CanBe(4) {
		t.Errorf("LearnIntersect result = %v, want {2,3} only", a.CanBeIter())
	}

	b := FromColors(1, 2)
	if _, err := b.LearnIntersect(FromColors(3, 4)); !errors.Is(err, ErrContradiction) {
		t.Errorf("LearnIntersect disjoint sets: got %v, want ErrContradiction", err)
	}
}

func TestLearnThatNot(t *testing.T) {
	c := FromColors(1, 2)
	gotNew, err := c.LearnThatNot(1)
	if err != nil || !gotNew {
		t.Fatalf("LearnThatNot(1) = %v, %v; want true, nil", gotNew, err)
	}
	if !c.IsKnownToBe(2) {
		t.Errorf("after ruling out 1, cell should be known to be 2, got mask %08b", c.Raw())
	}

	if _, err := c.LearnThatNot(2); !errors.Is(err, ErrContradiction) {
		t.Errorf("ruling out the last possibility: got %v, want ErrContradiction", err)
	}
}

func TestRawRoundTrip(t *testing.T) {
	c := FromColors(0, 4, 9)
	if got := FromRaw(c.Raw()); got != c {
		t.Errorf("FromRaw(Raw()) = %+v, want %+v", got, c)
	}
}

func TestNewFromPalette(t *testing.T) {
	p, err := palette.New([]palette.Info{
		palette.DefaultBackground(),
		{Ch: 'r', Name: "red", RGB: [3]uint8{200, 0, 0}, Color: 1},
	})
	if err != nil {
		t.Fatalf("palette.New: %v", err)
	}

	c := New(p)
	if !c.CanBe(palette.Background) || !c.CanBe(1) || c.CanBe(2) {
		t.Errorf("New(p) possibilities = %v, want {Background, 1}", c.CanBeIter())
	}
}

func TestUnwrapColorPanicsWhenUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("UnwrapColor on an unknown cell should panic")
		}
	}()
	FromColors(1, 2).UnwrapColor()
}
