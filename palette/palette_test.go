package palette

import (
	"errors"
	"testing"
)

func TestNewRejectsSimilarColors(t *testing.T) {
	cases := []struct {
		name    string
		entries []Info
		wantErr error
	}{
		{
			name: "distinct colors ok",
			entries: []Info{
				DefaultBackground(),
				{Ch: 'r', Name: "red", RGB: [3]uint8{200, 0, 0}, Color: 1},
				{Ch: 'b', Name: "blue", RGB: [3]uint8{0, 0, 200}, Color: 2},
			},
		},
		{
			name: "near-identical RGB rejected",
			entries: []Info{
				DefaultBackground(),
				{Ch: 'r', Name: "red", RGB: [3]uint8{200, 0, 0}, Color: 1},
				{Ch: 'x', Name: "almost-red", RGB: [3]uint8{205, 2, 1}, Color: 2},
			},
			wantErr: ErrSimilarColors,
		},
		{
			name: "corner variants may share RGB",
			entries: []Info{
				DefaultBackground(),
				{Ch: 'r', Name: "red-ul", RGB: [3]uint8{200, 0, 0}, Color: 1, Corner: &Corner{Upper: true, Left: true}},
				{Ch: 'R', Name: "red-lr", RGB: [3]uint8{200, 0, 0}, Color: 2, Corner: &Corner{Upper: false, Left: false}},
			},
		},
		{
			name: "duplicate color id rejected",
			entries: []Info{
				DefaultBackground(),
				{Ch: 'r', Name: "red", RGB: [3]uint8{200, 0, 0}, Color: 1},
				{Ch: 'q', Name: "also-red", RGB: [3]uint8{1, 1, 1}, Color: 1},
			},
			wantErr: ErrDuplicateColor,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.entries)
			if tc.wantErr == nil && err != nil {
				t.Errorf("New(%s): unexpected error %v", tc.name, err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("New(%s): got %v, want wrapping %v", tc.name, err, tc.wantErr)
			}
		})
	}
}

func TestNewRejectsTooManyColors(t *testing.T) {
	entries := make([]Info, MaxColors+2)
	for i := range entries {
		entries[i] = Info{Ch: rune('a' + i), Name: "c", RGB: [3]uint8{uint8(i), 0, 0}, Color: Color(i)}
	}

	if _, err := New(entries); !errors.Is(err, ErrTooManyColors) {
		t.Errorf("New: got %v, want wrapping ErrTooManyColors", err)
	}
}

func TestGetAndColors(t *testing.T) {
	p, err := New([]Info{
		DefaultBackground(),
		{Ch: 'r', Name: "red", RGB: [3]uint8{200, 0, 0}, Color: 1},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if info, ok := p.Get(1); !ok || info.Name != "red" {
		t.Errorf("Get(1) = %+v, %v; want red, true", info, ok)
	}
	if _, ok := p.Get(99); ok {
		t.Errorf("Get(99) = _, true; want false")
	}
	if got := p.Colors(); len(got) != 2 {
		t.Errorf("Colors() = %v, want 2 entries", got)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}
