package parser

import (
	"reflect"
	"testing"
)

func TestSplitRooms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{"A 4022-4024", []string{"A 4022", "A 4024"}},
		{"4022-4024", []string{"4022", "4024"}},
		{"C 2936", []string{"C 2936"}},
		{"  C 2936  ", []string{"C 2936"}},
		{"Studio", []string{"Studio"}},
	}
	for _, tc := range cases {
		if got := SplitRooms(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitRooms(%q) want=%v got=%v", tc.in, tc.want, got)
		}
	}
}

func TestSplitRooms_OnlyEndpoints(t *testing.T) {
	t.Parallel()

	got := SplitRooms("A 4022-4024")
	if len(got) != 2 {
		t.Fatalf("combined room must split into exactly two codes, got %v", got)
	}
	for _, code := range got {
		if code == "A 4023" {
			t.Fatalf("intermediate room must not be produced: %v", got)
		}
	}
}
