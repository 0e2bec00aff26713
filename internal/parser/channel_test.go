package parser

import "testing"

func TestNormalizeChannel_SocialBucket(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Direct", "google", "Facebook", "Instagram ads", "Social", "პირდაპირი"} {
		if got := NormalizeChannel(in); got != SocialMediaChannel {
			t.Fatalf("NormalizeChannel(%q) want=%q got=%q", in, SocialMediaChannel, got)
		}
	}
}

func TestNormalizeChannel_OTA(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Booking.com Mobile": "Booking.com",
		"booking":            "Booking.com",
		"AGODA":              "Agoda",
		"Expedia Group":      "Expedia",
		"airbnb.com":         "Airbnb",
		"Ostrovok.ru":        "Ostrovok",
	}
	for in, want := range cases {
		if got := NormalizeChannel(in); got != want {
			t.Fatalf("NormalizeChannel(%q) want=%q got=%q", in, want, got)
		}
	}
}

func TestNormalizeChannel_PassThrough(t *testing.T) {
	t.Parallel()

	if got := NormalizeChannel("  XYZPlatform "); got != "XYZPlatform" {
		t.Fatalf("unmatched channel should pass through trimmed, got %q", got)
	}
	if got := NormalizeChannel("   "); got != UnknownChannel {
		t.Fatalf("blank channel want=%q got=%q", UnknownChannel, got)
	}
}

func TestExtractChannel_FirstNonEmptyColumn(t *testing.T) {
	t.Parallel()

	headers := []string{"Room", "Source", "Channel Name", "Revenue"}
	mapping := NewFieldMapper().MapBookingColumns(headers)

	if got := ExtractChannel(mapping, []string{"C 2609", "", "Agoda", "100"}); got != "Agoda" {
		t.Fatalf("expected fallback to second channel column, got %q", got)
	}
	if got := ExtractChannel(mapping, []string{"C 2609", "Airbnb", "Agoda", "100"}); got != "Airbnb" {
		t.Fatalf("expected first channel column, got %q", got)
	}
	if got := ExtractChannel(mapping, []string{"C 2609"}); got != UnknownChannel {
		t.Fatalf("expected Unknown, got %q", got)
	}
}
