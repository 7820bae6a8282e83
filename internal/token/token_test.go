package token

import (
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	urls := []string{
		"https://example.com/v.mp4",
		"http://cdn.example.org/path/to/movie.webm?sig=abc&exp=123",
		"https://storage.googleapis.com/v.mp4",
		"https://example.com/ünïcode/видео.mp4",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			got, err := Decode(Encode(u))
			if err != nil {
				t.Fatalf("Decode(Encode(%q)) error = %v", u, err)
			}
			if got != u {
				t.Errorf("round trip = %q, want %q", got, u)
			}
		})
	}
}

func TestEncode_KnownValue(t *testing.T) {
	got := Encode("https://example.com/v.mp4")
	want := "aHR0cHM6Ly9leGFtcGxlLmNvbS92Lm1wNA=="
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		tok  string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"truncated padding", "aHR0cHM"},
		{"embedded space", "aHR0 cHM6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.tok)
			if err == nil {
				t.Errorf("Decode(%q) expected error, got nil", tt.tok)
			}
			if err != nil && !strings.Contains(err.Error(), "decode token") {
				t.Errorf("error %q should be wrapped with decode token context", err)
			}
		})
	}
}

func TestDecode_EmptyToken(t *testing.T) {
	got, err := Decode("")
	if err != nil {
		t.Fatalf("Decode(\"\") error = %v", err)
	}
	if got != "" {
		t.Errorf("Decode(\"\") = %q, want empty", got)
	}
}
