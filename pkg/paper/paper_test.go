package paper

import (
	"testing"

	"github.com/tastopo/tastopo/pkg/errors"
)

func TestNewSheet(t *testing.T) {
	tests := []struct {
		size     string
		portrait bool
		w, h     float64
	}{
		{"A4", false, 297, 210},
		{"A4", true, 210, 297},
		{"a3", false, 420, 297},
		{"A3", true, 297, 420},
		{"A0", false, 1189, 841},
		{"A5", true, 148, 210},
	}
	for _, tt := range tests {
		s, err := NewSheet(tt.size, tt.portrait)
		if err != nil {
			t.Errorf("NewSheet(%q, %v): %v", tt.size, tt.portrait, err)
			continue
		}
		w, h := s.Dimensions()
		if w != tt.w || h != tt.h {
			t.Errorf("NewSheet(%q, portrait=%v) dimensions = %v×%v, want %v×%v",
				tt.size, tt.portrait, w, h, tt.w, tt.h)
		}
	}
}

func TestOrientationSwap(t *testing.T) {
	for _, size := range []string{"A0", "A1", "A2", "A3", "A4", "A5"} {
		landscape, err := NewSheet(size, false)
		if err != nil {
			t.Fatalf("NewSheet(%q): %v", size, err)
		}
		portrait, err := NewSheet(size, true)
		if err != nil {
			t.Fatalf("NewSheet(%q): %v", size, err)
		}

		lw, lh := landscape.Dimensions()
		pw, ph := portrait.Dimensions()
		if lw != ph || lh != pw {
			t.Errorf("%s: landscape %v×%v and portrait %v×%v should be transposes",
				size, lw, lh, pw, ph)
		}
	}
}

func TestNewSheetUnrecognized(t *testing.T) {
	for _, size := range []string{"B4", "letter", "", "A"} {
		if _, err := NewSheet(size, false); !errors.Is(err, errors.ErrCodeConfig) {
			t.Errorf("NewSheet(%q) err = %v, want CONFIG_ERROR", size, err)
		}
	}
}

func TestNewSheetTooSmall(t *testing.T) {
	if _, err := NewSheet("A6", false); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("A6 should be rejected, got %v", err)
	}
}

func TestViewport(t *testing.T) {
	s, err := NewSheet("A4", false)
	if err != nil {
		t.Fatalf("NewSheet: %v", err)
	}

	// Without bleed: margins on three sides, footer below.
	x, y, w, h := s.Viewport(false)
	if x != Margin || y != Margin {
		t.Errorf("viewport origin = %v,%v, want %v,%v", x, y, Margin, Margin)
	}
	if w != 297-2*Margin {
		t.Errorf("viewport width = %v", w)
	}
	if h != 210-2*Margin-FooterHeight {
		t.Errorf("viewport height = %v", h)
	}

	// With bleed the rectangle grows by Bleed on each side.
	bx, by, bw, bh := s.Viewport(true)
	if bx != x-Bleed || by != y-Bleed {
		t.Errorf("bled origin = %v,%v", bx, by)
	}
	if bw != w+2*Bleed || bh != h+2*Bleed {
		t.Errorf("bled size = %v×%v", bw, bh)
	}

	iw, ih := s.ImageSize()
	if iw != bw || ih != bh {
		t.Errorf("ImageSize = %v×%v, want %v×%v", iw, ih, bw, bh)
	}
}
