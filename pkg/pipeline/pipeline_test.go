package pipeline

import (
	"testing"

	"github.com/tastopo/tastopo/pkg/errors"
)

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Location: "geo:-41.5,146.0"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %d, want %d", opts.Scale, DefaultScale)
	}
	if opts.Paper != DefaultPaper {
		t.Errorf("Paper = %q, want %q", opts.Paper, DefaultPaper)
	}
	if opts.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", opts.Format, DefaultFormat)
	}
}

func TestValidateRequiresLocation(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("err = %v, want CONFIG_ERROR", err)
	}
}

func TestValidateNormalizesFormat(t *testing.T) {
	opts := Options{Location: "Quamby Bluff", Format: "PDF"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Format != "pdf" {
		t.Errorf("Format = %q, want %q", opts.Format, "pdf")
	}
}

func TestValidateRejectsUnsupportedFormat(t *testing.T) {
	opts := Options{Location: "Quamby Bluff", Format: "png"}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeUnsupportedFormat) {
		t.Errorf("err = %v, want UNSUPPORTED_FORMAT", err)
	}
}

func TestParseTranslate(t *testing.T) {
	tests := []struct {
		in     string
		dx, dy int
	}{
		{"", 0, 0},
		{"100,200", 100, 200},
		{"-50, 75", -50, 75},
		{"0,0", 0, 0},
	}
	for _, tt := range tests {
		dx, dy, err := ParseTranslate(tt.in)
		if err != nil {
			t.Errorf("ParseTranslate(%q): %v", tt.in, err)
			continue
		}
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("ParseTranslate(%q) = (%d, %d), want (%d, %d)", tt.in, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestParseTranslateInvalid(t *testing.T) {
	for _, in := range []string{"100", "a,b", "1;2", "100,"} {
		if _, _, err := ParseTranslate(in); !errors.Is(err, errors.ErrCodeParse) {
			t.Errorf("ParseTranslate(%q) err = %v, want PARSE_ERROR", in, err)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Quamby Bluff", "quamby-bluff"},
		{"geo:-41.5,146.0", "geo-41-5-146-0"},
		{"  Cradle   Mountain  ", "cradle-mountain"},
		{"St Patrick's Head", "st-patrick-s-head"},
		{"UPPER", "upper"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
