package platform

import "testing"

func TestParseViewport_Valid(t *testing.T) {
	tests := []struct {
		input string
		w, h  float64
	}{
		{"1280x800", 1280, 800},
		{"1280X800", 1280, 800},
		{" 640 x 480 ", 640, 480},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			vp, err := ParseViewport(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if vp.Width != tt.w || vp.Height != tt.h {
				t.Errorf("got %+v, want %vx%v", vp, tt.w, tt.h)
			}
		})
	}
}

func TestParseViewport_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1280",
		"1280x",
		"ax800",
		"0x800",
		"1280x-1",
	}
	for _, s := range tests {
		if _, err := ParseViewport(s); err == nil {
			t.Errorf("ParseViewport(%q) should fail", s)
		}
	}
}
