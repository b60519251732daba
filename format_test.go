package rcheevos

import "testing"

func TestRenderFormat(t *testing.T) {
	cases := []struct {
		name string
		f    Format
		v    uint32
		want string
	}{
		{"value", FormatValue, 42, "42"},
		{"score padded", FormatScore, 7, "000007"},
		{"seconds under an hour", FormatSeconds, 125, "2:05"},
		{"seconds with hour", FormatSeconds, 3725, "1:02:05"},
		{"frames", FormatFrames, 180, "0:03"},
		{"float2", FormatFloat2, 1234, "12.34"},
		{"fixed1", FormatFixed1, 55, "5.5"},
		{"tens", FormatTens, 47, "40"},
		{"hundreds", FormatHundreds, 470, "400"},
		{"unsigned", FormatUnsignedValue, 9, "9"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := RenderFormat(c.f, c.v); got != c.want {
				t.Errorf("RenderFormat(%v, %d) = %q, want %q", c.f, c.v, got, c.want)
			}
		})
	}
}

func TestRenderHMSCentis(t *testing.T) {
	if got := renderHMSCentis(12345); got != "2:03.45" {
		t.Errorf("renderHMSCentis(12345) = %q, want 2:03.45", got)
	}
}
