// format.go - numeric display formats for rich presence macros (spec.md
// §4.7).

package rcheevos

import "fmt"

// Format is a numeric rendering kind for a rich presence macro.
type Format uint8

const (
	FormatValue Format = iota
	FormatScore
	FormatSeconds
	FormatCentiseconds
	FormatFrames
	FormatMinutes
	FormatSecondsAsMinutes
	FormatFloat1
	FormatFloat2
	FormatFloat3
	FormatFloat4
	FormatFloat5
	FormatFloat6
	FormatFixed1
	FormatFixed2
	FormatFixed3
	FormatTens
	FormatHundreds
	FormatThousands
	FormatUnsignedValue
	FormatOther
)

const framesPerSecond = 60

// RenderFormat renders v according to format f.
func RenderFormat(f Format, v uint32) string {
	switch f {
	case FormatValue:
		return fmt.Sprintf("%d", int32(v))
	case FormatScore, FormatOther:
		return fmt.Sprintf("%06d", v)
	case FormatUnsignedValue:
		return fmt.Sprintf("%d", v)
	case FormatSeconds:
		return renderHMS(v, 1)
	case FormatCentiseconds:
		return renderHMSCentis(v)
	case FormatFrames:
		return renderHMS(v/framesPerSecond, 1)
	case FormatMinutes:
		return fmt.Sprintf("%d", v)
	case FormatSecondsAsMinutes:
		return renderHMS(v*60, 1)
	case FormatFloat1:
		return renderFloatN(v, 1)
	case FormatFloat2:
		return renderFloatN(v, 2)
	case FormatFloat3:
		return renderFloatN(v, 3)
	case FormatFloat4:
		return renderFloatN(v, 4)
	case FormatFloat5:
		return renderFloatN(v, 5)
	case FormatFloat6:
		return renderFloatN(v, 6)
	case FormatFixed1:
		return renderFixedN(v, 1)
	case FormatFixed2:
		return renderFixedN(v, 2)
	case FormatFixed3:
		return renderFixedN(v, 3)
	case FormatTens:
		return fmt.Sprintf("%d", (v/10)*10)
	case FormatHundreds:
		return fmt.Sprintf("%d", (v/100)*100)
	case FormatThousands:
		return fmt.Sprintf("%d", (v/1000)*1000)
	default:
		return fmt.Sprintf("%d", v)
	}
}

// renderHMS renders totalSeconds as H:MM:SS, eliding the hour segment
// when it is zero.
func renderHMS(totalSeconds uint32, _ int) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours == 0 {
		return fmt.Sprintf("%d:%02d", minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

// renderHMSCentis renders a centisecond count as H:MM:SS.FF.
func renderHMSCentis(totalCentis uint32) string {
	totalSeconds := totalCentis / 100
	centis := totalCentis % 100
	base := renderHMS(totalSeconds, 1)
	return fmt.Sprintf("%s.%02d", base, centis)
}

// renderFloatN renders v (interpreted as a raw, unscaled integer) with n
// decimal digits, dividing by 10^n.
func renderFloatN(v uint32, n int) string {
	scale := int64(1)
	for i := 0; i < n; i++ {
		scale *= 10
	}
	whole := int64(v) / scale
	frac := int64(v) % scale
	return fmt.Sprintf("%d.%0*d", whole, n, frac)
}

// renderFixedN renders v scaled by 10^n as a decimal string (same
// transform as renderFloatN; kept distinct to match spec naming).
func renderFixedN(v uint32, n int) string {
	return renderFloatN(v, n)
}
