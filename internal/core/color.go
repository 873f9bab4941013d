package core

// Color represents a foreground color for a screen cell.
// Values map to ANSI 256-color codes in the platform renderer.
type Color uint8

// Colors used by the Pong renderer and overlays.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// ANSI returns the terminal color code for c, or "" for the default color.
func (c Color) ANSI() string {
	switch c {
	case ColorRed:
		return "9"
	case ColorGreen:
		return "10"
	case ColorYellow:
		return "11"
	case ColorBlue:
		return "12"
	case ColorMagenta:
		return "13"
	case ColorCyan:
		return "14"
	case ColorWhite:
		return "15"
	case ColorOrange:
		return "208"
	case ColorGray:
		return "245"
	default:
		return ""
	}
}
