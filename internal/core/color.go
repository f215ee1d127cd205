package core

// Color is an ANSI 256-colour palette index. ColorDefault leaves the
// terminal's own colour in place.
type Color int16

// Named palette entries used by the HUD and overlays.
const (
	ColorDefault       Color = -1
	ColorBlack         Color = 0
	ColorRed           Color = 1
	ColorGreen         Color = 2
	ColorYellow        Color = 3
	ColorBlue          Color = 4
	ColorMagenta       Color = 5
	ColorCyan          Color = 6
	ColorWhite         Color = 7
	ColorBrightRed     Color = 9
	ColorBrightGreen   Color = 10
	ColorBrightYellow  Color = 11
	ColorBrightWhite   Color = 15
	ColorOrange        Color = 208
	ColorGray          Color = 245
	ColorDarkGray      Color = 238
	ColorBoardBorder   Color = 242
	ColorHighlightText Color = 229
)

// Style is the foreground/background pair of one screen cell.
type Style struct {
	Fg   Color
	Bg   Color
	Bold bool
}

// DefaultStyle draws with the terminal's colours.
var DefaultStyle = Style{Fg: ColorDefault, Bg: ColorDefault}

// Foreground returns a style with only the foreground set.
func Foreground(c Color) Style {
	return Style{Fg: c, Bg: ColorDefault}
}
