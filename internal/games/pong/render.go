package pong

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// Render draws the current game state to the screen.
// Row 0 holds the score line; the playfield is scaled onto the rows below.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w < 10 || h < 5 || g.ball == nil {
		return
	}

	// Net
	netX := g.col(g.field.CenterX(), w)
	for y := 1; y < h; y += 2 {
		dst.SetColored(netX, y, NetChar, core.ColorGray)
	}

	g.drawPaddle(dst, g.paddles.Left, core.ColorCyan)
	g.drawPaddle(dst, g.paddles.Right, core.ColorMagenta)

	for _, p := range g.powerups.Pickups() {
		dst.SetColored(g.col(p.X, w), g.row(p.Y, h), p.Type.Glyph(), p.Type.Color())
	}

	// Ball blinks while waiting for the serve
	if !g.serving || int(g.timers.Remaining(serveTimer)*6)%2 == 0 {
		dst.SetColored(g.col(g.ball.X, w), g.row(g.ball.Y, h), BallChar, core.ColorYellow)
	}

	left, right := g.sideLabels()
	dst.DrawTextColored(1, 0, left, core.ColorCyan)
	dst.DrawTextColored(w-len(right)-1, 0, right, core.ColorMagenta)
	dst.DrawTextCentered(0, fmt.Sprintf("%d  :  %d", g.score1, g.score2), core.ColorWhite)

	if status := g.effectStatus(); status != "" {
		dst.DrawTextCentered(h-1, status, core.ColorGreen)
	}

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}

	if g.gameOver {
		g.drawCenteredMessage(dst, g.winnerText(), fmt.Sprintf("%d - %d  |  Press R to restart", g.score1, g.score2))
	}
}

func (g *Game) col(x float64, w int) int {
	return core.Clamp(int(x/g.field.Width*float64(w)), 0, w-1)
}

func (g *Game) row(y float64, h int) int {
	return 1 + core.Clamp(int(y/g.field.Height*float64(h-1)), 0, h-2)
}

func (g *Game) drawPaddle(dst *core.Screen, p *Paddle, c core.Color) {
	w, h := dst.Width(), dst.Height()
	x := g.col(p.X+p.Width/2, w)
	top := g.row(p.Y, h)
	bottom := max(g.row(p.Y+p.Height, h), top+1)
	dst.DrawVLine(x, top, bottom-top, PaddleChar, c)
}

func (g *Game) sideLabels() (string, string) {
	switch g.mode {
	case ModeVersus:
		return "P1", "P2"
	case ModeDemo:
		return "CPU", "CPU"
	default:
		return "P1", "CPU"
	}
}

func (g *Game) winnerText() string {
	switch {
	case g.mode == ModeCPU && g.winner == core.Player1:
		return "YOU WIN!"
	case g.mode == ModeCPU:
		return "CPU WINS!"
	case g.winner == core.Player1:
		return "PLAYER 1 WINS!"
	default:
		return "PLAYER 2 WINS!"
	}
}

// effectStatus lists active effects, e.g. "grow P1 4s  speed 2s".
func (g *Game) effectStatus() string {
	effects := g.powerups.Effects()
	if len(effects) == 0 {
		return ""
	}
	parts := make([]string, 0, len(effects))
	for _, e := range effects {
		switch e.Target {
		case core.Player1:
			parts = append(parts, fmt.Sprintf("%s P1 %.0fs", e.Type, e.Remaining))
		case core.Player2:
			parts = append(parts, fmt.Sprintf("%s P2 %.0fs", e.Type, e.Remaining))
		default:
			parts = append(parts, fmt.Sprintf("%s %.0fs", e.Type, e.Remaining))
		}
	}
	return strings.Join(parts, "  ")
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)

	dst.DrawTextColored(boxX+(boxW-len(title))/2, boxY+1, title, core.ColorYellow)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
