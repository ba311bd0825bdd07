package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/medogram/medoterm/internal/tui/model"
	"github.com/rivo/tview"
)

// StatusBar displays the profile, session state and wallet balance.
type StatusBar struct {
	*tview.TextView
	profile  string
	verified bool
	wallet   string
	hints    []string
	flash    string
	flashLvl model.Level
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv}
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetVerified updates the session indicator.
func (sb *StatusBar) SetVerified(verified bool) {
	sb.verified = verified
	sb.render()
}

// SetWallet updates the balance display. Pass known=false until the first
// successful refresh.
func (sb *StatusBar) SetWallet(amount int64, known bool) {
	if known {
		sb.wallet = fmt.Sprintf("%d IRR", amount)
	} else {
		sb.wallet = "-"
	}
	sb.render()
}

// SetHints updates the keybinding hints for the current page.
func (sb *StatusBar) SetHints(hints []string) {
	sb.hints = hints
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string, lvl model.Level) {
	sb.flash = msg
	sb.flashLvl = lvl
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	state := "[red]guest[-]"
	if sb.verified {
		state = "[green]verified[-]"
	}
	clock := time.Now().Format("15:04")

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | wallet %s | %s", sb.profile, state, sb.wallet, clock)
	if len(sb.hints) > 0 {
		line += " | [::d]" + strings.Join(sb.hints, " ") + "[-:-:-]"
	}
	if sb.flash != "" {
		color := "yellow"
		if sb.flashLvl == model.LevelError {
			color = "red"
		}
		line += fmt.Sprintf(" | [%s]%s[-]", color, sb.flash)
	}

	_, _ = fmt.Fprint(sb, line)
}
