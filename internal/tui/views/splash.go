package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/medogram/medoterm/internal/tui/ui"
	"github.com/rivo/tview"
)

const logo = `
  __  __ ___ ___   ___   ___ ___    _   __  __
 |  \/  | __|   \ / _ \ / __| _ \  /_\ |  \/  |
 | |\/| | _|| |) | (_) | (_ |   / / _ \| |\/| |
 |_|  |_|___|___/ \___/ \___|_|_\/_/ \_\_|  |_|
`

// SplashView is the first-run welcome screen. It shows once per profile;
// dismissing it is recorded so later launches skip straight to login.
type SplashView struct {
	*tview.TextView
	onContinue func()
}

// NewSplashView creates the splash screen.
func NewSplashView(theme *ui.Theme) *SplashView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.TitleColor)

	sv := &SplashView{TextView: tv}
	_, _ = fmt.Fprintf(tv, "%s\n\n[lightgray]Online visits, chat and lab results in your terminal.[-]\n\n[::b]Press Enter to continue", logo)

	tv.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEnter && sv.onContinue != nil {
			sv.onContinue()
			return nil
		}
		return ev
	})
	return sv
}

// SetOnContinue sets the dismiss callback.
func (sv *SplashView) SetOnContinue(fn func()) {
	sv.onContinue = fn
}
