package views

import (
	"github.com/medogram/medoterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// Menu page identifiers, matched by the app router.
const (
	ItemChat    = "chat"
	ItemVisit   = "visit"
	ItemBlogs   = "blogs"
	ItemPayment = "payment"
	ItemProfile = "profile"
	ItemLogout  = "logout"
)

// MenuView is the home screen.
type MenuView struct {
	*tview.List
	onSelect func(item string)
}

// NewMenuView creates the home menu.
func NewMenuView(theme *ui.Theme) *MenuView {
	list := tview.NewList().
		ShowSecondaryText(true)
	list.SetBorder(true)
	list.SetBorderColor(theme.BorderColor)
	list.SetTitle(" Medogram ")
	list.SetTitleColor(theme.TitleColor)

	mv := &MenuView{List: list}

	add := func(label, secondary string, shortcut rune, item string) {
		list.AddItem(label, secondary, shortcut, func() {
			if mv.onSelect != nil {
				mv.onSelect(item)
			}
		})
	}
	add("Chat", "Talk to the assistant", 'c', ItemChat)
	add("Book a visit", "Four quick steps to an appointment", 'v', ItemVisit)
	add("Blog", "Articles, comments and reactions", 'b', ItemBlogs)
	add("Wallet", "Balance and top-up", 'w', ItemPayment)
	add("Profile", "Account details", 'p', ItemProfile)
	add("Log out", "Clear this session", 'x', ItemLogout)

	return mv
}

// SetOnSelect sets the navigation callback.
func (mv *MenuView) SetOnSelect(fn func(item string)) {
	mv.onSelect = fn
}
