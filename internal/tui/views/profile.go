package views

import (
	"fmt"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// ProfileView edits the account profile. The phone number is read-only; it
// is the account identity.
type ProfileView struct {
	*tview.Flex
	form *tview.Form
	info *tview.TextView

	current api.Profile
	onSave  func(p api.Profile)
}

// NewProfileView creates the profile editor.
func NewProfileView(theme *ui.Theme) *ProfileView {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetTitle(" Profile ")
	form.SetTitleColor(theme.TitleColor)

	info := tview.NewTextView().
		SetDynamicColors(true)

	return &ProfileView{
		Flex: tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(info, 2, 0, false).
			AddItem(form, 0, 1, true),
		form: form,
		info: info,
	}
}

// SetOnSave sets the save callback.
func (pv *ProfileView) SetOnSave(fn func(p api.Profile)) {
	pv.onSave = fn
}

// Show rebuilds the form from the fetched profile.
func (pv *ProfileView) Show(p *api.Profile) {
	pv.current = *p
	pv.form.Clear(true)
	pv.info.Clear()

	pv.form.AddTextView("Phone", p.PhoneNumber, 24, 1, true, false)
	pv.form.AddInputField("Username", p.Username, 24, nil, func(text string) { pv.current.Username = text })
	pv.form.AddInputField("First name", p.FirstName, 24, nil, func(text string) { pv.current.FirstName = text })
	pv.form.AddInputField("Last name", p.LastName, 24, nil, func(text string) { pv.current.LastName = text })
	pv.form.AddInputField("Email", p.Email, 32, nil, func(text string) { pv.current.Email = text })
	pv.form.AddButton("Save", func() {
		if pv.onSave != nil {
			pv.onSave(pv.current)
		}
	})
}

// ShowError surfaces a failure above the form.
func (pv *ProfileView) ShowError(msg string) {
	pv.info.Clear()
	_, _ = fmt.Fprintf(pv.info, " [red]%s[-]", msg)
}

// ShowSaved confirms a successful update.
func (pv *ProfileView) ShowSaved() {
	pv.info.Clear()
	_, _ = fmt.Fprint(pv.info, " [green]Profile saved.[-]")
}

// FocusTarget returns the primitive that should receive focus.
func (pv *ProfileView) FocusTarget() tview.Primitive {
	return pv.form
}
