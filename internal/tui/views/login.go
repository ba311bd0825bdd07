package views

import (
	"fmt"

	"github.com/medogram/medoterm/internal/auth"
	"github.com/medogram/medoterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// LoginView walks the phone/OTP flow. The form is rebuilt whenever the flow
// step changes; entered values live in the flow, not here.
type LoginView struct {
	*tview.Flex
	form *tview.Form
	info *tview.TextView

	onSendCode     func(phone string, agreed bool)
	onVerify       func(code string)
	onSaveUsername func(name string)
}

// NewLoginView creates the login view showing the phone step.
func NewLoginView(theme *ui.Theme) *LoginView {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetTitle(" Sign in ")
	form.SetTitleColor(theme.TitleColor)

	info := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	lv := &LoginView{
		Flex: tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(info, 3, 0, false).
			AddItem(form, 0, 1, true),
		form: form,
		info: info,
	}
	lv.ShowStep(auth.StepPhone, "")
	return lv
}

// SetOnSendCode sets the phone step callback.
func (lv *LoginView) SetOnSendCode(fn func(phone string, agreed bool)) {
	lv.onSendCode = fn
}

// SetOnVerify sets the OTP step callback.
func (lv *LoginView) SetOnVerify(fn func(code string)) {
	lv.onVerify = fn
}

// SetOnSaveUsername sets the username step callback.
func (lv *LoginView) SetOnSaveUsername(fn func(name string)) {
	lv.onSaveUsername = fn
}

// ShowStep rebuilds the form for the given flow step.
func (lv *LoginView) ShowStep(step auth.Step, phone string) {
	lv.form.Clear(true)
	lv.info.Clear()

	switch step {
	case auth.StepPhone:
		var number string
		agreed := false
		lv.form.SetTitle(" Sign in ")
		lv.form.AddInputField("Phone number", "", 16, nil, func(text string) { number = text })
		lv.form.AddCheckbox("I accept the terms of service", false, func(checked bool) { agreed = checked })
		lv.form.AddButton("Send code", func() {
			if lv.onSendCode != nil {
				lv.onSendCode(number, agreed)
			}
		})
		_, _ = fmt.Fprint(lv.info, "\nEnter your mobile number to receive a one-time code.")

	case auth.StepVerify:
		var code string
		lv.form.SetTitle(" Verification ")
		lv.form.AddInputField("Code", "", 8, nil, func(text string) { code = text })
		lv.form.AddButton("Verify", func() {
			if lv.onVerify != nil {
				lv.onVerify(code)
			}
		})
		_, _ = fmt.Fprintf(lv.info, "\nWe sent a 6-digit code to [::b]%s[-:-:-].", phone)

	case auth.StepCollectUsername:
		var name string
		lv.form.SetTitle(" Pick a name ")
		lv.form.AddInputField("Display name", "", 24, nil, func(text string) { name = text })
		lv.form.AddButton("Save", func() {
			if lv.onSaveUsername != nil {
				lv.onSaveUsername(name)
			}
		})
		_, _ = fmt.Fprint(lv.info, "\nChoose the name doctors will see.")

	case auth.StepDone:
		_, _ = fmt.Fprint(lv.info, "\n[green]Signed in.[-]")
	}
}

// ShowError surfaces a step error above the form without rebuilding it.
func (lv *LoginView) ShowError(msg string) {
	lv.info.Clear()
	_, _ = fmt.Fprintf(lv.info, "\n[red]%s[-]", msg)
}

// FocusTarget returns the primitive that should receive focus.
func (lv *LoginView) FocusTarget() tview.Primitive {
	return lv.form
}
