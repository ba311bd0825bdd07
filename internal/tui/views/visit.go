package views

import (
	"fmt"

	"github.com/medogram/medoterm/internal/tui/ui"
	"github.com/medogram/medoterm/internal/visit"
	"github.com/rivo/tview"
)

// VisitView renders the four-step booking wizard. The form is rebuilt per
// step from the wizard's state, so going back shows previously entered data.
type VisitView struct {
	*tview.Flex
	form *tview.Form
	info *tview.TextView

	onEdit   func(mutate func(*visit.Form))
	onNext   func()
	onBack   func()
	onSubmit func()
}

// NewVisitView creates the wizard view.
func NewVisitView(theme *ui.Theme) *VisitView {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetTitleColor(theme.TitleColor)

	info := tview.NewTextView().
		SetDynamicColors(true)

	return &VisitView{
		Flex: tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(info, 2, 0, false).
			AddItem(form, 0, 1, true),
		form: form,
		info: info,
	}
}

// SetOnEdit sets the form mutation callback.
func (vv *VisitView) SetOnEdit(fn func(mutate func(*visit.Form))) {
	vv.onEdit = fn
}

// SetOnNext sets the advance callback.
func (vv *VisitView) SetOnNext(fn func()) { vv.onNext = fn }

// SetOnBack sets the go-back callback.
func (vv *VisitView) SetOnBack(fn func()) { vv.onBack = fn }

// SetOnSubmit sets the final submit callback.
func (vv *VisitView) SetOnSubmit(fn func()) { vv.onSubmit = fn }

// Render rebuilds the view for the given wizard step.
func (vv *VisitView) Render(step int, f visit.Form, summary []visit.SummaryRow) {
	vv.form.Clear(true)
	vv.info.Clear()
	_, _ = fmt.Fprintf(vv.info, " [::b]Book a visit[-:-:-]  step %d of 4", step)

	edit := func(mutate func(*visit.Form)) {
		if vv.onEdit != nil {
			vv.onEdit(mutate)
		}
	}

	switch step {
	case visit.StepPatient:
		vv.form.SetTitle(" Patient ")
		vv.form.AddInputField("Full name", f.Name, 32, nil, func(text string) {
			edit(func(f *visit.Form) { f.Name = text })
		})
		vv.form.AddInputField("National code", f.NationalCode, 12, nil, func(text string) {
			edit(func(f *visit.Form) { f.NationalCode = text })
		})
		vv.addDropDown("Insurance", visit.InsuranceOptions, f.InsuranceType, func(value string) {
			edit(func(f *visit.Form) { f.InsuranceType = value })
		})
		vv.addDropDown("Urgency", visit.UrgencyOptions, f.Urgency, func(value string) {
			edit(func(f *visit.Form) { f.Urgency = value })
		})

	case visit.StepPrimary:
		vv.form.SetTitle(" Primary symptoms ")
		vv.addDropDown("General", visit.GeneralOptions, f.GeneralSymptoms, func(value string) {
			edit(func(f *visit.Form) { f.GeneralSymptoms = value })
		})
		vv.addDropDown("Neurological", visit.NeurologicalOptions, f.NeurologicalSymptoms, func(value string) {
			edit(func(f *visit.Form) { f.NeurologicalSymptoms = value })
		})

	case visit.StepExtended:
		vv.form.SetTitle(" More symptoms ")
		vv.addDropDown("Cardiovascular", visit.CardiovascularOptions, f.CardiovascularSymptoms, func(value string) {
			edit(func(f *visit.Form) { f.CardiovascularSymptoms = value })
		})
		vv.addDropDown("Gastrointestinal", visit.GastrointestinalOptions, f.GastrointestinalSymptoms, func(value string) {
			edit(func(f *visit.Form) { f.GastrointestinalSymptoms = value })
		})
		vv.addDropDown("Respiratory", visit.RespiratoryOptions, f.RespiratorySymptoms, func(value string) {
			edit(func(f *visit.Form) { f.RespiratorySymptoms = value })
		})
		vv.form.AddInputField("Description", f.Description, 48, nil, func(text string) {
			edit(func(f *visit.Form) { f.Description = text })
		})

	case visit.StepSummary:
		vv.form.SetTitle(" Confirm ")
		for _, row := range summary {
			value := row.Value
			if value == "" {
				value = "-"
			}
			vv.form.AddTextView(row.Label, value, 48, 1, true, false)
		}
	}

	if step > visit.StepPatient {
		vv.form.AddButton("Back", func() {
			if vv.onBack != nil {
				vv.onBack()
			}
		})
	}
	if step < visit.StepSummary {
		vv.form.AddButton("Next", func() {
			if vv.onNext != nil {
				vv.onNext()
			}
		})
	} else {
		vv.form.AddButton("Submit", func() {
			if vv.onSubmit != nil {
				vv.onSubmit()
			}
		})
	}
}

// ShowError surfaces a validation or server error in the info line.
func (vv *VisitView) ShowError(msg string) {
	vv.info.Clear()
	_, _ = fmt.Fprintf(vv.info, " [red]%s[-]", msg)
}

// FocusTarget returns the primitive that should receive focus.
func (vv *VisitView) FocusTarget() tview.Primitive {
	return vv.form
}

// addDropDown adds a selector with a leading "no selection" entry, preselecting
// the stored value.
func (vv *VisitView) addDropDown(label string, opts []visit.Option, current string, set func(value string)) {
	labels := make([]string, 0, len(opts)+1)
	labels = append(labels, "-")
	initial := 0
	for i, opt := range opts {
		labels = append(labels, opt.Label)
		if opt.Value == current {
			initial = i + 1
		}
	}
	vv.form.AddDropDown(label, labels, initial, func(_ string, index int) {
		if index <= 0 {
			set("")
			return
		}
		set(opts[index-1].Value)
	})
}
