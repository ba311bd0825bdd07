package views

import (
	"fmt"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/medogram/medoterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// PaymentView collects a top-up amount and shows the gateway link. The link
// is rendered as a QR code for scanning on a phone; nothing opens a browser.
type PaymentView struct {
	*tview.Flex
	form   *tview.Form
	result *tview.TextView

	onRequest func(amount int64)
	onVerify  func(transID, idGet string)
}

// NewPaymentView creates the top-up view.
func NewPaymentView(theme *ui.Theme) *PaymentView {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetTitle(" Top up BoxMoney ")
	form.SetTitleColor(theme.TitleColor)

	result := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	result.SetBorder(true)
	result.SetBorderColor(theme.BorderColor)
	result.SetTitle(" Payment link ")

	pv := &PaymentView{
		Flex: tview.NewFlex().
			AddItem(form, 44, 0, true).
			AddItem(result, 0, 1, false),
		form:   form,
		result: result,
	}

	var amount, transID, idGet string
	form.AddInputField("Amount (IRR)", "", 12, nil, func(text string) { amount = text })
	form.AddButton("Request link", func() {
		n, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
		if err != nil {
			pv.ShowError("amount must be a number")
			return
		}
		if pv.onRequest != nil {
			pv.onRequest(n)
		}
	})
	form.AddInputField("trans_id", "", 16, nil, func(text string) { transID = text })
	form.AddInputField("id_get", "", 16, nil, func(text string) { idGet = text })
	form.AddButton("Verify payment", func() {
		if pv.onVerify != nil {
			pv.onVerify(transID, idGet)
		}
	})

	return pv
}

// SetOnRequest sets the link request callback.
func (pv *PaymentView) SetOnRequest(fn func(amount int64)) {
	pv.onRequest = fn
}

// SetOnVerify sets the return-leg verification callback.
func (pv *PaymentView) SetOnVerify(fn func(transID, idGet string)) {
	pv.onVerify = fn
}

// ShowLink renders the gateway URL and its QR code.
func (pv *PaymentView) ShowLink(url string) {
	pv.result.Clear()
	_, _ = fmt.Fprintf(pv.result, "\n%s\n\n%s\n[::d]Scan to pay, then verify with trans_id and id_get.", url, renderQR(url))
}

// ShowError surfaces a failure in the result pane.
func (pv *PaymentView) ShowError(msg string) {
	pv.result.Clear()
	_, _ = fmt.Fprintf(pv.result, "\n[red]%s[-]", msg)
}

// ShowStatus surfaces a verification result.
func (pv *PaymentView) ShowStatus(status string) {
	pv.result.Clear()
	_, _ = fmt.Fprintf(pv.result, "\n[green]Payment %s[-]", status)
}

// FocusTarget returns the primitive that should receive focus.
func (pv *PaymentView) FocusTarget() tview.Primitive {
	return pv.form
}

// renderQR converts a string to a compact ASCII QR code using Unicode
// half-block characters.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top && !bot:
				sb.WriteRune('▀')
			case !top && bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
