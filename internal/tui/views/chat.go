package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/medogram/medoterm/internal/chat"
	"github.com/medogram/medoterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChatView shows the assistant transcript with a composer underneath. The
// composer is disabled for the whole send round trip; errors render in a
// dismissible bar between transcript and composer.
type ChatView struct {
	*tview.Flex
	transcript *tview.TextView
	errorBar   *tview.TextView
	composer   *tview.InputField
	typing     bool

	onSend    func(text string)
	onDismiss func()
}

// NewChatView creates the chat view.
func NewChatView(theme *ui.Theme) *ChatView {
	transcript := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	transcript.SetBorder(true)
	transcript.SetBorderColor(theme.BorderColor)
	transcript.SetTitle(" Assistant ")
	transcript.SetTitleColor(theme.TitleColor)

	errorBar := tview.NewTextView().
		SetDynamicColors(true)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)

	cv := &ChatView{
		Flex: tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(transcript, 0, 1, false).
			AddItem(errorBar, 1, 0, false).
			AddItem(composer, 1, 0, true),
		transcript: transcript,
		errorBar:   errorBar,
		composer:   composer,
	}

	composer.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || cv.typing {
			return
		}
		text := composer.GetText()
		if text == "" {
			return
		}
		if cv.onSend != nil {
			cv.onSend(text)
		}
		composer.SetText("")
	})
	errorBar.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEscape && cv.onDismiss != nil {
			cv.onDismiss()
			return nil
		}
		return ev
	})

	return cv
}

// SetOnSend sets the send callback.
func (cv *ChatView) SetOnSend(fn func(text string)) {
	cv.onSend = fn
}

// SetOnDismiss sets the error-bar dismiss callback.
func (cv *ChatView) SetOnDismiss(fn func()) {
	cv.onDismiss = fn
}

// Update refreshes the transcript.
func (cv *ChatView) Update(msgs []chat.Message) {
	cv.transcript.Clear()
	for _, m := range msgs {
		who := "[lightskyblue::b]Assistant[-:-:-]"
		if m.Sender == chat.SenderUser {
			who = "[lightgreen::b]You[-:-:-]"
		}
		ts := m.Timestamp.Format("15:04")
		_, _ = fmt.Fprintf(cv.transcript, "%s [::d]%s[-:-:-]\n%s\n\n", who, ts, m.Text)
	}
	cv.transcript.ScrollToEnd()
}

// SetTyping toggles the in-flight state; the composer stays disabled while on.
func (cv *ChatView) SetTyping(on bool) {
	cv.typing = on
	if on {
		cv.composer.SetLabel(" typing... ")
	} else {
		cv.composer.SetLabel(" > ")
	}
}

// SetError renders the dismissible error bar, "" clears it.
func (cv *ChatView) SetError(msg string) {
	cv.errorBar.Clear()
	if msg != "" {
		_, _ = fmt.Fprintf(cv.errorBar, " [red]%s[-] [::d](Esc to dismiss)[-:-:-]", msg)
	}
}

// Composer returns the input primitive for focus handling.
func (cv *ChatView) Composer() tview.Primitive {
	return cv.composer
}
