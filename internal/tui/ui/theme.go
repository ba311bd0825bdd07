package ui

import "github.com/gdamore/tcell/v2"

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TableHeaderFg    tcell.Color
	TableCursorFg    tcell.Color
	TableCursorBg    tcell.Color
	MenuKeyColor     tcell.Color
	TitleColor       tcell.Color
	UserMsgColor     tcell.Color
	BotMsgColor      tcell.Color
	FlashInfoColor   tcell.Color
	FlashErrColor    tcell.Color
	DisabledColor    tcell.Color
}

// DefaultTheme returns the dark clinical palette.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorLightGray,
		BorderColor:      tcell.ColorTeal,
		BorderFocusColor: tcell.ColorAqua,
		TableHeaderFg:    tcell.ColorWhite,
		TableCursorFg:    tcell.ColorBlack,
		TableCursorBg:    tcell.ColorAqua,
		MenuKeyColor:     tcell.ColorTeal,
		TitleColor:       tcell.ColorAqua,
		UserMsgColor:     tcell.ColorLightGreen,
		BotMsgColor:      tcell.ColorLightSkyBlue,
		FlashInfoColor:   tcell.ColorNavajoWhite,
		FlashErrColor:    tcell.ColorOrangeRed,
		DisabledColor:    tcell.ColorGray,
	}
}
