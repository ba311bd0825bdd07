package views

import (
	"fmt"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// BlogListView is the paginated article table. Moving the cursor onto the
// last row asks for the next page; nothing else triggers a fetch.
type BlogListView struct {
	*tview.Table
	posts        []api.BlogPost
	onOpen       func(postID int64)
	onEndReached func()
}

// NewBlogListView creates the article table.
func NewBlogListView(theme *ui.Theme) *BlogListView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetTitle(" Blog ")
	table.SetTitleColor(theme.TitleColor)

	bl := &BlogListView{Table: table}

	table.SetSelectionChangedFunc(func(row, _ int) {
		if len(bl.posts) > 0 && row == len(bl.posts) && bl.onEndReached != nil {
			bl.onEndReached()
		}
	})
	table.SetSelectedFunc(func(row, _ int) {
		idx := row - 1
		if idx >= 0 && idx < len(bl.posts) && bl.onOpen != nil {
			bl.onOpen(bl.posts[idx].ID)
		}
	})
	return bl
}

// SetOnOpen sets the callback fired when an article is opened.
func (bl *BlogListView) SetOnOpen(fn func(postID int64)) {
	bl.onOpen = fn
}

// SetOnEndReached sets the bottom-of-list callback.
func (bl *BlogListView) SetOnEndReached(fn func()) {
	bl.onEndReached = fn
}

// Update refreshes the table.
func (bl *BlogListView) Update(posts []api.BlogPost, hasMore, loading bool) {
	bl.posts = posts
	bl.Clear()

	bl.SetCell(0, 0, tview.NewTableCell(" Title").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	bl.SetCell(0, 1, tview.NewTableCell(" Author").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	bl.SetCell(0, 2, tview.NewTableCell(" Comments").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, post := range posts {
		row := i + 1
		bl.SetCell(row, 0, tview.NewTableCell(" "+post.Title).SetMaxWidth(48).SetExpansion(2))
		bl.SetCell(row, 1, tview.NewTableCell(" "+post.Author).SetMaxWidth(20).SetExpansion(1))
		bl.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf(" %d", len(post.Comments))).SetMaxWidth(10))
	}

	switch {
	case loading:
		bl.SetTitle(" Blog (loading...) ")
	case hasMore:
		bl.SetTitle(fmt.Sprintf(" Blog (%d, more below) ", len(posts)))
	default:
		bl.SetTitle(fmt.Sprintf(" Blog (%d) ", len(posts)))
	}
}
