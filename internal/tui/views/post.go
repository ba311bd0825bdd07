package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// PostView shows one article with its comments. 'l' and 'd' on a selected
// comment react to it; the input underneath adds a comment.
type PostView struct {
	*tview.Flex
	article  *tview.TextView
	comments *tview.Table
	composer *tview.InputField
	post     *api.BlogPost

	onComment func(postID int64, text string)
	onReact   func(commentID int64, kind api.ReactionKind)
}

// NewPostView creates the article detail view.
func NewPostView(theme *ui.Theme) *PostView {
	article := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	article.SetBorder(true)
	article.SetBorderColor(theme.BorderColor)
	article.SetTitleColor(theme.TitleColor)

	comments := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	comments.SetBorder(true)
	comments.SetBorderColor(theme.BorderColor)
	comments.SetTitle(" Comments (l:like d:dislike) ")

	composer := tview.NewInputField().
		SetLabel(" comment > ").
		SetFieldWidth(0)

	pv := &PostView{
		Flex: tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(article, 0, 2, false).
			AddItem(comments, 0, 1, true).
			AddItem(composer, 1, 0, false),
		article:  article,
		comments: comments,
		composer: composer,
	}

	composer.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || pv.post == nil {
			return
		}
		text := composer.GetText()
		if text == "" {
			return
		}
		if pv.onComment != nil {
			pv.onComment(pv.post.ID, text)
		}
		composer.SetText("")
	})

	comments.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() != tcell.KeyRune || pv.onReact == nil {
			return ev
		}
		id, ok := pv.selectedComment()
		if !ok {
			return ev
		}
		switch ev.Rune() {
		case 'l':
			pv.onReact(id, api.ReactionLike)
			return nil
		case 'd':
			pv.onReact(id, api.ReactionDislike)
			return nil
		}
		return ev
	})

	return pv
}

// SetOnComment sets the add-comment callback.
func (pv *PostView) SetOnComment(fn func(postID int64, text string)) {
	pv.onComment = fn
}

// SetOnReact sets the reaction callback.
func (pv *PostView) SetOnReact(fn func(commentID int64, kind api.ReactionKind)) {
	pv.onReact = fn
}

// Update renders the article and its comment list.
func (pv *PostView) Update(post *api.BlogPost) {
	pv.post = post
	pv.article.Clear()
	pv.comments.Clear()
	if post == nil {
		return
	}

	pv.article.SetTitle(fmt.Sprintf(" %s ", post.Title))
	_, _ = fmt.Fprintf(pv.article, "[::d]%s - %s[-:-:-]\n\n%s", post.Author, post.CreatedAt, post.Content)

	for i, c := range post.Comments {
		pv.comments.SetCell(i, 0, tview.NewTableCell(" "+c.Author).SetMaxWidth(16))
		pv.comments.SetCell(i, 1, tview.NewTableCell(" "+c.Comment).SetExpansion(1))
		pv.comments.SetCell(i, 2, tview.NewTableCell(fmt.Sprintf(" +%d/-%d", c.Likes, c.Dislikes)).SetMaxWidth(12))
	}
}

// Composer returns the comment input for focus handling.
func (pv *PostView) Composer() tview.Primitive {
	return pv.composer
}

func (pv *PostView) selectedComment() (int64, bool) {
	if pv.post == nil {
		return 0, false
	}
	row, _ := pv.comments.GetSelection()
	if row < 0 || row >= len(pv.post.Comments) {
		return 0, false
	}
	return pv.post.Comments[row].ID, true
}
