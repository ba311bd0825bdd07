// Package tui is the interactive terminal frontend. The shell owns page
// routing and focus; views stay dumb and call back into the feature services.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/auth"
	"github.com/medogram/medoterm/internal/bus"
	"github.com/medogram/medoterm/internal/chat"
	"github.com/medogram/medoterm/internal/feed"
	"github.com/medogram/medoterm/internal/payment"
	"github.com/medogram/medoterm/internal/session"
	"github.com/medogram/medoterm/internal/store"
	"github.com/medogram/medoterm/internal/tui/keys"
	"github.com/medogram/medoterm/internal/tui/model"
	"github.com/medogram/medoterm/internal/tui/ui"
	"github.com/medogram/medoterm/internal/tui/views"
	"github.com/medogram/medoterm/internal/visit"
	"github.com/medogram/medoterm/internal/wallet"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageSplash  = "splash"
	pageLogin   = "login"
	pageHome    = "home"
	pageChat    = "chat"
	pageVisit   = "visit"
	pageBlogs   = "blogs"
	pagePost    = "post"
	pagePayment = "payment"
	pageProfile = "profile"
)

// Deps is everything the shell needs, provided by the fx graph.
type Deps struct {
	ProfileName string
	Session     *session.Store
	API         *api.Client
	Flow        *auth.Flow
	Chat        *chat.Session
	Feed        *feed.List
	Wizard      *visit.Wizard
	Payment     *payment.Initiator
	Wallet      *wallet.Service
	Store       *store.DB
	Bus         *bus.Bus
	Logger      *zap.Logger
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	registry *keys.Registry
	flash    *model.Flash
	theme    *ui.Theme

	statusBar *views.StatusBar
	splash    *views.SplashView
	login     *views.LoginView
	menu      *views.MenuView
	chatV     *views.ChatView
	visitV    *views.VisitView
	blogList  *views.BlogListView
	postV     *views.PostView
	paymentV  *views.PaymentView
	profileV  *views.ProfileView

	deps       Deps
	openPostID int64
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(deps Deps) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		registry:  keys.NewRegistry(),
		flash:     &model.Flash{},
		theme:     theme,
		statusBar: views.NewStatusBar(),
		splash:    views.NewSplashView(theme),
		login:     views.NewLoginView(theme),
		menu:      views.NewMenuView(theme),
		chatV:     views.NewChatView(theme),
		visitV:    views.NewVisitView(theme),
		blogList:  views.NewBlogListView(theme),
		postV:     views.NewPostView(theme),
		paymentV:  views.NewPaymentView(theme),
		profileV:  views.NewProfileView(theme),
		deps:      deps,
		ctx:       ctx,
		cancel:    cancel,
	}

	a.statusBar.SetProfile(deps.ProfileName)
	a.statusBar.SetVerified(deps.Session.Verified())
	a.statusBar.SetWallet(0, false)

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.watchBus()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})
	a.registry.AddView(pageBlogs, &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:reload", Visible: true,
		Handler: func() { a.loadFeedPage() },
	})
}

func (a *App) setupCallbacks() {
	a.splash.SetOnContinue(func() {
		if err := a.deps.Store.SetCredential(store.KeySplashShown, "1"); err != nil {
			a.deps.Logger.Warn("splash flag persist failed", zap.Error(err))
		}
		a.routeAfterSplash()
	})

	a.login.SetOnSendCode(func(phone string, agreed bool) {
		a.deps.Flow.SetAgreeToTerms(agreed)
		go a.runAuthStep(func() error {
			return a.deps.Flow.SendCode(a.ctx, phone)
		})
	})
	a.login.SetOnVerify(func(code string) {
		go a.runAuthStep(func() error {
			return a.deps.Flow.VerifyCode(a.ctx, code)
		})
	})
	a.login.SetOnSaveUsername(func(name string) {
		go a.runAuthStep(func() error {
			return a.deps.Flow.SaveUsername(a.ctx, name)
		})
	})

	a.menu.SetOnSelect(a.navigate)

	a.chatV.SetOnSend(func(text string) {
		go func() {
			err := a.deps.Chat.Send(a.ctx, text)
			a.app.QueueUpdateDraw(func() {
				a.chatV.Update(a.deps.Chat.Messages())
				a.chatV.SetError(a.deps.Chat.LastError())
				if err != nil && a.deps.Chat.LastError() == "" {
					a.flashError(err)
				}
			})
		}()
	})
	a.chatV.SetOnDismiss(func() {
		a.deps.Chat.DismissError()
		a.chatV.SetError("")
	})

	a.visitV.SetOnEdit(a.deps.Wizard.Update)
	a.visitV.SetOnNext(func() {
		if err := a.deps.Wizard.Next(); err != nil {
			a.visitV.ShowError(err.Error())
			return
		}
		a.renderWizard()
	})
	a.visitV.SetOnBack(func() {
		a.deps.Wizard.Back()
		a.renderWizard()
	})
	a.visitV.SetOnSubmit(func() {
		go func() {
			created, err := a.deps.Wizard.Submit(a.ctx)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.visitV.ShowError(submitError(err))
					return
				}
				a.flash.Set("Visit booked", model.LevelInfo, 5*time.Second)
				a.deps.Logger.Info("visit booked", zap.Int64("id", created.ID))
				a.renderWizard()
				a.switchTo(pageHome, a.menu)
			})
		}()
	})

	a.blogList.SetOnOpen(a.openPost)
	a.blogList.SetOnEndReached(func() {
		if a.deps.Feed.HasMore() && !a.deps.Feed.Loading() {
			a.loadFeedPage()
		}
	})

	a.postV.SetOnComment(func(postID int64, text string) {
		go func() {
			err := a.deps.Feed.AddComment(a.ctx, postID, text)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.flashError(err)
					return
				}
				a.refreshPost(postID)
			})
		}()
	})
	a.postV.SetOnReact(func(commentID int64, kind api.ReactionKind) {
		go func() {
			err := a.deps.Feed.React(a.ctx, commentID, kind)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.flashError(err)
					return
				}
				a.blogList.Update(a.deps.Feed.Items(), a.deps.Feed.HasMore(), a.deps.Feed.Loading())
				a.refreshOpenPost()
			})
		}()
	})

	a.paymentV.SetOnRequest(func(amount int64) {
		go func() {
			url, err := a.deps.Payment.RequestLink(a.ctx, amount)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.paymentV.ShowError(requestError(err))
					return
				}
				a.paymentV.ShowLink(url)
			})
		}()
	})
	a.paymentV.SetOnVerify(func(transID, idGet string) {
		go func() {
			status, err := a.deps.Payment.Verify(a.ctx, transID, idGet)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.paymentV.ShowError(requestError(err))
					return
				}
				a.paymentV.ShowStatus(status)
			})
			a.refreshWallet()
		}()
	})

	a.profileV.SetOnSave(func(p api.Profile) {
		go func() {
			updated, err := a.deps.API.UpdateProfile(a.ctx, &p)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.profileV.ShowError(requestError(err))
					return
				}
				a.profileV.Show(updated)
				a.profileV.ShowSaved()
			})
		}()
	})
}

func (a *App) setupLayout() {
	a.pages.AddPage(pageSplash, a.splash, true, false)
	a.pages.AddPage(pageLogin, a.login, true, false)
	a.pages.AddPage(pageHome, a.menu, true, false)
	a.pages.AddPage(pageChat, a.chatV, true, false)
	a.pages.AddPage(pageVisit, a.visitV, true, false)
	a.pages.AddPage(pageBlogs, a.blogList, true, false)
	a.pages.AddPage(pagePost, a.postV, true, false)
	a.pages.AddPage(pagePayment, a.paymentV, true, false)
	a.pages.AddPage(pageProfile, a.profileV, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case pageChat:
				if a.deps.Chat.LastError() != "" {
					a.deps.Chat.DismissError()
					a.chatV.SetError("")
					return nil
				}
				a.switchTo(pageHome, a.menu)
				return nil
			case pagePost:
				a.switchTo(pageBlogs, a.blogList)
				return nil
			case pageVisit, pageBlogs, pagePayment, pageProfile:
				a.switchTo(pageHome, a.menu)
				return nil
			case pageLogin:
				if a.deps.Session.Verified() {
					a.switchTo(pageHome, a.menu)
					return nil
				}
			}
		}

		// Let text input widgets handle all keys normally.
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}
		return event
	})
}

// navigate routes a home menu selection. Everything except the blog requires
// a verified session.
func (a *App) navigate(item string) {
	verified := a.deps.Session.Verified()
	switch item {
	case views.ItemChat:
		if !a.requireVerified(verified) {
			return
		}
		a.chatV.Update(a.deps.Chat.Messages())
		a.chatV.SetError(a.deps.Chat.LastError())
		a.switchTo(pageChat, a.chatV.Composer())
	case views.ItemVisit:
		if !a.requireVerified(verified) {
			return
		}
		a.renderWizard()
		a.switchTo(pageVisit, a.visitV.FocusTarget())
	case views.ItemBlogs:
		a.blogList.Update(a.deps.Feed.Items(), a.deps.Feed.HasMore(), a.deps.Feed.Loading())
		if len(a.deps.Feed.Items()) == 0 {
			a.loadFeedPage()
		}
		a.switchTo(pageBlogs, a.blogList)
	case views.ItemPayment:
		if !a.requireVerified(verified) {
			return
		}
		a.switchTo(pagePayment, a.paymentV.FocusTarget())
	case views.ItemProfile:
		if !a.requireVerified(verified) {
			return
		}
		a.openProfile()
	case views.ItemLogout:
		a.logout()
	}
}

func (a *App) requireVerified(verified bool) bool {
	if verified {
		return true
	}
	a.flash.Set("Sign in first", model.LevelError, 4*time.Second)
	a.login.ShowStep(a.deps.Flow.Step(), a.deps.Flow.PhoneNumber())
	a.switchTo(pageLogin, a.login.FocusTarget())
	return false
}

func (a *App) switchTo(page string, focus tview.Primitive) {
	a.pages.SwitchToPage(page)
	if focus != nil {
		a.app.SetFocus(focus)
	}
	a.statusBar.SetHints(a.registry.Hints(page))
	a.renderFlash()
}

func (a *App) routeAfterSplash() {
	if a.deps.Session.Verified() {
		a.switchTo(pageHome, a.menu)
		a.refreshWallet()
		return
	}
	a.login.ShowStep(a.deps.Flow.Step(), a.deps.Flow.PhoneNumber())
	a.switchTo(pageLogin, a.login.FocusTarget())
}

// runAuthStep executes one flow operation and re-renders the login form for
// whatever step the flow landed in.
func (a *App) runAuthStep(op func() error) {
	err := op()
	a.app.QueueUpdateDraw(func() {
		if err != nil {
			a.login.ShowError(stepError(err))
			return
		}
		step := a.deps.Flow.Step()
		if step == auth.StepDone {
			a.statusBar.SetVerified(true)
			a.flash.Set("Welcome back", model.LevelInfo, 4*time.Second)
			a.switchTo(pageHome, a.menu)
			a.refreshWallet()
			return
		}
		a.login.ShowStep(step, a.deps.Flow.PhoneNumber())
		a.app.SetFocus(a.login.FocusTarget())
	})
}

func (a *App) renderWizard() {
	a.visitV.Render(a.deps.Wizard.Step(), a.deps.Wizard.Form(), a.deps.Wizard.Summary())
	a.app.SetFocus(a.visitV.FocusTarget())
}

func (a *App) loadFeedPage() {
	go func() {
		if err := a.deps.Feed.LoadNextPage(a.ctx); err != nil {
			a.app.QueueUpdateDraw(func() { a.flashError(err) })
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.blogList.Update(a.deps.Feed.Items(), a.deps.Feed.HasMore(), a.deps.Feed.Loading())
		})
	}()
}

func (a *App) openPost(postID int64) {
	post, err := a.deps.Feed.Get(postID)
	if err != nil {
		a.flashError(err)
		return
	}
	a.openPostID = postID
	a.postV.Update(post)
	a.switchTo(pagePost, a.postV)
}

func (a *App) refreshPost(postID int64) {
	post, err := a.deps.Feed.Get(postID)
	if err != nil {
		return
	}
	a.postV.Update(post)
}

func (a *App) refreshOpenPost() {
	currentPage, _ := a.pages.GetFrontPage()
	if currentPage != pagePost || a.openPostID == 0 {
		return
	}
	a.refreshPost(a.openPostID)
}

func (a *App) openProfile() {
	go func() {
		p, err := a.deps.API.GetProfile(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.flashError(err)
				return
			}
			a.profileV.Show(p)
			a.switchTo(pageProfile, a.profileV.FocusTarget())
		})
	}()
}

func (a *App) logout() {
	if err := a.deps.Session.Clear(); err != nil {
		a.deps.Logger.Warn("session clear failed", zap.Error(err))
	}
	a.deps.Flow.Reset()
	a.statusBar.SetVerified(false)
	a.statusBar.SetWallet(0, false)
	a.login.ShowStep(auth.StepPhone, "")
	a.switchTo(pageLogin, a.login.FocusTarget())
}

func (a *App) refreshWallet() {
	go func() {
		if _, err := a.deps.Wallet.Refresh(a.ctx); err != nil {
			return
		}
		amount, known := a.deps.Wallet.Last()
		a.app.QueueUpdateDraw(func() {
			a.statusBar.SetWallet(amount, known)
		})
	}()
}

// watchBus mirrors service-side events into the views regardless of which
// code path triggered them.
func (a *App) watchBus() {
	ch, unsub := a.deps.Bus.Subscribe("", 128)
	go func() {
		defer unsub()
		for {
			select {
			case evt, ok := <-ch:
				if !ok {
					return
				}
				a.handleEvent(evt)
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindChatTyping:
		on, _ := evt.Payload.(bool)
		a.app.QueueUpdateDraw(func() { a.chatV.SetTyping(on) })
	case bus.KindChatAppended:
		a.app.QueueUpdateDraw(func() { a.chatV.Update(a.deps.Chat.Messages()) })
	case bus.KindFeedPageLoaded:
		a.app.QueueUpdateDraw(func() {
			a.blogList.Update(a.deps.Feed.Items(), a.deps.Feed.HasMore(), a.deps.Feed.Loading())
		})
	case bus.KindSessionChanged, bus.KindSessionCleared:
		a.app.QueueUpdateDraw(func() {
			a.statusBar.SetVerified(a.deps.Session.Verified())
		})
	}
}

func (a *App) renderFlash() {
	msg, lvl := a.flash.Get()
	a.statusBar.SetFlash(msg, lvl)
}

func (a *App) flashError(err error) {
	a.flash.Set(requestError(err), model.LevelError, 5*time.Second)
	a.renderFlash()
}

// Run starts the TUI application on the splash or post-splash page.
func (a *App) Run() error {
	shown, err := a.deps.Store.GetCredential(store.KeySplashShown)
	if err != nil {
		a.deps.Logger.Warn("splash flag read failed", zap.Error(err))
	}
	if shown == "1" {
		a.routeAfterSplash()
	} else {
		a.switchTo(pageSplash, a.splash)
	}
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// stepError keeps validation feedback terse on the login form.
func stepError(err error) string {
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		return verr.Field + ": " + verr.Reason
	}
	return requestError(err)
}

// submitError prefers server field errors for the wizard.
func submitError(err error) string {
	var derr *api.DomainError
	if errors.As(err, &derr) && len(derr.Fields) > 0 {
		for field, reason := range derr.Fields {
			return field + ": " + reason
		}
	}
	return requestError(err)
}

func requestError(err error) string {
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		return verr.Field + ": " + verr.Reason
	}
	var aerr *api.AuthError
	if errors.As(err, &aerr) {
		return "Sign in required"
	}
	var nerr *api.NetworkError
	if errors.As(err, &nerr) {
		return "Network error, try again"
	}
	var derr *api.DomainError
	if errors.As(err, &derr) {
		return derr.Code
	}
	return err.Error()
}
