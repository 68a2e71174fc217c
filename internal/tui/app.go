// Package tui is the interactive Bubble Tea front end over the views.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"budgettool/internal/events"
	"budgettool/internal/models"
	"budgettool/internal/remote"
	"budgettool/internal/session"
	"budgettool/internal/views"
)

type formKind int

const (
	formNone formKind = iota
	formLogin
	formVendorName
	formBudget
	formCharge
	formContact
)

// sessionReadyMsg is sent once the initial session lookup resolves.
type sessionReadyMsg struct {
	snap session.Snapshot
}

// opDoneMsg is sent when a view operation returns.
type opDoneMsg struct {
	err error
}

// loginDoneMsg is sent when sign-in (or sign-up then sign-in) finishes.
type loginDoneMsg struct {
	err error
}

// confirmRequest carries a view's confirmation question to the screen and
// the user's answer back.
type confirmRequest struct {
	prompt string
	answer chan bool
}

type confirmMsg struct {
	req confirmRequest
}

// signedOutMsg is sent after the session has been ended.
type signedOutMsg struct{}

var errPasswordTooShort = errors.New("password must be at least 6 characters")

// App is the root Bubble Tea model.
type App struct {
	ctx   context.Context
	store remote.Store
	sess  *session.State
	bus   *events.Bus
	year  int

	route  views.Route
	start  views.Route
	nav    *views.NavShell
	list   *views.VendorList
	detail *views.VendorDetail

	// UI state
	width    int
	height   int
	ready    bool
	busy     int
	cursor   int
	spinner  spinner.Model
	form     *form
	formKind formKind
	signUp   bool
	loginErr string

	prompts chan confirmRequest
	pending *confirmRequest
}

// NewApp creates the TUI. start is the route to open once signed in; a
// login route means the vendor list.
func NewApp(ctx context.Context, store remote.Store, sess *session.State, year int, start views.Route) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(palette.Accent)

	return App{
		ctx:     ctx,
		store:   store,
		sess:    sess,
		bus:     events.NewBus(),
		year:    year,
		start:   start,
		spinner: sp,
		prompts: make(chan confirmRequest),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		initSessionCmd(a.ctx, a.sess),
		waitForConfirm(a.prompts),
	)
}

func initSessionCmd(ctx context.Context, sess *session.State) tea.Cmd {
	return func() tea.Msg {
		sess.Init(ctx)
		return sessionReadyMsg{snap: sess.Current()}
	}
}

func waitForConfirm(prompts chan confirmRequest) tea.Cmd {
	return func() tea.Msg {
		return confirmMsg{req: <-prompts}
	}
}

// run executes a view operation off the UI goroutine.
func (a *App) run(fn func(ctx context.Context) error) tea.Cmd {
	a.busy++
	ctx := a.ctx
	return func() tea.Msg {
		return opDoneMsg{err: fn(ctx)}
	}
}

// confirmer asks through the prompt channel and blocks until answered.
func (a *App) confirmer() views.Confirmer {
	prompts := a.prompts
	return func(prompt string) bool {
		req := confirmRequest{prompt: prompt, answer: make(chan bool, 1)}
		prompts <- req
		return <-req.answer
	}
}

// navigate tears down the current screen and opens route.
func (a *App) navigate(route views.Route) tea.Cmd {
	if a.list != nil {
		a.list.Close()
		a.list = nil
	}
	if a.detail != nil {
		a.detail.Close()
		a.detail = nil
	}
	a.closeForm()
	a.cursor = 0
	a.route = route

	switch route.Kind {
	case views.RouteList:
		a.list = views.NewVendorList(a.store, a.sess, a.bus, a.year)
		navCmd := a.ensureNav()
		a.nav.Highlight(route)
		return tea.Batch(navCmd, a.run(a.list.Load))

	case views.RouteVendor:
		a.detail = views.NewVendorDetail(a.store, a.sess, route.VendorID, a.year)
		navCmd := a.ensureNav()
		a.nav.Highlight(route)
		return tea.Batch(navCmd, a.run(a.detail.Load))
	}

	if a.nav != nil {
		a.nav.Stop()
		a.nav = nil
	}
	a.openLogin()
	return nil
}

func (a *App) ensureNav() tea.Cmd {
	if a.nav != nil && a.nav.Snapshot().Redirect == nil {
		return nil
	}
	if a.nav != nil {
		a.nav.Stop()
	}
	a.nav = views.NewNavShell(a.store, a.sess, a.bus)
	a.nav.Highlight(a.route)
	return a.run(a.nav.Start)
}

func (a *App) openLogin() {
	title := "Sign in"
	if a.signUp {
		title = "Create account"
	}
	a.form = newForm(title,
		field{label: "Email", placeholder: "you@example.com"},
		field{label: "Password", placeholder: "at least 6 characters", secret: true},
	)
	a.formKind = formLogin
}

func (a *App) openForm(kind formKind, f *form) tea.Cmd {
	a.form = f
	a.formKind = kind
	return f.setFocus(0)
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
}

// redirect returns the route a view asked to move to, if any.
func (a *App) redirect() *views.Route {
	switch {
	case a.list != nil && a.list.Snapshot().Redirect != nil:
		return a.list.Snapshot().Redirect
	case a.detail != nil && a.detail.Snapshot().Redirect != nil:
		return a.detail.Snapshot().Redirect
	case a.nav != nil && a.nav.Snapshot().Redirect != nil:
		return a.nav.Snapshot().Redirect
	}
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionReadyMsg:
		a.ready = true
		if !msg.snap.Authenticated {
			return a, a.navigate(views.LoginRoute())
		}
		start := a.start
		if start.Kind == views.RouteLogin {
			start = views.ListRoute()
		}
		return a, a.navigate(start)

	case confirmMsg:
		req := msg.req
		a.pending = &req
		return a, waitForConfirm(a.prompts)

	case loginDoneMsg:
		a.busy--
		if msg.err != nil {
			a.loginErr = msg.err.Error()
			return a, nil
		}
		a.loginErr = ""
		return a, a.navigate(views.ListRoute())

	case signedOutMsg:
		a.busy--
		return a, a.navigate(views.LoginRoute())

	case opDoneMsg:
		a.busy--
		if r := a.redirect(); r != nil {
			return a, a.navigate(*r)
		}
		a.clampCursor()
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.ready {
		return a, nil
	}

	if a.pending != nil {
		switch key {
		case "y", "Y":
			a.pending.answer <- true
			a.pending = nil
		case "n", "N", "esc", "enter":
			a.pending.answer <- false
			a.pending = nil
		}
		return a, nil
	}

	if a.form != nil {
		return a.updateForm(msg)
	}

	switch a.route.Kind {
	case views.RouteList:
		return a.updateList(key)
	case views.RouteVendor:
		return a.updateDetail(key)
	}
	return a, nil
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if a.formKind != formLogin {
			a.closeForm()
		}
		return a, nil
	case "ctrl+n":
		if a.formKind == formLogin {
			a.signUp = !a.signUp
			a.loginErr = ""
			a.openLogin()
		}
		return a, nil
	case "enter":
		return a.submitForm()
	}
	return a, a.form.update(msg)
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	values := a.form.values()
	kind := a.formKind

	switch kind {
	case formLogin:
		a.busy++
		return a, loginCmd(a.ctx, a.store, a.signUp, values[0], values[1])

	case formVendorName:
		a.closeForm()
		list := a.list
		return a, a.run(func(ctx context.Context) error { return list.Create(ctx, values[0]) })

	case formBudget:
		a.closeForm()
		detail := a.detail
		return a, a.run(func(ctx context.Context) error { return detail.SaveBudget(ctx, values[0]) })

	case formCharge:
		a.closeForm()
		detail := a.detail
		draft := views.Draft{ChargeDate: values[0], Amount: values[1], InvoiceNumber: values[2], Notes: values[3]}
		return a, a.run(func(ctx context.Context) error { return detail.AddCharge(ctx, draft) })

	case formContact:
		a.closeForm()
		detail := a.detail
		return a, a.run(func(ctx context.Context) error { return detail.SaveContact(ctx, values[0], values[1]) })
	}
	return a, nil
}

func loginCmd(ctx context.Context, store remote.Store, signUp bool, email, password string) tea.Cmd {
	return func() tea.Msg {
		if signUp {
			if len(password) < models.MinPasswordLength {
				return loginDoneMsg{err: errPasswordTooShort}
			}
			if err := store.SignUp(ctx, email, password); err != nil {
				return loginDoneMsg{err: err}
			}
		}
		_, err := store.SignInWithPassword(ctx, email, password)
		return loginDoneMsg{err: err}
	}
}

func (a App) signOutCmd() tea.Cmd {
	nav := a.nav
	if nav == nil {
		nav = views.NewNavShell(a.store, a.sess, a.bus)
	}
	ctx := a.ctx
	return func() tea.Msg {
		// The local session is gone even when the server call fails.
		_, _ = nav.SignOut(ctx)
		return signedOutMsg{}
	}
}

func (a App) updateList(key string) (tea.Model, tea.Cmd) {
	snap := a.list.Snapshot()

	switch key {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(snap.Vendors)-1 {
			a.cursor++
		}
	case "enter":
		if a.cursor < len(snap.Vendors) {
			return a, a.navigate(views.VendorRoute(snap.Vendors[a.cursor].ID))
		}
	case "n":
		return a, a.openForm(formVendorName, newForm("New vendor", field{label: "Name", placeholder: "Acme Ltd"}))
	case "d":
		if a.cursor < len(snap.Vendors) {
			id := snap.Vendors[a.cursor].ID
			list, confirm := a.list, a.confirmer()
			return a, a.run(func(ctx context.Context) error { return list.Delete(ctx, id, confirm) })
		}
	case "r":
		return a, a.run(a.list.Load)
	case "s":
		a.busy++
		return a, a.signOutCmd()
	}
	return a, nil
}

func (a App) updateDetail(key string) (tea.Model, tea.Cmd) {
	snap := a.detail.Snapshot()
	detail := a.detail

	switch key {
	case "q":
		return a, tea.Quit
	case "esc", "backspace":
		return a, a.navigate(views.ListRoute())
	case "1", "2", "3":
		category := models.BudgetTypes[int(key[0]-'1')]
		a.cursor = 0
		return a, a.run(func(ctx context.Context) error { return detail.SetCategory(ctx, category) })
	case "tab", "right", "left":
		step := 1
		if key == "left" {
			step = len(models.BudgetTypes) - 1
		}
		category := models.BudgetTypes[(categoryIndex(snap.Category)+step)%len(models.BudgetTypes)]
		a.cursor = 0
		return a, a.run(func(ctx context.Context) error { return detail.SetCategory(ctx, category) })
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(snap.Charges)-1 {
			a.cursor++
		}
	case "b":
		return a, a.openForm(formBudget, newForm(
			"Annual budget · "+snap.Category.Label(),
			field{label: "Budget", placeholder: "0", value: snap.BudgetInput},
		))
	case "c":
		return a, a.openForm(formCharge, newForm(
			"Add charge · "+snap.Category.Label(),
			field{label: "Date (YYYY-MM-DD)", value: snap.Draft.ChargeDate},
			field{label: "Amount", placeholder: "0.00", value: snap.Draft.Amount},
			field{label: "Invoice number", value: snap.Draft.InvoiceNumber},
			field{label: "Notes", value: snap.Draft.Notes},
		))
	case "e":
		name, email := "", ""
		if snap.Vendor != nil {
			name, email = deref(snap.Vendor.ContactName), deref(snap.Vendor.ContactEmail)
		}
		return a, a.openForm(formContact, newForm("Contact",
			field{label: "Contact name", value: name},
			field{label: "Contact email", value: email},
		))
	case "d":
		if a.cursor < len(snap.Charges) {
			id := snap.Charges[a.cursor].ID
			confirm := a.confirmer()
			return a, a.run(func(ctx context.Context) error { return detail.DeleteCharge(ctx, id, confirm) })
		}
	case "r":
		return a, a.run(detail.Load)
	case "s":
		a.busy++
		return a, a.signOutCmd()
	}
	return a, nil
}

func (a *App) clampCursor() {
	n := 0
	switch {
	case a.list != nil:
		n = len(a.list.Snapshot().Vendors)
	case a.detail != nil:
		n = len(a.detail.Snapshot().Charges)
	}
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func categoryIndex(t models.BudgetType) int {
	for i, c := range models.BudgetTypes {
		if c == t {
			return i
		}
	}
	return 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
