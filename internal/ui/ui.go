package ui

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/DaanHessen/cometcondo/internal/engine"
	"github.com/DaanHessen/cometcondo/internal/imagegen"
	"github.com/DaanHessen/cometcondo/internal/util"
)

const generationTimeout = 2 * time.Minute

// Deps are the collaborators the UI needs. Now defaults to time.Now.
type Deps struct {
	Config    util.Config
	Catalog   *engine.Catalog
	Gateway   imagegen.Gateway
	Committer engine.Committer
	Seed      engine.SessionSeed
	Logger    *zap.Logger
	Now       func() time.Time
}

// crash is shared by every copy of the model so a panic caught in View
// survives into the next Update.
type crash struct {
	once  sync.Once
	err   error
	stack string
}

type model struct {
	ctx       context.Context
	cfg       util.Config
	log       *zap.Logger
	flow      *engine.Flow
	gateway   imagegen.Gateway
	committer engine.Committer
	seed      engine.SessionSeed
	now       func() time.Time

	themeName string
	theme     palette
	styles    styles
	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	width     int
	height    int

	// catalog
	cursor int

	// countdown; only the tick carrying tickID reschedules
	remaining engine.Breakdown
	tickID    int

	// map widget, mounted while the map screen is shown
	tmap      *teleporterMap
	mapMounts int

	// designer, mounted while the designer screen is shown
	designer   *engine.Designer
	picker     filepicker.Model
	picking    bool
	axisCursor int
	uploadErr  string

	// payment form, mounted while the payment panel is shown
	payment     *engine.PaymentForm
	wallet      textinput.Model
	formFocused bool
	paymentErr  string

	exportStatus string
	previews     map[previewKey]string
	markdown     map[string]string
	crash        *crash
}

// messages ---------------------------------------------------------------

type tickMsg struct {
	id int
	at time.Time
}

type imageResultMsg struct {
	property int
	ref      engine.ImageRef
	err      error
}

type avatarResultMsg struct {
	designer *engine.Designer
	ref      engine.ImageRef
	err      error
}

type photoLoadedMsg struct {
	designer *engine.Designer
	ref      engine.ImageRef
	err      error
}

// commitMsg carries the designer or form that started the commit; a result
// for an instance that is no longer mounted is dropped.
type commitMsg struct {
	commitment engine.Commitment
	designer   *engine.Designer
	form       *engine.PaymentForm
	err        error
}

func newModel(ctx context.Context, deps Deps) model {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	committer := deps.Committer
	if committer == nil {
		committer = engine.SimulatedCommitter{Delay: deps.Config.CommitDelay}
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	m := model{
		ctx:       ctx,
		cfg:       deps.Config,
		log:       log,
		flow:      engine.NewFlow(deps.Catalog),
		gateway:   deps.Gateway,
		committer: committer,
		seed:      deps.Seed,
		now:       now,
		keys:      defaultKeys(),
		help:      help.New(),
		spinner:   sp,
		previews:  map[previewKey]string{},
		markdown:  map[string]string{},
		crash:     &crash{},
	}
	m.applyTheme(deps.Config.Theme)
	m.spinner.Style = m.styles.glow
	m.remaining = engine.Remaining(deps.Config.Target, now())
	return m
}

func (m *model) applyTheme(name string) {
	if _, ok := palettes[name]; !ok {
		name = "catppuccin"
	}
	m.themeName = name
	m.theme = paletteFor(name)
	m.styles = newStyles(m.theme)
	m.spinner.Style = m.styles.glow
}

func tick(id int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg{id: id, at: t} })
}

// tea.Model implementation ---------------------------------------------------

func (m model) Init() tea.Cmd {
	if m.remaining.Expired() {
		return m.spinner.Tick
	}
	return tea.Batch(tick(m.tickID), m.spinner.Tick)
}

// Update wraps update with the panic boundary. Once tripped, only quit keys
// are honoured for the rest of the session.
func (m model) Update(msg tea.Msg) (out tea.Model, cmd tea.Cmd) {
	if m.crash.err != nil {
		if k, ok := msg.(tea.KeyMsg); ok && (key.Matches(k, m.keys.Quit) || k.String() == "esc") {
			return m, tea.Quit
		}
		return m, nil
	}
	defer func() {
		if r := recover(); r != nil {
			m.trip(r)
			out, cmd = m, nil
		}
	}()
	return m.update(msg)
}

func (m *model) trip(r any) {
	m.crash.once.Do(func() {
		m.crash.err = errors.Errorf("panic: %v", r)
		m.crash.stack = string(debug.Stack())
		m.log.Error("uncaught panic", zap.Error(m.crash.err), zap.String("stack", m.crash.stack))
	})
}

func (m model) View() (out string) {
	if m.crash.err != nil {
		return m.renderFatal()
	}
	defer func() {
		if r := recover(); r != nil {
			m.trip(r)
			out = m.renderFatal()
		}
	}()
	switch m.flow.Screen() {
	case engine.ScreenMap:
		return m.renderMap()
	case engine.ScreenDesigner:
		return m.renderDesigner()
	default:
		if _, ok := m.flow.Viewing(); ok {
			return m.renderDetail()
		}
		return m.renderCatalog()
	}
}

func (m model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.designer != nil {
			var c tea.Cmd
			m.picker, c = m.picker.Update(pickerSize(msg.Width))
			cmds = append(cmds, c)
		}
	case tickMsg:
		if msg.id != m.tickID {
			return m, nil
		}
		m.remaining = engine.Remaining(m.cfg.Target, msg.at)
		if !m.remaining.Expired() {
			cmds = append(cmds, tick(m.tickID))
		}
	case spinner.TickMsg:
		var c tea.Cmd
		m.spinner, c = m.spinner.Update(msg)
		cmds = append(cmds, c)
	case imageResultMsg:
		m.handleImageResult(msg)
	case avatarResultMsg:
		if m.designer == msg.designer {
			m.designer.CompleteGenerate(msg.ref, msg.err)
		}
	case photoLoadedMsg:
		m.handlePhotoLoaded(msg)
	case commitMsg:
		m.handleCommit(msg)
	case tea.KeyMsg:
		c, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, c)
	default:
		if m.designer != nil {
			var c tea.Cmd
			m.picker, c = m.picker.Update(msg)
			cmds = append(cmds, c)
		}
	}
	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

// sync mounts and unmounts screen-owned components after every transition.
func (m *model) sync() tea.Cmd {
	var cmd tea.Cmd
	screen := m.flow.Screen()

	if screen == engine.ScreenMap && m.tmap == nil {
		m.mapMounts++
		m.tmap = newTeleporterMap(m.seed.Stream(fmt.Sprintf("map#%d", m.mapMounts)), m.flow.Catalog().Cities(), m.cfg.CityCount)
	} else if screen != engine.ScreenMap && m.tmap != nil {
		m.tmap = nil
	}

	if screen == engine.ScreenDesigner && m.designer == nil {
		m.designer = engine.NewDesigner()
		m.axisCursor = 0
		m.uploadErr = ""
		m.picking = false
		m.picker = newPhotoPicker()
		cmd = m.picker.Init()
		var c tea.Cmd
		m.picker, c = m.picker.Update(pickerSize(m.width))
		cmd = tea.Batch(cmd, c)
	} else if screen != engine.ScreenDesigner && m.designer != nil {
		m.designer = nil
		m.picking = false
	}

	if m.flow.Panel() == engine.PanelPayment && m.payment == nil {
		m.payment = engine.NewPaymentForm(m.flow)
		m.paymentErr = ""
		m.wallet = newWalletInput()
		m.formFocused = true
		cmd = tea.Batch(cmd, m.wallet.Focus())
	} else if m.flow.Panel() != engine.PanelPayment && m.payment != nil {
		m.payment = nil
		m.formFocused = false
		m.wallet.Blur()
	}

	if m.flow.Panel() != engine.PanelConfirmation {
		m.exportStatus = ""
	}
	return cmd
}

func newPhotoPicker() filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = imagegen.PhotoExtensions
	if dir, err := currentDir(); err == nil {
		fp.CurrentDirectory = dir
	}
	return fp
}

// pickerSize fits the auto-height file list inside the photo pane rather
// than the whole terminal.
func pickerSize(width int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: width, Height: 14}
}

func newWalletInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	ti.CharLimit = 128
	ti.Prompt = "> "
	return ti
}

// key handling ---------------------------------------------------------------

func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return nil, true
	}
	if key.Matches(msg, m.keys.Theme) {
		m.applyTheme(nextThemeName(m.themeName, 1))
		m.previews = map[previewKey]string{}
		return nil, false
	}
	switch m.flow.Screen() {
	case engine.ScreenMap:
		return m.handleMapKey(msg)
	case engine.ScreenDesigner:
		return m.handleDesignerKey(msg)
	}
	if _, ok := m.flow.Viewing(); ok {
		return m.handleDetailKey(msg)
	}
	if m.payment != nil && m.formFocused {
		return m.handlePaymentKey(msg)
	}
	return m.handleCatalogKey(msg)
}

func (m *model) handleCatalogKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	props := m.flow.Catalog().Properties()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(props)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(props) {
			m.selectProperty(props[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.Map):
		m.flow.OpenMap()
	case key.Matches(msg, m.keys.Focus):
		if m.payment != nil {
			m.formFocused = true
			return m.wallet.Focus(), false
		}
	case key.Matches(msg, m.keys.Export):
		if m.flow.Panel() == engine.PanelConfirmation {
			m.exportReceipt()
		}
	default:
		k := msg.String()
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			idx := int(k[0] - '1')
			if idx < len(props) {
				m.cursor = idx
				m.selectProperty(props[idx].ID)
			}
		}
	}
	return nil, false
}

func (m *model) selectProperty(id int) {
	if err := m.flow.SelectProperty(id); err != nil {
		m.log.Warn("select property", zap.Int("property", id), zap.Error(err))
	}
}

func (m *model) handleDetailKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Close):
		m.flow.CloseDetail()
	case key.Matches(msg, m.keys.Generate):
		p, _ := m.flow.Viewing()
		return m.requestPropertyImage(p.ID), false
	}
	return nil, false
}

func (m *model) handlePaymentKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "esc":
		m.formFocused = false
		m.wallet.Blur()
		return nil, false
	case "enter":
		return m.submitPayment(), false
	}
	if m.payment.Submitting() {
		return nil, false
	}
	var cmd tea.Cmd
	m.wallet, cmd = m.wallet.Update(msg)
	m.payment.SetWallet(m.wallet.Value())
	m.paymentErr = ""
	return cmd, false
}

func (m *model) handleMapKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.tmap == nil {
		return nil, false
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Close):
		m.flow.BackToCatalog()
	case key.Matches(msg, m.keys.Left):
		m.tmap.step(-1)
	case key.Matches(msg, m.keys.Right), msg.String() == "tab":
		m.tmap.step(1)
	case key.Matches(msg, m.keys.Up):
		m.tmap.nearest(-1)
	case key.Matches(msg, m.keys.Down):
		m.tmap.nearest(1)
	case key.Matches(msg, m.keys.Select):
		if c, ok := m.tmap.hovered(); ok {
			m.log.Info("teleporter selected", zap.String("city", c.Name))
			m.flow.SelectCity(c)
		}
	}
	return nil, false
}

func (m *model) handleDesignerKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	d := m.designer
	if d == nil {
		return nil, false
	}
	if m.picking {
		if key.Matches(msg, m.keys.Upload) {
			m.picking = false
			return nil, false
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.picking = false
			return tea.Batch(cmd, loadPhoto(d, path)), false
		}
		if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
			m.uploadErr = fmt.Sprintf("%s is not a supported image", path)
		}
		return cmd, false
	}
	axes := engine.ListAxes()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Map):
		if !d.Finalizing() {
			m.flow.OpenMap()
		}
	case key.Matches(msg, m.keys.Upload):
		if !d.Finalizing() {
			m.picking = true
			m.uploadErr = ""
		}
	case key.Matches(msg, m.keys.Up):
		if m.axisCursor > 0 {
			m.axisCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.axisCursor < len(axes)-1 {
			m.axisCursor++
		}
	case key.Matches(msg, m.keys.Left):
		d.Cycle(axes[m.axisCursor], -1)
	case key.Matches(msg, m.keys.Right):
		d.Cycle(axes[m.axisCursor], 1)
	case key.Matches(msg, m.keys.Generate):
		return m.requestAvatar(), false
	case key.Matches(msg, m.keys.Finalize):
		design, ok := d.BeginFinalize()
		if !ok {
			return nil, false
		}
		c := engine.Commitment{Kind: engine.CommitDesign, Design: design}
		if p, ok := m.flow.PurchaseCandidate(); ok {
			c.Property = p.ID
		}
		if city, ok := m.flow.City(); ok {
			c.City = city.Name
		}
		return m.commit(commitMsg{commitment: c, designer: d}), false
	}
	return nil, false
}

// async operations -------------------------------------------------------------

// requestPropertyImage issues at most one gateway call per property; the
// flow refuses while a render exists or a request is in flight.
func (m *model) requestPropertyImage(id int) tea.Cmd {
	p, ok := m.flow.BeginImageRequest(id)
	if !ok {
		return nil
	}
	gw, ctx := m.gateway, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, generationTimeout)
		defer cancel()
		ref, err := gw.PropertyRender(ctx, p)
		return imageResultMsg{property: p.ID, ref: ref, err: err}
	}
}

func (m *model) handleImageResult(msg imageResultMsg) {
	applied, err := m.flow.CompleteImageRequest(msg.property, msg.ref, msg.err)
	switch {
	case err != nil:
		m.log.Error("apply render", zap.Int("property", msg.property), zap.Error(err))
	case msg.err != nil:
		m.log.Warn("render failed", zap.Int("property", msg.property), zap.Error(msg.err))
	case applied:
		m.log.Info("render applied", zap.Int("property", msg.property), zap.Int("bytes", len(msg.ref.Data)))
	}
}

func (m *model) requestAvatar() tea.Cmd {
	d := m.designer
	photo, design, ok := d.BeginGenerate()
	if !ok {
		return nil
	}
	gw, ctx := m.gateway, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, generationTimeout)
		defer cancel()
		ref, err := gw.AvatarRender(ctx, photo, design)
		return avatarResultMsg{designer: d, ref: ref, err: err}
	}
}

func loadPhoto(d *engine.Designer, path string) tea.Cmd {
	return func() tea.Msg {
		ref, err := imagegen.LoadPhoto(path)
		return photoLoadedMsg{designer: d, ref: ref, err: err}
	}
}

func (m *model) handlePhotoLoaded(msg photoLoadedMsg) {
	if m.designer != msg.designer {
		return
	}
	if msg.err != nil {
		m.uploadErr = msg.err.Error()
		m.log.Warn("photo upload rejected", zap.Error(msg.err))
		return
	}
	m.uploadErr = ""
	m.designer.Upload(msg.ref)
	m.log.Info("photo uploaded", zap.String("mime", msg.ref.MIMEType), zap.Int("bytes", len(msg.ref.Data)))
}

func (m *model) submitPayment() tea.Cmd {
	if m.payment == nil {
		return nil
	}
	c, err := m.payment.BeginSubmit()
	if err != nil {
		if !m.payment.Submitting() {
			m.paymentErr = "Please enter your wallet address."
		}
		return nil
	}
	m.wallet.Blur()
	return m.commit(commitMsg{commitment: c, form: m.payment})
}

// commit runs the committer in the background and returns msg with its
// outcome filled in.
func (m *model) commit(msg commitMsg) tea.Cmd {
	committer, ctx := m.committer, m.ctx
	return func() tea.Msg {
		msg.err = committer.Commit(ctx, msg.commitment)
		return msg
	}
}

func (m *model) handleCommit(msg commitMsg) {
	switch msg.commitment.Kind {
	case engine.CommitDesign:
		if m.designer == nil || m.designer != msg.designer {
			m.log.Debug("stale design commit dropped")
			return
		}
		if !m.designer.CompleteFinalize(msg.err) {
			if msg.err != nil {
				m.log.Error("design commit failed", zap.Error(msg.err))
			}
			return
		}
		d := msg.commitment.Design
		if m.flow.FinalizeDesign(d) {
			m.log.Info("design finalized",
				zap.String("build", d.Build), zap.String("skin", d.Skin),
				zap.String("eyes", d.Eyes), zap.String("hair", d.Hair))
		}
	case engine.CommitDeposit:
		if m.payment == nil || m.payment != msg.form || !m.payment.Submitting() {
			m.log.Debug("stale deposit commit dropped")
			return
		}
		m.payment.CompleteSubmit()
		if msg.err != nil {
			m.paymentErr = "Deposit transmission failed. Please try again."
			m.log.Error("deposit commit failed", zap.Error(msg.err))
			return
		}
		if m.flow.SubmitPayment() {
			p, _ := m.flow.PurchaseCandidate()
			m.log.Info("deposit submitted",
				zap.Int("property", p.ID),
				zap.String("tier", string(p.Tier)),
				zap.String("city", msg.commitment.City),
				zap.String("wallet", maskWallet(msg.commitment.Wallet)))
		}
	}
}

func maskWallet(w string) string {
	if len(w) <= 8 {
		return "****"
	}
	return w[:4] + "…" + w[len(w)-4:]
}
