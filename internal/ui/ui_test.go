package ui

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/cometcondo/internal/engine"
	"github.com/DaanHessen/cometcondo/internal/util"
)

type stubGateway struct{}

func (stubGateway) PropertyRender(context.Context, engine.Property) (engine.ImageRef, error) {
	return engine.ImageRef{MIMEType: "image/png", Data: []byte("render")}, nil
}

func (stubGateway) AvatarRender(context.Context, engine.ImageRef, engine.AvatarDesign) (engine.ImageRef, error) {
	return engine.ImageRef{MIMEType: "image/png", Data: []byte("avatar")}, nil
}

var fixedNow = time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) model {
	t.Helper()
	catalog, err := engine.LoadCatalog()
	require.NoError(t, err)
	seed, err := engine.NewSessionSeed("ui-test")
	require.NoError(t, err)
	cfg := util.Defaults()
	cfg.Target = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	cfg.ReceiptsDir = t.TempDir()
	return newModel(context.Background(), Deps{
		Config:  cfg,
		Catalog: catalog,
		Gateway: stubGateway{},
		Seed:    seed,
		Now:     func() time.Time { return fixedNow },
	})
}

func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	out, _ := m.Update(msg)
	next, ok := out.(model)
	require.True(t, ok)
	return next
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = send(t, m, msg)
	}
	return m
}

func TestCountdownStartsFromNow(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, engine.Breakdown{Hours: 1}, m.remaining)
	assert.Contains(t, m.View(), "CONSCIOUSNESS TRANSFER IN:")
}

func TestCountdownStopsAtTarget(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, tickMsg{id: m.tickID + 1, at: fixedNow.Add(30 * time.Minute)})
	assert.Equal(t, engine.Breakdown{Hours: 1}, m.remaining, "foreign tick ignored")

	out, cmd := m.Update(tickMsg{id: m.tickID, at: m.cfg.Target.Add(time.Second)})
	m = out.(model)
	assert.True(t, m.remaining.Expired())
	assert.Nil(t, cmd, "no further ticks once expired")
}

func TestDetailImageRequest(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "l", "enter")
	p, ok := m.flow.Viewing()
	require.True(t, ok)
	assert.Equal(t, 2, p.ID)
	assert.Contains(t, m.View(), "Request Image from Comet")

	m = press(t, m, "g")
	assert.True(t, m.flow.Generating(2))
	m = press(t, m, "g")
	assert.Equal(t, 1, m.flow.InFlight(), "no duplicate request while in flight")
	assert.Contains(t, m.View(), "downloading image through StarCast Teleporter connection...")

	m = send(t, m, imageResultMsg{property: 2, ref: engine.ImageRef{MIMEType: "image/png", Data: []byte("x")}})
	p, _ = m.flow.Viewing()
	assert.True(t, p.Generated)
	view := m.View()
	assert.Contains(t, view, "Image Received")
	assert.Contains(t, view, "AI Generated 3D Render")
}

func TestDetailImageFailureIsRetryable(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "enter", "g")
	m = send(t, m, imageResultMsg{property: 1, err: errors.New("offline")})
	assert.False(t, m.flow.Generating(1))
	assert.Contains(t, m.View(), "Transmission failed")

	m = press(t, m, "g")
	assert.True(t, m.flow.Generating(1))
}

func TestMapMountsFreshDrawEachVisit(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "t")
	require.Equal(t, engine.ScreenMap, m.flow.Screen())
	require.NotNil(t, m.tmap)
	assert.Len(t, m.tmap.cities, m.cfg.CityCount)
	first := append([]engine.City{}, m.tmap.cities...)
	assert.Contains(t, m.View(), "STARCAST TELEPORTER NETWORK")

	m = press(t, m, "esc")
	assert.Nil(t, m.tmap, "map torn down on leave")
	m = press(t, m, "t")
	require.NotNil(t, m.tmap)
	assert.Equal(t, 2, m.mapMounts)
	assert.NotEqual(t, first, m.tmap.cities)
}

func TestMapNavigation(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "t")
	start, _ := m.tmap.hovered()
	m = press(t, m, "l")
	next, _ := m.tmap.hovered()
	assert.GreaterOrEqual(t, next.Lng, start.Lng, "right moves east")
	m = press(t, m, "h", "h")
	wrapped, _ := m.tmap.hovered()
	assert.Equal(t, m.tmap.cities[len(m.tmap.cities)-1], wrapped, "left from the west edge wraps")

	m = press(t, m, "enter")
	assert.Equal(t, engine.ScreenCatalog, m.flow.Screen())
	c, ok := m.flow.City()
	require.True(t, ok)
	assert.Equal(t, wrapped, c)
	assert.Contains(t, m.View(), "Chosen Teleporter Location:")
}

func TestMapRendersOnShortTerminals(t *testing.T) {
	for _, height := range []int{1, 5, 8, 10, 11, 40} {
		m := newTestModel(t)
		m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: height})
		m = press(t, m, "t")
		require.Equal(t, engine.ScreenMap, m.flow.Screen())

		view := m.View()
		require.NoError(t, m.crash.err, "height %d", height)
		assert.Contains(t, view, "STARCAST TELEPORTER NETWORK", "height %d", height)
	}
}

func TestProjectDegenerateGrid(t *testing.T) {
	x, y := project(45, 90, 0, -3)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}

func TestFullPurchaseJourney(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "enter", "esc", "t", "enter")
	require.Equal(t, engine.ScreenDesigner, m.flow.Screen())
	d := m.designer
	require.NotNil(t, d)
	assert.Contains(t, m.View(), "DESIGN YOUR BESPOKE MEAT SUIT")

	m = press(t, m, "f")
	assert.False(t, d.Finalizing(), "cannot finalize without a render")

	m = send(t, m, photoLoadedMsg{designer: d, ref: engine.ImageRef{MIMEType: "image/png", Data: []byte("me")}})
	assert.Equal(t, engine.PhaseUploaded, d.Phase())

	m = press(t, m, "j", "l")
	assert.Equal(t, "bioluminescent blue skin", d.Design().Skin)

	m = press(t, m, "g")
	require.Equal(t, engine.PhaseGenerating, d.Phase())
	m = send(t, m, avatarResultMsg{designer: d, ref: engine.ImageRef{MIMEType: "image/png", Data: []byte("avatar")}})
	require.Equal(t, engine.PhaseGenerated, d.Phase())

	m = press(t, m, "f")
	require.True(t, d.Finalizing())
	m = send(t, m, commitMsg{commitment: engine.Commitment{Kind: engine.CommitDesign, Design: d.Design()}, designer: d})
	require.Equal(t, engine.PanelPayment, m.flow.Panel())
	assert.Nil(t, m.designer, "designer unmounted")
	require.NotNil(t, m.payment)
	assert.True(t, m.formFocused)
	assert.Equal(t, 10, m.payment.Price())
	assert.Contains(t, m.View(), "Finalize Consciousness Transfer")

	m = press(t, m, "enter")
	assert.False(t, m.payment.Submitting(), "empty wallet blocks submit")
	assert.NotEmpty(t, m.paymentErr)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("bc1qexample")})
	assert.Equal(t, "bc1qexample", m.payment.Wallet())
	m = press(t, m, "enter")
	require.True(t, m.payment.Submitting())
	assert.Contains(t, m.View(), "Transmitting Deposit...")

	m = send(t, m, commitMsg{commitment: engine.Commitment{Kind: engine.CommitDeposit, Wallet: "bc1qexample", City: "x"}, form: m.payment})
	assert.True(t, m.flow.PaymentSubmitted())
	assert.Nil(t, m.payment)
	assert.Equal(t, engine.PanelConfirmation, m.flow.Panel())

	m = press(t, m, "e")
	require.True(t, strings.HasSuffix(m.exportStatus, ".pdf"), m.exportStatus)
	info, err := os.Stat(m.exportStatus)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFailedDepositKeepsForm(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "enter", "esc", "t", "enter")
	d := m.designer
	m = send(t, m, photoLoadedMsg{designer: d, ref: engine.ImageRef{Data: []byte("me")}})
	m = press(t, m, "g")
	m = send(t, m, avatarResultMsg{designer: d, ref: engine.ImageRef{Data: []byte("a")}})
	m = press(t, m, "f")
	m = send(t, m, commitMsg{commitment: engine.Commitment{Kind: engine.CommitDesign, Design: d.Design()}, designer: d})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("wallet")})
	m = press(t, m, "enter")
	m = send(t, m, commitMsg{commitment: engine.Commitment{Kind: engine.CommitDeposit}, form: m.payment, err: errors.New("link down")})
	assert.False(t, m.flow.PaymentSubmitted())
	require.NotNil(t, m.payment)
	assert.False(t, m.payment.Submitting())
	assert.NotEmpty(t, m.paymentErr)
}

// designAndPay drives a fresh journey for the property under the cursor up
// to the payment panel.
func designAndPay(t *testing.T, m model) model {
	t.Helper()
	d := m.designer
	require.NotNil(t, d)
	m = send(t, m, photoLoadedMsg{designer: d, ref: engine.ImageRef{Data: []byte("me")}})
	m = press(t, m, "g")
	m = send(t, m, avatarResultMsg{designer: d, ref: engine.ImageRef{Data: []byte("a")}})
	m = press(t, m, "f")
	require.True(t, d.Finalizing())
	m = send(t, m, commitMsg{commitment: engine.Commitment{Kind: engine.CommitDesign, Design: d.Design()}, designer: d})
	require.Equal(t, engine.PanelPayment, m.flow.Panel())
	return m
}

func TestLateDepositForReplacedFormIgnored(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "enter", "esc", "t", "enter")
	m = designAndPay(t, m)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("oldwallet")})
	m = press(t, m, "enter")
	old := m.payment
	require.True(t, old.Submitting())

	// picking another property restarts the journey while the deposit is in flight
	m = press(t, m, "tab", "2")
	require.Equal(t, engine.ScreenDesigner, m.flow.Screen())
	second, _ := m.flow.PurchaseCandidate()
	m = designAndPay(t, m)
	require.NotSame(t, old, m.payment)
	assert.Empty(t, m.payment.Wallet())

	m = send(t, m, commitMsg{commitment: engine.Commitment{Kind: engine.CommitDeposit, Wallet: "oldwallet"}, form: old})
	assert.False(t, m.flow.PaymentSubmitted())
	assert.Equal(t, engine.PanelPayment, m.flow.Panel())
	p, _ := m.flow.PurchaseCandidate()
	assert.Equal(t, second.ID, p.ID)
}

func TestLateDesignCommitForReplacedDesignerIgnored(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "enter", "esc", "t", "enter")
	old := m.designer
	m = send(t, m, photoLoadedMsg{designer: old, ref: engine.ImageRef{Data: []byte("me")}})
	m = press(t, m, "g")
	m = send(t, m, avatarResultMsg{designer: old, ref: engine.ImageRef{Data: []byte("a")}})
	require.True(t, old.CanFinalize())

	m = press(t, m, "t", "l", "enter")
	require.NotSame(t, old, m.designer)

	m = send(t, m, commitMsg{commitment: engine.Commitment{Kind: engine.CommitDesign, Design: old.Design()}, designer: old})
	assert.Equal(t, engine.ScreenDesigner, m.flow.Screen())
	assert.NotEqual(t, engine.PanelPayment, m.flow.Panel())

	// a completion for the mounted designer without a pending finalize is ignored too
	m = send(t, m, commitMsg{commitment: engine.Commitment{Kind: engine.CommitDesign, Design: m.designer.Design()}, designer: m.designer})
	assert.Equal(t, engine.ScreenDesigner, m.flow.Screen())
	assert.False(t, m.designer.Finalized())
}

func TestStaleAvatarResultIgnored(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "enter", "esc", "t", "enter")
	old := m.designer
	m = send(t, m, photoLoadedMsg{designer: old, ref: engine.ImageRef{Data: []byte("me")}})
	m = press(t, m, "g")
	require.Equal(t, engine.PhaseGenerating, old.Phase())

	// choosing another city restarts the journey and remounts the designer
	m = press(t, m, "t", "l", "enter")
	require.NotNil(t, m.designer)
	require.NotSame(t, old, m.designer)

	m = send(t, m, avatarResultMsg{designer: old, ref: engine.ImageRef{Data: []byte("late")}})
	assert.Equal(t, engine.PhaseNoPhoto, m.designer.Phase())
}

func TestThemeCycles(t *testing.T) {
	m := newTestModel(t)
	before := m.themeName
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.NotEqual(t, before, m.themeName)
}

func TestPanicBoundary(t *testing.T) {
	m := newTestModel(t)
	m.flow = nil

	m = press(t, m, "enter")
	require.Error(t, m.crash.err)
	assert.Contains(t, m.View(), "System Malfunction")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd, "input ignored after a malfunction")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHalfBlocksRejectsUndecodable(t *testing.T) {
	_, err := halfBlocks([]byte("not an image"), 10, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image")
}

func TestMaskWallet(t *testing.T) {
	assert.Equal(t, "****", maskWallet("short"))
	assert.Equal(t, "bc1q…mple", maskWallet("bc1qexample"))
}
