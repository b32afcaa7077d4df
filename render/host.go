// Package render is the terminal host: it draws the islands and time machine
// with tcell, turns mouse clicks into hit lists and shows session events on the HUD.
package render

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lixenwraith/timeforge/core"
	"github.com/lixenwraith/timeforge/engine"
	"github.com/lixenwraith/timeforge/event"
	"github.com/lixenwraith/timeforge/interaction"
	"github.com/lixenwraith/timeforge/parameter"
)

const helpText = "click islands to gather | click the machine to upgrade | p pause | u upgrade | q quit"

// HostOption customizes a Host
type HostOption func(*Host)

// WithMonochrome disables RGB styling
func WithMonochrome() HostOption {
	return func(h *Host) { h.mono = true }
}

// WithLanguage sets the number formatting locale
func WithLanguage(tag language.Tag) HostOption {
	return func(h *Host) { h.printer = message.NewPrinter(tag) }
}

// Host draws one session on a tcell screen
type Host struct {
	screen  tcell.Screen
	session *engine.Session
	art     *ArtLoader
	printer *message.Printer
	mono    bool

	mu          sync.Mutex
	layout      Layout
	notice      string
	noticeColor RGB
	noticeUntil int64
	lastButtons tcell.ButtonMask
	bindings    map[rune]func()
}

// NewHost lays out the session's targets on screen
// art may be nil when no asset loader was given to the session
func NewHost(screen tcell.Screen, session *engine.Session, art *ArtLoader, opts ...HostOption) *Host {
	h := &Host{
		screen:   screen,
		session:  session,
		art:      art,
		printer:  message.NewPrinter(language.English),
		bindings: make(map[rune]func()),
	}
	for _, opt := range opts {
		opt(h)
	}
	w, hh := screen.Size()
	h.layout = NewLayout(w, hh, session.Resolver())
	return h
}

// Bind runs fn when rune r is typed
func (h *Host) Bind(r rune, fn func()) {
	h.mu.Lock()
	h.bindings[r] = fn
	h.mu.Unlock()
}

// Layout returns the current layout
func (h *Host) Layout() Layout {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.layout
}

// HitTest returns the regions under (x, y), nearest first
func (h *Host) HitTest(x, y int) []interaction.Hit {
	return h.Layout().HitTest(x, y)
}

// Notice returns the HUD notice text, empty when none is showing
func (h *Host) Notice() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session.Snapshot().Frame > h.noticeUntil {
		return ""
	}
	return h.notice
}

// HandleInput applies one tcell event; returns false when the player quits
func (h *Host) HandleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return h.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		h.HandleMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		h.screen.Sync()
		h.Resize()
	}
	return true
}

// HandleKey applies a key press; returns false on quit
func (h *Host) HandleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch r {
	case 'q', 'Q':
		return false
	case 'p', 'P':
		h.session.TogglePause()
	case 'u', 'U':
		h.session.AttemptUpgrade()
	default:
		h.mu.Lock()
		fn := h.bindings[r]
		h.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
	return true
}

// HandleMouse forwards a primary button press to the session
// Only the press edge counts; holding the button does not repeat
func (h *Host) HandleMouse(x, y int, buttons tcell.ButtonMask) (interaction.Resolution, bool) {
	h.mu.Lock()
	pressed := buttons&tcell.Button1 != 0 && h.lastButtons&tcell.Button1 == 0
	h.lastButtons = buttons
	hits := h.layout.HitTest(x, y)
	h.mu.Unlock()

	if !pressed {
		return interaction.Resolution{}, false
	}
	return h.session.HandlePointer(interaction.Pointer{X: x, Y: y}, hits), true
}

// Resize recomputes the layout for the current screen size
func (h *Host) Resize() {
	w, hh := h.screen.Size()
	h.mu.Lock()
	h.layout = NewLayout(w, hh, h.session.Resolver())
	h.mu.Unlock()
}

// HandleEvent turns session events into HUD notices
func (h *Host) HandleEvent(_ *engine.Session, ev event.GameEvent) {
	switch ev.Type {
	case event.EventUpgradeRejected:
		p := ev.Payload.(*event.UpgradeRejectedPayload)
		var parts []string
		for _, rt := range core.ResourceTypes() {
			if p.Missing[rt] > 0 {
				parts = append(parts, h.printer.Sprintf("%d %s", p.Missing[rt], rt))
			}
		}
		h.setNotice(ev.Frame, RGBAlert, "Need "+strings.Join(parts, ", "))
	case event.EventAlreadyMaxTier:
		h.setNotice(ev.Frame, RGBReady, "The time machine is complete")
	case event.EventTierAdvanced:
		p := ev.Payload.(*event.TierAdvancedPayload)
		h.setNotice(ev.Frame, RGBMachine, h.printer.Sprintf("Time machine upgraded to tier %d", p.Tier))
	case event.EventWinConditionReached:
		h.setNotice(ev.Frame, RGBReady, "You built the time machine!")
	case event.EventDisruptionEvaluated:
		if p := ev.Payload.(*event.DisruptionEvaluatedPayload); p.Triggered {
			h.setNotice(ev.Frame, RGBAlert, "A storm sweeps the islands")
		}
	case event.EventDisruptionApplied:
		p := ev.Payload.(*event.DisruptionAppliedPayload)
		h.mu.Lock()
		h.notice += h.printer.Sprintf(" | -%d %s", p.Amount, p.Resource)
		h.mu.Unlock()
	case event.EventAssetSwapFailed:
		p := ev.Payload.(*event.AssetSwapFailedPayload)
		h.setNotice(ev.Frame, RGBAlert, h.printer.Sprintf("Machine drawing for tier %d unavailable (try %d)", p.Tier, p.Attempt))
	}
}

// EventTypes lists the events shown on the HUD
func (h *Host) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventUpgradeRejected,
		event.EventAlreadyMaxTier,
		event.EventTierAdvanced,
		event.EventWinConditionReached,
		event.EventDisruptionEvaluated,
		event.EventDisruptionApplied,
		event.EventAssetSwapFailed,
	}
}

func (h *Host) setNotice(frame int64, c RGB, text string) {
	h.mu.Lock()
	h.notice = text
	h.noticeColor = c
	h.noticeUntil = frame + parameter.NoticeFrames
	h.mu.Unlock()
}

func (h *Host) style(fg, bg RGB) tcell.Style {
	if h.mono {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(fg.Color()).Background(bg.Color())
}

// Draw renders the current session state and shows the frame
func (h *Host) Draw() {
	st := h.session.Snapshot()

	h.mu.Lock()
	layout := h.layout
	notice, noticeColor := h.notice, h.noticeColor
	if st.Frame > h.noticeUntil {
		notice = ""
	}
	h.mu.Unlock()

	sky := SkyColor(st.Daylight, parameter.DaylightMin)
	base := h.style(RGBHUD, sky)
	h.screen.Fill(' ', base)

	for _, r := range layout.Regions {
		if r.Target.Kind == interaction.TargetUpgrade {
			h.drawMachine(r, st, sky)
		} else {
			h.drawIsland(r, st, sky)
		}
	}

	hud := h.printer.Sprintf("TIME MACHINE tier %d/%d", st.Tier, st.MaxTier)
	if st.Paused {
		hud += "  [PAUSED]"
	}
	switch {
	case st.Won:
		hud += "  COMPLETE"
	case st.HasNext:
		hud += "  next: " + h.costText(st)
	}
	h.drawText(0, 0, hud, base)

	// Notices take over the help row while they last
	if notice != "" {
		h.drawText(0, layout.Height-1, notice, h.style(noticeColor, sky))
	} else {
		h.drawText(0, layout.Height-1, helpText, h.style(Scale(RGBHUD, 0.7), sky))
	}

	h.screen.Show()
}

func (h *Host) costText(st engine.State) string {
	uniform := true
	for _, c := range st.NextCost {
		uniform = uniform && c == st.NextCost[0]
	}
	if uniform {
		return h.printer.Sprintf("%d each", st.NextCost[0])
	}

	parts := make([]string, 0, core.ResourceCount)
	for _, rt := range core.ResourceTypes() {
		if st.NextCost[rt] > 0 {
			parts = append(parts, h.printer.Sprintf("%d %s", st.NextCost[rt], rt))
		}
	}
	if len(parts) == 0 {
		return "free"
	}
	return strings.Join(parts, ", ")
}

func (h *Host) drawIsland(r Region, st engine.State, sky RGB) {
	rt := r.Target.Resource
	c := ResourceColor(rt)
	h.drawBox(r, h.style(c, sky))

	fill := h.style(RGBHUD, Scale(c, 0.35))
	for y := r.Y + 1; y < r.Y+r.H-1; y++ {
		for x := r.X + 1; x < r.X+r.W-1; x++ {
			h.screen.SetContent(x, y, ' ', nil, fill)
		}
	}
	h.drawCentered(r, r.Y+1, h.printer.Sprintf("%s: %d", rt, st.Counts[rt]), fill)
	if st.HasNext && st.NextCost[rt] > 0 {
		need := h.printer.Sprintf("%d/%d", min(st.Counts[rt], st.NextCost[rt]), st.NextCost[rt])
		h.drawCentered(r, r.Y+r.H-2, need, fill)
	}
}

func (h *Host) drawMachine(r Region, st engine.State, sky RGB) {
	frame := h.style(RGBMachine, sky)
	h.drawBox(r, frame)

	tier := st.Tier
	if h.art != nil {
		tier = h.art.Installed()
	}
	lines, _ := MachineArt(tier)
	for i, line := range lines {
		if r.Y+1+i >= r.Y+r.H-2 {
			break
		}
		h.drawCentered(r, r.Y+1+i, line, frame)
	}

	switch {
	case st.Won:
		h.drawCentered(r, r.Y+r.H-2, "Complete", h.style(RGBReady, sky))
	case st.Affordable:
		h.drawCentered(r, r.Y+r.H-2, "Update", h.style(RGBReady, sky))
	default:
		h.drawCentered(r, r.Y+r.H-2, h.printer.Sprintf("Tier %d", st.Tier), frame)
	}
}

func (h *Host) drawBox(r Region, style tcell.Style) {
	x2, y2 := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < x2; x++ {
		h.screen.SetContent(x, r.Y, tcell.RuneHLine, nil, style)
		h.screen.SetContent(x, y2, tcell.RuneHLine, nil, style)
	}
	for y := r.Y + 1; y < y2; y++ {
		h.screen.SetContent(r.X, y, tcell.RuneVLine, nil, style)
		h.screen.SetContent(x2, y, tcell.RuneVLine, nil, style)
	}
	h.screen.SetContent(r.X, r.Y, tcell.RuneULCorner, nil, style)
	h.screen.SetContent(x2, r.Y, tcell.RuneURCorner, nil, style)
	h.screen.SetContent(r.X, y2, tcell.RuneLLCorner, nil, style)
	h.screen.SetContent(x2, y2, tcell.RuneLRCorner, nil, style)
}

func (h *Host) drawCentered(r Region, y int, text string, style tcell.Style) {
	runes := []rune(text)
	inner := r.W - 2
	if len(runes) > inner {
		runes = runes[:inner]
	}
	x := r.X + 1 + (inner-len(runes))/2
	h.drawText(x, y, string(runes), style)
}

func (h *Host) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		h.screen.SetContent(x+i, y, ch, nil, style)
	}
}
