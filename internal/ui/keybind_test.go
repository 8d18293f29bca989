package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	reg.Bind("SPC q", tea.Quit)
	reg.Bind("j", nil)

	if reg.Lookup("q") == nil {
		t.Error("expected q to be bound")
	}
	if reg.Lookup("SPC q") == nil {
		t.Error("expected SPC q to be bound")
	}
	if reg.Lookup("unknown") != nil {
		t.Error("expected unknown to be unbound")
	}
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	var executed bool
	reg.Bind("SPC x", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	// Press space -> leader waiting (Bubble Tea reports space as " ")
	consumed, cmd := h.Handle(keyMsg(" "))
	if !consumed || cmd != nil {
		t.Errorf("space: consumed=%v cmd=%v", consumed, cmd)
	}
	if !h.LeaderWaiting {
		t.Error("expected leader waiting after space")
	}

	// Press x -> execute SPC x
	consumed, cmd = h.Handle(keyMsg("x"))
	if !consumed {
		t.Errorf("x: expected consumed")
	}
	if h.LeaderWaiting {
		t.Error("leader should not be waiting after completing sequence")
	}
	if cmd != nil {
		cmd()
		if !executed {
			t.Error("expected command to execute")
		}
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	if !h.LeaderWaiting {
		t.Fatal("expected leader waiting")
	}

	consumed, cmd := h.Handle(keyMsg("esc"))
	if !consumed || cmd != nil {
		t.Errorf("esc: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
}

func TestKeyHandler_SingleKey(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg("q"))
	if !consumed || cmd == nil {
		t.Errorf("q: consumed=%v cmd=%v", consumed, cmd)
	}
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, _ := h.Handle(keyMsg("j"))
	if consumed {
		t.Error("unbound j should not be consumed")
	}
}

func TestKeyHandler_UnknownLeaderSequenceResets(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC v p", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	consumed, cmd := h.Handle(keyMsg("v"))
	if !consumed || cmd != nil || !h.LeaderWaiting {
		t.Fatalf("SPC v: consumed=%v cmd=%v waiting=%v", consumed, cmd, h.LeaderWaiting)
	}
	consumed, cmd = h.Handle(keyMsg("z"))
	if !consumed || cmd != nil {
		t.Errorf("SPC v z: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting || h.Current() != "" {
		t.Errorf("unknown sequence should reset, buffer=%q", h.Current())
	}
}

func TestKeybindRegistry_LeaderHintsByMode(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC m", tea.Quit, "Toggle view")
	reg.BindWithDesc("SPC v p", tea.Quit, "Plot view")
	reg.BindForModes("SPC p", tea.Quit, "Play/pause", ModeMap)

	plot := reg.LeaderHints("", ModePlot)
	if plot["m"] != "Toggle view" || plot["v"] != "View" {
		t.Errorf("plot hints = %v", plot)
	}
	if _, ok := plot["p"]; ok {
		t.Error("map-only binding listed in plot mode")
	}
	if got := reg.LeaderHints("", ModeMap)["p"]; got != "Play/pause" {
		t.Errorf("map hint p = %q", got)
	}
	if got := reg.LeaderHints("SPC v", ModePlot)["p"]; got != "Plot view" {
		t.Errorf("submenu hint p = %q", got)
	}

	b := reg.Bindings("", ModePlot)
	if len(b) != 3 || b[len(b)-1].Help().Key != "esc" {
		t.Errorf("bindings = %v", b)
	}
}

// keyMsg creates a tea.KeyMsg for testing. Bubble Tea uses KeyType and Runes.
// KeySpace.String() returns " ", KeyEsc returns "esc", etc.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "q":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	case "x":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}
	case "j":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
