package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps key sequences to commands.
// Sequences use spacemacs notation: "SPC m" is space then m; single keys are
// written as Bubble Tea reports them ("tab", "ctrl+c", "[").
type KeybindRegistry struct {
	bindings     map[string]tea.Cmd
	descriptions map[string]string
	modes        map[string][]AppMode // absent = every mode
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
		modes:        make(map[string][]AppMode),
	}
}

// Bind registers seq without a description.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDesc(seq, cmd, "")
}

// BindWithDesc registers seq for every mode.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	r.BindForModes(seq, cmd, desc)
}

// BindForModes registers seq; its hint is only listed in the given modes.
// With no modes the binding is global.
func (r *KeybindRegistry) BindForModes(seq string, cmd tea.Cmd, desc string, modes ...AppMode) {
	n := normalizeSeq(seq)
	r.bindings[n] = cmd
	if desc != "" {
		r.descriptions[n] = desc
	}
	if len(modes) > 0 {
		r.modes[n] = modes
	}
}

// Lookup returns the command bound to seq, or nil.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.bindings[normalizeSeq(seq)]
}

// HasPrefix reports whether a longer binding continues seq.
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	prefix := normalizeSeq(seq) + " "
	for k := range r.bindings {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// submenuLabel names leader keys that open a second level.
var submenuLabel = map[string]string{
	"v": "View",
}

// LeaderHints returns the next keys after currentSeq ("" means right after
// SPC) with their descriptions, for the given mode.
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode AppMode) map[string]string {
	prefix := "SPC "
	if currentSeq != "" {
		prefix = normalizeSeq(currentSeq) + " "
	}
	out := make(map[string]string)
	for seq, cmd := range r.bindings {
		if cmd == nil || !strings.HasPrefix(seq, prefix) || !r.appliesTo(seq, mode) {
			continue
		}
		next := strings.Fields(strings.TrimPrefix(seq, prefix))[0]
		if r.HasPrefix(prefix + next) {
			if label, ok := submenuLabel[next]; ok {
				out[next] = label
			} else {
				out[next] = next + "…"
			}
			continue
		}
		if d := r.descriptions[seq]; d != "" {
			out[next] = d
		} else {
			out[next] = seq
		}
	}
	return out
}

// Bindings converts LeaderHints into sorted help bindings, ending with esc.
func (r *KeybindRegistry) Bindings(currentSeq string, mode AppMode) []key.Binding {
	hints := r.LeaderHints(currentSeq, mode)
	if len(hints) == 0 {
		return nil
	}
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	return append(out, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

func (r *KeybindRegistry) appliesTo(seq string, mode AppMode) bool {
	modes, ok := r.modes[seq]
	if !ok {
		return true
	}
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

// normalizeSeq writes space as SPC.
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}

// KeyHandler tracks the leader state and dispatches to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderWaiting bool
	Buffer        []string // sequence typed so far, starting with SPC
}

// NewKeyHandler creates a handler with SPC as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Current returns the pending leader sequence, or "".
func (h *KeyHandler) Current() string {
	return strings.Join(h.Buffer, " ")
}

// Handle processes a key. consumed means views must not see it.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	s := msg.String()

	if s == "esc" {
		if h.LeaderWaiting {
			h.reset()
			return true, nil
		}
		return false, nil
	}

	// Bubble Tea reports space as " ".
	if s == " " && !h.LeaderWaiting {
		h.LeaderWaiting = true
		h.Buffer = []string{"SPC"}
		return true, nil
	}

	if h.LeaderWaiting {
		h.Buffer = append(h.Buffer, keyToSeqPart(s))
		seq := h.Current()
		if c := h.Registry.Lookup(seq); c != nil {
			h.reset()
			return true, c
		}
		if !h.Registry.HasPrefix(seq) {
			h.reset()
		}
		return true, nil
	}

	if c := h.Registry.Lookup(s); c != nil {
		return true, c
	}
	return false, nil
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}
