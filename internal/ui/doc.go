// Package ui is the terminal host of the dashboard, built on Bubble Tea.
//
// Core abstractions:
//   - View: a screen region with its own Init/Update/View (Elm-style)
//   - Layout: arranges panels; the sidebar holds the Control Panel and the
//     chart panel draws the current chart on a character canvas
//   - FocusManager: tracks and rotates focus across panels
//   - OverlayStack: modal pickers drawn over the dashboard
//   - KeyHandler: SPC leader sequences dispatched through a KeybindRegistry
//
// Every interaction rebuilds the Control Panel and the chart from the
// loaded dataset and the user's raw choices.
package ui
