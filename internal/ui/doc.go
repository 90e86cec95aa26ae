// Package ui is Folio's terminal interface, built on Bubble Tea.
//
// # Architecture
//
// Model never talks to the bookmark service. Key presses call transitions on
// a state.Controller; a transition that needs the network returns an Op,
// which runOp wraps in a tea.Cmd. The Op's Result comes back as a resultMsg,
// is applied to the controller, and the model re-reads Controller.Snapshot.
//
//	key "x" -> Controller.Archive(id) -> Op -> tea.Cmd
//	resultMsg -> Controller.Apply -> Model.sync -> View
//
// # Files
//
//   - app.go: Model, Options, Update/View and Run
//   - header.go: status bar, command bar, banner and detail line
//   - table.go: bookmark and Pocket tables inside a titled box
//   - feed.go: Pocket date and tag formatting
//   - modal.go: Modal interface and the add-bookmark dialog
//   - help.go: key binding overlay
//   - search.go: fuzzy "/" row filter
//   - activity.go: log tail view
//   - theme.go, style_helpers.go: palettes and lipgloss helpers
//
// # Views
//
// The table view shows Active Bookmarks, Archived Bookmarks or Pocket Links
// depending on the controller filter. The activity view ("l") tails Folio's
// own log file. Dialogs (add bookmark, help) replace the screen until closed.
package ui
