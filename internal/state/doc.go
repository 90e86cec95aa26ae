// Package state owns Folio's view state and the transitions that change it.
//
// # Overview
//
// A Controller holds a ViewState behind a readers-writer lock. The UI calls
// transition methods (SetFilter, SubmitBookmark, Archive, ...) and renders
// Snapshot copies. Transitions never block on the network: each one that
// needs the service returns an Op, the caller runs the Op on its own
// goroutine and hands the Result back to Apply.
//
//	op := ctrl.Archive(id)
//	if op != nil {
//		go func() { ctrl.Apply(op(ctx)) }()
//	}
//	render(ctrl.Snapshot())
//
// A nil Op means the transition finished locally, for example a validation
// failure or an archive of a bookmark that is already archived.
//
// # Stale responses
//
// Every list request carries a sequence number. Only the result of the most
// recently issued list request is applied; anything older is dropped, so
// switching filters quickly never shows the previous filter's rows.
// Background refreshes additionally carry the mutation epoch at the time they
// were issued and are dropped if a create or archive has landed since.
//
// # Refresh
//
// Refresh issues a quiet list request that does not raise the loading flag
// or the error banner. It is skipped while anything else is in flight and
// after a failed fetch; the user reloads explicitly to resume.
package state
