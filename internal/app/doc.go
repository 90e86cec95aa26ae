// Package app is the composition root for the Folio TUI.
//
// # Overview
//
// Run wires configuration, logging, the API client, the view-state
// controller and the UI together, then blocks until the user quits.
//
// # Startup
//
//  1. Load ~/.config/folio/config.toml (environment overrides applied)
//  2. Open the log file under the configured log directory
//  3. Build the folio API client
//  4. Load UI preferences (theme, starting view)
//  5. Create the state.Controller for the starting view
//  6. Warm start: fetch the first page synchronously
//  7. Start the Bubble Tea program
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()      Read config.toml + env
//	       ├─────> logging.Open()     File logger (the TUI owns stdout)
//	       ├─────> NewClient()        HTTP client for the bookmark service
//	       ├─────> state.New()        View-state controller
//	       ├─────> warmStart()        First fetch, applied before the UI
//	       └─────> ui.Run()           Bubble Tea program (blocks)
//
// Background refresh is driven by the UI's tick, not a separate goroutine,
// so every state change goes through the Bubble Tea update loop.
//
// # Error Handling
//
// Configuration and client construction errors are fatal and returned from
// Run. A failed warm start is not: the UI opens with the error banner set.
// If the log file cannot be opened, logging is discarded.
package app
