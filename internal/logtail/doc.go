// Package logtail reads the tail of Folio's log file for the activity view.
//
// Read keeps a ring buffer of the last N lines so large files are scanned in
// one pass with O(N) memory. ParseLine and Filter decode the logfmt records
// written by the logging package and drop entries below a chosen level.
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//	if err != nil {
//		return err
//	}
//	for _, e := range logtail.Filter(lines, "warn") {
//		fmt.Println(e.Time.Format(time.Kitchen), e.Level, e.Message, e.FormatFields())
//	}
//
// A missing log file is not an error; Read returns no lines.
package logtail
