// Package config loads Folio's TOML configuration.
//
// # Resolution
//
//  1. An explicit path (the --config flag) wins.
//  2. Otherwise ~/.config/folio/config.toml is read.
//  3. A missing file is not an error; defaults are used.
//  4. FOLIO_API_URL and FOLIO_API_TOKEN override whatever the file says.
//
// # Keys
//
//	api_url = "http://localhost:8000"
//	api_token = ""
//	request_timeout = "10s"
//	refresh_interval = "1m"   # "0s" turns background refresh off
//	pocket_status = "unread"  # unread, archive or all
//	log_level = "info"
//	log_dir = "~/.local/state/folio"
//
// Every key is optional and blank values fall back to the default. Paths
// starting with ~ are expanded against the home directory. Malformed
// durations and unknown pocket_status values are rejected with an error that
// names the key.
package config
