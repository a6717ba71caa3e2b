// Package config handles configuration loading and merging for foview.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--theme, --no-color, --legacy-menus, --watch, --log-file, --log-level)
//  2. Environment variables (FOVIEW_THEME, FOVIEW_NO_COLOR, NO_COLOR, FOVIEW_DEBUG, FOVIEW_LOG_LEVEL)
//  3. Config file (.foview.yaml or .foview.toml in the working directory, or
//     ~/.config/foview/.foview.yaml); --config names one explicitly
//  4. Hardcoded defaults
//
// # Key Configuration Options
//
//   - theme: default, orca or mono
//   - no_color: plain output without ANSI colours
//   - legacy_menus: opening a library menu leaves other menus open
//   - slide_duration: detail expand/collapse animation time (e.g. "200ms")
//   - filter.name, filter.pass, filter.fail, filter.skip: startup filter preset
//   - log.file, log.level: structured log destination and verbosity
//
// # Startup Filter
//
// The filter block is a preset, not saved state. It seeds the criteria when a
// report is opened and is never written back. Reset (the "r" key) returns to
// the identity filter, which shows every status and any name, regardless of
// the preset. On reload the session keeps whatever criteria are active at
// that moment. The list and html commands start from the preset and then
// apply --name, --pass, --fail and --skip on top.
//
//	filter:
//	  pass: false   # open reports showing failures and skips only
//
// # Environment Variables
//
//   - FOVIEW_NO_COLOR: "true" or "1" disables colours; NO_COLOR with any value does too
//   - FOVIEW_THEME: theme name
//   - FOVIEW_LOG_LEVEL: DEBUG, INFO, WARN or ERROR
//   - FOVIEW_DEBUG: any non-empty value forces DEBUG logging
package config
