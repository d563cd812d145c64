// Package launcher starts the applications of a named mode and waits for
// them to exit.
//
// A mode file maps mode names to objects with an "apps" array of executable
// paths:
//
//	{
//	  "dev":    {"apps": ["/usr/bin/code", "/usr/bin/gnome-terminal"]},
//	  "gaming": {"apps": ["/usr/games/steam"]}
//	}
//
// Files ending in .yaml or .yml are read as YAML and .toml files as TOML,
// with the same shape. JSON input must be a single value: trailing data is
// a parse error, and when a key repeats the last occurrence wins.
//
// # Quick Start
//
//	controller, err := launcher.NewBuilder().
//	    WithConfigPath("config.json").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := controller.Run(ctx, "dev"); launcher.IsFatal(err) {
//	    os.Exit(1)
//	}
//
// # Run States
//
// Run moves through Idle, Reading, Parsing, Launching and Waiting and ends
// in Done or Failed:
//
//	Idle -> Reading -> Parsing -> Launching -> Waiting -> Done
//	           |          |           |           |
//	           +----------+-----------+-----------+--> Failed
//
// Reading and Parsing failures end the run before anything is spawned.
// Launching is left for Waiting even when the mode is missing, its apps entry
// is not an array, or every spawn failed; those problems are printed and
// returned from Run but are not fatal. Waiting fails only when a configured
// timeout expires or the context is cancelled, and launched applications
// keep running in that case.
//
// # Applications
//
// Each string element of apps is started with argv [path] and nothing else,
// inheriting the launcher's environment, working directory and standard
// streams. Non-string elements are skipped. By default children are detached
// into their own session (unix) or process group (windows), so terminal
// signals aimed at the launcher do not reach them.
//
// Exit notifications are handled one at a time in the order the children
// exit, which is unrelated to launch order. See package procmgr.
//
// # Errors
//
// Every error returned by this package is a *LauncherError with a Code,
// contextual fields and, where useful, a Suggestion:
//
//	if launcher.IsErrorCode(err, launcher.ErrorCodeConfigParseFailed) {
//	    fmt.Println(launcher.GetSuggestion(err))
//	}
//
// # Metrics
//
// MetricsCollector exports state transitions, mode lookups, spawn failures
// and the process metrics of the underlying Coordinator on one Prometheus
// registry. Set Config.MetricsFile to have the registry written in the text
// format when a run ends.
package launcher
