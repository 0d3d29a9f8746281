// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time with functional options and
// write either key=value text or JSON. Pretty output (the default) drops
// quoting from text, indents JSON, and colorizes both when the output is a
// terminal.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("evaluated", slog.Int("entries", 3))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Attributes and Groups
//
// [Logger.With] adds attributes to every subsequent message and
// [Logger.WithGroup] qualifies them:
//
//	logger = logger.WithGroup("lang").With(slog.String("source", "a.konf"))
//	logger.Info("parsed") // lang.source=a.konf
//
// # Package Logger
//
// The package-level functions ([Info], [Error], and so on) use a default
// logger writing to standard error. Replace it with [SetDefault] or adjust
// it with [Config].
//
// Context-unaware functions call their context-aware counterparts using
// [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError].
//
// # Time Formatting
//
// [WithTimeLayout] accepts any named layout from the [time] package (such
// as "RFC3339" or "Kitchen"), a custom layout string, or "none" to omit
// timestamps.
package log
