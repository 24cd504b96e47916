// Package log provides the structured logger used throughout fmwkit.
//
// A Logger writes Entries through a Formatter (JSON or text) to an
// io.Writer. Derived loggers created with WithField, WithFields, WithName
// or WithLevel are independent copies that share the parent's output.
//
//	logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText})
//	wsLog := logger.WithField("workspace", "destschema.fmw")
//	wsLog.Warn("feature type has no dataset", log.String("keyword", "ORACLE8I_2"))
//
// LogError reads the code and severity of coded errors from the
// foundation/core/error package and picks the level accordingly.
package log
