package notify

import "pennywise-backend/internal/log"

// Notifier delivers transient user-facing notifications — the server
// side of what the client renders as a toast. This abstraction allows
// swapping the log-backed implementation for a push channel without
// refactoring.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// LogNotifier implements Notifier by emitting structured log events.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithComponent("notify")}
}

func (n *LogNotifier) Success(message string) {
	n.logger.Info("notification", "kind", "success", "message", message)
}

func (n *LogNotifier) Failure(message string) {
	n.logger.Warn("notification", "kind", "failure", "message", message)
}
