package status

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Hook mirrors every log entry into the tracker's log ring so the status
// page can show recent activity without touching the log files.
type Hook struct {
	tracker *Tracker
}

func NewHook(t *Tracker) *Hook {
	return &Hook{tracker: t}
}

func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *Hook) Fire(entry *logrus.Entry) error {
	line := fmt.Sprintf("[%s] %s: %s",
		entry.Time.Format("15:04:05"),
		strings.ToUpper(entry.Level.String()),
		entry.Message,
	)
	h.tracker.AddLog(line)
	if entry.Level <= logrus.ErrorLevel {
		h.tracker.AddError(entry.Message)
	}
	return nil
}
