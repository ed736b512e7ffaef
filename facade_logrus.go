package relog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogrusHook adapts a Logger into a logrus.Hook, so a process that
// already calls through logrus gets this package's routing, rotation
// and dual delivery pipelines without touching its call sites.
type LogrusHook struct {
	l *Logger
}

var _ logrus.Hook = (*LogrusHook)(nil)

// NewLogrusHook wraps l as a logrus.Hook firing on every level.
func NewLogrusHook(l *Logger) *LogrusHook {
	return &LogrusHook{l: l}
}

func (h *LogrusHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func logrusToLevel(lv logrus.Level) Level {
	switch lv {
	case logrus.PanicLevel, logrus.FatalLevel:
		return Fatal
	case logrus.ErrorLevel:
		return Error
	case logrus.WarnLevel:
		return Warn
	case logrus.InfoLevel:
		return Info
	case logrus.DebugLevel:
		return Debug
	default: // logrus.TraceLevel
		return Trace
	}
}

func (h *LogrusHook) Fire(e *logrus.Entry) error {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Data) > 0 {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
		}
	}

	h.l.log(6, logrusToLevel(e.Level), b.String())
	return nil
}
