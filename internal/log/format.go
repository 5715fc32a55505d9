package log

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/raphi011/cspace/internal/ui/styles"
)

// prefixFormatter renders "[LEVEL] message key=value" lines.
type prefixFormatter struct{}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(levelPrefix(e.Level))
	b.WriteByte(' ')
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelPrefix(level logrus.Level) string {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return styles.DebugPrefix
	case logrus.WarnLevel:
		return styles.WarningPrefix
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return styles.ErrorPrefix
	default:
		return styles.InfoPrefix
	}
}
