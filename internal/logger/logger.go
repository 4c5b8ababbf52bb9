// Package logger owns the process-wide logrus instance.
package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is initialized to a sane default so packages can log before Init runs.
var Log = logrus.New()

type plainFormatter struct{}

func (f *plainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}
	ts := entry.Time.Format("2006-01-02 15:04:05")
	return []byte(fmt.Sprintf("[%s] [%s] %s\n", ts, level, entry.Message)), nil
}

// Init configures level and output. Unknown levels fall back to info.
func Init(levelStr string) {
	Log.SetFormatter(&plainFormatter{})
	Log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
