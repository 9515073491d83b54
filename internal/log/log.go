// Package log configures apex/log for the whole process.
package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// Init sets up apex/log with a TextHandler on stdout and the given level
// (debug, info, warn, error, fatal). Unknown levels fall back to info.
func Init(level string) {
	InitWithWriter(level, os.Stdout)
}

// InitWithWriter is Init with a custom output writer.
func InitWithWriter(level string, w io.Writer) {
	log.SetHandler(NewTextHandler(w))

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// TextHandler writes one line per entry:
//
//	2006-01-02 15:04:05 I message key=value key=value
type TextHandler struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextHandler returns a TextHandler writing to w.
func NewTextHandler(w io.Writer) *TextHandler {
	return &TextHandler{w: w}
}

// HandleLog implements the log.Handler interface.
func (h *TextHandler) HandleLog(e *log.Entry) error {
	var sb strings.Builder

	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(strings.ToUpper(e.Level.String())[:1])
	sb.WriteString(" ")
	sb.WriteString(e.Message)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&sb, " %s=%v", name, e.Fields[name])
	}
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}
