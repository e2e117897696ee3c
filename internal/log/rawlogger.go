package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger dumps encoded reports, one line per report.
type RawLogger interface {
	Log(tag string, data []byte)
}

type rawLogger struct {
	w   io.Writer
	mu  sync.Mutex
	now func() time.Time
}

// NewRaw returns a RawLogger writing to w. A nil w discards everything.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w, now: time.Now}
}

// Log writes "<time> <tag> <n> bytes, hex: <dump>".
func (r *rawLogger) Log(tag string, data []byte) {
	if r.w == nil || len(data) == 0 {
		return
	}
	line := fmt.Sprintf("%s %s %d bytes, hex: %s\n",
		r.now().Format("2006/01/02 15:04:05.000"), tag, len(data), hex.EncodeToString(data))

	r.mu.Lock()
	_, _ = io.WriteString(r.w, line)
	r.mu.Unlock()
}
