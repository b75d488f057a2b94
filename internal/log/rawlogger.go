package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// RawLogger dumps the bytes going over the serial link.
type RawLogger interface {
	Log(device string, data []byte)
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

// Log writes one line per write: timestamp, device, length and hex bytes.
// Printable ASCII commands are shown next to the hex.
func (r *rawLogger) Log(device string, data []byte) {
	if r.w == nil || len(data) == 0 {
		return
	}

	var hex, text strings.Builder
	for i, b := range data {
		if i > 0 {
			hex.WriteByte(' ')
		}
		fmt.Fprintf(&hex, "%02x", b)
		if b >= 0x20 && b < 0x7f {
			text.WriteByte(b)
		} else {
			text.WriteByte('.')
		}
	}

	line := fmt.Sprintf("%s TX %s %d bytes, hex: %s |%s|\n",
		r.now().Format("2006/01/02 15:04:05.000"),
		device,
		len(data),
		hex.String(),
		text.String())

	r.mu.Lock()
	_, _ = io.WriteString(r.w, line)
	r.mu.Unlock()
}
