package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives every emitted record so a secondary sink (such as
// the OTLP log exporter) can observe logs without coupling the logger
// to it.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirror atomic.Pointer[MirrorFunc]

// SetMirror installs fn as the secondary sink; nil removes it.
func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirror.Store(nil)
		return
	}
	mirror.Store(&fn)
}

func activeMirror() MirrorFunc {
	if p := mirror.Load(); p != nil {
		return *p
	}
	return nil
}
