package gbn

import (
	"context"
	"log/slog"
)

// log calls through to the configured logger if one is set, matching
// xnet.TCPPool's nil-safe p.log(lvl, msg, attrs...) pattern: a Socket built
// without WithLogger pays nothing for logging calls beyond the call itself.
func (s *Socket) log(lvl slog.Level, msg string, attrs ...slog.Attr) {
	if s.cfg.logger != nil {
		s.cfg.logger.LogAttrs(context.Background(), lvl, msg, attrs...)
	}
}

func (s *Socket) trace(msg string, attrs ...slog.Attr) {
	s.log(slog.LevelDebug-2, msg, attrs...)
}

func (s *Socket) debug(msg string, attrs ...slog.Attr) {
	s.log(slog.LevelDebug, msg, attrs...)
}

func (s *Socket) warn(msg string, attrs ...slog.Attr) {
	s.log(slog.LevelWarn, msg, attrs...)
}
