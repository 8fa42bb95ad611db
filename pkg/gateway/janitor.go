package gateway

import (
	"time"

	"github.com/voicegate/voicegate/internal/log"
)

// runJanitor periodically prunes idle sessions and expired audio blobs
// until the server shuts down.
func (s *Server) runJanitor() {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	log.Info("janitor started", "interval", s.cfg.SweepInterval, "max_age", s.cfg.MaxAge)
	for {
		select {
		case <-ticker.C:
			sessions := s.deps.Sessions.Sweep(s.cfg.MaxAge)
			blobs := s.deps.Blobs.Sweep(s.cfg.MaxAge)
			if sessions > 0 || blobs > 0 {
				log.Info("janitor sweep", "sessions", sessions, "blobs", blobs)
				s.events.Publish("sweep", map[string]any{
					"sessions": sessions,
					"blobs":    blobs,
				})
			}
		case <-s.stop:
			return
		}
	}
}
