package web

import (
	"net/http"

	"go.uber.org/zap"
)

const sessionName = "pageanalyzer"

// Flash is a one-shot message surfaced on the next rendered page.
// Severity is one of success, info, danger.
type Flash struct {
	Severity string
	Message  string
}

var severities = []string{"success", "info", "danger"}

func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, severity, message string) {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil {
		// A stale or tampered cookie yields a fresh session; keep going.
		s.logger.Debug("session decode failed", zap.Error(err))
	}
	sess.AddFlash(message, severity)
	if err := sess.Save(r, w); err != nil {
		s.logger.Warn("session save failed", zap.Error(err))
	}
}

// popFlashes consumes all pending flashes, saving the session so they are
// not shown twice.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil {
		s.logger.Debug("session decode failed", zap.Error(err))
	}
	var flashes []Flash
	for _, severity := range severities {
		for _, v := range sess.Flashes(severity) {
			if msg, ok := v.(string); ok {
				flashes = append(flashes, Flash{Severity: severity, Message: msg})
			}
		}
	}
	if len(flashes) > 0 {
		if err := sess.Save(r, w); err != nil {
			s.logger.Warn("session save failed", zap.Error(err))
		}
	}
	return flashes
}
