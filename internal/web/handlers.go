package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pageanalyzer/internal/inspector"
	"pageanalyzer/internal/storage"
	"pageanalyzer/internal/urlutil"
)

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index.gohtml", pageData{
		Title:   "Page Analyzer",
		Flashes: s.popFlashes(w, r),
	})
}

func (s *Server) listURLs(w http.ResponseWriter, r *http.Request) {
	urls, err := s.svc.ListURLs(r.Context())
	if err != nil {
		s.logger.Error("list urls failed", zap.Error(err))
		s.render(w, http.StatusInternalServerError, "error.gohtml", pageData{Title: "Error"})
		return
	}
	s.render(w, http.StatusOK, "urls.gohtml", pageData{
		Title:   "Sites",
		Flashes: s.popFlashes(w, r),
		URLs:    urls,
	})
}

func (s *Server) createURL(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusUnprocessableEntity, "index.gohtml", pageData{
			Title:   "Page Analyzer",
			Flashes: []Flash{{Severity: "danger", Message: "Invalid URL"}},
		})
		return
	}
	raw := r.PostFormValue("url")

	result, err := s.svc.Submit(r.Context(), raw)
	switch {
	case errors.Is(err, urlutil.ErrInvalidURL):
		// Rendered in-line rather than via the session: the message belongs
		// to this response only.
		s.render(w, http.StatusUnprocessableEntity, "index.gohtml", pageData{
			Title:   "Page Analyzer",
			Flashes: []Flash{{Severity: "danger", Message: "Invalid URL"}},
			Form:    raw,
		})
		return
	case err != nil:
		s.logger.Error("submit failed", zap.String("url", raw), zap.Error(err))
		s.render(w, http.StatusInternalServerError, "error.gohtml", pageData{Title: "Error"})
		return
	}

	if result.Existing {
		s.addFlash(w, r, "info", "Page already exists")
	} else {
		s.addFlash(w, r, "success", "Page added successfully")
	}
	http.Redirect(w, r, fmt.Sprintf("/urls/%d", result.URL.ID), http.StatusFound)
}

func (s *Server) showURL(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.notFound(w, r)
		return
	}

	u, err := s.svc.GetURL(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("get url failed", zap.Int64("id", id), zap.Error(err))
		s.render(w, http.StatusInternalServerError, "error.gohtml", pageData{Title: "Error"})
		return
	}

	checks, err := s.svc.ListChecks(r.Context(), id)
	if err != nil {
		s.logger.Error("list checks failed", zap.Int64("id", id), zap.Error(err))
		s.render(w, http.StatusInternalServerError, "error.gohtml", pageData{Title: "Error"})
		return
	}

	s.render(w, http.StatusOK, "url.gohtml", pageData{
		Title:   u.Name,
		Flashes: s.popFlashes(w, r),
		URL:     u,
		Checks:  checks,
	})
}

// runCheck triggers one synchronous check and redirects back to the detail
// page regardless of outcome; the outcome is carried as a flash.
func (s *Server) runCheck(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.notFound(w, r)
		return
	}

	_, err = s.svc.RunCheck(r.Context(), id)
	switch {
	case err == nil:
		s.addFlash(w, r, "success", "Page checked successfully")
	case errors.Is(err, storage.ErrNotFound):
		s.addFlash(w, r, "danger", "Page not found")
	case errors.Is(err, inspector.ErrUnreachable):
		s.addFlash(w, r, "danger", "An error occurred while checking")
	default:
		s.logger.Error("check failed", zap.Int64("id", id), zap.Error(err))
		s.addFlash(w, r, "danger", "An error occurred while checking")
	}
	http.Redirect(w, r, fmt.Sprintf("/urls/%d", id), http.StatusFound)
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusNotFound, "notfound.gohtml", pageData{Title: "Page not found"})
}
