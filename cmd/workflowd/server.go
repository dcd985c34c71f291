package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	workflow "github.com/goliatone/go-cms-workflow"
	"github.com/goliatone/go-cms-workflow/internal/commands"
	"github.com/goliatone/go-cms-workflow/internal/docs"
	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/internal/runtimeconfig"
	"github.com/goliatone/go-cms-workflow/internal/sessionbridge"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// sessionLocaleKey holds the locale the editor last switched to.
const sessionLocaleKey = "workflowLocale"

func newSessionManager(cfg runtimeconfig.Config) *scs.SessionManager {
	manager := scs.New()
	if cfg.SessionBridge.SessionLifetime > 0 {
		manager.Lifetime = cfg.SessionBridge.SessionLifetime
	}
	if name := strings.TrimSpace(cfg.SessionBridge.CookieName); name != "" {
		manager.Cookie.Name = name
	}
	manager.Cookie.HttpOnly = true
	manager.Cookie.SameSite = http.SameSiteLaxMode
	return manager
}

type server struct {
	module   *workflow.Module
	sessions *scs.SessionManager
	logger   interfaces.Logger
}

func newRouter(module *workflow.Module, sessions *scs.SessionManager, logger interfaces.Logger) http.Handler {
	s := &server{module: module, sessions: sessions, logger: logger}
	sessionFor := func(*http.Request) sessionbridge.Session {
		return sessionbridge.NewScsSession(sessions)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestFields)
	r.Use(chimw.Recoverer)
	r.Use(sessions.LoadAndSave)
	r.Use(module.SessionBridge().Middleware(sessionFor))

	r.Route("/api/workflow", func(r chi.Router) {
		r.Get("/options", s.options)
		r.Put("/locale", s.switchLocale)
		r.Post("/docs", s.saveDoc)
		r.Get("/docs/{id}", s.getDoc)
		r.Get("/docs/{id}/joins", s.docJoins)
		r.Post("/commits", s.recordCommit)
		r.Get("/commits/{guid}", s.listCommits)
		r.Post("/session-token", s.issueToken)
	})
	return r
}

// requestFields tags log entries written while serving r with its request id.
func requestFields(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.ContextWithFields(r.Context(), map[string]any{
			"request_id": chimw.GetReqID(r.Context()),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) locale(r *http.Request) string {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = r.URL.Path
	}
	return s.module.ResolveLocale(r.Host, path, s.sessions.GetString(r.Context(), sessionLocaleKey))
}

func (s *server) options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.module.ClientOptions(s.locale(r), r.URL.Query().Get("contextGuid")))
}

type switchLocaleRequest struct {
	Locale string `json:"locale"`
}

func (s *server) switchLocale(w http.ResponseWriter, r *http.Request) {
	var req switchLocaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.module.Container().Topology().Has(req.Locale) {
		writeError(w, http.StatusBadRequest, errors.New("unknown locale"))
		return
	}
	s.sessions.Put(r.Context(), sessionLocaleKey, req.Locale)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) saveDoc(w http.ResponseWriter, r *http.Request) {
	var doc docs.Doc
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	requested := r.URL.Query().Get("locale")
	if requested == "" {
		requested = s.sessions.GetString(r.Context(), sessionLocaleKey)
	}
	saved, err := s.module.SaveDoc(r.Context(), &doc, requested)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *server) loadDoc(w http.ResponseWriter, r *http.Request) (*docs.Doc, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	doc, err := s.module.GetDoc(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return doc, true
}

func (s *server) getDoc(w http.ResponseWriter, r *http.Request) {
	if doc, ok := s.loadDoc(w, r); ok {
		writeJSON(w, http.StatusOK, doc)
	}
}

type joinResponse struct {
	Field    string `json:"field"`
	Type     string `json:"type"`
	WithType string `json:"withType"`
	Value    any    `json:"value"`
}

func (s *server) docJoins(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDoc(w, r)
	if !ok {
		return
	}
	found := s.module.FindJoins(doc)
	out := make([]joinResponse, 0, len(found))
	for _, join := range found {
		out = append(out, joinResponse{
			Field:    join.Field.Name,
			Type:     string(join.Field.Type),
			WithType: join.Field.WithType,
			Value:    join.Value,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type commitRequest struct {
	FromID       string         `json:"fromId"`
	ToID         string         `json:"toId"`
	WorkflowGuid string         `json:"workflowGuid"`
	FromLocale   string         `json:"fromLocale"`
	ToLocale     string         `json:"toLocale"`
	UserID       string         `json:"userId"`
	Meta         map[string]any `json:"meta"`
}

func (s *server) recordCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err := s.module.RecordCommit(r.Context(), commands.RecordCommit{
		FromID:       req.FromID,
		ToID:         req.ToID,
		WorkflowGuid: req.WorkflowGuid,
		FromLocale:   req.FromLocale,
		ToLocale:     req.ToLocale,
		UserID:       req.UserID,
		Meta:         req.Meta,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *server) listCommits(w http.ResponseWriter, r *http.Request) {
	list, err := s.module.Commits(r.Context(), chi.URLParam(r, "guid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type tokenResponse struct {
	Token string `json:"token"`
	URL   string `json:"url,omitempty"`
}

// issueToken snapshots the session for another host. When target is given
// the response carries the URL to send the browser to.
func (s *server) issueToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.module.SessionBridge().Issue(r.Context(), sessionbridge.NewScsSession(s.sessions))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := tokenResponse{Token: token}
	if target := r.URL.Query().Get("target"); target != "" {
		u, err := url.Parse(target)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		query := u.Query()
		query.Set(sessionbridge.TokenParam, token)
		u.RawQuery = query.Encode()
		resp.URL = u.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, docs.ErrDocNotFound):
		writeError(w, http.StatusNotFound, err)
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.logger.WithContext(r.Context()).Error("http.request_failed",
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
