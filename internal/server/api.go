package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teemow/calassist/internal/chat"
	"github.com/teemow/calassist/internal/credentials"
	"github.com/teemow/calassist/internal/logging"
	"github.com/teemow/calassist/internal/outcome"
	"github.com/teemow/calassist/internal/session"
)

const maxRequestBytes = 64 << 10

// SessionResponse describes a session.
type SessionResponse struct {
	ID                  string `json:"id"`
	ConfigurationStatus string `json:"configuration_status"`
	MessageCount        int    `json:"message_count"`
}

// MessagesResponse carries a session transcript.
type MessagesResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []session.Message `json:"messages"`
}

// ResultResponse is the JSON form of an outcome.Result.
type ResultResponse struct {
	Kind    string          `json:"kind"`
	OK      bool            `json:"ok"`
	Text    string          `json:"text"`
	Detail  string          `json:"detail,omitempty"`
	Session SessionResponse `json:"session"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type configureRequest struct {
	RefreshToken string `json:"refresh_token"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type api struct {
	sessions *session.Manager
	relay    *chat.Relay
	creds    *credentials.Handler
	logger   *slog.Logger
}

func (a *api) routes(r chi.Router) {
	r.Post("/sessions", a.handleCreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", a.handleGetSession)
		r.Delete("/", a.handleDeleteSession)
		r.Get("/messages", a.handleMessages)
		r.Post("/chat", a.handleChat)
		r.Post("/configure", a.handleConfigure)
	})
}

func (a *api) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.Create()
	respondJSON(w, http.StatusCreated, describe(sess))
}

func (a *api) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, release, ok := a.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	respondJSON(w, http.StatusOK, describe(sess))
}

// handleDeleteSession drops a session, typically when its page is closed.
func (a *api) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !a.sessions.Remove(id) {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleMessages(w http.ResponseWriter, r *http.Request) {
	sess, release, ok := a.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	respondJSON(w, http.StatusOK, MessagesResponse{SessionID: sess.ID(), Messages: sess.Messages()})
}

func (a *api) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, release, ok := a.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	res := a.relay.Send(r.Context(), sess, req.Message)
	respondResult(w, sess, res)
}

func (a *api) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var req configureRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, release, ok := a.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	res := a.creds.Submit(r.Context(), sess, credentials.Payload{
		RefreshToken: req.RefreshToken,
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
	})
	respondResult(w, sess, res)
}

func (a *api) acquire(w http.ResponseWriter, r *http.Request) (*session.Session, func(), bool) {
	id := chi.URLParam(r, "sessionID")
	sess, release, ok := a.sessions.Acquire(id)
	if !ok {
		a.logger.Debug("unknown session", logging.SessionHash(id))
		respondError(w, http.StatusNotFound, "session not found")
		return nil, nil, false
	}
	return sess, release, true
}

func describe(sess *session.Session) SessionResponse {
	return SessionResponse{
		ID:                  sess.ID(),
		ConfigurationStatus: sess.ConfigurationStatus().String(),
		MessageCount:        sess.Len(),
	}
}

// respondResult always answers 200: the outcome travels in the body, and
// the page renders failures the same way it renders replies.
func respondResult(w http.ResponseWriter, sess *session.Session, res outcome.Result) {
	resp := ResultResponse{
		Kind:    res.Kind.String(),
		OK:      res.OK(),
		Text:    res.Display(),
		Session: describe(sess),
	}
	if !res.OK() {
		resp.Detail = res.Detail
	}
	respondJSON(w, http.StatusOK, resp)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid request body")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
