package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/renovalabs/insightdocs/internal/models"
	"github.com/renovalabs/insightdocs/pkg/utils"
)

const sessionCookie = "insightdocs_session"

// loginErrorMessage is intentionally the same for a wrong password and an
// unknown user.
const loginErrorMessage = "Usuário ou senha incorretos"

type loginPageData struct {
	Error string
}

type chatPageData struct {
	Username   string
	Transcript []models.Turn
	Error      string
}

// sessionID returns the session ID from the request cookie, creating a new
// logged-out session when the cookie is missing or unknown.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" && s.sessions.Exists(c.Value) {
		return c.Value
	}
	id := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	if s.sessions.LoggedIn(id) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderLogin(w, loginPageData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	username := r.FormValue("username")
	password := r.FormValue("password")

	if !s.creds.Check(r.Context(), username, password) {
		s.logger.Debug("login rejected", zap.String("username", username))
		w.WriteHeader(http.StatusUnauthorized)
		s.renderLogin(w, loginPageData{Error: loginErrorMessage})
		return
	}

	s.sessions.Login(id, username)
	s.logger.Info("login accepted", zap.String("username", username))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	s.sessions.Logout(id)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	if !s.sessions.LoggedIn(id) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	s.renderChat(w, chatPageData{
		Username:   s.sessions.Username(id),
		Transcript: s.sessions.Transcript(id),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	if !s.sessions.LoggedIn(id) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	question := r.FormValue("question")
	if question == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// The user turn is recorded before the pipeline runs so a failed call
	// still shows the question in the transcript.
	s.sessions.AppendTurn(id, models.Turn{Role: models.RoleUser, Content: question})

	answer, err := s.pipeline.Answer(r.Context(), question)
	if err != nil {
		s.logger.Error("answer pipeline failed",
			zap.String("question", utils.Truncate(question, 80)),
			zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
		s.renderChat(w, chatPageData{
			Username:   s.sessions.Username(id),
			Transcript: s.sessions.Transcript(id),
			Error:      "Não foi possível obter uma resposta. Tente novamente.",
		})
		return
	}

	s.sessions.AppendTurn(id, models.Turn{
		Role:    models.RoleAssistant,
		Content: answer.Text,
		Sources: sourcePaths(answer.Sources),
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// sourcePaths returns the distinct source paths of chunks, keeping order.
func sourcePaths(chunks []models.Chunk) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, c := range chunks {
		if !seen[c.SourcePath] {
			seen[c.SourcePath] = true
			paths = append(paths, c.SourcePath)
		}
	}
	return paths
}

func (s *Server) renderLogin(w http.ResponseWriter, data loginPageData) {
	if err := s.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		s.logger.Error("render login page", zap.Error(err))
	}
}

func (s *Server) renderChat(w http.ResponseWriter, data chatPageData) {
	if err := s.templates.ExecuteTemplate(w, "chat.html", data); err != nil {
		s.logger.Error("render chat page", zap.Error(err))
	}
}
