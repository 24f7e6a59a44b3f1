package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// sessionUser é a carga do cookie de sessão assinado. O papel de admin vai
// como claim explícita, verificada num único ponto (requireAdmin).
type sessionUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Admin bool      `json:"admin"`
}

func (s *Server) writeSession(w http.ResponseWriter, u *sessionUser) {
	if u == nil {
		http.SetCookie(w, &http.Cookie{Name: "sess", Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
		return
	}
	b, _ := json.Marshal(u)
	h := hmac.New(sha256.New, s.sessionKey)
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "sess", Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

func (s *Server) readSession(r *http.Request) *sessionUser {
	c, err := r.Cookie("sess")
	if err != nil || c.Value == "" {
		return nil
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, s.sessionKey)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil
	}
	var u sessionUser
	if err := json.Unmarshal(payload, &u); err != nil {
		return nil
	}
	if u.ID == uuid.Nil {
		return nil
	}
	return &u
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) *sessionUser {
	u := s.readSession(r)
	if u == nil {
		apiError(w, 401, "usuário não autenticado")
		return nil
	}
	return u
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	u := s.readSession(r)
	if u == nil {
		apiError(w, 401, "usuário não autenticado")
		return false
	}
	if !u.Admin {
		apiError(w, 403, "acesso restrito")
		return false
	}
	return true
}
