package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/atbat-challenge/internal/engine"
	"github.com/DoyleJ11/atbat-challenge/internal/hub"
	"github.com/DoyleJ11/atbat-challenge/internal/scoreboard"
	"github.com/DoyleJ11/atbat-challenge/internal/session"
	"github.com/DoyleJ11/atbat-challenge/internal/types"
	wire "github.com/DoyleJ11/atbat-challenge/pkg/types"
)

const (
	codeCharset     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength      = 6
	maxCodeAttempts = 10
)

// GenerateCode returns a random session code a person can type.
func GenerateCode() (string, error) {
	limit := big.NewInt(int64(len(codeCharset)))
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		code[i] = codeCharset[n.Int64()]
	}
	return string(code), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ask is a hub round-trip bound to the request. On failure it has already
// answered the client (503 while shutting down) and returns false.
func ask[T any](w http.ResponseWriter, r *http.Request, h *hub.Hub, msg hub.HubMsg, reply chan T) (T, bool) {
	v, err := hub.Ask(r.Context(), h, msg, reply)
	if err != nil {
		if errors.Is(err, hub.ErrClosed) {
			http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		}
		return v, false
	}
	return v, true
}

func lookup(w http.ResponseWriter, r *http.Request, h *hub.Hub, code string) (*session.Session, bool) {
	reply := make(chan *session.Session, 1)
	return ask(w, r, h, hub.GetSession{Code: code, Reply: reply}, reply)
}

func CreateSession(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for attempt := 0; code == "" && attempt < maxCodeAttempts; attempt++ {
			c, err := GenerateCode()
			if err != nil {
				log.Error("create session", zap.Error(err))
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			existing, ok := lookup(w, r, h, c)
			if !ok {
				return
			}
			if existing == nil {
				code = c
				break
			}
			log.Debug("collision on code, regenerating", zap.String("code", c))
		}
		if code == "" {
			http.Error(w, "failed to generate code", http.StatusInternalServerError)
			return
		}

		reply := make(chan *session.Session, 1)
		s, ok := ask(w, r, h, hub.EnsureSession{Code: code, Reply: reply}, reply)
		if !ok {
			return
		}
		if s == nil {
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func ListSessions(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []string, 1)
		codes, ok := ask(w, r, h, hub.ListSessions{Reply: reply}, reply)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Sessions []string `json:"sessions"`
		}{Sessions: codes})
	}
}

func GetSession(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, h, chi.URLParam(r, "code"))
		if !ok {
			return
		}
		if s == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		reply := make(chan session.View, 1)
		select {
		case s.Inbox() <- session.GetState{Reply: reply}:
		case <-s.Done():
			http.Error(w, "session not found", http.StatusNotFound)
			return
		case <-r.Context().Done():
			return
		}

		var v session.View
		select {
		case v = <-reply:
		case <-s.Done():
			http.Error(w, "session not found", http.StatusNotFound)
			return
		case <-r.Context().Done():
			return
		}

		view := types.Render(v.State, nil)
		writeJSON(w, http.StatusOK, struct {
			Code    string            `json:"code"`
			Version int               `json:"version"`
			Clients int               `json:"clients"`
			Pending []string          `json:"pending"`
			View    wire.SnapshotView `json:"view"`
		}{Code: s.Code(), Version: v.Version, Clients: v.NumClients, Pending: v.Pending, View: view})
	}
}

func DeleteSession(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan bool, 1)
		removed, ok := ask(w, r, h, hub.RemoveSession{Code: chi.URLParam(r, "code"), Reply: reply}, reply)
		if !ok {
			return
		}
		if !removed {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Choices(rules engine.Rules) http.HandlerFunc {
	body := struct {
		Choices        []wire.ChoiceView `json:"choices"`
		Emojis         []string          `json:"emojis"`
		CommentMax     int               `json:"comment_max"`
		CommentSeconds int               `json:"comment_seconds"`
	}{
		Choices:        types.ChoiceViews(),
		Emojis:         engine.Emojis(),
		CommentMax:     rules.CommentMax,
		CommentSeconds: rules.CommentSeconds,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, body)
	}
}

func Game(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Game  scoreboard.Game      `json:"game"`
		Stats scoreboard.UserStats `json:"stats"`
	}{Game: scoreboard.Featured(), Stats: scoreboard.Stats()})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
