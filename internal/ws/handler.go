package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/DoyleJ11/atbat-challenge/internal/hub"
	"github.com/DoyleJ11/atbat-challenge/internal/session"
	"github.com/DoyleJ11/atbat-challenge/internal/types"
	wire "github.com/DoyleJ11/atbat-challenge/pkg/types"
)

const writeTimeout = 3 * time.Second

type Options struct {
	// OriginPatterns is passed through to websocket.Accept. Empty means
	// same-origin only.
	OriginPatterns []string
	Logger         *zap.Logger
}

func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		s, err := hub.Ask(r.Context(), h, hub.GetSession{Code: code, Reply: reply}, reply)
		if errors.Is(err, hub.ErrClosed) {
			http.Error(w, "server shutting down", http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			return
		}
		if s == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.String("session", code), zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		clog := log.With(zap.String("session", code), zap.String("client", clientID))

		out := make(chan session.Snapshot, 8)
		select {
		case s.Inbox() <- session.Join{ClientID: clientID, Outbox: out}:
		case <-s.Done():
			conn.Close(websocket.StatusGoingAway, "session closed")
			return
		}
		defer func() {
			select {
			case s.Inbox() <- session.Leave{ClientID: clientID}:
			case <-s.Done():
			}
		}()
		clog.Debug("client connected")

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			defer writeCancel()
			for {
				var snap session.Snapshot
				var open bool
				select {
				case snap, open = <-out:
				case <-writeCtx.Done():
					return
				}
				if !open {
					// The session dropped us or shut down.
					conn.Close(websocket.StatusGoingAway, "session closed")
					return
				}

				msg := types.SnapshotMessage(snap.Version, snap.State, snap.Cues)
				if snap.Err != "" {
					msg = types.ErrorMessage(snap.Version, snap.State, snap.Err)
				}
				if err := write(writeCtx, conn, msg); err != nil {
					clog.Debug("write failed", zap.Error(err))
					return
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(writeCtx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					clog.Debug("client disconnected")
				default:
					clog.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm wire.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = write(writeCtx, conn, wire.ServerMessage{Type: types.MsgError, Error: "bad json"})
				continue
			}

			cmd, ok := types.ToEngineCommand(cm)
			if !ok {
				_ = write(writeCtx, conn, wire.ServerMessage{Type: types.MsgError, Error: "unknown type"})
				continue
			}

			select {
			case s.Inbox() <- session.FromClient{ClientID: clientID, Cmd: cmd}:
			case <-s.Done():
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg wire.ServerMessage) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}
