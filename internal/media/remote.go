package media

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoAudience is the server-side equivalent of a blocked autoplay: nobody is
// connected to hear the cue.
var ErrNoAudience = errors.New("no listeners connected")

type Track string

const (
	TrackMusic Track = "music"
	TrackWin   Track = "win"
	TrackLose  Track = "lose"
)

type Action string

const (
	ActionPlay   Action = "play"
	ActionPause  Action = "pause"
	ActionRewind Action = "rewind"
	ActionUnlock Action = "unlock"
)

// Cue is one playback instruction for connected clients.
type Cue struct {
	Track  Track
	Action Action
	URI    string
}

type Assets struct {
	Music string
	Win   string
	Lose  string
}

// Queue collects cues until the owner drains them into the next broadcast.
// It belongs to the session goroutine and is not safe for concurrent use.
type Queue struct {
	audience func() int
	pending  []Cue
}

func NewQueue(audience func() int) *Queue {
	return &Queue{audience: audience}
}

func (q *Queue) Drain() []Cue {
	out := q.pending
	q.pending = nil
	return out
}

func (q *Queue) push(c Cue) bool {
	if q.audience() == 0 {
		return false
	}
	q.pending = append(q.pending, c)
	return true
}

func (q *Queue) Handle(track Track, uri string) *RemoteHandle {
	return &RemoteHandle{q: q, track: track, uri: uri}
}

func (q *Queue) Unlocker() *RemoteUnlocker {
	return &RemoteUnlocker{q: q}
}

// NewRemoteDeck wires a Deck whose handles all feed q.
func NewRemoteDeck(q *Queue, assets Assets, log *zap.Logger) *Deck {
	return NewDeck(
		q.Handle(TrackMusic, assets.Music),
		q.Handle(TrackWin, assets.Win),
		q.Handle(TrackLose, assets.Lose),
		q.Unlocker(),
		log,
	)
}

type RemoteHandle struct {
	q     *Queue
	track Track
	uri   string
}

func (h *RemoteHandle) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !h.q.push(Cue{Track: h.track, Action: ActionPlay, URI: h.uri}) {
		return ErrNoAudience
	}
	return nil
}

func (h *RemoteHandle) Pause() {
	h.q.push(Cue{Track: h.track, Action: ActionPause, URI: h.uri})
}

func (h *RemoteHandle) Rewind() {
	h.q.push(Cue{Track: h.track, Action: ActionRewind, URI: h.uri})
}

type RemoteUnlocker struct {
	q *Queue
}

func (u *RemoteUnlocker) Unlock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !u.q.push(Cue{Action: ActionUnlock}) {
		return ErrNoAudience
	}
	return nil
}
