// Package media drives the round's sound: background music while a prediction
// is pending and a win or lose effect on reveal. Playback is best effort; a
// failed play is logged and never reaches the caller.
package media

import (
	"context"

	"go.uber.org/zap"
)

type Handle interface {
	Play(ctx context.Context) error
	Pause()
	Rewind()
}

// Unlocker asks the playback side to allow later audio. It is attempted once
// per submission, in response to the user's gesture.
type Unlocker interface {
	Unlock(ctx context.Context) error
}

type Deck struct {
	Music    Handle
	Win      Handle
	Lose     Handle
	Unlocker Unlocker
	log      *zap.Logger
}

func NewDeck(music, win, lose Handle, unlocker Unlocker, log *zap.Logger) *Deck {
	if log == nil {
		log = zap.NewNop()
	}
	return &Deck{Music: music, Win: win, Lose: lose, Unlocker: unlocker, log: log}
}

func (d *Deck) Unlock(ctx context.Context) {
	if d.Unlocker == nil {
		return
	}
	if err := d.Unlocker.Unlock(ctx); err != nil {
		d.log.Debug("audio unlock failed", zap.Error(err))
	}
}

func (d *Deck) StartMusic(ctx context.Context) {
	d.play(ctx, "music", d.Music)
}

func (d *Deck) StopMusic() {
	if d.Music == nil {
		return
	}
	d.Music.Pause()
	d.Music.Rewind()
}

func (d *Deck) PlayOutcome(ctx context.Context, win bool) {
	if win {
		d.play(ctx, "win", d.Win)
		return
	}
	d.play(ctx, "lose", d.Lose)
}

func (d *Deck) play(ctx context.Context, track string, h Handle) {
	if h == nil {
		return
	}
	h.Rewind()
	if err := h.Play(ctx); err != nil {
		d.log.Debug("audio play failed", zap.String("track", track), zap.Error(err))
	}
}
