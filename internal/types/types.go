package types

import (
	"unicode/utf8"

	"github.com/DoyleJ11/atbat-challenge/internal/engine"
	"github.com/DoyleJ11/atbat-challenge/internal/media"
	wire "github.com/DoyleJ11/atbat-challenge/pkg/types"
)

const (
	MsgStateSnapshot = "StateSnapshot"
	MsgError         = "Error"
)

// ToEngineCommand maps a decoded client message onto an engine command.
// Timer-only commands are never accepted from clients.
func ToEngineCommand(m wire.ClientMessage) (engine.Command, bool) {
	switch engine.CommandType(m.Type) {
	case engine.CmdSelectPrediction:
		return engine.Command{Type: engine.CmdSelectPrediction, Choice: engine.ChoiceCode(m.Choice)}, true
	case engine.CmdSubmitPrediction:
		return engine.Command{Type: engine.CmdSubmitPrediction}, true
	case engine.CmdSetComment:
		return engine.Command{Type: engine.CmdSetComment, Text: m.Text}, true
	case engine.CmdAppendEmoji:
		return engine.Command{Type: engine.CmdAppendEmoji, Text: m.Emoji}, true
	case engine.CmdSendComment:
		return engine.Command{Type: engine.CmdSendComment}, true
	case engine.CmdReset:
		return engine.Command{Type: engine.CmdReset}, true
	default:
		return engine.Command{}, false
	}
}

func Render(s engine.State, cues []media.Cue) wire.SnapshotView {
	v := wire.SnapshotView{
		Phase:     string(s.Phase),
		Stage:     string(s.Stage),
		Selected:  string(s.Selected),
		CanSubmit: engine.CanSubmit(s),
	}

	if s.Round.Choice != "" {
		v.Round = &wire.RoundView{
			Choice:   string(s.Round.Choice),
			Display:  engine.DisplayName(s.Round.Choice),
			Points:   s.Round.Points,
			Outcome:  string(s.Round.Outcome),
			Headline: engine.Headline(s),
		}
	}

	if s.Phase == engine.PhaseComment {
		v.Comment = &wire.CommentView{
			Text:      s.Comment,
			Length:    utf8.RuneCountInString(s.Comment),
			Max:       s.Rules.CommentMax,
			Countdown: s.Countdown,
			Emojis:    engine.Emojis(),
		}
	}

	v.Leaderboard = renderBoard(s)

	for _, c := range cues {
		v.Cues = append(v.Cues, wire.CueView{Track: string(c.Track), Action: string(c.Action), URI: c.URI})
	}
	return v
}

func renderBoard(s engine.State) wire.LeaderboardView {
	order := engine.DisplayOrder(s)
	b := wire.LeaderboardView{
		Title: engine.BoardTitle(s),
		Order: string(order),
	}

	for _, e := range engine.Leaderboard(order) {
		b.Rows = append(b.Rows, wire.LeaderboardRow{
			ID: e.ID, Rank: e.Rank, Name: e.Name, Pick: e.Pick, Score: e.Score, Avatar: e.Avatar,
		})
	}
	for _, m := range engine.SwapMotions(s) {
		b.Motions = append(b.Motions, wire.CardMotion{
			ID:         m.EntryID,
			OffsetPx:   m.OffsetPx,
			ZIndex:     m.ZIndex,
			DurationMs: m.Duration.Milliseconds(),
			Easing:     m.Easing,
		})
	}
	if s.Phase == engine.PhaseWalkOff {
		for _, w := range engine.WalkOffWinners() {
			b.WalkOff = append(b.WalkOff, wire.WalkOffRow{
				ID:              w.ID,
				Name:            w.Name,
				Message:         w.Message,
				Rank:            w.Rank,
				CorrectPicks:    w.CorrectPicks,
				LastCorrectPick: w.LastCorrectPick,
				Avatar:          w.Avatar,
				Points:          w.Points,
			})
		}
	}
	return b
}

func ChoiceViews() []wire.ChoiceView {
	var out []wire.ChoiceView
	for _, c := range engine.Choices() {
		out = append(out, wire.ChoiceView{Code: string(c.Code), Label: c.Label, Display: c.Display, Points: c.Points})
	}
	return out
}

func SnapshotMessage(version int, s engine.State, cues []media.Cue) wire.ServerMessage {
	view := Render(s, cues)
	return wire.ServerMessage{Type: MsgStateSnapshot, Version: version, View: &view}
}

func ErrorMessage(version int, s engine.State, errText string) wire.ServerMessage {
	view := Render(s, nil)
	return wire.ServerMessage{Type: MsgError, Version: version, View: &view, Error: errText}
}
