package types

import (
	"testing"

	"github.com/DoyleJ11/atbat-challenge/internal/engine"
	"github.com/DoyleJ11/atbat-challenge/internal/media"
	wire "github.com/DoyleJ11/atbat-challenge/pkg/types"
)

func apply(t *testing.T, s engine.State, cmds ...engine.Command) engine.State {
	t.Helper()
	for _, c := range cmds {
		_, next, err := engine.Apply(s, c)
		if err != nil {
			t.Fatalf("%s: %v", c.Type, err)
		}
		s = next
	}
	return s
}

func TestToEngineCommand(t *testing.T) {
	tests := []struct {
		in   wire.ClientMessage
		want engine.Command
		ok   bool
	}{
		{wire.ClientMessage{Type: "SelectPrediction", Choice: "HR"}, engine.Command{Type: engine.CmdSelectPrediction, Choice: engine.ChoiceHomeRun}, true},
		{wire.ClientMessage{Type: "SubmitPrediction"}, engine.Command{Type: engine.CmdSubmitPrediction}, true},
		{wire.ClientMessage{Type: "SetComment", Text: "nice"}, engine.Command{Type: engine.CmdSetComment, Text: "nice"}, true},
		{wire.ClientMessage{Type: "AppendEmoji", Emoji: "🔥"}, engine.Command{Type: engine.CmdAppendEmoji, Text: "🔥"}, true},
		{wire.ClientMessage{Type: "SendComment"}, engine.Command{Type: engine.CmdSendComment}, true},
		{wire.ClientMessage{Type: "Reset"}, engine.Command{Type: engine.CmdReset}, true},
		{wire.ClientMessage{Type: string(engine.CmdRevealDue)}, engine.Command{}, false},
		{wire.ClientMessage{Type: "Bogus"}, engine.Command{}, false},
	}
	for _, tt := range tests {
		got, ok := ToEngineCommand(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s: got (%+v, %v) want (%+v, %v)", tt.in.Type, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRenderSelecting(t *testing.T) {
	s := engine.NewState(engine.DefaultRules())
	v := Render(s, nil)

	if v.Phase != "selecting" || v.CanSubmit {
		t.Fatalf("phase=%q can_submit=%v", v.Phase, v.CanSubmit)
	}
	if v.Round != nil || v.Comment != nil {
		t.Fatalf("round/comment should be hidden: %+v %+v", v.Round, v.Comment)
	}
	if v.Leaderboard.Title != "LEADERBOARD" {
		t.Fatalf("title=%q", v.Leaderboard.Title)
	}
	if len(v.Leaderboard.Rows) != 10 || v.Leaderboard.Rows[0].Name != "SLUGGERKING" {
		t.Fatalf("rows=%+v", v.Leaderboard.Rows)
	}

	s = apply(t, s, engine.Command{Type: engine.CmdSelectPrediction, Choice: engine.ChoiceOut})
	v = Render(s, nil)
	if v.Selected != "O" || !v.CanSubmit {
		t.Fatalf("selected=%q can_submit=%v", v.Selected, v.CanSubmit)
	}
}

func TestRenderRevealAnimating(t *testing.T) {
	s := apply(t, engine.NewState(engine.DefaultRules()),
		engine.Command{Type: engine.CmdSelectPrediction, Choice: engine.ChoiceHomeRun},
		engine.Command{Type: engine.CmdSubmitPrediction},
		engine.Command{Type: engine.CmdRevealDue},
		engine.Command{Type: engine.CmdSwapStart},
	)
	v := Render(s, []media.Cue{{Track: media.TrackWin, Action: media.ActionPlay, URI: "/win.mp3"}})

	if v.Round == nil || v.Round.Headline != "YOU WON!!" || v.Round.Points != 100 || v.Round.Display != "HR" {
		t.Fatalf("round=%+v", v.Round)
	}
	if len(v.Leaderboard.Motions) != 2 {
		t.Fatalf("motions=%+v", v.Leaderboard.Motions)
	}
	if v.Leaderboard.Motions[0].DurationMs != 1500 {
		t.Fatalf("duration=%d", v.Leaderboard.Motions[0].DurationMs)
	}
	if v.Leaderboard.Rows[0].Name != "SLUGGERKING" {
		t.Fatalf("cards should still be in pre-swap order: %+v", v.Leaderboard.Rows[:2])
	}
	if len(v.Cues) != 1 || v.Cues[0].URI != "/win.mp3" || v.Cues[0].Track != "win" {
		t.Fatalf("cues=%+v", v.Cues)
	}
}

func TestRenderCommentWindow(t *testing.T) {
	s := apply(t, engine.NewState(engine.DefaultRules()),
		engine.Command{Type: engine.CmdSelectPrediction, Choice: engine.ChoiceSingle},
		engine.Command{Type: engine.CmdSubmitPrediction},
		engine.Command{Type: engine.CmdRevealDue},
		engine.Command{Type: engine.CmdPostRevealDue},
		engine.Command{Type: engine.CmdSetComment, Text: "go time"},
	)
	v := Render(s, nil)

	if v.Comment == nil {
		t.Fatal("comment view missing")
	}
	if v.Comment.Length != 7 || v.Comment.Max != 25 || v.Comment.Countdown != 15 || len(v.Comment.Emojis) != 8 {
		t.Fatalf("comment=%+v", v.Comment)
	}
	if v.Leaderboard.Rows[0].Name != "BENNYTHEBAT!" {
		t.Fatalf("win should leave player A on top: %+v", v.Leaderboard.Rows[:2])
	}
	if v.Leaderboard.Motions != nil {
		t.Fatalf("no motion outside the swap: %+v", v.Leaderboard.Motions)
	}
}

func TestRenderWalkOff(t *testing.T) {
	s := engine.NewState(engine.DefaultRules())
	s.NextWin = false
	s = apply(t, s,
		engine.Command{Type: engine.CmdSelectPrediction, Choice: engine.ChoiceWalk},
		engine.Command{Type: engine.CmdSubmitPrediction},
		engine.Command{Type: engine.CmdRevealDue},
		engine.Command{Type: engine.CmdPostRevealDue},
	)
	v := Render(s, nil)

	if v.Phase != "walkoff" || v.Leaderboard.Title != "WALK-OFF WINNERS" {
		t.Fatalf("phase=%q title=%q", v.Phase, v.Leaderboard.Title)
	}
	if len(v.Leaderboard.WalkOff) != 5 || v.Leaderboard.WalkOff[0].Points != 100 {
		t.Fatalf("walk-off=%+v", v.Leaderboard.WalkOff)
	}
	if v.Round == nil || v.Round.Headline != "" || v.Round.Outcome != "loss" {
		t.Fatalf("round=%+v", v.Round)
	}
}

func TestChoiceViews(t *testing.T) {
	got := ChoiceViews()
	if len(got) != 7 || got[0].Code != "K" || got[4].Display != "OUT" || got[6].Points != 100 {
		t.Fatalf("choices=%+v", got)
	}
}

func TestErrorMessageCarriesView(t *testing.T) {
	m := ErrorMessage(3, engine.NewState(engine.DefaultRules()), "nope")
	if m.Type != MsgError || m.Version != 3 || m.Error != "nope" || m.View == nil {
		t.Fatalf("msg=%+v", m)
	}
}
