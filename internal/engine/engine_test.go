package engine

import (
	"errors"
	"testing"
)

func mustApply(t *testing.T, s State, cmd Command) ([]Event, State) {
	t.Helper()
	events, next, err := Apply(s, cmd)
	if err != nil {
		t.Fatalf("%s: unexpected err %v", cmd.Type, err)
	}
	return events, next
}

func phaseChanges(events []Event) []Phase {
	var out []Phase
	for _, e := range events {
		if e.Type == EvtPhaseChanged {
			out = append(out, e.Phase)
		}
	}
	return out
}

// submitted returns a state right after submitting choice.
func submitted(t *testing.T, s State, choice ChoiceCode) State {
	t.Helper()
	_, s = mustApply(t, s, Command{Type: CmdSelectPrediction, Choice: choice})
	_, s = mustApply(t, s, Command{Type: CmdSubmitPrediction})
	return s
}

func TestSubmitRequiresSelection(t *testing.T) {
	s := NewEmptyState()
	if CanSubmit(s) {
		t.Fatalf("CanSubmit on fresh state: want false")
	}

	_, _, err := Apply(s, Command{Type: CmdSubmitPrediction})
	if !errors.Is(err, ErrNoPrediction) {
		t.Fatalf("want ErrNoPrediction, got %v", err)
	}

	_, s = mustApply(t, s, Command{Type: CmdSelectPrediction, Choice: ChoiceHomeRun})
	if !CanSubmit(s) {
		t.Fatalf("CanSubmit after select: want true")
	}
}

func TestSelectPrediction(t *testing.T) {
	cases := []struct {
		name    string
		setup   State
		cmd     Command
		wantErr error
	}{
		{
			name:  "known choice",
			setup: NewEmptyState(),
			cmd:   Command{Type: CmdSelectPrediction, Choice: ChoiceWalk},
		},
		{
			name:    "unknown choice",
			setup:   NewEmptyState(),
			cmd:     Command{Type: CmdSelectPrediction, Choice: "GS"},
			wantErr: ErrUnknownChoice,
		},
		{
			name:    "locked after submit",
			setup:   State{Phase: PhaseSubmitted, Rules: DefaultRules()},
			cmd:     Command{Type: CmdSelectPrediction, Choice: ChoiceWalk},
			wantErr: ErrWrongPhase,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, next, err := Apply(tc.setup, tc.cmd)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got err %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && next.Selected != tc.cmd.Choice {
				t.Fatalf("selected: got %q, want %q", next.Selected, tc.cmd.Choice)
			}
			if tc.wantErr != nil && next != tc.setup {
				t.Fatalf("rejected command changed state")
			}
		})
	}
}

func TestOutcomeAlternatesFromWin(t *testing.T) {
	s := NewEmptyState()
	want := []Outcome{OutcomeWin, OutcomeLoss, OutcomeWin, OutcomeLoss, OutcomeWin}
	picks := []ChoiceCode{ChoiceOut, ChoiceOut, ChoiceHomeRun, ChoiceHomeRun, ChoiceWalk}

	for i, w := range want {
		s = submitted(t, s, picks[i])
		if s.Round.Outcome != w {
			t.Fatalf("submission %d: got %s, want %s", i+1, s.Round.Outcome, w)
		}
		_, s = mustApply(t, s, Command{Type: CmdReset})
	}
	if s.Rounds != len(want) {
		t.Fatalf("rounds: got %d, want %d", s.Rounds, len(want))
	}
}

func TestSubmitSchedulesRevealAndMusic(t *testing.T) {
	s := NewEmptyState()
	_, s = mustApply(t, s, Command{Type: CmdSelectPrediction, Choice: ChoiceHomeRun})
	events, next := mustApply(t, s, Command{Type: CmdSubmitPrediction})

	if next.Phase != PhaseSubmitted {
		t.Fatalf("phase: got %s", next.Phase)
	}
	if next.Round.Points != 100 {
		t.Fatalf("points: got %d, want 100", next.Round.Points)
	}
	tasks := Tasks(events)
	if len(tasks) != 1 || tasks[0].Name != TaskReveal || tasks[0].Delay != s.Rules.RevealDelay {
		t.Fatalf("tasks: got %+v", tasks)
	}
	cues := Cues(events)
	if len(cues) != 2 || cues[0] != CueUnlockAudio || cues[1] != CueMusicStart {
		t.Fatalf("cues: got %v", cues)
	}
}

func TestRevealSequenceWin(t *testing.T) {
	s := submitted(t, NewEmptyState(), ChoiceHomeRun)

	events, s := mustApply(t, s, Command{Type: CmdRevealDue})
	if s.Phase != PhaseRevealing || s.Stage != StagePending {
		t.Fatalf("after reveal: got %s/%s", s.Phase, s.Stage)
	}
	if got := Cues(events); len(got) != 2 || got[0] != CueMusicStop || got[1] != CueWinSound {
		t.Fatalf("reveal cues: got %v", got)
	}
	if got := Tasks(events); len(got) != 2 || got[0].Name != TaskSwapStart || got[1].Name != TaskPostReveal {
		t.Fatalf("reveal tasks: got %+v", got)
	}
	if DisplayOrder(s) != OrderB {
		t.Fatalf("pending stage must show pre-swap order, got %s", DisplayOrder(s))
	}

	events, s = mustApply(t, s, Command{Type: CmdSwapStart})
	if s.Stage != StageAnimating || DisplayOrder(s) != OrderB {
		t.Fatalf("animating: stage %s order %s", s.Stage, DisplayOrder(s))
	}
	if got := Tasks(events); len(got) != 1 || got[0].Delay != s.Rules.SwapDuration {
		t.Fatalf("swap tasks: got %+v", got)
	}

	_, s = mustApply(t, s, Command{Type: CmdSwapDone})
	if s.Stage != StageSettled || s.Order != OrderA || DisplayOrder(s) != OrderA {
		t.Fatalf("settled: stage %s order %s", s.Stage, s.Order)
	}

	events, s = mustApply(t, s, Command{Type: CmdPostRevealDue})
	if s.Phase != PhaseComment || s.Countdown != 15 {
		t.Fatalf("post reveal: got %s countdown %d", s.Phase, s.Countdown)
	}
	if got := Tasks(events); len(got) != 1 || got[0].Name != TaskCountdown {
		t.Fatalf("comment tasks: got %+v", got)
	}
}

func TestRevealSequenceLoss(t *testing.T) {
	s := NewEmptyState()
	s.NextWin = false
	s = submitted(t, s, ChoiceOut)
	_, s = mustApply(t, s, Command{Type: CmdRevealDue})

	if Headline(s) != "BAD CALL!" || DisplayName(s.Round.Choice) != "OUT" {
		t.Fatalf("headline %q display %q", Headline(s), DisplayName(s.Round.Choice))
	}
	if DisplayOrder(s) != OrderA {
		t.Fatalf("loss pre-swap order: got %s", DisplayOrder(s))
	}

	_, s = mustApply(t, s, Command{Type: CmdSwapStart})
	_, s = mustApply(t, s, Command{Type: CmdSwapDone})
	if s.Order != OrderB {
		t.Fatalf("loss settles on order B, got %s", s.Order)
	}

	events, s := mustApply(t, s, Command{Type: CmdPostRevealDue})
	if s.Phase != PhaseWalkOff || BoardTitle(s) != "WALK-OFF WINNERS" {
		t.Fatalf("loss post reveal: got %s %q", s.Phase, BoardTitle(s))
	}
	if got := Tasks(events); len(got) != 1 || got[0].Name != TaskWalkOff || got[0].Delay != s.Rules.WalkOffHold {
		t.Fatalf("walkoff tasks: got %+v", got)
	}

	_, s = mustApply(t, s, Command{Type: CmdWalkOffDone})
	if s.Phase != PhaseSelecting || s.Selected != "" || s.Round != (Round{}) {
		t.Fatalf("after walk-off: %+v", s)
	}
	if BoardTitle(s) != "LEADERBOARD" {
		t.Fatalf("title: got %q", BoardTitle(s))
	}
}

func TestPostRevealSettlesUnfinishedSwap(t *testing.T) {
	s := submitted(t, NewEmptyState(), ChoiceSingle)
	_, s = mustApply(t, s, Command{Type: CmdRevealDue})

	events, s := mustApply(t, s, Command{Type: CmdPostRevealDue})
	if !ContainsEvent(events, EvtSwapSettled) {
		t.Fatalf("expected EvtSwapSettled")
	}
	if s.Order != OrderA {
		t.Fatalf("order: got %s", s.Order)
	}
}

func TestCountdownRunsToWalkOff(t *testing.T) {
	s := State{Phase: PhaseComment, Countdown: 15, Rules: DefaultRules(), Round: Round{Outcome: OutcomeWin}}

	for want := 14; want >= 1; want-- {
		events, next := mustApply(t, s, Command{Type: CmdCountdownTick})
		if next.Countdown != want || next.Phase != PhaseComment {
			t.Fatalf("tick: got %d/%s, want %d", next.Countdown, next.Phase, want)
		}
		if len(Tasks(events)) != 1 {
			t.Fatalf("tick must re-arm the countdown")
		}
		s = next
	}

	events, s := mustApply(t, s, Command{Type: CmdCountdownTick})
	if s.Phase != PhaseWalkOff || s.Countdown != 15 {
		t.Fatalf("at zero: got %s countdown %d", s.Phase, s.Countdown)
	}
	if events[0].Type != EvtCountdownTicked || events[0].Remaining != 0 {
		t.Fatalf("first event: %+v", events[0])
	}

	_, _, err := Apply(State{Phase: PhaseComment, Countdown: 0, Rules: DefaultRules()}, Command{Type: CmdCountdownTick})
	if !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("tick at zero: want ErrWrongPhase, got %v", err)
	}
}

func TestSendCommentExits(t *testing.T) {
	s := State{Phase: PhaseComment, Countdown: 9, Rules: DefaultRules(), Comment: "nailed it"}
	events, s := mustApply(t, s, Command{Type: CmdSendComment})

	if events[0].Type != EvtCommentSent || events[0].Text != "nailed it" {
		t.Fatalf("first event: %+v", events[0])
	}
	if s.Phase != PhaseWalkOff || s.Comment != "" || s.Countdown != 15 {
		t.Fatalf("after send: %+v", s)
	}
}

func TestCommentLimit(t *testing.T) {
	base := State{Phase: PhaseComment, Countdown: 15, Rules: DefaultRules()}

	cases := []struct {
		name    string
		comment string
		cmd     Command
		want    string
		wantErr error
	}{
		{
			name: "typing is truncated",
			cmd:  Command{Type: CmdSetComment, Text: "abcdefghijklmnopqrstuvwxyz0123"},
			want: "abcdefghijklmnopqrstuvwxy",
		},
		{
			name:    "emoji appended",
			comment: "go",
			cmd:     Command{Type: CmdAppendEmoji, Text: "⚾"},
			want:    "go⚾",
		},
		{
			name:    "emoji fills last slot",
			comment: "abcdefghijklmnopqrstuvwx",
			cmd:     Command{Type: CmdAppendEmoji, Text: "🔥"},
			want:    "abcdefghijklmnopqrstuvwx🔥",
		},
		{
			name:    "emoji at limit is a no-op",
			comment: "abcdefghijklmnopqrstuvwxy",
			cmd:     Command{Type: CmdAppendEmoji, Text: "🔥"},
			want:    "abcdefghijklmnopqrstuvwxy",
		},
		{
			name:    "emoji outside palette",
			cmd:     Command{Type: CmdAppendEmoji, Text: "😀"},
			wantErr: ErrUnknownEmoji,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := base
			s.Comment = tc.comment
			_, next, err := Apply(s, tc.cmd)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got err %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				return
			}
			if next.Comment != tc.want {
				t.Fatalf("comment: got %q, want %q", next.Comment, tc.want)
			}
		})
	}
}

func TestTimerCommandsRejectedOutsideTheirPhase(t *testing.T) {
	cases := []struct {
		name  string
		setup State
		cmd   CommandType
	}{
		{name: "reveal while selecting", setup: NewEmptyState(), cmd: CmdRevealDue},
		{name: "swap start twice", setup: State{Phase: PhaseRevealing, Stage: StageAnimating}, cmd: CmdSwapStart},
		{name: "swap done before start", setup: State{Phase: PhaseRevealing, Stage: StagePending}, cmd: CmdSwapDone},
		{name: "post reveal after reset", setup: NewEmptyState(), cmd: CmdPostRevealDue},
		{name: "tick outside comment", setup: State{Phase: PhaseWalkOff, Countdown: 15}, cmd: CmdCountdownTick},
		{name: "walk-off done while selecting", setup: NewEmptyState(), cmd: CmdWalkOffDone},
		{name: "send comment while revealing", setup: State{Phase: PhaseRevealing}, cmd: CmdSendComment},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Apply(tc.setup, Command{Type: tc.cmd})
			if !errors.Is(err, ErrWrongPhase) {
				t.Fatalf("want ErrWrongPhase, got %v", err)
			}
		})
	}
}

func TestResetClearsRound(t *testing.T) {
	s := submitted(t, NewEmptyState(), ChoiceTriple)
	events, s := mustApply(t, s, Command{Type: CmdReset})

	if got := phaseChanges(events); len(got) != 1 || got[0] != PhaseSelecting {
		t.Fatalf("phase changes: %v", got)
	}
	if got := Cues(events); len(got) != 1 || got[0] != CueMusicStop {
		t.Fatalf("reset while music plays must stop it, got %v", got)
	}
	if s.Selected != "" || s.Round != (Round{}) || s.Phase != PhaseSelecting {
		t.Fatalf("after reset: %+v", s)
	}
	if s.NextWin {
		t.Fatalf("reset must keep the toggle flipped by the submission")
	}
}

func TestEmittedPhaseChangesAreLegal(t *testing.T) {
	s := NewEmptyState()
	script := []Command{
		{Type: CmdSelectPrediction, Choice: ChoiceHomeRun},
		{Type: CmdSubmitPrediction},
		{Type: CmdRevealDue},
		{Type: CmdSwapStart},
		{Type: CmdSwapDone},
		{Type: CmdPostRevealDue},
		{Type: CmdSendComment},
		{Type: CmdWalkOffDone},
		{Type: CmdSelectPrediction, Choice: ChoiceOut},
		{Type: CmdSubmitPrediction},
		{Type: CmdRevealDue},
		{Type: CmdPostRevealDue},
		{Type: CmdWalkOffDone},
	}

	for _, cmd := range script {
		prev := s.Phase
		events, next := mustApply(t, s, cmd)
		for _, p := range phaseChanges(events) {
			if !prev.CanTransitionTo(p) {
				t.Fatalf("%s: illegal transition %s -> %s", cmd.Type, prev, p)
			}
			prev = p
		}
		s = next
	}
	if s.Phase != PhaseSelecting || s.Order != OrderB {
		t.Fatalf("end of script: %s %s", s.Phase, s.Order)
	}
}

func TestUnsupportedCommand(t *testing.T) {
	_, _, err := Apply(NewEmptyState(), Command{Type: "HoverChampion"})
	if !errors.Is(err, ErrUnsupportedCommand) {
		t.Fatalf("want ErrUnsupportedCommand, got %v", err)
	}
}
