package engine

import (
	"errors"
	"time"
	"unicode/utf8"
)

var ErrWrongPhase = errors.New("command not allowed in current phase")
var ErrNoPrediction = errors.New("no prediction selected")
var ErrUnknownChoice = errors.New("unknown prediction")
var ErrUnknownEmoji = errors.New("unknown emoji")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

type Phase string

const (
	PhaseSelecting Phase = "selecting"
	PhaseSubmitted Phase = "submitted"
	PhaseRevealing Phase = "revealing"
	PhaseComment   Phase = "comment"
	PhaseWalkOff   Phase = "walkoff"
)

// RevealStage is only meaningful while the phase is PhaseRevealing.
type RevealStage string

const (
	StageNone      RevealStage = ""
	StagePending   RevealStage = "pending"
	StageAnimating RevealStage = "animating"
	StageSettled   RevealStage = "settled"
)

type Rules struct {
	RevealDelay    time.Duration
	SwapLead       time.Duration
	SwapDuration   time.Duration
	ResultHold     time.Duration
	WalkOffHold    time.Duration
	CommentTick    time.Duration
	CommentSeconds int
	CommentMax     int
}

type Round struct {
	Choice  ChoiceCode
	Outcome Outcome
	Points  int
}

type State struct {
	Phase     Phase
	Stage     RevealStage
	Selected  ChoiceCode
	Round     Round
	Comment   string
	Countdown int
	Order     OrderKey // last committed leaderboard order
	NextWin   bool
	Rounds    int
	Rules     Rules
}

type CommandType string

const (
	CmdSelectPrediction CommandType = "SelectPrediction"
	CmdSubmitPrediction CommandType = "SubmitPrediction"
	CmdSetComment       CommandType = "SetComment"
	CmdAppendEmoji      CommandType = "AppendEmoji"
	CmdSendComment      CommandType = "SendComment"
	CmdReset            CommandType = "Reset"

	CmdRevealDue     CommandType = "RevealDue"
	CmdSwapStart     CommandType = "SwapStart"
	CmdSwapDone      CommandType = "SwapDone"
	CmdPostRevealDue CommandType = "PostRevealDue"
	CmdCountdownTick CommandType = "CountdownTick"
	CmdWalkOffDone   CommandType = "WalkOffDone"
)

/*
	CmdSubmitPrediction -> EvtPredictionSubmitted -> cues -> EvtPhaseChanged(submitted) -> EvtTimerStarted(reveal)
	CmdRevealDue        -> EvtPhaseChanged(revealing) -> EvtTimerStarted(swap-start, post-reveal) -> cues
	CmdSwapStart        -> EvtSwapStarted -> EvtTimerStarted(swap-done)
	CmdSwapDone         -> EvtSwapSettled
	CmdPostRevealDue    -> EvtPhaseChanged(comment | walkoff) -> EvtTimerStarted(countdown | walkoff)
	CmdCountdownTick    -> EvtCountdownTicked -> EvtTimerStarted(countdown) or the walk-off exit at zero
	CmdSendComment      -> EvtCommentSent -> walk-off exit
	CmdWalkOffDone      -> EvtPhaseChanged(selecting)
*/

type Command struct {
	Type   CommandType
	Choice ChoiceCode
	Text   string
}

type EventType string

const (
	EvtPredictionSelected  EventType = "PredictionSelected"
	EvtPredictionSubmitted EventType = "PredictionSubmitted"
	EvtPhaseChanged        EventType = "PhaseChanged"
	EvtTimerStarted        EventType = "TimerStarted"
	EvtSwapStarted         EventType = "SwapStarted"
	EvtSwapSettled         EventType = "SwapSettled"
	EvtCountdownTicked     EventType = "CountdownTicked"
	EvtCommentChanged      EventType = "CommentChanged"
	EvtCommentSent         EventType = "CommentSent"
	EvtCueRequested        EventType = "CueRequested"
)

type TaskName string

const (
	TaskReveal     TaskName = "reveal"
	TaskSwapStart  TaskName = "swap-start"
	TaskSwapDone   TaskName = "swap-done"
	TaskPostReveal TaskName = "post-reveal"
	TaskCountdown  TaskName = "countdown"
	TaskWalkOff    TaskName = "walkoff"
)

// Task is a transition to run once after Delay, unless the phase that
// scheduled it has been left in the meantime.
type Task struct {
	Name  TaskName
	Delay time.Duration
	Cmd   CommandType
}

type Cue string

const (
	CueUnlockAudio Cue = "unlock"
	CueMusicStart  Cue = "music-start"
	CueMusicStop   Cue = "music-stop"
	CueWinSound    Cue = "win"
	CueLoseSound   Cue = "lose"
)

type Event struct {
	Type      EventType
	Phase     Phase
	Choice    ChoiceCode
	Outcome   Outcome
	Remaining int
	Text      string
	Task      Task
	Cue       Cue
}

func Apply(s State, cmd Command) ([]Event, State, error) {
	next := s

	switch cmd.Type {
	case CmdSelectPrediction:
		if s.Phase != PhaseSelecting {
			return nil, s, ErrWrongPhase
		}
		if _, ok := Lookup(cmd.Choice); !ok {
			return nil, s, ErrUnknownChoice
		}
		next.Selected = cmd.Choice
		return []Event{{Type: EvtPredictionSelected, Choice: cmd.Choice}}, next, nil

	case CmdSubmitPrediction:
		if s.Phase != PhaseSelecting {
			return nil, s, ErrWrongPhase
		}
		choice, ok := Lookup(s.Selected)
		if !ok {
			return nil, s, ErrNoPrediction
		}

		// The outcome is fixed here; later steps only read Round.
		outcome := OutcomeLoss
		if s.NextWin {
			outcome = OutcomeWin
		}
		next.NextWin = !s.NextWin
		next.Rounds++
		next.Round = Round{Choice: choice.Code, Outcome: outcome, Points: choice.Points}

		events := []Event{
			{Type: EvtPredictionSubmitted, Choice: choice.Code, Outcome: outcome},
			cueEvent(CueUnlockAudio),
			cueEvent(CueMusicStart),
		}
		events = enter(&next, PhaseSubmitted, events)
		return events, next, nil

	case CmdRevealDue:
		if s.Phase != PhaseSubmitted {
			return nil, s, ErrWrongPhase
		}
		events := enter(&next, PhaseRevealing, nil)
		events = append(events, cueEvent(CueMusicStop), cueEvent(outcomeCue(next.Round.Outcome)))
		return events, next, nil

	case CmdSwapStart:
		if s.Phase != PhaseRevealing || s.Stage != StagePending {
			return nil, s, ErrWrongPhase
		}
		next.Stage = StageAnimating
		events := []Event{{Type: EvtSwapStarted, Outcome: s.Round.Outcome}}
		events = schedule(events, TaskSwapDone, s.Rules.SwapDuration, CmdSwapDone)
		return events, next, nil

	case CmdSwapDone:
		if s.Phase != PhaseRevealing || s.Stage != StageAnimating {
			return nil, s, ErrWrongPhase
		}
		return settle(&next, nil), next, nil

	case CmdPostRevealDue:
		if s.Phase != PhaseRevealing {
			return nil, s, ErrWrongPhase
		}
		var events []Event
		if s.Stage != StageSettled {
			events = settle(&next, events)
		}
		if s.Round.Outcome == OutcomeWin {
			events = enter(&next, PhaseComment, events)
		} else {
			events = enter(&next, PhaseWalkOff, events)
		}
		return events, next, nil

	case CmdCountdownTick:
		if s.Phase != PhaseComment || s.Countdown <= 0 {
			return nil, s, ErrWrongPhase
		}
		next.Countdown--
		events := []Event{{Type: EvtCountdownTicked, Remaining: next.Countdown}}
		if next.Countdown == 0 {
			return enter(&next, PhaseWalkOff, events), next, nil
		}
		events = schedule(events, TaskCountdown, s.Rules.CommentTick, CmdCountdownTick)
		return events, next, nil

	case CmdSetComment:
		if s.Phase != PhaseComment {
			return nil, s, ErrWrongPhase
		}
		text := truncateRunes(cmd.Text, s.Rules.CommentMax)
		if text == s.Comment {
			return nil, s, nil
		}
		next.Comment = text
		return []Event{{Type: EvtCommentChanged, Text: text}}, next, nil

	case CmdAppendEmoji:
		if s.Phase != PhaseComment {
			return nil, s, ErrWrongPhase
		}
		if !isEmoji(cmd.Text) {
			return nil, s, ErrUnknownEmoji
		}
		if utf8.RuneCountInString(s.Comment)+utf8.RuneCountInString(cmd.Text) > s.Rules.CommentMax {
			return nil, s, nil
		}
		next.Comment = s.Comment + cmd.Text
		return []Event{{Type: EvtCommentChanged, Text: next.Comment}}, next, nil

	case CmdSendComment:
		if s.Phase != PhaseComment {
			return nil, s, ErrWrongPhase
		}
		events := []Event{{Type: EvtCommentSent, Text: s.Comment}}
		return enter(&next, PhaseWalkOff, events), next, nil

	case CmdWalkOffDone:
		if s.Phase != PhaseWalkOff {
			return nil, s, ErrWrongPhase
		}
		return enter(&next, PhaseSelecting, nil), next, nil

	case CmdReset:
		var events []Event
		if s.Phase == PhaseSubmitted {
			events = append(events, cueEvent(CueMusicStop))
		}
		return enter(&next, PhaseSelecting, events), next, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// enter switches s to phase p, emits EvtPhaseChanged and then the tasks the
// new phase owns. Callers must treat EvtPhaseChanged as "drop every task of
// the previous phase".
func enter(s *State, p Phase, events []Event) []Event {
	s.Phase = p
	s.Stage = StageNone
	events = append(events, Event{Type: EvtPhaseChanged, Phase: p, Outcome: s.Round.Outcome})

	switch p {
	case PhaseSelecting:
		s.Selected = ""
		s.Round = Round{}
		s.Comment = ""
		s.Countdown = s.Rules.CommentSeconds

	case PhaseSubmitted:
		events = schedule(events, TaskReveal, s.Rules.RevealDelay, CmdRevealDue)

	case PhaseRevealing:
		s.Stage = StagePending
		events = schedule(events, TaskSwapStart, s.Rules.SwapLead, CmdSwapStart)
		events = schedule(events, TaskPostReveal, s.Rules.ResultHold, CmdPostRevealDue)

	case PhaseComment:
		s.Comment = ""
		s.Countdown = s.Rules.CommentSeconds
		events = schedule(events, TaskCountdown, s.Rules.CommentTick, CmdCountdownTick)

	case PhaseWalkOff:
		s.Comment = ""
		s.Countdown = s.Rules.CommentSeconds
		events = schedule(events, TaskWalkOff, s.Rules.WalkOffHold, CmdWalkOffDone)
	}
	return events
}

func settle(s *State, events []Event) []Event {
	s.Stage = StageSettled
	s.Order = TargetOrder(s.Round.Outcome)
	return append(events, Event{Type: EvtSwapSettled, Outcome: s.Round.Outcome})
}

func schedule(events []Event, name TaskName, d time.Duration, cmd CommandType) []Event {
	return append(events, Event{Type: EvtTimerStarted, Task: Task{Name: name, Delay: d, Cmd: cmd}})
}

func cueEvent(c Cue) Event {
	return Event{Type: EvtCueRequested, Cue: c}
}

func outcomeCue(o Outcome) Cue {
	if o == OutcomeWin {
		return CueWinSound
	}
	return CueLoseSound
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
