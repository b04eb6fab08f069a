package engine

import "time"

func DefaultRules() Rules {
	return Rules{
		RevealDelay:    5000 * time.Millisecond,
		SwapLead:       50 * time.Millisecond,
		SwapDuration:   1500 * time.Millisecond,
		ResultHold:     10000 * time.Millisecond,
		WalkOffHold:    10000 * time.Millisecond,
		CommentTick:    time.Second,
		CommentSeconds: 15,
		CommentMax:     25,
	}
}

func NewState(rules Rules) State {
	return State{
		Phase:     PhaseSelecting,
		Countdown: rules.CommentSeconds,
		Order:     OrderInitial,
		NextWin:   true, // first submission of a session wins
		Rules:     rules,
	}
}

func NewEmptyState() State {
	return NewState(DefaultRules())
}

func CanSubmit(s State) bool {
	if s.Phase != PhaseSelecting {
		return false
	}
	_, ok := Lookup(s.Selected)
	return ok
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// Tasks extracts the scheduled tasks carried by events, in emission order.
func Tasks(events []Event) []Task {
	var tasks []Task
	for _, event := range events {
		if event.Type == EvtTimerStarted {
			tasks = append(tasks, event.Task)
		}
	}
	return tasks
}

func Cues(events []Event) []Cue {
	var cues []Cue
	for _, event := range events {
		if event.Type == EvtCueRequested {
			cues = append(cues, event.Cue)
		}
	}
	return cues
}

// CanTransitionTo reports whether the machine may move from p to target.
// Any phase may fall back to selecting on reset.
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseSelecting {
		return true
	}
	validTransitions := map[Phase][]Phase{
		PhaseSelecting: {PhaseSubmitted},
		PhaseSubmitted: {PhaseRevealing},
		PhaseRevealing: {PhaseComment, PhaseWalkOff},
		PhaseComment:   {PhaseWalkOff},
	}
	for _, phase := range validTransitions[p] {
		if phase == target {
			return true
		}
	}
	return false
}

// BoardTitle is the heading shown above the leaderboard area.
func BoardTitle(s State) string {
	if s.Phase == PhaseWalkOff {
		return "WALK-OFF WINNERS"
	}
	return "LEADERBOARD"
}

// Headline is the result banner for the current round, empty outside the
// reveal and comment phases.
func Headline(s State) string {
	switch s.Phase {
	case PhaseRevealing, PhaseComment:
	default:
		return ""
	}
	if s.Round.Outcome == OutcomeWin {
		return "YOU WON!!"
	}
	return "BAD CALL!"
}
