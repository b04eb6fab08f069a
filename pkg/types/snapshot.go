package types

type ChoiceView struct {
	Code    string `json:"code"`
	Label   string `json:"label"`
	Display string `json:"display"`
	Points  int    `json:"points"`
}

type RoundView struct {
	Choice   string `json:"choice"`
	Display  string `json:"display"`
	Points   int    `json:"points"`
	Outcome  string `json:"outcome"`
	Headline string `json:"headline,omitempty"`
}

type LeaderboardRow struct {
	ID     int    `json:"id"`
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Pick   string `json:"pick,omitempty"`
	Score  int    `json:"score"`
	Avatar string `json:"avatar"`
}

type CardMotion struct {
	ID         int    `json:"id"`
	OffsetPx   int    `json:"offset_px"`
	ZIndex     int    `json:"z_index"`
	DurationMs int64  `json:"duration_ms"`
	Easing     string `json:"easing"`
}

type WalkOffRow struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Message         string `json:"message"`
	Rank            int    `json:"rank"`
	CorrectPicks    int    `json:"correct_picks"`
	LastCorrectPick string `json:"last_correct_pick"`
	Avatar          string `json:"avatar"`
	Points          int    `json:"points"`
}

type LeaderboardView struct {
	Title   string           `json:"title"`
	Order   string           `json:"order"`
	Rows    []LeaderboardRow `json:"rows"`
	Motions []CardMotion     `json:"motions,omitempty"`
	WalkOff []WalkOffRow     `json:"walk_off,omitempty"`
}

type CommentView struct {
	Text      string   `json:"text"`
	Length    int      `json:"length"`
	Max       int      `json:"max"`
	Countdown int      `json:"countdown"`
	Emojis    []string `json:"emojis"`
}

type CueView struct {
	Track  string `json:"track,omitempty"`
	Action string `json:"action"`
	URI    string `json:"uri,omitempty"`
}

// SnapshotView is everything a client needs to draw the game screen.
type SnapshotView struct {
	Phase       string          `json:"phase"`
	Stage       string          `json:"stage,omitempty"`
	Selected    string          `json:"selected,omitempty"`
	CanSubmit   bool            `json:"can_submit"`
	Round       *RoundView      `json:"round,omitempty"`
	Comment     *CommentView    `json:"comment,omitempty"`
	Leaderboard LeaderboardView `json:"leaderboard"`
	Cues        []CueView       `json:"cues,omitempty"`
}
