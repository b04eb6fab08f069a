package types

// Client -> Server
// SelectPrediction:
//   choice: "K" | "1B" | "2B" | "3B" | "O" | "BB" | "HR"
//
// SubmitPrediction: {}
//
// SetComment:
//   text: string (cut to 25 characters)
//
// AppendEmoji:
//   emoji: one of the palette in GET /choices
//
// SendComment: {}
//
// Reset: {}

// Server -> Client
// StateSnapshot:
//   version: number
//   view: SnapshotView
//
// Error:
//   error: string
//   version: number
//   view: SnapshotView // unchanged state, for resync

type ClientMessage struct {
	Type   string `json:"type"`
	Choice string `json:"choice,omitempty"`
	Text   string `json:"text,omitempty"`
	Emoji  string `json:"emoji,omitempty"`
}

type ServerMessage struct {
	Type    string        `json:"type"` // "StateSnapshot" | "Error"
	Version int           `json:"version"`
	View    *SnapshotView `json:"view,omitempty"`
	Error   string        `json:"error,omitempty"`
}
