// Package scoreboard holds the fixed game context shown around the prediction
// grid: the featured matchup, the current at-bat and the player's own stats.
// Nothing here updates at runtime.
package scoreboard

import "strconv"

type Status string

const (
	StatusUpcoming Status = "Upcoming"
	StatusLive     Status = "Live"
	StatusFinal    Status = "Final"
)

type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Color        string `json:"color"`
	Score        int    `json:"score"`
}

type Inning struct {
	Number int    `json:"number"`
	Half   string `json:"half"` // "top" | "bottom"
}

type Bases struct {
	First  bool `json:"first"`
	Second bool `json:"second"`
	Third  bool `json:"third"`
}

type Player struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Team     string         `json:"team"`
	Position string         `json:"position"` // "pitcher" | "batter"
	Stats    map[string]any `json:"stats"`
	ImageURL string         `json:"image_url"`
}

type AtBat struct {
	Pitcher Player `json:"pitcher"`
	Batter  Player `json:"batter"`
}

type Game struct {
	ID           string `json:"id"`
	Home         Team   `json:"home_team"`
	Away         Team   `json:"away_team"`
	Status       Status `json:"status"`
	Inning       Inning `json:"inning"`
	Outs         int    `json:"outs"`
	BaseRunners  Bases  `json:"base_runners"`
	CurrentAtBat AtBat  `json:"current_at_bat"`
}

type UserStats struct {
	TodayScore         int `json:"today_score"`
	CorrectPredictions int `json:"correct_predictions"`
	TotalPredictions   int `json:"total_predictions"`
	CurrentRank        int `json:"current_rank"`
}

// Featured returns the featured game. Each call builds fresh stat maps.
func Featured() Game {
	return Game{
		ID:     "game-001",
		Home:   Team{ID: "nyy", Name: "Yankees", Abbreviation: "NYY", Color: "#0C2340", Score: 3},
		Away:   Team{ID: "wsh", Name: "Nationals", Abbreviation: "WSH", Color: "#AB0003", Score: 2},
		Status: StatusLive,
		Inning: Inning{Number: 6, Half: "bottom"},
		Outs:   1,
		BaseRunners: Bases{
			First:  true,
			Second: true,
		},
		CurrentAtBat: AtBat{
			Pitcher: Player{
				ID:       "player-001",
				Name:     "Max Scherzer",
				Team:     "Washington Nationals",
				Position: "pitcher",
				Stats:    map[string]any{"ERA": "2.86", "SO": 174, "WHIP": "1.05"},
				ImageURL: "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/pitcher-EyuvWREn4EijFTcHCprPoYNLEOnLPb.webp",
			},
			Batter: Player{
				ID:       "player-002",
				Name:     "Anthony Rizzo",
				Team:     "New York Yankees",
				Position: "batter",
				Stats:    map[string]any{"AVG": ".281", "HR": 22, "RBI": 67},
				ImageURL: "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/batter-DwAa3HihC3T1Uy53dYVPeL6h1nwZ63.webp",
			},
		},
	}
}

func Stats() UserStats {
	return UserStats{
		TodayScore:         320,
		CorrectPredictions: 8,
		TotalPredictions:   12,
		CurrentRank:        5,
	}
}

// InningLabel renders the inning the way the scoreboard header does, e.g.
// "Bottom 6th".
func (g Game) InningLabel() string {
	half := "Top"
	if g.Inning.Half == "bottom" {
		half = "Bottom"
	}
	return half + " " + ordinal(g.Inning.Number)
}

func (g Game) OutsLabel() string {
	if g.Outs == 1 {
		return "1 Out"
	}
	return strconv.Itoa(g.Outs) + " Outs"
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
