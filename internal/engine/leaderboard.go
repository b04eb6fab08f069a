package engine

import (
	"slices"
	"time"
)

type OrderKey string

const (
	OrderInitial OrderKey = "initial"
	OrderA       OrderKey = "orderA" // player A (BENNYTHEBAT!) first
	OrderB       OrderKey = "orderB" // player B (SLUGGERKING) first
)

const (
	playerA = 2
	playerB = 1
)

// Card geometry and motion used by the swap animation.
const (
	CardHeightPx = 44
	CardMarginPx = 8
	SwapEasing   = "cubic-bezier(0.34, 1.56, 0.64, 1)"
)

type LeaderboardEntry struct {
	ID     int
	Rank   int
	Name   string
	Pick   string // empty when the player has not picked yet
	Score  int
	Avatar string
}

func (e LeaderboardEntry) HasPick() bool { return e.Pick != "" }

type WalkOffEntry struct {
	ID              int
	Name            string
	Message         string
	Rank            int
	CorrectPicks    int
	LastCorrectPick string
	Avatar          string
	Points          int
}

type CardMotion struct {
	EntryID  int
	OffsetPx int // positive moves the card down
	ZIndex   int
	Duration time.Duration
	Easing   string
}

const (
	avatarPenguin = "https://dg9gcoxo6erv82nw.public.blob.vercel-storage.com/penguin-hjLH3VdPv42eUNWcwsHXUjHMKvBbPt.gif"
	avatarDefault = "https://dg9gcoxo6erv82nw.public.blob.vercel-storage.com/Glee_xlarge-F6h29o7fSSWkPANT5bKeTvTk8WJGYO.jpg"
)

// Everything below the top two is shared by both orders.
var boardTail = []LeaderboardEntry{
	{ID: 3, Rank: 3, Name: "GRANDSLAM", Score: 798, Avatar: avatarDefault},
	{ID: 4, Rank: 4, Name: "DIAMONDPRO", Pick: "OUT", Score: 756, Avatar: avatarDefault},
	{ID: 5, Rank: 5, Name: "STRIKEZONE", Pick: "K", Score: 689, Avatar: avatarDefault},
	{ID: 6, Rank: 6, Name: "BASEBALLFAN", Score: 623, Avatar: avatarDefault},
	{ID: 7, Rank: 7, Name: "CATCHERCALL", Pick: "OUT", Score: 567, Avatar: avatarDefault},
	{ID: 8, Rank: 8, Name: "HOMERUNHERO", Pick: "BB", Score: 534, Avatar: avatarDefault},
	{ID: 9, Rank: 9, Name: "BATSWINGER", Score: 423, Avatar: avatarDefault},
	{ID: 10, Rank: 10, Name: "WALKMASTER", Pick: "BB", Score: 345, Avatar: avatarDefault},
}

var orderBBoard = append([]LeaderboardEntry{
	{ID: playerB, Rank: 1, Name: "SLUGGERKING", Pick: "HR", Score: 912, Avatar: avatarPenguin},
	{ID: playerA, Rank: 2, Name: "BENNYTHEBAT!", Pick: "K", Score: 847, Avatar: avatarDefault},
}, boardTail...)

var orderABoard = append([]LeaderboardEntry{
	{ID: playerA, Rank: 1, Name: "BENNYTHEBAT!", Pick: "K", Score: 847, Avatar: avatarDefault},
	{ID: playerB, Rank: 2, Name: "SLUGGERKING", Pick: "HR", Score: 912, Avatar: avatarPenguin},
}, boardTail...)

// The first load shows player B on top.
var initialBoard = orderBBoard

var walkOffTable = []WalkOffEntry{
	{ID: 1, Name: "SLUGGERKING", Message: "I told you so!! 🔥", Rank: 3, CorrectPicks: 8, LastCorrectPick: "HR", Avatar: avatarPenguin, Points: 85},
	{ID: 2, Name: "BENNYTHEBAT!", Message: "Called it from the start!", Rank: 1, CorrectPicks: 12, LastCorrectPick: "K", Avatar: avatarDefault, Points: 100},
	{ID: 3, Name: "GRANDSLAM", Message: "Easy money right there!", Rank: 5, CorrectPicks: 6, LastCorrectPick: "1B", Avatar: avatarDefault, Points: 50},
	{ID: 4, Name: "DIAMONDPRO", Message: "That's how it's done!", Rank: 2, CorrectPicks: 10, LastCorrectPick: "2B", Avatar: avatarDefault, Points: 75},
	{ID: 5, Name: "STRIKEZONE", Message: "Saw that coming a mile away!", Rank: 4, CorrectPicks: 7, LastCorrectPick: "3B", Avatar: avatarDefault, Points: 35},
}

// Leaderboard returns a copy of the table for key. Unknown keys fall back to
// the initial table.
func Leaderboard(key OrderKey) []LeaderboardEntry {
	var src []LeaderboardEntry
	switch key {
	case OrderA:
		src = orderABoard
	case OrderB:
		src = orderBBoard
	default:
		src = initialBoard
	}
	return slices.Clone(src)
}

// TargetOrder is the order a round settles on.
func TargetOrder(o Outcome) OrderKey {
	if o == OutcomeWin {
		return OrderA
	}
	return OrderB
}

// PreSwapOrder is the order shown while the swap toward TargetOrder(o) runs.
func PreSwapOrder(o Outcome) OrderKey {
	if o == OutcomeWin {
		return OrderB
	}
	return OrderA
}

// DisplayOrder picks the table to render. Until the swap settles the cards
// are drawn from the pre-swap table and moved by SwapMotions; once settled
// the committed order already matches the outcome.
func DisplayOrder(s State) OrderKey {
	if s.Phase == PhaseRevealing && s.Stage != StageSettled {
		return PreSwapOrder(s.Round.Outcome)
	}
	return s.Order
}

// SwapMotions returns the transforms for the two top cards while the swap
// animates. Every other card stays put.
func SwapMotions(s State) []CardMotion {
	if s.Phase != PhaseRevealing || s.Stage != StageAnimating {
		return nil
	}

	up, down := playerA, playerB
	if s.Round.Outcome != OutcomeWin {
		up, down = playerB, playerA
	}

	offset := CardHeightPx + CardMarginPx
	return []CardMotion{
		{EntryID: down, OffsetPx: offset, ZIndex: 10, Duration: s.Rules.SwapDuration, Easing: SwapEasing},
		{EntryID: up, OffsetPx: -offset, ZIndex: 10, Duration: s.Rules.SwapDuration, Easing: SwapEasing},
	}
}

// WalkOffWinners returns the walk-off panel rows by points, highest first.
// Ties keep table order.
func WalkOffWinners() []WalkOffEntry {
	rows := slices.Clone(walkOffTable)
	slices.SortStableFunc(rows, func(a, b WalkOffEntry) int {
		return b.Points - a.Points
	})
	return rows
}
