package engine

type ChoiceCode string

const (
	ChoiceStrikeout ChoiceCode = "K"
	ChoiceSingle    ChoiceCode = "1B"
	ChoiceDouble    ChoiceCode = "2B"
	ChoiceTriple    ChoiceCode = "3B"
	ChoiceOut       ChoiceCode = "O"
	ChoiceWalk      ChoiceCode = "BB"
	ChoiceHomeRun   ChoiceCode = "HR"
)

type Choice struct {
	Code    ChoiceCode
	Label   string // button label
	Display string // shown on the result screen
	Points  int
}

// Order matches the prediction grid.
var choiceTable = []Choice{
	{Code: ChoiceStrikeout, Label: "Strikeout", Display: "K", Points: 40},
	{Code: ChoiceSingle, Label: "Single", Display: "1B", Points: 50},
	{Code: ChoiceDouble, Label: "Double", Display: "2B", Points: 60},
	{Code: ChoiceTriple, Label: "Triple", Display: "3B", Points: 75},
	{Code: ChoiceOut, Label: "Out", Display: "OUT", Points: 20},
	{Code: ChoiceWalk, Label: "Walk", Display: "BB", Points: 30},
	{Code: ChoiceHomeRun, Label: "Home Run", Display: "HR", Points: 100},
}

var emojiPalette = []string{"🔥", "💪", "🎯", "⚾", "🏆", "⚡", "🚀", "💥"}

// Choices returns a copy of the prediction table in display order.
func Choices() []Choice {
	out := make([]Choice, len(choiceTable))
	copy(out, choiceTable)
	return out
}

func Lookup(code ChoiceCode) (Choice, bool) {
	for _, c := range choiceTable {
		if c.Code == code {
			return c, true
		}
	}
	return Choice{}, false
}

// DisplayName falls back to the raw code for anything outside the table.
func DisplayName(code ChoiceCode) string {
	if c, ok := Lookup(code); ok {
		return c.Display
	}
	return string(code)
}

func Emojis() []string {
	out := make([]string, len(emojiPalette))
	copy(out, emojiPalette)
	return out
}

func isEmoji(s string) bool {
	for _, e := range emojiPalette {
		if e == s {
			return true
		}
	}
	return false
}
