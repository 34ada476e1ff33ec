package validate

import "strings"

// StrengthResult describes how strong a password is.
type StrengthResult struct {
	Score    int    // 0..6
	Level    string // css class: weak, fair, good or strong
	Label    string
	Feedback string
}

var strengthLevels = [...]struct{ level, label string }{
	{"weak", "Very Weak"},
	{"weak", "Weak"},
	{"fair", "Fair"},
	{"fair", "Fair"},
	{"good", "Good"},
	{"strong", "Strong"},
	{"strong", "Very Strong"},
}

var sequentialPatterns = []string{"123", "abc", "qwe"}

// Strength scores a password from 0 to 6. Each of length >= 8, length >= 12,
// lowercase, uppercase, digit and symbol adds a point; a run of three
// identical characters and a common sequence each take one away.
func Strength(password string) StrengthResult {
	var (
		score    int
		feedback []string
		runes    = []rune(password)
	)

	if len(runes) >= 8 {
		score++
	} else {
		feedback = append(feedback, "at least 8 characters")
	}
	if len(runes) >= 12 {
		score++
	}

	var lower, upper, digit, symbol bool
	for _, r := range runes {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	for _, c := range []struct {
		has  bool
		hint string
	}{
		{lower, "lowercase letters"},
		{upper, "uppercase letters"},
		{digit, "numbers"},
		{symbol, "special characters"},
	} {
		if c.has {
			score++
		} else {
			feedback = append(feedback, c.hint)
		}
	}

	if hasRepeatedRun(runes, 3) {
		score--
	}
	folded := strings.ToLower(password)
	for _, p := range sequentialPatterns {
		if strings.Contains(folded, p) {
			score--
			break
		}
	}

	score = max(0, min(6, score))
	res := StrengthResult{
		Score:    score,
		Level:    strengthLevels[score].level,
		Label:    strengthLevels[score].label,
		Feedback: "Password meets requirements",
	}
	if len(feedback) > 0 {
		res.Feedback = "Add: " + strings.Join(feedback, ", ")
	}
	return res
}

func hasRepeatedRun(runes []rune, n int) bool {
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
