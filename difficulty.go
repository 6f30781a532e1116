package adaptivequiz

// Adaptive difficulty thresholds. A streak of recent scores at or above
// escalateThreshold moves the difficulty up one level; a streak at or below
// demoteThreshold moves it down one. The streak must span the last
// adaptiveStreakLen scores of the trailing window.
const (
	escalateThreshold = 85.0
	demoteThreshold   = 65.0
	adaptiveStreakLen = 3
)

// AdaptiveDifficulty proposes a difficulty for the next attempt based on the
// user's trailing performance window. With no history, or fewer than three
// recorded scores, the requested difficulty is returned unchanged. The
// history snapshot is never mutated.
func AdaptiveDifficulty(history *QuizPerformanceHistory, requested Difficulty) Difficulty {
	if history == nil || len(history.RecentScores) < adaptiveStreakLen {
		return requested
	}

	recent := history.RecentScores[len(history.RecentScores)-adaptiveStreakLen:]

	allHigh, allLow := true, true
	for _, score := range recent {
		if score < escalateThreshold {
			allHigh = false
		}
		if score > demoteThreshold {
			allLow = false
		}
	}

	switch {
	case allHigh:
		return escalate(requested)
	case allLow:
		return demote(requested)
	default:
		return requested
	}
}

func escalate(d Difficulty) Difficulty {
	switch d {
	case DifficultyBeginner:
		return DifficultyIntermediate
	case DifficultyIntermediate:
		return DifficultyAdvanced
	default:
		return d
	}
}

func demote(d Difficulty) Difficulty {
	switch d {
	case DifficultyAdvanced:
		return DifficultyIntermediate
	case DifficultyIntermediate:
		return DifficultyBeginner
	default:
		return d
	}
}
