package profile

import (
	"slices"
	"time"

	"github.com/zhouzirui/calm-companion/backend/internal/analysis/keyword"
	"github.com/zhouzirui/calm-companion/backend/internal/analysis/sentiment"
	"github.com/zhouzirui/calm-companion/backend/internal/model/profile"
	"github.com/zhouzirui/calm-companion/backend/internal/service/schedule"
)

// Triggers match whole words, so "won" stays quiet on "wonderful" and "won't".
var achievementTriggers = keyword.New(
	"achieved", "accomplished", "finished", "completed", "proud", "succeeded",
	"managed to", "won", "passed", "promoted", "graduated", "finally did",
)

var growthTriggers = keyword.New(
	"learn*", "improv*", "grow*", "better", "goal*", "practic*", "progress*", "working on",
)

// GrowthAreas is the taxonomy growth labels are drawn from.
var GrowthAreas = []string{
	"emotional awareness",
	"stress management",
	"self-compassion",
	"mindfulness",
	"healthy boundaries",
	"self-confidence",
	"communication",
	"work-life balance",
}

// Update returns a new profile with the turn folded in. The input is not modified.
func Update(p profile.UserProfile, text string, result sentiment.Result, picker schedule.Picker, now time.Time) profile.UserProfile {
	next := p.Normalize().Clone()
	words := keyword.Words(text)

	if !sentiment.IsNeutralEmotion(result.Emotion) {
		next.EmotionCounts[result.Emotion]++
	}

	if result.Category == sentiment.Positive && achievementTriggers.MatchWords(words) {
		next.PositiveMemories = appendMemory(next.PositiveMemories, text)
	}

	if growthTriggers.MatchWords(words) {
		area := GrowthAreas[picker.IntN(len(GrowthAreas))]
		if !slices.Contains(next.GrowthAreas, area) {
			next.GrowthAreas = append(next.GrowthAreas, area)
		}
	}

	next.LastSeen = now.UTC()
	return next
}

func appendMemory(memories []string, text string) []string {
	if slices.Contains(memories, text) {
		return memories
	}
	memories = append(memories, text)
	if over := len(memories) - profile.MaxPositiveMemories; over > 0 {
		memories = append([]string(nil), memories[over:]...)
	}
	return memories
}
