package profile

import "time"

// MaxPositiveMemories caps how many positive memories a profile retains.
const MaxPositiveMemories = 10

// UserProfile is the accumulated personalization record for the single local user.
type UserProfile struct {
	Name              string         `json:"name,omitempty"`
	PreferredTopics   []string       `json:"preferredTopics"`
	EmotionCounts     map[string]int `json:"emotionCounts"`
	PositiveMemories  []string       `json:"positiveMemories"`
	GrowthAreas       []string       `json:"growthAreas"`
	ConversationCount int            `json:"conversationCount"`
	LastSeen          time.Time      `json:"lastSeen"`
}

// Default returns the zero-valued profile used when nothing is stored yet.
func Default() UserProfile {
	return UserProfile{
		PreferredTopics:  []string{},
		EmotionCounts:    map[string]int{},
		PositiveMemories: []string{},
		GrowthAreas:      []string{},
	}
}

// Normalize replaces nil collections so the record always serializes the same way.
func (p UserProfile) Normalize() UserProfile {
	if p.PreferredTopics == nil {
		p.PreferredTopics = []string{}
	}
	if p.EmotionCounts == nil {
		p.EmotionCounts = map[string]int{}
	}
	if p.PositiveMemories == nil {
		p.PositiveMemories = []string{}
	}
	if p.GrowthAreas == nil {
		p.GrowthAreas = []string{}
	}
	return p
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.PreferredTopics = append([]string{}, p.PreferredTopics...)
	out.PositiveMemories = append([]string{}, p.PositiveMemories...)
	out.GrowthAreas = append([]string{}, p.GrowthAreas...)
	out.EmotionCounts = make(map[string]int, len(p.EmotionCounts))
	for k, v := range p.EmotionCounts {
		out.EmotionCounts[k] = v
	}
	return out
}

// LatestMemory returns the most recently retained positive memory.
func (p UserProfile) LatestMemory() (string, bool) {
	if len(p.PositiveMemories) == 0 {
		return "", false
	}
	return p.PositiveMemories[len(p.PositiveMemories)-1], true
}

// LatestGrowthArea returns the most recently inferred growth area.
func (p UserProfile) LatestGrowthArea() (string, bool) {
	if len(p.GrowthAreas) == 0 {
		return "", false
	}
	return p.GrowthAreas[len(p.GrowthAreas)-1], true
}

// RecentGrowthAreas returns up to n growth areas, most recent last.
func (p UserProfile) RecentGrowthAreas(n int) []string {
	if n <= 0 || len(p.GrowthAreas) == 0 {
		return nil
	}
	start := len(p.GrowthAreas) - n
	if start < 0 {
		start = 0
	}
	return append([]string(nil), p.GrowthAreas[start:]...)
}
