package journal

import "github.com/zhouzirui/calm-companion/backend/internal/analysis/keyword"

// Theme names, in the order they are checked.
const (
	ThemeDifficulty   = "difficulty"
	ThemeFatigue      = "fatigue"
	ThemeWork         = "work"
	ThemeRelationship = "relationship"
	ThemePositivity   = "positivity"
	ThemeDefault      = "default"
)

type theme struct {
	name     string
	keywords keyword.Set
}

// themePriority is checked top to bottom; the first theme with a keyword
// present wins. Heavier themes come first so "a difficult day at work"
// gets difficulty feedback. Keywords match whole words.
var themePriority = []theme{
	{ThemeDifficulty, keyword.New("difficult", "hard", "struggle*", "challenging", "rough")},
	{ThemeFatigue, keyword.New("tired", "exhausted", "sleep*", "rest", "rested", "resting", "drained")},
	{ThemeWork, keyword.New("work", "worked", "working", "job", "meeting*", "colleague*", "boss")},
	{ThemeRelationship, keyword.New("family", "friend*", "relationship*", "partner*")},
	{ThemePositivity, keyword.New("good day", "happy", "great", "wonderful", "grateful")},
}

var feedbackPools = map[string][]string{
	ThemeDifficulty: {
		"I can sense this was a challenging day for you. Thank you for being so honest in your writing - this vulnerability helps me understand your experiences better. What gave you strength to get through it?",
		"Your courage in sharing difficult moments is remarkable. These honest reflections are teaching me about your resilience and how you navigate tough times. You're stronger than you realize.",
		"I appreciate you trusting me with these challenging feelings. Understanding how you process difficult days helps me be a better companion for you. What would support look like for you right now?",
	},
	ThemeFatigue: {
		"I notice you're mentioning feeling tired. Rest and energy levels seem to be important factors in your wellbeing. Understanding your energy patterns helps me recognize when you might need extra support.",
		"Your body seems to be telling you something important about rest. These observations about your energy help me learn when you're most receptive to different types of conversations and support.",
		"Thank you for noting your energy levels - this kind of self-awareness is so valuable. Learning about your rest patterns helps me understand your natural rhythms better.",
	},
	ThemeWork: {
		"I'm getting a sense of how your work life affects your overall wellbeing. These details about your professional experiences help me understand your daily stressors and motivations better.",
		"Your work experiences seem to play a significant role in your day. I'm learning how workplace dynamics impact your mood - this insight helps me offer more relevant support in our chats.",
		"Thank you for sharing about your work day. Understanding your professional challenges and victories helps me recognize patterns in what energizes or drains you.",
	},
	ThemeRelationship: {
		"Relationships seem really important to you - I can see how your connections with others deeply influence your day. This helps me understand what matters most in your life.",
		"Your relationships clearly bring both joy and complexity to your life. Learning about these important connections helps me better understand your emotional landscape.",
		"The people in your life seem to be a significant source of meaning for you. These insights about your relationships help me appreciate what truly matters to you.",
	},
	ThemePositivity: {
		"It's wonderful to read about your positive day! These moments of happiness are so important to cherish. What was the highlight that made you feel most joyful?",
		"Your joy really comes through in your writing! It's beautiful to see you experiencing such positive emotions. Keep nurturing these feelings - they're helping me understand what brings you happiness.",
		"Thank you for sharing such a bright entry! Days like these are precious. I'm learning that positive experiences like these really energize you - this helps me support you better in our conversations.",
	},
	ThemeDefault: {
		"Thank you for this thoughtful entry. Each reflection you share helps me understand your unique perspective and experiences better. Your openness is helping me become a more supportive companion.",
		"I appreciate the time you took to reflect on your day. These personal insights are invaluable - they're teaching me about your values, challenges, and what brings you meaning.",
		"Your writing reveals so much about who you are and what matters to you. This kind of honest reflection is helping me learn how to better support you in our conversations.",
		"Every entry teaches me something new about your inner world. Your willingness to share these personal moments is helping me understand how to be more helpful and empathetic in our interactions.",
		"I'm grateful you chose to share these thoughts with me. Understanding your daily experiences and emotions helps me recognize patterns and offer more personalized support.",
	},
}

// ThemeFor returns the first matching theme in priority order.
func ThemeFor(text string) string {
	words := keyword.Words(text)
	for _, t := range themePriority {
		if t.keywords.MatchWords(words) {
			return t.name
		}
	}
	return ThemeDefault
}

// FeedbackPool returns a copy of a theme's feedback templates.
func FeedbackPool(theme string) []string {
	return append([]string(nil), feedbackPools[theme]...)
}
