package chat

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/calm-companion/backend/internal/model/profile"
)

// FirstTimeWelcome greets a user who has never opened the chat before.
const FirstTimeWelcome = "Hello! I'm your CalmCompanion AI. I'm here to listen and provide emotional support. How are you feeling today?"

const veteranThreshold = 5

// WelcomeMessage picks the greeting for a profile before its counter is bumped.
func WelcomeMessage(p profile.UserProfile) string {
	greeting := "Welcome back"
	if name := strings.TrimSpace(p.Name); name != "" {
		greeting += ", " + name
	}

	switch {
	case p.ConversationCount <= 0:
		return FirstTimeWelcome
	case p.ConversationCount < veteranThreshold:
		return greeting + "! It's good to see you again. How have you been feeling since we last talked?"
	}

	areas := p.RecentGrowthAreas(2)
	if len(areas) == 0 {
		return fmt.Sprintf("%s! We've talked %d times now, and I'm always glad you come back. How are you feeling today?", greeting, p.ConversationCount)
	}
	return fmt.Sprintf("%s! We've talked %d times now. Lately we've been exploring %s. How are you feeling today?",
		greeting, p.ConversationCount, strings.Join(areas, " and "))
}
