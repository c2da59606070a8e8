package response

// Pool names. Each pool is a fixed list of templates for one branch.
const (
	PoolPositive   = "positive"
	PoolAnxiety    = "anxiety"
	PoolSadness    = "sadness"
	PoolAnger      = "anger"
	PoolLoneliness = "loneliness"
	PoolStress     = "stress"
	PoolNegative   = "negative"
	PoolSupport    = "support"
	PoolGratitude  = "gratitude"
	PoolDefault    = "default"
)

// Variables a template may reference as {name}, {growth} or {memory}.
const (
	varName   = "name"
	varGrowth = "growth"
	varMemory = "memory"
)

var templateVars = []string{varName, varGrowth, varMemory}

var pools = map[string][]string{
	PoolPositive: {
		"I'm glad to hear you're doing well! It's wonderful when we have moments of feeling good. Is there anything specific that's been contributing to your positive mood?",
		"That's great to hear! Even when we're feeling okay, it's still valuable to check in with ourselves. What's been going well for you lately?",
		"I'm happy you're feeling good today. Those positive moments are important to acknowledge and celebrate. What's been bringing you joy or contentment?",
		"It's wonderful to hear this, {name}! Moments like these are worth holding on to.",
		"This reminds me of when you told me: \"{memory}\". You keep finding your way to good moments.",
	},
	PoolAnxiety: {
		"Anxiety can feel really overwhelming. I want you to know that what you're experiencing is valid. Let's take this one step at a time. Can you tell me what's been making you feel anxious?",
		"I understand that you're feeling worried. Anxiety affects many people, and it's nothing to be ashamed of. Would you like to try a quick breathing exercise together, or would you prefer to talk about what's on your mind?",
		"Thank you for trusting me with your feelings about anxiety. It takes courage to acknowledge these emotions. What situations or thoughts tend to trigger your anxious feelings?",
		"I know worry can be heavy, {name}. You've been working on {growth}, and that practice can help right now. What feels most uncertain?",
	},
	PoolSadness: {
		"I hear that you're feeling sad right now. It's completely okay to feel this way - sadness is a natural human emotion. Can you tell me more about what's been weighing on your mind?",
		"Thank you for sharing that you're feeling down. Your feelings are valid, and I'm here to listen. Sometimes it helps to talk about what's contributing to these feelings. What's been on your heart lately?",
		"I'm sorry you're going through a difficult time. Depression and sadness can feel overwhelming, but you're not alone. Would you like to share what's been troubling you, or would you prefer we explore some gentle coping strategies together?",
		"I'm sorry things feel heavy today. I remember you once shared: \"{memory}\". That part of you is still here.",
	},
	PoolAnger: {
		"Anger is a valid emotion, and it often signals that something important to you has been affected. I'm here to listen without judgment. What's been frustrating you?",
		"It sounds like you're dealing with some difficult feelings of anger. Thank you for sharing this with me. Can you help me understand what's been making you feel this way?",
		"Frustration can be really challenging to deal with. I appreciate you being open about how you're feeling. What situation or experience has been making you angry?",
		"That sounds really frustrating, {name}. Taking a moment for {growth} might help before we unpack it together.",
	},
	PoolLoneliness: {
		"Loneliness can be one of the most difficult feelings to experience. I want you to know that reaching out here shows strength, and you're not truly alone. Can you tell me more about what's been making you feel isolated?",
		"Thank you for sharing about feeling lonely. These feelings are more common than you might think, and they're completely valid. What aspects of loneliness have been hardest for you?",
		"I hear that you're feeling alone right now. That must be really difficult. Even though we're connecting virtually, I want you to know that your feelings matter and you deserve support. What's been contributing to these feelings of isolation?",
		"You're not alone here, {name}. I'm glad you reached out. What would feel like connection to you right now?",
	},
	PoolStress: {
		"Stress can make everything feel more difficult. You're taking a positive step by reaching out. What aspects of your life are feeling most overwhelming right now?",
		"I can hear that you're under a lot of pressure. Stress affects us all differently, and it's important to acknowledge when we're struggling. What's been your biggest source of stress lately?",
		"Feeling overwhelmed is a signal that you're dealing with a lot right now. Let's break this down together. What are the main things that are contributing to your stress?",
		"That's a lot to carry. You've been growing in {growth}, so let's lean on that. What's one small thing we could set down today?",
	},
	PoolNegative: {
		"That sounds hard. I'm here with you. Would you like to tell me more about what's going on?",
		"Thank you for being honest about how you feel. What would help most right now?",
		"It's okay to not be okay. Let's take this at your pace. What's on your mind?",
	},
	PoolSupport: {
		"I'm here to provide emotional support and be a listening ear. While I can offer comfort and coping strategies, please remember that for serious mental health concerns, it's important to reach out to a mental health professional. How can I best support you right now?",
		"I'm here for you. We can talk things through or try a calming exercise together. What would help most?",
		"You don't have to figure this out alone. Tell me what kind of support would feel right today.",
	},
	PoolGratitude: {
		"You're so welcome. It means a lot to me that I can be here for you. Taking care of your mental health takes courage, and I'm proud of you for reaching out. Is there anything else you'd like to talk about?",
		"Thank you for saying that. It means a lot that I can be here for you. What else is on your mind?",
		"I'm always glad to be here for you, {name}. Anything else you'd like to share?",
	},
	PoolDefault: {
		"Thank you for sharing that with me. I'm here to listen and support you. Can you tell me more about how you're feeling?",
		"I appreciate you opening up. Your feelings and experiences matter. What would be most helpful for you to talk about right now?",
		"I'm here to support you through whatever you're going through. Would you like to explore these feelings together, or is there something specific on your mind?",
		"Thank you for trusting me with your thoughts. I'm here to listen without judgment. What's been on your heart lately?",
		"I hear you, and I want you to know that your feelings are completely valid. What would feel most supportive for you right now?",
	},
}

// Pool returns a copy of the named pool's templates.
func Pool(name string) []string {
	return append([]string(nil), pools[name]...)
}
