package sentiment

import "strings"

// Category 表示粗粒度的情感倾向。
type Category string

const (
	Positive Category = "positive"
	Negative Category = "negative"
	Neutral  Category = "neutral"
)

// Emotion labels produced by the lookup table.
const (
	EmotionNeutral     = "neutral"
	EmotionAnxiety     = "anxiety"
	EmotionWorry       = "worry"
	EmotionSadness     = "sadness"
	EmotionDepression  = "depression"
	EmotionAnger       = "anger"
	EmotionFrustration = "frustration"
	EmotionLoneliness  = "loneliness"
	EmotionStress      = "stress"
	EmotionJoy         = "joy"
	EmotionGratitude   = "gratitude"
	EmotionExcitement  = "excitement"
	EmotionPride       = "pride"
	EmotionCalm        = "calm"
	EmotionHope        = "hope"
)

// Result 给出情感类别、主导情绪以及置信度。
type Result struct {
	Category   Category `json:"category"`
	Emotion    string   `json:"emotion"`
	Confidence float64  `json:"confidence"`
	Positive   int      `json:"positiveMatches"`
	Negative   int      `json:"negativeMatches"`
}

var positiveWords = toSet(
	"happy", "good", "great", "wonderful", "amazing", "awesome", "fine", "okay", "well",
	"better", "excited", "grateful", "thankful", "joy", "joyful", "love", "proud",
	"calm", "peaceful", "relaxed", "hopeful", "glad", "content", "accomplished",
)

var negativeWords = toSet(
	"sad", "depressed", "down", "upset", "hurt", "hopeless", "unhappy",
	"anxious", "anxiety", "worried", "worry", "nervous", "scared", "afraid", "panic",
	"angry", "mad", "furious", "frustrated", "annoyed", "irritated",
	"lonely", "alone", "isolated",
	"stressed", "stress", "overwhelmed", "pressure", "tired", "exhausted", "bad", "awful",
)

var emotionTable = map[string]string{
	"anxious":      EmotionAnxiety,
	"anxiety":      EmotionAnxiety,
	"nervous":      EmotionAnxiety,
	"scared":       EmotionAnxiety,
	"afraid":       EmotionAnxiety,
	"panic":        EmotionAnxiety,
	"worried":      EmotionWorry,
	"worry":        EmotionWorry,
	"sad":          EmotionSadness,
	"down":         EmotionSadness,
	"upset":        EmotionSadness,
	"hurt":         EmotionSadness,
	"unhappy":      EmotionSadness,
	"depressed":    EmotionDepression,
	"hopeless":     EmotionDepression,
	"angry":        EmotionAnger,
	"mad":          EmotionAnger,
	"furious":      EmotionAnger,
	"frustrated":   EmotionFrustration,
	"annoyed":      EmotionFrustration,
	"irritated":    EmotionFrustration,
	"lonely":       EmotionLoneliness,
	"alone":        EmotionLoneliness,
	"isolated":     EmotionLoneliness,
	"stressed":     EmotionStress,
	"stress":       EmotionStress,
	"overwhelmed":  EmotionStress,
	"pressure":     EmotionStress,
	"happy":        EmotionJoy,
	"joy":          EmotionJoy,
	"joyful":       EmotionJoy,
	"love":         EmotionJoy,
	"glad":         EmotionJoy,
	"grateful":     EmotionGratitude,
	"thankful":     EmotionGratitude,
	"excited":      EmotionExcitement,
	"proud":        EmotionPride,
	"accomplished": EmotionPride,
	"calm":         EmotionCalm,
	"peaceful":     EmotionCalm,
	"relaxed":      EmotionCalm,
	"hopeful":      EmotionHope,
}

// Classify 对文本做关键词计数。按空白切分并转小写，不处理标点、否定或短语；
// 同一文本命中多个情绪时以最后一个命中的词为准。
func Classify(text string) Result {
	tokens := strings.Fields(strings.ToLower(text))

	emotion := EmotionNeutral
	pos, neg := 0, 0
	for _, token := range tokens {
		matched := false
		if _, ok := positiveWords[token]; ok {
			pos++
			matched = true
		}
		if _, ok := negativeWords[token]; ok {
			neg++
			matched = true
		}
		if !matched {
			continue
		}
		if label, ok := emotionTable[token]; ok {
			emotion = label
		}
	}

	total := pos + neg
	if total == 0 {
		return Result{Category: Neutral, Emotion: EmotionNeutral, Confidence: 0}
	}

	category := Neutral
	switch {
	case pos > neg:
		category = Positive
	case neg > pos:
		category = Negative
	}

	return Result{
		Category:   category,
		Emotion:    emotion,
		Confidence: float64(max(pos, neg)) / float64(total),
		Positive:   pos,
		Negative:   neg,
	}
}

// IsNeutralEmotion reports whether the label carries no emotional signal.
func IsNeutralEmotion(label string) bool {
	return label == "" || label == EmotionNeutral
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
