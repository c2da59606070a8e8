package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/calm-companion/backend/internal/analysis/sentiment"
	"github.com/zhouzirui/calm-companion/backend/internal/model/profile"
	"github.com/zhouzirui/calm-companion/backend/internal/service/schedule"
)

const memoryPreviewRunes = 50

// template 是预编译的回复模板，needs 记录它引用的变量。
type template struct {
	tmpl  prompt.ChatTemplate
	needs []string
}

// request 是选择链的输入。
type request struct {
	RawText string
	Result  sentiment.Result
	Profile profile.UserProfile
}

// Selector picks a companion reply from the pool matching a classification.
// Rendering and picking run as a compiled chain: render -> pick.
type Selector struct {
	picker    schedule.Picker
	templates map[string][]template
	chain     compose.Runnable[request, string]
}

// NewSelector compiles every pool and the selection chain.
func NewSelector(ctx context.Context, picker schedule.Picker) (*Selector, error) {
	s := &Selector{
		picker:    picker,
		templates: make(map[string][]template, len(pools)),
	}
	for name, texts := range pools {
		compiled := make([]template, 0, len(texts))
		for _, text := range texts {
			compiled = append(compiled, template{
				tmpl:  prompt.FromMessages(schema.FString, schema.AssistantMessage(text, nil)),
				needs: referencedVars(text),
			})
		}
		s.templates[name] = compiled
	}

	chain := compose.NewChain[request, string]()
	chain.AppendLambda(compose.InvokableLambda(s.render))
	chain.AppendLambda(compose.InvokableLambda(s.pick))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile response chain: %w", err)
	}
	s.chain = runnable
	return s, nil
}

// Select returns one reply. It reads the profile but never changes it.
func (s *Selector) Select(ctx context.Context, rawText string, result sentiment.Result, p profile.UserProfile) string {
	reply, err := s.chain.Invoke(ctx, request{RawText: rawText, Result: result, Profile: p})
	if err != nil {
		log.Printf("[response] select failed, use default reply: %v", err)
		return pools[PoolDefault][0]
	}
	return reply
}

func (s *Selector) render(ctx context.Context, req request) ([]string, error) {
	candidates := s.candidates(ctx, PoolFor(req.RawText, req.Result), req.Profile)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no usable template for %q", req.RawText)
	}
	return candidates, nil
}

func (s *Selector) pick(_ context.Context, candidates []string) (string, error) {
	return candidates[s.picker.IntN(len(candidates))], nil
}

// candidates formats the pool against the profile. A template referencing a
// value the profile does not have is dropped.
func (s *Selector) candidates(ctx context.Context, name string, p profile.UserProfile) []string {
	templates, ok := s.templates[strings.TrimSpace(name)]
	if !ok || len(templates) == 0 {
		templates = s.templates[PoolDefault]
	}

	vars := profileVars(p)
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		if !hasAll(vars, t.needs) {
			continue
		}
		msgs, err := t.tmpl.Format(ctx, vars)
		if err != nil || len(msgs) == 0 {
			log.Printf("[response] skip template: %v", err)
			continue
		}
		out = append(out, msgs[0].Content)
	}
	return out
}

// profileVars 只包含 profile 中存在的值。
func profileVars(p profile.UserProfile) map[string]any {
	vars := make(map[string]any, len(templateVars))
	if name := strings.TrimSpace(p.Name); name != "" {
		vars[varName] = name
	}
	if growth, ok := p.LatestGrowthArea(); ok {
		vars[varGrowth] = growth
	}
	if memory, ok := p.LatestMemory(); ok {
		vars[varMemory] = truncate(memory, memoryPreviewRunes)
	}
	return vars
}

func referencedVars(text string) []string {
	var needs []string
	for _, v := range templateVars {
		if strings.Contains(text, "{"+v+"}") {
			needs = append(needs, v)
		}
	}
	return needs
}

func hasAll(vars map[string]any, needs []string) bool {
	for _, n := range needs {
		if _, ok := vars[n]; !ok {
			return false
		}
	}
	return true
}

// PoolFor names the pool a message falls into.
func PoolFor(rawText string, result sentiment.Result) string {
	switch result.Category {
	case sentiment.Positive:
		return PoolPositive
	case sentiment.Negative:
		switch result.Emotion {
		case sentiment.EmotionAnxiety, sentiment.EmotionWorry:
			return PoolAnxiety
		case sentiment.EmotionSadness, sentiment.EmotionDepression:
			return PoolSadness
		case sentiment.EmotionAnger, sentiment.EmotionFrustration:
			return PoolAnger
		case sentiment.EmotionLoneliness:
			return PoolLoneliness
		case sentiment.EmotionStress:
			return PoolStress
		default:
			return PoolNegative
		}
	}

	lower := strings.ToLower(rawText)
	switch {
	case strings.Contains(lower, "help") || strings.Contains(lower, "support"):
		return PoolSupport
	case strings.Contains(lower, "thank"):
		return PoolGratitude
	default:
		return PoolDefault
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
