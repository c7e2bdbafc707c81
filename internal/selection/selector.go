package selection

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"learning-service/internal/models"
)

// Criteria steers question selection for a generated assessment.
type Criteria struct {
	// Tags the assessment should cover; questions sharing more tags get a
	// higher selection weight.
	Tags  []string
	Count int
	// ExcludeIDs removes questions already used elsewhere.
	ExcludeIDs []string
	// WeightExponent sharpens the preference for multi-tag matches.
	// Zero means the default of 2.
	WeightExponent float64
}

const noMatchWeight = 0.1

// Picker performs weighted random selection of questions by tag overlap.
type Picker struct {
	rand *rand.Rand
}

func NewPicker() *Picker {
	return &Picker{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewPickerWithSeed fixes the random source. Used by tests.
func NewPickerWithSeed(seed int64) *Picker {
	return &Picker{rand: rand.New(rand.NewSource(seed))}
}

type weightedQuestion struct {
	question models.Question
	weight   float64
	matches  int
}

// Pick selects up to criteria.Count questions from the pool, preferring
// questions whose tags overlap criteria.Tags. Selection is random but
// weighted, so repeated generations vary while still favoring relevance.
func (p *Picker) Pick(pool []models.Question, criteria Criteria) []models.Question {
	exponent := criteria.WeightExponent
	if exponent == 0 {
		exponent = 2
	}
	excluded := make(map[string]struct{}, len(criteria.ExcludeIDs))
	for _, id := range criteria.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	weighted := make([]weightedQuestion, 0, len(pool))
	for _, question := range pool {
		if _, ok := excluded[question.ID]; ok {
			continue
		}
		matches := countTagMatches(question.Tags, criteria.Tags)
		weight := noMatchWeight
		if matches > 0 {
			weight = math.Pow(float64(matches), exponent)
		}
		weighted = append(weighted, weightedQuestion{question: question, weight: weight, matches: matches})
	}

	if criteria.Count <= 0 || len(weighted) <= criteria.Count {
		out := make([]models.Question, len(weighted))
		for i, wq := range weighted {
			out[i] = wq.question
		}
		return out
	}

	selected := make([]models.Question, 0, criteria.Count)
	for len(selected) < criteria.Count && len(weighted) > 0 {
		idx := p.draw(weighted)
		selected = append(selected, weighted[idx].question)
		weighted = append(weighted[:idx], weighted[idx+1:]...)
	}
	return selected
}

// draw picks one index proportionally to weight.
func (p *Picker) draw(weighted []weightedQuestion) int {
	total := 0.0
	for _, wq := range weighted {
		total += wq.weight
	}
	if total == 0 {
		return p.rand.Intn(len(weighted))
	}

	r := p.rand.Float64() * total
	cumulative := 0.0
	for i, wq := range weighted {
		cumulative += wq.weight
		if r <= cumulative {
			return i
		}
	}
	return len(weighted) - 1
}

// TopMatches ranks the pool by tag overlap without randomness. Useful for
// inspecting why a generated assessment looks the way it does.
func TopMatches(pool []models.Question, tags []string, limit int) []models.Question {
	type ranked struct {
		question models.Question
		matches  int
	}
	out := make([]ranked, 0, len(pool))
	for _, q := range pool {
		out = append(out, ranked{question: q, matches: countTagMatches(q.Tags, tags)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].matches > out[j].matches
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	questions := make([]models.Question, len(out))
	for i, r := range out {
		questions[i] = r.question
	}
	return questions
}

func countTagMatches(questionTags, wantTags []string) int {
	want := make(map[string]struct{}, len(wantTags))
	for _, tag := range wantTags {
		want[strings.ToLower(tag)] = struct{}{}
	}
	matches := 0
	for _, tag := range questionTags {
		if _, ok := want[strings.ToLower(tag)]; ok {
			matches++
		}
	}
	return matches
}
