package dialogue

import (
	"fmt"
	"strconv"
	"strings"

	"rne-assistant/internal/lang"
	"rne-assistant/internal/retrieval"
)

// DefaultMargin is the fused-score gap below which two candidate groups are
// considered ambiguous. Scores are on the [0,1] fused scale.
const DefaultMargin = 0.1

// Option is one enumerated clarification choice. Selecting it re-runs
// retrieval with RefinedQuery instead of the original question.
type Option struct {
	Label        string `json:"label"`
	RefinedQuery string `json:"refined_query"`
}

// PendingClarification is the per-session dialogue state: the query that
// triggered the clarification, its language and the options offered. A
// session holds at most one at a time. Language is kept so a short reply
// like "1" answers in the language of the original question.
type PendingClarification struct {
	OriginalQuery string   `json:"original_query"`
	Language      string   `json:"language"`
	Options       []Option `json:"options"`
}

// Clarification is the outcome of an ambiguous evaluation: the localized
// explanation, the follow-up question and the enumerated options.
type Clarification struct {
	MainResponse     string
	FollowUpQuestion string
	Options          []Option
}

// Controller decides whether a retrieval outcome is specific enough to
// answer directly or needs a clarification round. It is a pure transition
// function over the candidate list plus the session's pending state;
// persistence lives in SessionStore.
type Controller struct {
	margin float64
}

// NewController creates a Controller. A non-positive margin falls back to
// DefaultMargin.
func NewController(margin float64) *Controller {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Controller{margin: margin}
}

// groupKey distinguishes candidate groups: documents sharing entity type
// and procedure answer the same interpretation of the question.
type groupKey struct {
	entrepriseType string
	procedure      string
}

// Evaluate inspects the fused candidate list for ambiguity. Candidates are
// grouped by entity type and procedure; when at least two groups exist and
// the best group's top fused score leads the runner-up by no more than the
// margin, it returns a Clarification with one option per group, in group
// rank order. Otherwise it returns nil and the caller answers directly.
func (c *Controller) Evaluate(query string, results []retrieval.Result, language string) *Clarification {
	type group struct {
		key      groupKey
		maxScore float64
		label    string
	}

	seen := make(map[groupKey]int)
	groups := make([]*group, 0)

	// Results arrive sorted by fused score descending, so first appearance
	// order equals group rank order.
	for _, r := range results {
		key := groupKey{entrepriseType: r.Document.EntrepriseType, procedure: r.Document.Procedure}
		if i, ok := seen[key]; ok {
			if r.FusedScore > groups[i].maxScore {
				groups[i].maxScore = r.FusedScore
			}
			continue
		}
		seen[key] = len(groups)
		groups = append(groups, &group{
			key:      key,
			maxScore: r.FusedScore,
			label:    optionLabel(r.Document.EntrepriseType, r.Document.Procedure),
		})
	}

	if len(groups) < 2 {
		return nil
	}
	if groups[0].maxScore-groups[1].maxScore > c.margin {
		return nil
	}

	options := make([]Option, 0, len(groups))
	for _, g := range groups {
		options = append(options, Option{
			Label:        g.label,
			RefinedQuery: fmt.Sprintf("%s - %s", query, g.label),
		})
	}

	texts := clarificationTextsFor(language)
	return &Clarification{
		MainResponse:     texts.mainResponse,
		FollowUpQuestion: texts.followUp,
		Options:          options,
	}
}

// Resolve matches the user's turn against a pending clarification's
// options, by exact label text or by 1-based ordinal. Resolution is a pure
// lookup: resolving the same input twice yields the same option. A false
// return means the input is a brand-new query and the pending state must be
// discarded.
func (c *Controller) Resolve(pending *PendingClarification, input string) (Option, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Option{}, false
	}

	for _, opt := range pending.Options {
		if opt.Label == trimmed {
			return opt, true
		}
	}

	if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(pending.Options) {
		return pending.Options[n-1], true
	}

	return Option{}, false
}

// optionLabel renders a group's distinguishing attributes as a choice the
// user can click or type back.
func optionLabel(entrepriseType, procedure string) string {
	switch {
	case entrepriseType != "" && procedure != "":
		return fmt.Sprintf("%s (%s)", entrepriseType, procedure)
	case entrepriseType != "":
		return entrepriseType
	default:
		return procedure
	}
}

type clarificationTexts struct {
	mainResponse string
	followUp     string
}

var clarificationFR = clarificationTexts{
	mainResponse: "Votre question nécessite plus de précisions pour que je puisse vous donner une réponse adaptée.",
	followUp:     "Pouvez-vous préciser le type d'entreprise qui vous intéresse ?",
}

var clarificationAR = clarificationTexts{
	mainResponse: "سؤالك يحتاج لمزيد من التوضيح باش نقدر نعطيك إجابة مناسبة.",
	followUp:     "تنجم توضح نوع الشركة اللي تحب تعملها؟",
}

func clarificationTextsFor(language string) clarificationTexts {
	if language == lang.Arabic {
		return clarificationAR
	}
	return clarificationFR
}
