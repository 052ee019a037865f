package idea

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/contentpeak/opplens/pkg/opplens/classify"
)

// template holds the fixed scaffolding for one content format. Every %s
// placeholder is substituted with the idea's top primary keyword; nothing
// is generated free-form.
type template struct {
	title   string
	tips    []string
	outline string
}

func (t template) renderTitle(kw string) string {
	return fmt.Sprintf(t.title, titleCase(kw))
}

func (t template) renderTips(kw string) []string {
	tips := make([]string, len(t.tips))
	for i, tip := range t.tips {
		if strings.Contains(tip, "%s") {
			tips[i] = fmt.Sprintf(tip, kw)
		} else {
			tips[i] = tip
		}
	}
	return tips
}

func (t template) renderOutline(kw string) string {
	return strings.ReplaceAll(t.outline, "%s", titleCase(kw))
}

// formatTemplate returns the scaffolding for a format. Unknown formats fall
// back to the list-article template, matching the classifier's default.
func formatTemplate(f classify.Format) template {
	switch f {
	case classify.FormatHowToGuide:
		return template{
			title: "%s: Step-by-Step Guide",
			tips: []string{
				"Use the exact phrase \"%s\" in your title tag, H1, and opening paragraph",
				"Number every step and keep one action per step",
				"Add screenshots or short clips for the three hardest steps",
				"Answer related questions from the secondary keywords in a closing FAQ",
			},
			outline: "# %s\n\n## What You'll Need\n\n## Step-by-Step Instructions\n\n## Common Mistakes to Avoid\n\n## FAQ\n",
		}
	case classify.FormatComparisonPost:
		return template{
			title: "%s: Which Should You Pick?",
			tips: []string{
				"Open with a verdict box naming the winner for each use case",
				"Compare \"%s\" options in a feature-by-feature table",
				"Include pricing as of your publish date and keep it updated",
				"Close with a recommendation segmented by reader need",
			},
			outline: "# %s\n\n## Quick Verdict\n\n## Feature Comparison\n\n## Pricing\n\n## Which One Is Right for You?\n",
		}
	case classify.FormatBeginnerGuide:
		return template{
			title: "%s: A Beginner's Guide",
			tips: []string{
				"Define every term of \"%s\" before using it",
				"Start from zero: assume no prior setup or accounts",
				"Add a glossary targeting the secondary keywords",
				"Link each chapter to a deeper follow-up article",
			},
			outline: "# %s\n\n## The Basics\n\n## Getting Started\n\n## Key Concepts Explained\n\n## Next Steps\n",
		}
	case classify.FormatToolReview:
		return template{
			title: "%s: Hands-On Review",
			tips: []string{
				"Lead with your testing methodology for \"%s\"",
				"Score each major feature on a consistent rubric",
				"List real limitations: reviews without cons rank poorly",
				"Compare against one cheaper and one pricier alternative",
			},
			outline: "# %s\n\n## Verdict\n\n## Key Features Tested\n\n## Pros and Cons\n\n## Pricing\n\n## Alternatives\n",
		}
	default:
		return template{
			title: "%s: Top Picks Ranked",
			tips: []string{
				"Rank picks by a stated criterion so \"%s\" readers trust the order",
				"Give each pick a one-line takeaway before the details",
				"Include a skimmable summary table near the top",
				"Refresh the list when a pick changes pricing or features",
			},
			outline: "# %s\n\n## Our Top Picks\n\n## How We Chose\n\n## Detailed Reviews\n\n## Buying Advice\n",
		}
	}
}

// titleCase capitalizes the first rune of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
