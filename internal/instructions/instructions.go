// Package instructions turns the many shapes cooking steps are stored in
// into an ordered list of plain step strings.
package instructions

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Where the resolved steps came from
const (
	SourceRecipe      = "recipe"
	SourceCustom      = "custom"
	SourceDescription = "description"
	SourceNone        = "none"
)

// Result is the resolved instruction list for a meal item
type Result struct {
	Steps  []string `json:"steps"`
	Source string   `json:"source"`
}

// containers hold a nested step list
var containerKeys = []string{"steps", "instructions", "directions", "method"}

// textKeys hold the text of a single step, in preference order
var textKeys = []string{"text", "step", "instruction", "description", "content", "name"}

var htmlTag = regexp.MustCompile(`(?i)<(li|p|br|ol|ul|div)[\s>/]`)

// Normalize converts raw instructions into trimmed, non-empty steps.
// Unknown shapes yield nil.
func Normalize(raw interface{}) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return fromString(v)
	case []string:
		steps := make([]string, 0, len(v))
		for _, s := range v {
			steps = appendStep(steps, s)
		}
		return nilIfEmpty(steps)
	case []interface{}:
		return fromList(v)
	case primitive.A:
		return fromList([]interface{}(v))
	case map[string]interface{}:
		return fromMap(v)
	case primitive.M:
		return fromMap(map[string]interface{}(v))
	case primitive.D:
		return fromMap(v.Map())
	default:
		return nil
	}
}

func fromString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var decoded interface{}
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			return Normalize(decoded)
		}
	}

	if htmlTag.MatchString(s) {
		if steps := fromHTML(s); len(steps) > 0 {
			return steps
		}
	}

	return splitLines(s)
}

// fromHTML reads list items, falling back to paragraphs and then to the
// text split on line breaks
func fromHTML(s string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return nil
	}

	var steps []string
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		steps = appendStep(steps, sel.Text())
	})
	if len(steps) > 0 {
		return steps
	}

	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		steps = appendStep(steps, sel.Text())
	})
	if len(steps) > 0 {
		return steps
	}

	doc.Find("br").ReplaceWithHtml("\n")
	return splitLines(doc.Text())
}

func fromList(list []interface{}) []string {
	var steps []string
	for _, elem := range list {
		switch v := elem.(type) {
		case string:
			steps = appendStep(steps, v)
		case float64, int, int32, int64:
			steps = appendStep(steps, fmt.Sprint(v))
		default:
			steps = append(steps, Normalize(v)...)
		}
	}
	return nilIfEmpty(steps)
}

func fromMap(m map[string]interface{}) []string {
	for _, key := range containerKeys {
		if nested, ok := m[key]; ok {
			if steps := Normalize(nested); len(steps) > 0 {
				return steps
			}
		}
	}
	for _, key := range textKeys {
		if text, ok := m[key].(string); ok {
			if step := strings.TrimSpace(text); step != "" {
				return []string{step}
			}
		}
	}

	// {"1": "...", "2": "..."} keyed step maps
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	var steps []string
	for _, k := range keys {
		if text, ok := m[k].(string); ok {
			steps = appendStep(steps, text)
		}
	}
	return nilIfEmpty(steps)
}

func splitLines(s string) []string {
	var steps []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		steps = appendStep(steps, line)
	}
	return steps
}

func appendStep(steps []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		steps = append(steps, s)
	}
	return steps
}

func nilIfEmpty(steps []string) []string {
	if len(steps) == 0 {
		return nil
	}
	return steps
}

// Resolve picks the instructions to show for an item: the recipe's steps,
// then the item's own steps, then the escaped lines of the first available
// free text.
func Resolve(item *models.UserMealItem, recipe *models.Recipe) Result {
	if recipe != nil {
		if steps := Normalize(recipe.Instructions); len(steps) > 0 {
			return Result{Steps: steps, Source: SourceRecipe}
		}
	}
	if item != nil {
		if steps := Normalize(item.Instructions); len(steps) > 0 {
			return Result{Steps: steps, Source: SourceCustom}
		}
	}

	var texts []string
	if recipe != nil {
		texts = append(texts, recipe.Content)
	}
	if item != nil {
		texts = append(texts, item.Description)
	}
	if recipe != nil {
		texts = append(texts, recipe.Description)
	}
	for _, text := range texts {
		lines := splitLines(text)
		if len(lines) == 0 {
			continue
		}
		for i, line := range lines {
			lines[i] = html.EscapeString(line)
		}
		return Result{Steps: lines, Source: SourceDescription}
	}

	return Result{Steps: []string{}, Source: SourceNone}
}
