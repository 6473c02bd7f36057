package usecase

import (
	"strings"

	"github.com/budgettracker/backend/internal/domain"
	"github.com/budgettracker/backend/internal/infrastructure/markup"
	"github.com/dyatlov/go-opengraph/opengraph"
)

// Strategy extracts a partial result from a parsed page. It returns nil when
// the page carries none of the signals it looks for.
type Strategy func(doc *markup.Document) *domain.ExtractionResult

// NamedStrategy is one step of the extraction cascade
type NamedStrategy struct {
	Name    string
	Extract Strategy
}

// DefaultStrategies returns the extraction cascade in priority order
func DefaultStrategies() []NamedStrategy {
	return []NamedStrategy{
		{Name: "opengraph", Extract: ExtractOpenGraph},
		{Name: "jsonld", Extract: ExtractJSONLD},
		{Name: "meta", Extract: ExtractBasicMeta},
	}
}

// Open Graph price properties, most specific first
var openGraphPriceProperties = []string{
	"og:price",
	"og:price:amount",
	"product:price:amount",
}

// ExtractOpenGraph reads og:title, og:price, og:description and og:image.
// Shops that publish Open Graph tags with name= instead of property= are
// accepted too. The first occurrence of each property wins.
func ExtractOpenGraph(doc *markup.Document) *domain.ExtractionResult {
	og := opengraph.NewOpenGraph()
	seen := make(map[string]bool)
	prices := make(map[string]string)

	for _, attrs := range doc.MetaAttributes() {
		property := attrs["property"]
		if property == "" {
			property = attrs["name"]
		}
		property = strings.ToLower(strings.TrimSpace(property))
		if property == "" || seen[property] {
			continue
		}
		if !strings.HasPrefix(property, "og:") && !strings.HasPrefix(property, "product:") {
			continue
		}
		seen[property] = true

		if isPriceProperty(property) {
			prices[property] = attrs["content"]
			continue
		}
		og.ProcessMeta(map[string]string{
			"property": property,
			"content":  attrs["content"],
		})
	}

	result := &domain.ExtractionResult{}
	result.SetTitle(og.Title)
	result.SetDescription(og.Description)
	if len(og.Images) > 0 && og.Images[0] != nil {
		result.SetImage(og.Images[0].URL)
	}
	for _, property := range openGraphPriceProperties {
		raw, ok := prices[property]
		if !ok {
			continue
		}
		if price, ok := ParsePrice(raw); ok {
			result.SetPrice(price)
			break
		}
	}

	if result.IsEmpty() {
		return nil
	}
	return result
}

func isPriceProperty(property string) bool {
	for _, p := range openGraphPriceProperties {
		if property == p {
			return true
		}
	}
	return false
}

// ExtractBasicMeta reads <meta name="title"> (falling back to <title>) and
// <meta name="description">.
func ExtractBasicMeta(doc *markup.Document) *domain.ExtractionResult {
	result := &domain.ExtractionResult{}

	if title, ok := doc.MetaContent("name", "title"); ok {
		result.SetTitle(title)
	}
	if result.Title == nil {
		if el, ok := doc.First("title"); ok {
			result.SetTitle(el.Text())
		}
	}
	if description, ok := doc.MetaContent("name", "description"); ok {
		result.SetDescription(description)
	}

	if result.IsEmpty() {
		return nil
	}
	return result
}
