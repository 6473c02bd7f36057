package usecase

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/budgettracker/backend/internal/domain"
	"github.com/budgettracker/backend/internal/infrastructure/markup"
	"github.com/rs/zerolog/log"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

// oneOrMany is a JSON-LD value that may be published either as a single item
// or as an ordered list of items.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*o = items
		return nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*o = oneOrMany[T]{item}
	return nil
}

// first returns the first item, if any.
func (o oneOrMany[T]) first() (T, bool) {
	var zero T
	if len(o) == 0 {
		return zero, false
	}
	return o[0], true
}

// ldText is a scalar JSON-LD value read as text. Numbers are formatted and
// language-tagged values ({"@value": ...}) are unwrapped; anything else is empty.
type ldText string

func (t *ldText) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*t = ldText(x)
	case float64:
		*t = ldText(strconv.FormatFloat(x, 'f', -1, 64))
	case map[string]any:
		if s, ok := x["@value"].(string); ok {
			*t = ldText(s)
		}
	}
	return nil
}

// firstText returns the first non-blank entry of a text value published as a
// single item or a list.
func firstText(values oneOrMany[ldText]) string {
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}

// ldImage is an image published as a URL string or an ImageObject.
type ldImage struct {
	URL string
}

func (i *ldImage) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		i.URL = x
	case map[string]any:
		for _, key := range []string{"url", "contentUrl", "@id"} {
			if s, ok := x[key].(string); ok && s != "" {
				i.URL = s
				break
			}
		}
	}
	return nil
}

// ldOffer is a schema.org Offer or AggregateOffer.
type ldOffer struct {
	Price    ldText `json:"price"`
	LowPrice ldText `json:"lowPrice"`
}

func (o *ldOffer) UnmarshalJSON(data []byte) error {
	type plain ldOffer
	var p plain
	// offers that are not objects (e.g. a bare URL) carry no price
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	*o = ldOffer(p)
	return nil
}

// ldNode is the subset of a schema.org node read for product extraction.
type ldNode struct {
	Type        oneOrMany[ldText]  `json:"@type"`
	Name        oneOrMany[ldText]  `json:"name"`
	Description oneOrMany[ldText]  `json:"description"`
	Image       oneOrMany[ldImage] `json:"image"`
	Offers      oneOrMany[ldOffer] `json:"offers"`
	Price       ldText             `json:"price"`
	LowPrice    ldText             `json:"lowPrice"`
	Graph       ldNodeList         `json:"@graph"`
}

// ldNodeList is a node or a list of nodes. Entries that are not objects, such
// as bare IRI references, are skipped one by one.
type ldNodeList []ldNode

func (l *ldNodeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '{':
		var node ldNode
		if err := json.Unmarshal(data, &node); err != nil {
			return nil
		}
		*l = ldNodeList{node}
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return err
		}
		nodes := make(ldNodeList, 0, len(entries))
		for _, entry := range entries {
			var inner ldNodeList
			if err := inner.UnmarshalJSON(entry); err != nil {
				continue
			}
			nodes = append(nodes, inner...)
		}
		*l = nodes
	}
	return nil
}

// hasType reports whether the node declares the given schema.org type,
// either bare ("Product") or as an IRI ("https://schema.org/Product").
func (n *ldNode) hasType(name string) bool {
	for _, t := range n.Type {
		s := strings.TrimSpace(string(t))
		if i := strings.LastIndexAny(s, "/#:"); i >= 0 {
			s = s[i+1:]
		}
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// isProduct reports whether the node describes something with a price.
func (n *ldNode) isProduct() bool {
	if n.hasType("Product") || n.hasType("Offer") {
		return true
	}
	offer, ok := n.Offers.first()
	return ok && strings.TrimSpace(string(offer.Price)) != ""
}

// toResult maps the node onto an ExtractionResult.
func (n *ldNode) toResult() *domain.ExtractionResult {
	result := &domain.ExtractionResult{}
	result.SetTitle(firstText(n.Name))
	result.SetDescription(firstText(n.Description))
	if image, ok := n.Image.first(); ok {
		result.SetImage(image.URL)
	}

	candidates := []ldText{n.Price, n.LowPrice}
	if offer, ok := n.Offers.first(); ok {
		candidates = []ldText{offer.Price, offer.LowPrice, n.Price, n.LowPrice}
	}
	for _, raw := range candidates {
		if strings.TrimSpace(string(raw)) == "" {
			continue
		}
		if price, ok := parseStructuredPrice(string(raw)); ok {
			result.SetPrice(price)
			break
		}
	}
	return result
}

// ExtractJSONLD scans <script type="application/ld+json"> blocks in document
// order and maps the first Product/Offer node found. Blocks that cannot be
// decoded are skipped.
func ExtractJSONLD(doc *markup.Document) *domain.ExtractionResult {
	for i, block := range doc.JSONLD() {
		nodes, err := decodeJSONLD(block)
		if err != nil {
			log.Debug().Err(err).Int("block", i).Msg("skipping malformed JSON-LD block")
			continue
		}
		for _, node := range flattenNodes(nodes) {
			if !node.isProduct() {
				continue
			}
			result := node.toResult()
			if result.IsEmpty() {
				return nil
			}
			return result
		}
	}
	return nil
}

// decodeJSONLD decodes a block holding one node or a list of nodes. Blocks
// that are not strict JSON get a second chance through a JSON5 decoder, which
// accepts trailing commas and comments.
func decodeJSONLD(block string) (ldNodeList, error) {
	var nodes ldNodeList
	err := json.Unmarshal([]byte(block), &nodes)
	if err == nil {
		return nodes, nil
	}

	var loose any
	if json5.Unmarshal([]byte(block), &loose) != nil {
		return nil, err
	}
	normalized, merr := json.Marshal(loose)
	if merr != nil {
		return nil, err
	}
	nodes = nil
	if err := json.Unmarshal(normalized, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// flattenNodes lists nodes depth-first, each followed by its @graph members.
func flattenNodes(nodes []ldNode) []*ldNode {
	var flat []*ldNode
	for i := range nodes {
		flat = append(flat, &nodes[i])
		flat = append(flat, flattenNodes(nodes[i].Graph)...)
	}
	return flat
}
