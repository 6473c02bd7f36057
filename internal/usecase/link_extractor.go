package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/budgettracker/backend/internal/domain"
	"github.com/budgettracker/backend/internal/infrastructure/markup"
	"github.com/rs/zerolog/log"
)

// DefaultFetchTimeout is the time budget for fetching a pasted link
const DefaultFetchTimeout = 5 * time.Second

// LinkExtractorConfig holds configuration for the link extractor
type LinkExtractorConfig struct {
	FetchTimeout time.Duration
	// Strategies overrides the extraction cascade; nil means DefaultStrategies.
	Strategies []NamedStrategy
}

// LinkExtractor recovers product information from a product page URL.
// It holds no per-call state and is safe for concurrent use.
type LinkExtractor struct {
	fetcher      domain.PageFetcher
	fetchTimeout time.Duration
	strategies   []NamedStrategy
}

// NewLinkExtractor creates a new link extractor with dependencies
func NewLinkExtractor(fetcher domain.PageFetcher, config LinkExtractorConfig) *LinkExtractor {
	timeout := config.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	strategies := config.Strategies
	if strategies == nil {
		strategies = DefaultStrategies()
	}

	return &LinkExtractor{
		fetcher:      fetcher,
		fetchTimeout: timeout,
		strategies:   strategies,
	}
}

// ExtractProductInfo fetches the page and returns the result of the first
// strategy that finds anything. Results are never merged across strategies.
// Flow: normalize URL -> fetch -> parse -> strategies in order -> validate
//
// Every failure is an *domain.ExtractionError whose message can be shown to
// the user as is.
func (e *LinkExtractor) ExtractProductInfo(ctx context.Context, rawURL string) (*domain.ExtractionResult, error) {
	pageURL, err := NormalizeURL(rawURL)
	if err != nil {
		log.Warn().Str("url", rawURL).Msg("extraction rejected invalid URL")
		return nil, err
	}

	markupText, err := e.fetcher.Fetch(ctx, pageURL, e.fetchTimeout)
	if err != nil {
		var extractionErr *domain.ExtractionError
		if !errors.As(err, &extractionErr) {
			extractionErr = domain.NewExtractionError(domain.ErrNetwork, err)
		}
		log.Warn().Err(extractionErr.Cause).Str("url", pageURL).Str("kind", extractionErr.Kind.Error()).Msg("page fetch failed")
		return nil, extractionErr
	}

	doc, err := markup.Parse(markupText)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("page could not be parsed")
		return nil, domain.NewExtractionError(domain.ErrExtractionFailed, err)
	}

	result, strategy := e.runStrategies(doc)

	validated, ok := validateResult(result)
	if !ok {
		log.Warn().Str("url", pageURL).Str("strategy", strategy).Msg("no product information found")
		return nil, domain.NewExtractionError(domain.ErrExtractionFailed, nil)
	}

	if validated.Image != nil {
		if image, ok := resolveImageURL(pageURL, *validated.Image); ok {
			validated.Image = &image
		} else {
			validated.Image = nil
		}
	}

	log.Info().Str("url", pageURL).Str("strategy", strategy).
		Bool("title", validated.Title != nil).
		Bool("price", validated.Price != nil).
		Msg("product information extracted")

	return validated, nil
}

// runStrategies returns the first non-empty strategy result and the name of
// the strategy that produced it.
func (e *LinkExtractor) runStrategies(doc *markup.Document) (*domain.ExtractionResult, string) {
	for _, s := range e.strategies {
		result := s.Extract(doc)
		if !result.IsEmpty() {
			return result, s.Name
		}
	}
	return &domain.ExtractionResult{}, "none"
}

// validateResult drops an invalid price and reports whether the remaining
// record has a title or a price.
func validateResult(result *domain.ExtractionResult) (*domain.ExtractionResult, bool) {
	if result == nil {
		return nil, false
	}
	validated := *result
	if validated.Price != nil {
		if price, ok := validPrice(*validated.Price); ok {
			validated.Price = &price
		} else {
			validated.Price = nil
		}
	}
	if !validated.IsUsable() {
		return nil, false
	}
	return &validated, true
}
