package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/budgettracker/backend/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PurchaseService manages the purchases tracked in the budget
type PurchaseService struct {
	repo     domain.PurchaseRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(repo domain.PurchaseRepository) *PurchaseService {
	return &PurchaseService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the input and stores a new purchase
func (s *PurchaseService) Create(ctx context.Context, input domain.PurchaseInput) (*domain.Purchase, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	purchase := &domain.Purchase{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(purchase, input)

	if err := s.repo.Create(ctx, purchase); err != nil {
		return nil, err
	}
	log.Info().Str("id", purchase.ID).Str("room", purchase.Room).Float64("cost", purchase.Cost).Msg("purchase created")
	return purchase, nil
}

// Get returns a purchase by ID
func (s *PurchaseService) Get(ctx context.Context, id string) (*domain.Purchase, error) {
	return s.repo.Get(ctx, id)
}

// List returns purchases newest first
func (s *PurchaseService) List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error) {
	filter.Room = strings.TrimSpace(filter.Room)
	return s.repo.List(ctx, filter)
}

// Update replaces the editable fields of an existing purchase
func (s *PurchaseService) Update(ctx context.Context, id string, input domain.PurchaseInput) (*domain.Purchase, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	purchase, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInput(purchase, input)
	purchase.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// Delete removes a purchase
func (s *PurchaseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("id", id).Msg("purchase deleted")
	return nil
}

// Totals returns the running totals across all purchases
func (s *PurchaseService) Totals(ctx context.Context) (*domain.PurchaseTotals, error) {
	return s.repo.Totals(ctx)
}

// normalize trims text fields, fills defaults and validates the input.
func (s *PurchaseService) normalize(input domain.PurchaseInput) (domain.PurchaseInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Comments = strings.TrimSpace(input.Comments)
	input.Room = strings.TrimSpace(input.Room)
	if input.Room == "" {
		input.Room = domain.DefaultRoom
	}
	input.Link = strings.TrimSpace(input.Link)
	if input.Link != "" {
		link, err := NormalizeURL(input.Link)
		if err != nil {
			return input, fmt.Errorf("%w: link is not a valid URL", domain.ErrInvalidPurchase)
		}
		input.Link = link
	}

	if err := s.validate.Struct(input); err != nil {
		return input, fmt.Errorf("%w: %s", domain.ErrInvalidPurchase, describeValidationError(err))
	}
	return input, nil
}

// describeValidationError turns validator output into a short message.
func describeValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}

func applyInput(purchase *domain.Purchase, input domain.PurchaseInput) {
	purchase.Name = input.Name
	purchase.Link = input.Link
	purchase.Cost = input.Cost
	purchase.Purchased = input.Purchased
	purchase.Comments = input.Comments
	purchase.Room = input.Room
}
