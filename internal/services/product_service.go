package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"productapi/internal/apperrors"
	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const productResource = "Product"

// EventPublisher delivers serialized product events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.Validator
	publisher EventPublisher
	logger    *slog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{
		repo:      repo,
		validator: validation.New(),
		publisher: publisher,
		logger:    logger.With("component", "product_service"),
	}
}

// ListProducts retrieves all products.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	return product, nil
}

// CreateProduct validates and stores a new product. The store assigns the ID.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	if input.ID != nil {
		return nil, apperrors.BadRequest("Product ID must not be provided when creating a new product")
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var product models.Product
	input.Apply(&product)
	if err := s.repo.Save(ctx, &product); err != nil {
		return nil, s.translate(err, product.ID)
	}

	s.publish(models.ProductCreated, &product)
	return &product, nil
}

// UpdateProduct overwrites name, price and description of an existing product.
// Any ID in the input is ignored.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input models.ProductInput) (*models.Product, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}

	input.Apply(existing)
	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, s.translate(err, id)
	}

	s.publish(models.ProductUpdated, existing)
	return existing, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound(productResource, id)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return s.translate(err, id)
	}

	s.publish(models.ProductDeleted, &models.Product{ID: id})
	return nil
}

// SearchProducts returns products whose name contains name, ignoring case.
func (s *ProductService) SearchProducts(ctx context.Context, name string) ([]models.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.BadRequest("Search parameter 'name' must not be empty")
	}
	return s.repo.SearchByName(ctx, name)
}

func (s *ProductService) validate(input models.ProductInput) error {
	fields, err := s.validator.Struct(input, models.ProductInputMessages)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return apperrors.FieldValidation(fields)
	}
	return nil
}

// translate maps repository errors onto API error kinds.
func (s *ProductService) translate(err error, id int64) error {
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return apperrors.NotFound(productResource, id)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperrors.Validation("Product violates a storage constraint", err)
	default:
		return err
	}
}

// publish emits a product event. Failures are logged and never fail the caller.
func (s *ProductService) publish(eventType string, product *models.Product) {
	if s.publisher == nil {
		return
	}

	event := models.ProductEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		ProductID:  product.ID,
		OccurredAt: time.Now().UTC(),
	}
	if eventType != models.ProductDeleted {
		price := product.Price
		event.Name = product.Name
		event.Price = &price
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("Failed to marshal product event", "type", eventType, "product_id", product.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		s.logger.Warn("Failed to publish product event", "type", eventType, "product_id", product.ID, "error", err)
		return
	}
	s.logger.Debug("Published product event", "type", eventType, "product_id", product.ID, "event_id", event.EventID)
}

