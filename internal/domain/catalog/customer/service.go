package customer

import (
	"context"
	"fmt"
	"time"

	"caixa/internal/core/apperror"
	"caixa/internal/core/id"
	"caixa/internal/core/numerator"
	"caixa/internal/core/tx"
	"caixa/internal/domain"
)

// Service provides business logic for the Customer catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Customer]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Customer service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkDocumentUnique)

	return svc
}

// prepareForCreate handles code generation and document uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, c *Customer) error {
	if c.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CUS"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	}

	return s.checkDocumentUnique(ctx, c)
}

func (s *Service) checkDocumentUnique(ctx context.Context, c *Customer) error {
	if c.Document == nil || *c.Document == "" {
		return nil
	}
	exists, err := s.checkDocumentExists(ctx, *c.Document, c.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewConflict("customer with this document already exists").
			WithDetail("document", *c.Document)
	}
	return nil
}

// FindByDocument retrieves a customer by identification document.
func (s *Service) FindByDocument(ctx context.Context, document string) (*Customer, error) {
	return s.repo.FindByDocument(ctx, document)
}

func (s *Service) checkDocumentExists(ctx context.Context, document string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByDocument(ctx, document)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}
