// Package catalog exposes the read-only browse surface: dispensaries and
// their product menus.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"greenlane/internal/domain"
	"greenlane/internal/storage"
	dErrors "greenlane/pkg/domain-errors"
)

type Service struct {
	dispensaries storage.DispensaryStore
	products     storage.ProductStore
}

func NewService(dispensaries storage.DispensaryStore, products storage.ProductStore) *Service {
	return &Service{dispensaries: dispensaries, products: products}
}

// ListDispensaries returns every dispensary, sorted by name.
func (s *Service) ListDispensaries(ctx context.Context) ([]domain.Dispensary, error) {
	out, err := s.dispensaries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dispensaries: %w", err)
	}
	return out, nil
}

// GetDispensary returns one dispensary by id.
func (s *Service) GetDispensary(ctx context.Context, id string) (domain.Dispensary, error) {
	dispensary, err := s.dispensaries.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Dispensary{}, dErrors.Wrap(dErrors.CodeNotFound, "dispensary not found", err)
		}
		return domain.Dispensary{}, fmt.Errorf("find dispensary: %w", err)
	}
	return dispensary, nil
}

// ListProducts returns the active menu of one dispensary. The dispensary must
// exist; an unknown id is a not-found, not an empty menu.
func (s *Service) ListProducts(ctx context.Context, dispensaryID string) ([]domain.Product, error) {
	if _, err := s.GetDispensary(ctx, dispensaryID); err != nil {
		return nil, err
	}
	products, err := s.products.ListByDispensary(ctx, dispensaryID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
