package repository

import (
	"context"

	"unimarket/internal/domain/entity"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
