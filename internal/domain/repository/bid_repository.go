package repository

import (
	"context"

	"unimarket/internal/domain/entity"
)

type BidRepository interface {
	Create(ctx context.Context, bid *entity.Bid) error
	GetByID(ctx context.Context, id string) (*entity.Bid, error)
	ListByProductID(ctx context.Context, productID string, limit, offset int) ([]*entity.Bid, int64, error)
}
