package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

type firestoreBidRepository struct {
	client *firestore.Client
}

func NewFirestoreBidRepository(client *firestore.Client) repository.BidRepository {
	return &firestoreBidRepository{
		client: client,
	}
}

func (r *firestoreBidRepository) bids() *firestore.CollectionRef {
	return r.client.Collection("bids")
}

func (r *firestoreBidRepository) Create(ctx context.Context, bid *entity.Bid) error {
	if bid.ID == "" {
		bid.ID = uuid.New().String()
	}
	bid.CreatedAt = time.Now()

	if _, err := r.bids().Doc(bid.ID).Create(ctx, bid); err != nil {
		return errors.Internal("Failed to create bid", err)
	}

	return nil
}

func (r *firestoreBidRepository) GetByID(ctx context.Context, id string) (*entity.Bid, error) {
	doc, err := r.bids().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Bid", nil)
		}
		return nil, errors.Internal("Failed to get bid", err)
	}

	var bid entity.Bid
	if err := doc.DataTo(&bid); err != nil {
		return nil, errors.Internal("Failed to parse bid data", err)
	}

	return &bid, nil
}

func (r *firestoreBidRepository) ListByProductID(ctx context.Context, productID string, limit, offset int) ([]*entity.Bid, int64, error) {
	query := r.bids().Where("productId", "==", productID).OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to fetch bids", err)
	}
	total := int64(len(allDocs))

	start := offset
	if start > len(allDocs) {
		start = len(allDocs)
	}
	end := len(allDocs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var bids []*entity.Bid
	for _, doc := range allDocs[start:end] {
		var bid entity.Bid
		if err := doc.DataTo(&bid); err != nil {
			logger.Warn("skipping malformed bid %s: %v", doc.Ref.ID, err)
			continue
		}
		bids = append(bids, &bid)
	}

	return bids, total, nil
}
