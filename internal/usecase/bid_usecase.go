package usecase

import (
	"context"
	"fmt"
	"strconv"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/internal/domain/service"
	"unimarket/internal/infrastructure/ratelimit"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

// BidUseCase orchestrates the bid-to-thread flow. The bid row is the primary
// write; everything after it (thread, system message, notification, push) is
// best-effort and reported only as a warning, never as a bid failure.
type BidUseCase struct {
	bidRepo     repository.BidRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	chat        *ChatUseCase
	notifier    *NotificationUseCase
	channel     service.RealtimeChannel
	rateLimiter *ratelimit.RateLimiter
}

func NewBidUseCase(
	bidRepo repository.BidRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	chat *ChatUseCase,
	notifier *NotificationUseCase,
	channel service.RealtimeChannel,
) *BidUseCase {
	return &BidUseCase{
		bidRepo:     bidRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		chat:        chat,
		notifier:    notifier,
		channel:     channel,
		rateLimiter: ratelimit.NewRateLimiter(),
	}
}

type PlaceBidResult struct {
	Bid      *entity.Bid     `json:"bid"`
	ThreadID string          `json:"thread_id,omitempty"`
	Message  *entity.Message `json:"message,omitempty"`
	// Warning surfaces a secondary-effect failure after the bid committed.
	Warning string `json:"warning,omitempty"`
}

func (uc *BidUseCase) PlaceBid(ctx context.Context, buyerID, productID string, amount float64) (*PlaceBidResult, error) {
	allowed, wait := uc.rateLimiter.Allow(buyerID, "place_bid")
	if !allowed {
		logger.Warn("rate limited: user %s must wait %v before bidding", buyerID, wait)
		return nil, errors.TooManyRequests("You are bidding too quickly")
	}

	if amount <= 0 {
		return nil, errors.Validation("Bid amount must be positive", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != entity.ProductStatusAvailable {
		return nil, errors.BadRequest("Product is not open for bidding", nil)
	}

	buyer, err := uc.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, errors.NotFound("Buyer", err)
	}
	if buyer.Status == entity.UserStatusSuspended {
		return nil, errors.Forbidden("Suspended accounts cannot place bids", nil)
	}
	if buyer.ID == product.SellerID {
		return nil, errors.BadRequest("You cannot bid on your own listing", nil)
	}

	seller, err := uc.userRepo.GetByID(ctx, product.SellerID)
	if err != nil {
		return nil, errors.NotFound("Seller", err)
	}
	if buyer.University != seller.University {
		return nil, errors.Forbidden("Bids are limited to your own university", nil)
	}

	bid := &entity.Bid{
		ProductID: product.ID,
		BuyerID:   buyer.ID,
		SellerID:  seller.ID,
		Amount:    amount,
	}

	// The one hard write. Everything below rides on this having committed.
	if err := uc.bidRepo.Create(ctx, bid); err != nil {
		return nil, err
	}

	result := &PlaceBidResult{Bid: bid}
	uc.fanout(ctx, result, bid, product, buyer, seller)

	return result, nil
}

// fanout runs the post-commit side effects. A failure stops the dependent
// steps, gets logged, and surfaces as result.Warning.
func (uc *BidUseCase) fanout(ctx context.Context, result *PlaceBidResult, bid *entity.Bid, product *entity.Product, buyer, seller *entity.User) {
	thread, err := uc.chat.EnsureThread(ctx, product.ID, buyer.ID, seller.ID)
	if err != nil {
		logger.Error("bid %s committed but thread creation failed: %v", bid.ID, err)
		result.Warning = "bid recorded, but the conversation could not be opened"
		return
	}
	result.ThreadID = thread.ID

	text := fmt.Sprintf("I'm bidding $%s for %q.", formatAmount(bid.Amount), product.Title)
	message, err := uc.chat.Append(ctx, thread, buyer.ID, seller.ID, text, product.PrimaryImage(), entity.MessageKindSystem)
	if err != nil {
		logger.Error("bid %s committed but bid message failed: %v", bid.ID, err)
		result.Warning = "bid recorded, but the bid message could not be delivered"
	} else {
		result.Message = message
	}

	if _, err := uc.notifier.NotifyBid(ctx, thread, seller.ID, buyer.Username, bid.Amount, product.Title, product.PrimaryImage()); err != nil {
		logger.Error("bid %s committed but seller notification failed: %v", bid.ID, err)
		if result.Warning == "" {
			result.Warning = "bid recorded, but the seller notification could not be delivered"
		}
	}

	if message != nil {
		uc.channel.EmitToRoom(thread.ID, newMessageEvent(message))
	}
}

func (uc *BidUseCase) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Bid, int64, error) {
	return uc.bidRepo.ListByProductID(ctx, productID, limit, offset)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
