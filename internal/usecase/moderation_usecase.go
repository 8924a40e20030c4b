package usecase

import (
	"context"
	"fmt"
	"strings"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/internal/domain/service"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

// ModerationUseCase handles the admin suspension action and its three-channel
// broadcast: email, notification, and a system chat message. The product flag
// is the only hard write; each broadcast leg is independent, and a failing
// leg is logged without blocking the others or the suspension itself.
type ModerationUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	chat        *ChatUseCase
	notifier    *NotificationUseCase
	mailer      service.Mailer
	channel     service.RealtimeChannel
}

func NewModerationUseCase(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	chat *ChatUseCase,
	notifier *NotificationUseCase,
	mailer service.Mailer,
	channel service.RealtimeChannel,
) *ModerationUseCase {
	return &ModerationUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
		chat:        chat,
		notifier:    notifier,
		mailer:      mailer,
		channel:     channel,
	}
}

func (uc *ModerationUseCase) SuspendProduct(ctx context.Context, adminID, productID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errors.Validation("A suspension reason is required", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	// The primary write. Success of the suspension is judged on this alone.
	if err := uc.productRepo.UpdateStatus(ctx, product.ID, entity.ProductStatusSuspended); err != nil {
		return err
	}
	product.Status = entity.ProductStatusSuspended

	logger.Info("admin %s suspended product %s: %s", adminID, product.ID, reason)

	seller, err := uc.userRepo.GetByID(ctx, product.SellerID)
	if err != nil {
		logger.Error("suspension fanout for product %s skipped, seller %s lookup failed: %v", product.ID, product.SellerID, err)
		return nil
	}

	uc.emailLeg(ctx, product, seller, reason)
	uc.notificationLeg(ctx, product, seller, reason)
	uc.chatLeg(ctx, product, seller, reason)

	return nil
}

func (uc *ModerationUseCase) emailLeg(ctx context.Context, product *entity.Product, seller *entity.User, reason string) {
	if err := uc.mailer.SendSuspensionNotice(ctx, seller.Email, product.Title, reason); err != nil {
		logger.Error("suspension email leg failed for product %s: %v", product.ID, err)
	}
}

func (uc *ModerationUseCase) notificationLeg(ctx context.Context, product *entity.Product, seller *entity.User, reason string) {
	message := fmt.Sprintf("Your listing %q was suspended: %s", product.Title, reason)
	if _, err := uc.notifier.NotifyAdminMessage(ctx, seller.ID, message, product.ID, product.ID, product.PrimaryImage()); err != nil {
		logger.Error("suspension notification leg failed for product %s: %v", product.ID, err)
	}
}

func (uc *ModerationUseCase) chatLeg(ctx context.Context, product *entity.Product, seller *entity.User, reason string) {
	thread, err := uc.chat.EnsureThread(ctx, "", entity.SystemSenderID, seller.ID)
	if err != nil {
		logger.Error("suspension chat leg failed for product %s, no thread: %v", product.ID, err)
		return
	}

	text := fmt.Sprintf("Your listing %q was suspended by a moderator. Reason: %s", product.Title, reason)
	message, err := uc.chat.Append(ctx, thread, entity.SystemSenderID, seller.ID, text, product.PrimaryImage(), entity.MessageKindSystem)
	if err != nil {
		logger.Error("suspension chat leg failed for product %s, message not appended: %v", product.ID, err)
		return
	}

	uc.channel.EmitToRoom(thread.ID, newMessageEvent(message))
}
