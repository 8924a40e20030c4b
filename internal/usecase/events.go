package usecase

import "unimarket/internal/domain/entity"

// Push event names. Clients treat these as "new data available" hints and
// reconcile by re-fetching; events carry no sequence numbers.
const (
	EventNewMessage      = "newMessage"
	EventNewNotification = "newNotification"
)

func newMessageEvent(message *entity.Message) map[string]interface{} {
	return map[string]interface{}{
		"type":    EventNewMessage,
		"message": message,
	}
}

func newNotificationEvent(n *entity.Notification, productID, productImage string) map[string]interface{} {
	event := map[string]interface{}{
		"type":              EventNewNotification,
		"notification_type": n.Type,
		"message":           n.Message,
		"related_id":        n.RelatedID,
	}
	if productID != "" {
		event["product_id"] = productID
	}
	if productImage != "" {
		event["product_image"] = productImage
	}
	return event
}
