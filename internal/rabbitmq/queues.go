package rabbitmq

import "github.com/magabrotheeeer/equiptrack/internal/models"

// Exchange обменник уведомлений.
const Exchange = "notifications"

// Очереди уведомлений.
const (
	QueueTrialExpiring    = "notifications.trial_expiring"
	QueuePaymentCompleted = "notifications.payment_completed"
)

// QueueConfig очередь и ключ, по которому она привязана к Exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues очереди, которые читает notification-sender.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueTrialExpiring, RoutingKey: models.RoutingKeyTrialExpiring},
		{QueueName: QueuePaymentCompleted, RoutingKey: models.RoutingKeyPaymentComplete},
	}
}
