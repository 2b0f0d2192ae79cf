// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// NotificationQueueName is the broker queue notifications are published to.
const NotificationQueueName = "notification.created"

// NotificationCreatedEvent is published when a notification row is persisted.
// It carries enough for downstream delivery channels (push, email relay,
// analytics) to act without querying the primary database. UserID zero means
// the notification addresses the whole account.
type NotificationCreatedEvent struct {
	NotificationID uint64 `json:"notification_id"`
	AccountID      uint64 `json:"account_id"`
	UserID         uint64 `json:"user_id,omitempty"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	CreatedAt      string `json:"created_at"`
}
