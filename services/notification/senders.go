package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, clientID string, msg Message) error {
	s.Logger.Info("Notification",
		zap.String("clientId", clientID),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
		zap.Any("data", msg.Data))
	return nil
}

// FCMClient is the part of *messaging.Client the FCM sender needs.
type FCMClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender pushes through Firebase Cloud Messaging to the client's topic.
type FCMSender struct {
	Client FCMClient
	Logger *zap.Logger
}

// ClientTopic is the FCM topic a client's devices subscribe to.
func ClientTopic(clientID string) string {
	return "client-" + clientID
}

func (s *FCMSender) Send(ctx context.Context, clientID string, msg Message) error {
	if clientID == "" {
		return fmt.Errorf("fcm send: empty client id")
	}
	data := make(map[string]string, len(msg.Data)+1)
	for k, v := range msg.Data {
		data[k] = v
	}
	if _, ok := data["role"]; !ok {
		data["role"] = "client"
	}

	message := &messaging.Message{
		Topic: ClientTopic(clientID),
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "appointments",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.Client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("fcm send to %s: %w", clientID, err)
	}
	if s.Logger != nil {
		s.Logger.Debug("FCM message sent", zap.String("clientId", clientID), zap.String("messageId", id))
	}
	return nil
}
