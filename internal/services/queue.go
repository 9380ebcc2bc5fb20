package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
)

// QueueService publishes upload notifications to Azure Queue Storage.
type QueueService struct {
	serviceClient *azqueue.ServiceClient
	ensured       sync.Map
}

// NewQueueService creates a QueueService for the given account URL.
func NewQueueService(serviceURL string) (*QueueService, error) {
	client, err := newClient("queue", serviceURL,
		func(account, key string) (*azqueue.ServiceClient, error) {
			cred, err := azqueue.NewSharedKeyCredential(account, key)
			if err != nil {
				return nil, err
			}
			return azqueue.NewServiceClientWithSharedKeyCredential(serviceURL, cred, nil)
		},
		func(cred azcore.TokenCredential) (*azqueue.ServiceClient, error) {
			return azqueue.NewServiceClient(serviceURL, cred, nil)
		},
	)
	if err != nil {
		return nil, err
	}

	slog.Info("queue service initialized successfully")
	return &QueueService{serviceClient: client}, nil
}

// EncodeMessage serializes a message the way the Functions queue trigger
// expects it: base64 of the JSON document.
func EncodeMessage(message any) (string, error) {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}
	return base64.StdEncoding.EncodeToString(msgBytes), nil
}

// EnqueueMessage adds a message to a queue, creating the queue on first use.
func (s *QueueService) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	slog.Info("enqueuing message", "queue", queueName)
	queueClient := s.serviceClient.NewQueueClient(queueName)

	if _, ok := s.ensured.Load(queueName); !ok {
		_, err := queueClient.Create(ctx, nil)
		if err != nil && !hasErrorCode(err, "QueueAlreadyExists") {
			slog.Warn("failed to create queue (may already exist)", "queue", queueName, "error", err)
		} else {
			s.ensured.Store(queueName, struct{}{})
		}
	}

	encodedMsg, err := EncodeMessage(message)
	if err != nil {
		slog.Error("failed to marshal queue message", "queue", queueName, "error", err)
		return err
	}

	if _, err := queueClient.EnqueueMessage(ctx, encodedMsg, nil); err != nil {
		slog.Error("failed to enqueue message", "queue", queueName, "error", err)
		return fmt.Errorf("failed to enqueue message to %s: %w", queueName, err)
	}

	slog.Info("successfully enqueued message", "queue", queueName)
	return nil
}
