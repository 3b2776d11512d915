package websocket

import (
	"encoding/json"

	"go.uber.org/zap"

	"approval-flow-api/internal/domain"
)

// StatusEvent is the payload broadcast on every approval status transition
type StatusEvent struct {
	ApprovalID uint                  `json:"approvalId"`
	SerialNo   string                `json:"serialNo"`
	From       domain.ApprovalStatus `json:"from"`
	To         domain.ApprovalStatus `json:"to"`
}

// Publisher adapts the hub to the service layer's notifier interface
type Publisher struct {
	hub    *Hub
	logger *zap.Logger
}

// NewPublisher creates a Publisher on top of the hub
func NewPublisher(hub *Hub, logger *zap.Logger) *Publisher {
	return &Publisher{hub: hub, logger: logger}
}

// NotifyStatusChange broadcasts a status transition to all subscribers
func (p *Publisher) NotifyStatusChange(approvalID uint, serialNo string, from, to domain.ApprovalStatus) {
	payload, err := json.Marshal(StatusEvent{
		ApprovalID: approvalID,
		SerialNo:   serialNo,
		From:       from,
		To:         to,
	})
	if err != nil {
		p.logger.Warn("Failed to marshal status event", zap.Error(err))
		return
	}

	select {
	case p.hub.Broadcast <- payload:
	default:
		p.logger.Warn("Status event dropped, broadcast channel full",
			zap.Uint("approval_id", approvalID))
	}
}
