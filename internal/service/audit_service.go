package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karsei/sample-auth-service/internal/events"
)

const auditTrailKey = "auth:audit"

// AuditService records authentication events: every event is logged, and a
// capped trail of recent events is kept in Redis.
type AuditService struct {
	dispatcher events.Dispatcher
	redis      *redis.Client
	logger     *zap.Logger
	trailSize  int64
}

// NewAuditService creates the service. A nil Redis client keeps the log-only
// behavior.
func NewAuditService(dispatcher events.Dispatcher, client *redis.Client, trailSize int, logger *zap.Logger) *AuditService {
	if trailSize <= 0 {
		trailSize = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		redis:      client,
		logger:     logger,
		trailSize:  int64(trailSize),
	}
}

// RegisterHandlers subscribes to authentication events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginRejected, a.handleLoginRejected)
	a.dispatcher.Subscribe(events.EventTokensIssued, a.handleTokensIssued)
}

func (a *AuditService) handleLoginSucceeded(ctx context.Context, event events.Event) error {
	a.logger.Info("LoginSucceeded", zap.String("username", event.Username), zap.Any("payload", event.Payload))
	return a.appendToTrail(ctx, event)
}

func (a *AuditService) handleLoginRejected(ctx context.Context, event events.Event) error {
	a.logger.Info("LoginRejected", zap.String("username", event.Username), zap.Any("payload", event.Payload))
	return a.appendToTrail(ctx, event)
}

func (a *AuditService) handleTokensIssued(ctx context.Context, event events.Event) error {
	a.logger.Debug("TokensIssued", zap.String("username", event.Username), zap.Any("payload", event.Payload))
	return a.appendToTrail(ctx, event)
}

func (a *AuditService) appendToTrail(ctx context.Context, event events.Event) error {
	if a.redis == nil {
		return nil
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := a.redis.TxPipeline()
	pipe.LPush(ctx, auditTrailKey, raw)
	pipe.LTrim(ctx, auditTrailKey, 0, a.trailSize-1)
	_, err = pipe.Exec(ctx)
	return err
}
