package outbox

import (
	"blobvault/internal/config"
	"blobvault/internal/core/port"
	"log/slog"
	"time"
)

type dispatcherService struct {
	uow      port.UnitOfWork
	handlers map[string]port.OutboxHandler
	cfg      config.OutboxConfig
	logger   *slog.Logger
}

// NewDispatcher creates an outbox dispatcher with one handler per record kind
func NewDispatcher(uow port.UnitOfWork, cfg config.OutboxConfig, logger *slog.Logger, handlers ...port.OutboxHandler) port.OutboxDispatcher {
	byKind := make(map[string]port.OutboxHandler, len(handlers))
	for _, h := range handlers {
		byKind[h.Kind()] = h
	}
	return &dispatcherService{
		uow:      uow,
		handlers: byKind,
		cfg:      cfg,
		logger:   logger,
	}
}

// retryDelay doubles the base per attempt, capped
func (s *dispatcherService) retryDelay(retryCount int) time.Duration {
	delay := s.cfg.BackoffBase
	for i := 0; i < retryCount; i++ {
		delay *= 2
		if delay >= s.cfg.BackoffCap {
			return s.cfg.BackoffCap
		}
	}
	return delay
}
