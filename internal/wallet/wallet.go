// Package wallet exposes the BoxMoney balance with a small cache for the
// status bar.
package wallet

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// BalanceClient is the slice of the API the service depends on.
type BalanceClient interface {
	WalletBalance(ctx context.Context) (int64, error)
}

// Service fetches and caches the wallet balance.
type Service struct {
	mu     sync.RWMutex
	last   int64
	known  bool
	client BalanceClient
	logger *zap.Logger
}

// NewService creates a wallet service.
func NewService(client BalanceClient, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Refresh fetches the current balance from the server.
func (s *Service) Refresh(ctx context.Context) (int64, error) {
	amount, err := s.client.WalletBalance(ctx)
	if err != nil {
		s.logger.Warn("wallet refresh failed", zap.Error(err))
		return 0, err
	}
	s.mu.Lock()
	s.last = amount
	s.known = true
	s.mu.Unlock()
	return amount, nil
}

// Last returns the most recently fetched balance and whether one is known.
func (s *Service) Last() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.known
}
