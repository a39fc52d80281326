package service

import (
	"context"
	"fmt"

	"promo-bot/internal/logger"
)

// UserCounter is the read side of the user store used for statistics.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
	CountVIP(ctx context.Context) (int64, error)
}

// Stats is a point-in-time snapshot of the user base.
type Stats struct {
	Users int64
	VIP   int64
}

// StatsService reports user statistics to the log.
type StatsService struct {
	users UserCounter
}

func NewStatsService(users UserCounter) *StatsService {
	return &StatsService{users: users}
}

func (s *StatsService) Snapshot(ctx context.Context) (Stats, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	vip, err := s.users.CountVIP(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return Stats{Users: total, VIP: vip}, nil
}

// Report takes a snapshot and writes it to the log.
func (s *StatsService) Report(ctx context.Context) (Stats, error) {
	stats, err := s.Snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}
	logger.Log.Infow("user stats", "users", stats.Users, "vip", stats.VIP)
	return stats, nil
}
