package service

import (
	"context"
	"fmt"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/port"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Tracker interface {
	AddUsage(userID string, tokens int)
	CheckLimit(ctx context.Context, c port.Context) bool
}

// UsageTracker counts generated tokens per user and day. A limit of zero disables it.
type UsageTracker struct {
	users      map[string]int
	dailyLimit int
	mutex      sync.Mutex
}

func NewUsageTracker(ctx context.Context, dailyLimit int) *UsageTracker {
	ut := &UsageTracker{
		users:      make(map[string]int),
		dailyLimit: dailyLimit,
	}

	go ut.ResetDailyLimit(ctx)

	return ut
}

func (t *UsageTracker) AddUsage(userID string, tokens int) {
	t.mutex.Lock()
	t.users[userID] += tokens
	t.mutex.Unlock()
}

func (t *UsageTracker) Usage(userID string) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.users[userID]
}

const overLimit = "You have used up your daily allowance of %d tokens. It will reset in %s."

func (t *UsageTracker) CheckLimit(ctx context.Context, c port.Context) bool {
	if t.dailyLimit <= 0 {
		return true
	}

	author := c.Invocation().Author
	if author == nil || t.Usage(author.ID) < t.dailyLimit {
		return true
	}

	err := c.Send(ctx,
		fmt.Sprintf(overLimit, t.dailyLimit, time.Until(getNextResetTime()).Truncate(time.Second)),
		domain.Ephemeral())
	if err != nil {
		log.Warn().Err(err).Msg("failed to send daily limit exceeded warning")
	}

	return false
}

func (t *UsageTracker) ResetDailyLimit(ctx context.Context) {
	reset := getNextResetTime()

	for {
		log.Debug().Time("reset", reset).Msg("running reset timer")
		select {
		case <-time.After(time.Until(reset)):
			log.Debug().Msg("resetting daily limit")
			t.mutex.Lock()
			t.users = make(map[string]int)
			t.mutex.Unlock()
			time.Sleep(time.Second)
			reset = getNextResetTime()
		case <-ctx.Done():
			log.Debug().Msg("stopping daily limit reset")
			return
		}
	}
}

func getNextResetTime() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
