package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestAddUsage(t *testing.T) {
	tracker := &UsageTracker{
		users: make(map[string]int),
	}
	tests := []struct {
		name         string
		userID       string
		initialUsage int
		addUsage     int
		wantTotal    int
	}{
		{
			name:         "Add first usage",
			userID:       "1",
			initialUsage: 0,
			addUsage:     250,
			wantTotal:    250,
		},
		{
			name:         "Add to existing usage",
			userID:       "2",
			initialUsage: 100,
			addUsage:     300,
			wantTotal:    400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker.users[tt.userID] = tt.initialUsage
			tracker.AddUsage(tt.userID, tt.addUsage)
			assert.Equal(t, tt.wantTotal, tracker.Usage(tt.userID))
		})
	}
}

func TestCheckLimit(t *testing.T) {
	dailyLimit := 500
	tests := []struct {
		name          string
		userID        string
		used          int
		limit         int
		expectAllowed bool
		expectMessage bool
		simulateErr   error
	}{
		{
			name:          "Below limit",
			userID:        "1",
			used:          499,
			limit:         dailyLimit,
			expectAllowed: true,
		},
		{
			name:          "At limit",
			userID:        "2",
			used:          500,
			limit:         dailyLimit,
			expectAllowed: false,
			expectMessage: true,
		},
		{
			name:          "Above limit with send error",
			userID:        "4",
			used:          700,
			limit:         dailyLimit,
			expectAllowed: false,
			expectMessage: true,
			simulateErr:   assert.AnError,
		},
		{
			name:          "Disabled limit",
			userID:        "5",
			used:          100000,
			limit:         0,
			expectAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMockContext(tt.userID)
			c.sendError = tt.simulateErr
			tracker := &UsageTracker{
				users:      map[string]int{tt.userID: tt.used},
				dailyLimit: tt.limit,
			}

			result := tracker.CheckLimit(context.Background(), c)
			assert.Equal(t, tt.expectAllowed, result)
			if tt.expectMessage {
				assert.Equal(t, 1, c.callCount)
				expectedText := fmt.Sprintf(overLimit,
					tracker.dailyLimit, time.Until(getNextResetTime()).Truncate(time.Second))

				assert.Equal(t, expectedText[:40], c.sendReplies[0][:40])
				assert.True(t, c.ephemeral[0])
			} else {
				assert.Equal(t, 0, c.callCount)
			}
		})
	}
}

func TestNewUsageTracker(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("ask.daily_limit", 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracker := NewUsageTracker(ctx, 10000)

	assert.NotNil(t, tracker.users)
	assert.Equal(t, 10000, tracker.dailyLimit)
}

func TestGetNextResetTime(t *testing.T) {
	now := time.Now()
	reset := getNextResetTime()
	assert.Equal(t, 0, reset.Hour())
	assert.Equal(t, 0, reset.Minute())
	assert.Equal(t, 0, reset.Second())
	assert.True(t, reset.After(now))
	assert.True(t, reset.Sub(now) <= 25*time.Hour)
}
