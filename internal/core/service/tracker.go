package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
	"github.com/dmcooller/Real-ESRGAN/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Tracker interface {
	AddUpscale(chatID int64)
	CheckLimit(ctx context.Context, chatID int64) bool
}

// UsageTracker bounds how many upscales a chat may run per day. GPU time
// is the scarce resource here, so the quota counts completed enhancements,
// reset at local midnight.
type UsageTracker struct {
	chats      map[int64]int
	dailyLimit int
	mutex      sync.Mutex
	sender     port.TextSender
}

func NewUsageTracker(ctx context.Context, sender port.TextSender) *UsageTracker {
	ut := &UsageTracker{
		chats:      make(map[int64]int),
		sender:     sender,
		dailyLimit: viper.GetInt("telegram.daily_upscale_limit"),
	}

	go ut.ResetDailyLimit(ctx)

	return ut
}

func (t *UsageTracker) AddUpscale(chatID int64) {
	t.mutex.Lock()
	t.chats[chatID]++
	t.mutex.Unlock()
}

const overLimit = "You have exceeded your daily upscale limit of %d images. Limit will reset in %s."

func (t *UsageTracker) CheckLimit(ctx context.Context, chatID int64) bool {
	if t.dailyLimit <= 0 {
		return true
	}

	t.mutex.Lock()
	used := t.chats[chatID]
	t.mutex.Unlock()

	if used >= t.dailyLimit {
		err := t.sender.SendMessageReply(ctx,
			&domain.Message{ChatID: chatID},
			fmt.Sprintf(overLimit, t.dailyLimit, time.Until(getNextResetTime()).Truncate(time.Second)))
		if err != nil {
			log.Warn().Err(err).Msg("failed to send daily limit exceeded warning")
		}
		return false
	}

	return true
}

func (t *UsageTracker) ResetDailyLimit(ctx context.Context) {
	reset := getNextResetTime()

	for {
		log.Debug().Time("reset", reset).Msg("running reset timer")
		select {
		case <-time.After(time.Until(reset)):
			log.Debug().Msg("resetting daily limit")
			t.mutex.Lock()
			t.chats = make(map[int64]int)
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
