package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/interview-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	bucketTTL       = time.Hour
	bucketCleanup   = 10 * time.Minute
	warningInterval = 30 * time.Second
)

// bucket is the token bucket of one user
type bucket struct {
	mu            sync.Mutex
	tokens        float64
	lastRefill    time.Time
	lastWarningAt time.Time
}

// RateLimiterMiddleware drops updates of users exceeding their per-minute
// budget. Buckets of quiet users expire from the cache.
type RateLimiterMiddleware struct {
	buckets    *cache.Cache
	mu         sync.Mutex
	capacity   float64
	refillRate float64 // tokens per second
	logger     *zap.Logger
	sender     Sender
	now        func() time.Time
}

func NewRateLimiterMiddleware(requestsPerMinute, burst int, logger *zap.Logger, sender Sender) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		buckets:    cache.New(bucketTTL, bucketCleanup),
		capacity:   float64(burst),
		refillRate: float64(requestsPerMinute) / 60.0,
		logger:     logger,
		sender:     sender,
		now:        time.Now,
	}
}

func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID, ok := origin(update)
	if !ok {
		next(update)
		return
	}

	if !rl.allow(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) allow(userID, chatID int64) bool {
	b := rl.bucketFor(userID)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := rl.now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * rl.refillRate
	if b.tokens > rl.capacity {
		b.tokens = rl.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}

	if now.Sub(b.lastWarningAt) > warningInterval {
		b.lastWarningAt = now
		if _, err := rl.sender.Send(tgbotapi.NewMessage(chatID, render.MsgSlowDown)); err != nil {
			rl.logger.Error("failed to send rate limit warning", zap.Error(err), zap.Int64("chat_id", chatID))
		}
	}
	return false
}

func (rl *RateLimiterMiddleware) bucketFor(userID int64) *bucket {
	key := strconv.FormatInt(userID, 10)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.buckets.Get(key); ok {
		// every hit extends the bucket lifetime
		rl.buckets.SetDefault(key, v)
		return v.(*bucket)
	}

	b := &bucket{tokens: rl.capacity, lastRefill: rl.now()}
	rl.buckets.SetDefault(key, b)
	return b
}
