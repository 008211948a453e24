package telegram

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Per-chat limits. Telegram throttles bots around 30 messages per second
// overall, but the real enemy is one user spamming buttons, so the bucket
// is keyed by chat id.
const (
	limitPerChat = rate.Limit(1)
	burstPerChat = 5

	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks one token bucket per chat and evicts idle entries.
type Limiter struct {
	mu       sync.Mutex
	visitors map[int64]*visitor
	stop     chan struct{}
	done     chan struct{}
}

func NewLimiter() *Limiter {
	l := &Limiter{
		visitors: make(map[int64]*visitor),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the chat may send another update right now.
func (l *Limiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[chatID]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(limitPerChat, burstPerChat)}
		l.visitors[chatID] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	close(l.stop)
	<-l.done
}

// cleanupLoop removes idle entries to prevent the map from growing forever.
func (l *Limiter) cleanupLoop() {
	defer close(l.done)
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			for chatID, v := range l.visitors {
				if time.Since(v.lastSeen) > visitorTTL {
					delete(l.visitors, chatID)
				}
			}
			l.mu.Unlock()
		}
	}
}
