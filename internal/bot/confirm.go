package bot

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// confirmTTL bounds how long a reset confirmation button stays live.
const confirmTTL = 5 * time.Minute

type pendingReset struct {
	chatID      int64
	requestedBy int64
	createdAt   time.Time
}

// confirmRegistry holds outstanding reset confirmations keyed by a ULID
// token carried in the inline button callback data. Tokens are scoped to
// the chat that issued them, so a forwarded button is inert elsewhere.
type confirmRegistry struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	byToken map[string]pendingReset
}

func newConfirmRegistry() *confirmRegistry {
	return &confirmRegistry{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		byToken: make(map[string]pendingReset),
	}
}

// add registers a new confirmation and returns its token, dropping any
// expired entries on the way.
func (r *confirmRegistry) add(chatID, userID int64, now time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for tok, p := range r.byToken {
		if now.Sub(p.createdAt) > confirmTTL {
			delete(r.byToken, tok)
		}
	}

	token := ulid.MustNew(ulid.Timestamp(now), r.entropy).String()
	r.byToken[token] = pendingReset{chatID: chatID, requestedBy: userID, createdAt: now}
	return token
}

// take consumes the token. It fails on unknown, expired, or wrong-chat
// tokens; a wrong-chat press leaves the original entry usable.
func (r *confirmRegistry) take(token string, chatID int64, now time.Time) (pendingReset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byToken[token]
	if !ok || p.chatID != chatID {
		return pendingReset{}, false
	}
	delete(r.byToken, token)
	if now.Sub(p.createdAt) > confirmTTL {
		return pendingReset{}, false
	}
	return p, true
}

// restore puts a consumed entry back, used when the reset itself failed.
func (r *confirmRegistry) restore(token string, p pendingReset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byToken[token] = p
}
