package memory

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// OtpStore keeps pending phone verification codes in process memory.
// Codes expire on their own; no persistence across restarts is intended.
type OtpStore struct {
	cache    *cache.Cache
	attempts *cache.Cache
	ttl      time.Duration
}

const maxVerifyAttempts = 5

func NewOtpStore(ttl time.Duration) *OtpStore {
	return &OtpStore{
		cache:    cache.New(ttl, 5*time.Minute),
		attempts: cache.New(ttl, 5*time.Minute),
		ttl:      ttl,
	}
}

func (s *OtpStore) Save(phone, code string) {
	s.cache.Set(phone, code, cache.DefaultExpiration)
	s.attempts.Delete(s.attemptKey(phone))
}

// Verify consumes one attempt and returns true only when the code matches.
// After too many wrong attempts the code is invalidated.
func (s *OtpStore) Verify(phone, code string) bool {
	stored, found := s.cache.Get(phone)
	if !found {
		return false
	}

	count, _ := s.attempts.IncrementInt64(s.attemptKey(phone), 1)
	if count == 0 {
		s.attempts.Set(s.attemptKey(phone), int64(1), cache.DefaultExpiration)
		count = 1
	}
	if count > maxVerifyAttempts {
		s.cache.Delete(phone)
		return false
	}

	if stored.(string) != code {
		return false
	}

	s.cache.Delete(phone)
	s.attempts.Delete(s.attemptKey(phone))
	return true
}

func (s *OtpStore) attemptKey(phone string) string {
	return fmt.Sprintf("attempts:%s", phone)
}
