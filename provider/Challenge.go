package provider

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type challengeState int

const (
	challengeLive challengeState = iota
	challengeConsumed
	challengeExpired
	challengeCleared
)

// Challenge is one rendered bot-check widget. Its token may be spent once.
type Challenge struct {
	id       string
	mount    string
	token    string
	registry *ChallengeRegistry

	mu        sync.Mutex
	state     challengeState
	timer     *time.Timer
	onExpired func(string)
}

func (c *Challenge) ID() string { return c.id }

// Live reports whether the challenge can still be spent
func (c *Challenge) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == challengeLive
}

// Clear tears the widget down and frees its mount. Safe to call more than once.
func (c *Challenge) Clear() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	alreadyCleared := c.state == challengeCleared
	c.state = challengeCleared
	c.mu.Unlock()

	if !alreadyCleared {
		c.registry.release(c)
	}
}

// Consume hands out the token exactly once
func (c *Challenge) Consume() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case challengeLive:
		c.state = challengeConsumed
		if c.timer != nil {
			c.timer.Stop()
		}
		return c.token, nil
	case challengeConsumed:
		return "", errors.New("challenge already used")
	case challengeExpired:
		return "", errors.New("challenge expired")
	default:
		return "", errors.New("challenge cleared")
	}
}

func (c *Challenge) expire() {
	c.mu.Lock()
	if c.state != challengeLive {
		c.mu.Unlock()
		return
	}
	c.state = challengeExpired
	cb := c.onExpired
	c.mu.Unlock()

	if cb != nil {
		cb(c.id)
	}
}

// ChallengeRegistry tracks which mount points hold a rendered widget.
// Providers embed it to get CreateChallenge.
type ChallengeRegistry struct {
	mu     sync.Mutex
	mounts map[string]*Challenge
	ttl    time.Duration
}

func NewChallengeRegistry(ttl time.Duration) *ChallengeRegistry {
	return &ChallengeRegistry{
		mounts: make(map[string]*Challenge),
		ttl:    ttl,
	}
}

func (r *ChallengeRegistry) CreateChallenge(mountPoint string, opts ChallengeOptions) (*Challenge, error) {
	if mountPoint == "" {
		return nil, errors.New("empty mount point")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.mounts[mountPoint]; taken {
		return nil, ErrAlreadyRendered
	}

	c := &Challenge{
		id:        uuid.NewString(),
		mount:     mountPoint,
		token:     opts.Token,
		registry:  r,
		onExpired: opts.OnExpired,
	}

	ttl := r.ttl
	if opts.TTL > 0 {
		ttl = opts.TTL
	}
	if ttl > 0 {
		c.timer = time.AfterFunc(ttl, c.expire)
	}

	r.mounts[mountPoint] = c
	return c, nil
}

// Rendered reports whether mountPoint currently holds a widget
func (r *ChallengeRegistry) Rendered(mountPoint string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.mounts[mountPoint]
	return ok
}

func (r *ChallengeRegistry) release(c *Challenge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mounts[c.mount] == c {
		delete(r.mounts, c.mount)
	}
}
