package service

import (
	"context"
	"fmt"
	"sync"

	"doodh-waitlist/model"
	"doodh-waitlist/provider"
)

// fakeProvider accepts any token and confirms fakeCode. Sends can be held on a gate.
type fakeProvider struct {
	*provider.ChallengeRegistry

	mu         sync.Mutex
	code       string
	sendErr    error
	confirmErr error
	phones     []string
	tokens     []string
	sendGate   chan struct{}
	sendHit    chan struct{}
	verifyGate chan struct{}
	verifyHit  chan struct{}
}

const fakeCode = "123456"

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		ChallengeRegistry: provider.NewChallengeRegistry(0),
		code:              fakeCode,
	}
}

// holdSends makes the next SendCode calls block until the returned release is called
func (p *fakeProvider) holdSends() (started <-chan struct{}, release func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sendGate = make(chan struct{})
	p.sendHit = make(chan struct{}, 4)
	gate := p.sendGate
	return p.sendHit, func() { close(gate) }
}

func (p *fakeProvider) holdVerifies() (started <-chan struct{}, release func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verifyGate = make(chan struct{})
	p.verifyHit = make(chan struct{}, 4)
	gate := p.verifyGate
	return p.verifyHit, func() { close(gate) }
}

func (p *fakeProvider) SendCode(_ context.Context, phoneNumber string, challenge *provider.Challenge) (provider.Confirmation, error) {
	token, err := challenge.Consume()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrChallengeRejected, err)
	}

	p.mu.Lock()
	p.phones = append(p.phones, phoneNumber)
	p.tokens = append(p.tokens, token)
	gate, hit, sendErr := p.sendGate, p.sendHit, p.sendErr
	p.mu.Unlock()

	if hit != nil {
		hit <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if sendErr != nil {
		return nil, sendErr
	}
	return &fakeConfirmation{p: p, phone: phoneNumber}, nil
}

func (p *fakeProvider) sends() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.phones)
}

type fakeConfirmation struct {
	p     *fakeProvider
	phone string
}

func (c *fakeConfirmation) Confirm(_ context.Context, code string) (*provider.UserRecord, error) {
	c.p.mu.Lock()
	gate, hit, confirmErr, want := c.p.verifyGate, c.p.verifyHit, c.p.confirmErr, c.p.code
	c.p.mu.Unlock()

	if hit != nil {
		hit <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if confirmErr != nil {
		return nil, confirmErr
	}
	if code != want {
		return nil, provider.ErrInvalidCode
	}
	return &provider.UserRecord{UID: "uid-" + c.phone, PhoneNumber: c.phone, IsNewUser: true}, nil
}

type recordingEnroller struct {
	mu      sync.Mutex
	entries []*model.WaitlistEntry
	err     error
}

func (e *recordingEnroller) Enroll(_ context.Context, entry *model.WaitlistEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return e.err
}

func (e *recordingEnroller) enrolled() []*model.WaitlistEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*model.WaitlistEntry(nil), e.entries...)
}
