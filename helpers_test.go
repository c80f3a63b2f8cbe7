package ama

import (
	"sync"
	"time"

	"github.com/Tap30/ripple-ama/adapters"
	"github.com/Tap30/ripple-ama/metrics"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingRecorder struct {
	mu           sync.Mutex
	events       map[string]int
	outcomes     map[metrics.FlushOutcome]int
	batchSizes   []int
	submits      int
	lastDuration time.Duration
}

func (c *countingRecorder) IncEventRecorded(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.events == nil {
		c.events = map[string]int{}
	}
	c.events[eventType]++
}

func (c *countingRecorder) IncFlushOutcome(outcome metrics.FlushOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = map[metrics.FlushOutcome]int{}
	}
	c.outcomes[outcome]++
}

func (c *countingRecorder) ObserveBatchSize(events int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchSizes = append(c.batchSizes, events)
}

func (c *countingRecorder) ObserveSubmitDuration(d time.Duration, _ bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submits++
	c.lastDuration = d
}

func (c *countingRecorder) Outcome(o metrics.FlushOutcome) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcomes[o]
}

func testConfig() Config {
	return Config{
		AppID:          "app-id",
		AppTitle:       "Test Skill",
		AppPackageName: "test-skill",
		Platform:       "alexa",
	}
}

func testRider(clock *fakeClock, req *Request) *Rider {
	if req.SessionID == "" {
		req.SessionID = "session-id"
	}
	return newRider(req.SessionID, req, NewClientContext(testConfig()), riderDeps{
		now:      clock.Now,
		isEntry:  func(state string) bool { return state == DefaultInitialState },
		logger:   adapters.NewNoOpLoggerAdapter(),
		recorder: metrics.NoopRecorder{},
	})
}
