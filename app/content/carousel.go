package content

import (
	"context"
	"sync"
	"time"
)

// DefaultRotation is how often the hero carousel advances on its own.
const DefaultRotation = 5 * time.Second

// Carousel is the rotation state machine for the featured subset: a
// single index in [0, count). The timer tick and manual navigation are
// serialized by the mutex, last writer wins. With a count of zero the
// timer is never armed and the index stays at 0.
type Carousel struct {
	mu       sync.Mutex
	index    int
	count    int
	interval time.Duration
	started  bool
	cancel   context.CancelFunc

	wg sync.WaitGroup
}

func NewCarousel(count int, interval time.Duration) *Carousel {
	if interval <= 0 {
		interval = DefaultRotation
	}
	if count < 0 {
		count = 0
	}
	return &Carousel{count: count, interval: interval}
}

// Start enables auto-advance. The timer is only armed while the featured
// subset is non-empty; Sync arms and disarms it as the subset changes.
func (c *Carousel) Start() {
	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
	c.arm()
}

// Stop disarms the timer and waits for the rotation goroutine to exit.
// Safe to call more than once and on a never-started carousel.
func (c *Carousel) Stop() {
	c.mu.Lock()
	c.started = false
	c.mu.Unlock()
	c.disarm()
}

func (c *Carousel) arm() {
	c.mu.Lock()
	if !c.started || c.cancel != nil || c.count == 0 {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()
	go c.run(ctx)
}

func (c *Carousel) disarm() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	c.wg.Wait()
}

func (c *Carousel) run(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.advance(1)
		}
	}
}

// Next advances to the following slide, wrapping around, and returns the
// new index.
func (c *Carousel) Next() int {
	return c.advance(1)
}

// Prev steps back one slide, wrapping around, and returns the new index.
func (c *Carousel) Prev() int {
	return c.advance(-1)
}

func (c *Carousel) advance(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == 0 {
		return 0
	}
	c.index = (c.index + delta + c.count) % c.count
	return c.index
}

// Jump sets the index directly. Out-of-range targets are rejected.
func (c *Carousel) Jump(index int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= c.count {
		return c.index, false
	}
	c.index = index
	return c.index, true
}

// Index reports the current slide.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Count reports the size of the featured subset the carousel rotates over.
func (c *Carousel) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Armed reports whether the auto-advance timer is currently running.
func (c *Carousel) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Sync updates the featured count after a store mutation, clamping the
// index back into range and arming or disarming the timer as needed.
func (c *Carousel) Sync(count int) {
	c.mu.Lock()
	if count < 0 {
		count = 0
	}
	c.count = count
	if count == 0 {
		c.index = 0
	} else if c.index >= count {
		c.index = c.index % count
	}
	armNeeded := c.started && count > 0 && c.cancel == nil
	disarmNeeded := count == 0 && c.cancel != nil
	c.mu.Unlock()

	if disarmNeeded {
		c.disarm()
	} else if armNeeded {
		c.arm()
	}
}
