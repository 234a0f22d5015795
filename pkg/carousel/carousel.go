package carousel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adampresley/couplestory/pkg/scheduler"
)

const (
	StoryDuration     = 5000 * time.Millisecond
	ProgressInterval  = 50 * time.Millisecond
	DefaultCoupleName = "LoveYuu"
	EmptyMessage      = "No photos yet. Add some in the dashboard to build your story."
)

var (
	ErrIndexOutOfRange = errors.New("photo index out of range")
)

type Cause string

const (
	CauseMount    Cause = "mount"
	CauseTick     Cause = "tick"
	CauseAuto     Cause = "auto"
	CauseNext     Cause = "next"
	CausePrevious Cause = "previous"
	CauseJump     Cause = "jump"
	CauseReset    Cause = "reset"
)

type Photo struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

type State struct {
	CurrentIndex int
	Elapsed      time.Duration
}

type Config struct {
	Scheduler  scheduler.Scheduler
	Photos     []Photo
	CoupleName string
	OnChange   func(Snapshot)
}

/*
Carousel is the story state machine. It shows one photo at a time, advances
every StoryDuration and reports progress every ProgressInterval. Every index
change bumps the generation and replaces both timers, so a timer from a
superseded slide can never act on the current one.
*/
type Carousel struct {
	mu         sync.Mutex
	scheduler  scheduler.Scheduler
	photos     []Photo
	coupleName string
	onChange   func(Snapshot)

	index      int
	elapsed    time.Duration
	slideStart time.Time
	generation uint64
	mounted    bool

	advance  scheduler.Handle
	progress scheduler.Handle
}

/*
New builds a carousel. A nil Scheduler uses the real clock.
*/
func New(config Config) *Carousel {
	if config.Scheduler == nil {
		config.Scheduler = scheduler.NewClockScheduler(nil)
	}

	photos := make([]Photo, len(config.Photos))
	copy(photos, config.Photos)

	return &Carousel{
		scheduler:  config.Scheduler,
		photos:     photos,
		coupleName: config.CoupleName,
		onChange:   config.OnChange,
	}
}

func (c *Carousel) Mount() {
	c.mu.Lock()
	c.mounted = true
	snapshot := c.moveTo(0, CauseMount)
	c.mu.Unlock()

	c.notify(snapshot)
}

/*
Unmount cancels every timer. The carousel can be mounted again later.
*/
func (c *Carousel) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mounted = false
	c.generation++
	c.stopTimers()
}

func (c *Carousel) Next() {
	c.navigate(CauseNext, func(index, count int) int {
		return (index + 1) % count
	})
}

func (c *Carousel) Previous() {
	c.navigate(CausePrevious, func(index, count int) int {
		return (index - 1 + count) % count
	})
}

func (c *Carousel) JumpTo(target int) error {
	c.mu.Lock()

	if target < 0 || target >= len(c.photos) {
		count := len(c.photos)
		c.mu.Unlock()
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, target, count)
	}

	snapshot := c.moveTo(target, CauseJump)
	c.mu.Unlock()

	c.notify(snapshot)
	return nil
}

/*
SetPhotos replaces the photo list and starts over from the first photo.
*/
func (c *Carousel) SetPhotos(photos []Photo) {
	c.mu.Lock()
	c.photos = make([]Photo, len(photos))
	copy(c.photos, photos)

	snapshot := c.moveTo(0, CauseReset)
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Carousel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		CurrentIndex: c.index,
		Elapsed:      c.elapsed,
	}
}

func (c *Carousel) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(CauseTick)
}

func (c *Carousel) navigate(cause Cause, next func(index, count int) int) {
	c.mu.Lock()

	if len(c.photos) == 0 {
		c.mu.Unlock()
		return
	}

	snapshot := c.moveTo(next(c.index, len(c.photos)), cause)
	c.mu.Unlock()

	c.notify(snapshot)
}

/*
moveTo must be called with the lock held. It resets timing for the new index
and, when mounted with more than one photo, restarts both timers.
*/
func (c *Carousel) moveTo(index int, cause Cause) Snapshot {
	c.stopTimers()
	c.generation++

	c.index = index
	c.elapsed = 0
	c.slideStart = c.now()

	if c.mounted && len(c.photos) > 1 {
		generation := c.generation

		c.progress = c.scheduler.Every(ProgressInterval, func() {
			c.onProgress(generation)
		})

		c.advance = c.scheduler.After(StoryDuration, func() {
			c.onAdvance(generation)
		})
	}

	return c.snapshot(cause)
}

func (c *Carousel) onProgress(generation uint64) {
	c.mu.Lock()

	if generation != c.generation {
		c.mu.Unlock()
		return
	}

	c.elapsed = c.now().Sub(c.slideStart)

	if c.elapsed > StoryDuration {
		c.elapsed = StoryDuration
	}

	if c.elapsed < 0 {
		c.elapsed = 0
	}

	snapshot := c.snapshot(CauseTick)
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Carousel) onAdvance(generation uint64) {
	c.mu.Lock()

	if generation != c.generation || len(c.photos) == 0 {
		c.mu.Unlock()
		return
	}

	snapshot := c.moveTo((c.index+1)%len(c.photos), CauseAuto)
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Carousel) stopTimers() {
	if c.advance != nil {
		c.advance.Cancel()
		c.advance = nil
	}

	if c.progress != nil {
		c.progress.Cancel()
		c.progress = nil
	}
}

func (c *Carousel) now() time.Time {
	return c.scheduler.Now()
}

func (c *Carousel) notify(snapshot Snapshot) {
	if c.onChange != nil {
		c.onChange(snapshot)
	}
}
