package counter

import (
	"fmt"
	"sync"
	"time"

	"github.com/adampresley/couplestory/pkg/scheduler"
)

const (
	TickInterval  = time.Second
	NotConfigured = "Set the relationship start date in the dashboard"
)

/*
View is what the story page renders for the counter. When Configured is
false only Prompt is meaningful.
*/
type View struct {
	Configured   bool      `json:"configured"`
	Prompt       string    `json:"prompt,omitempty"`
	Breakdown    Breakdown `json:"breakdown"`
	CustomPhrase string    `json:"customPhrase,omitempty"`
}

type Config struct {
	Scheduler    scheduler.Scheduler
	Start        *time.Time
	CustomPhrase string
	OnTick       func(View)
}

/*
Counter keeps a Breakdown current while mounted. Each tick recomputes from the
scheduler's clock, so a wall clock change corrects itself on the next tick.
*/
type Counter struct {
	mu           sync.Mutex
	scheduler    scheduler.Scheduler
	start        *time.Time
	customPhrase string
	onTick       func(View)
	current      Breakdown
	interval     scheduler.Handle
	mounted      bool
}

func New(config Config) *Counter {
	if config.Scheduler == nil {
		config.Scheduler = scheduler.NewClockScheduler(nil)
	}

	return &Counter{
		scheduler:    config.Scheduler,
		start:        config.Start,
		customPhrase: config.CustomPhrase,
		onTick:       config.OnTick,
	}
}

/*
Compute returns the view for start at now without any timers. A nil start
yields the not-configured prompt.
*/
func Compute(start *time.Time, customPhrase string, now time.Time) View {
	if start == nil {
		return View{
			Configured: false,
			Prompt:     NotConfigured,
		}
	}

	return View{
		Configured:   true,
		Breakdown:    Elapsed(*start, now),
		CustomPhrase: customPhrase,
	}
}

func (c *Counter) Mount() {
	c.mu.Lock()
	c.mounted = true
	view := c.restart()
	c.mu.Unlock()

	c.notify(view)
}

func (c *Counter) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mounted = false
	c.stop()
}

/*
SetStart replaces the start date. A mounted counter recomputes immediately
and restarts its interval.
*/
func (c *Counter) SetStart(start *time.Time) {
	c.mu.Lock()
	c.start = start

	if !c.mounted {
		c.mu.Unlock()
		return
	}

	view := c.restart()
	c.mu.Unlock()

	c.notify(view)
}

func (c *Counter) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *Counter) restart() View {
	c.stop()

	if c.start == nil {
		c.current = Breakdown{}
		return c.view()
	}

	c.current = Elapsed(*c.start, c.scheduler.Now())
	c.interval = c.scheduler.Every(TickInterval, c.tick)

	return c.view()
}

func (c *Counter) tick() {
	c.mu.Lock()

	if !c.mounted || c.start == nil {
		c.mu.Unlock()
		return
	}

	c.current = Elapsed(*c.start, c.scheduler.Now())
	view := c.view()
	c.mu.Unlock()

	c.notify(view)
}

func (c *Counter) stop() {
	if c.interval != nil {
		c.interval.Cancel()
		c.interval = nil
	}
}

func (c *Counter) view() View {
	if c.start == nil {
		return View{
			Configured: false,
			Prompt:     NotConfigured,
		}
	}

	return View{
		Configured:   true,
		Breakdown:    c.current,
		CustomPhrase: c.customPhrase,
	}
}

func (c *Counter) notify(view View) {
	if c.onTick != nil {
		c.onTick(view)
	}
}

/*
DateLine renders "1 year, 2 months, 3 days".
*/
func (v View) DateLine() string {
	b := v.Breakdown
	return fmt.Sprintf("%d %s, %d %s, %d days",
		b.Years, plural(b.Years, "year", "years"),
		b.Months, plural(b.Months, "month", "months"),
		b.Days,
	)
}

/*
TimeLine renders "4 hours, 5 minutes and 06 seconds".
*/
func (v View) TimeLine() string {
	b := v.Breakdown
	return fmt.Sprintf("%d hours, %d minutes and %02d seconds", b.Hours, b.Minutes, b.Seconds)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
