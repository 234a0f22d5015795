package live

import (
	"sync"

	"github.com/adampresley/couplestory/pkg/carousel"
	"github.com/adampresley/couplestory/pkg/counter"
)

const (
	FrameCarousel = "carousel"
	FrameCounter  = "counter"
	FrameError    = "error"
)

type Frame struct {
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

/*
outbox holds the newest value of each frame type until the writer takes it.
Offers never block. A newer value replaces one the writer has not sent yet,
and the signal channel holds at most one wake-up, so the last value offered
is always the one written.
*/
type outbox struct {
	mu       sync.Mutex
	carousel *carousel.Snapshot
	counter  *counter.View
	errorMsg string
	signal   chan struct{}
}

func newOutbox() *outbox {
	return &outbox{
		signal: make(chan struct{}, 1),
	}
}

func (o *outbox) offerCarousel(snapshot carousel.Snapshot) {
	o.mu.Lock()
	o.carousel = &snapshot
	o.mu.Unlock()

	o.wake()
}

func (o *outbox) offerCounter(view counter.View) {
	o.mu.Lock()
	o.counter = &view
	o.mu.Unlock()

	o.wake()
}

func (o *outbox) offerError(message string) {
	o.mu.Lock()
	o.errorMsg = message
	o.mu.Unlock()

	o.wake()
}

func (o *outbox) wake() {
	select {
	case o.signal <- struct{}{}:
	default:
	}
}

/*
take empties the outbox. Carousel frames come first so a page never shows a
counter for a story it has not drawn yet.
*/
func (o *outbox) take() []Frame {
	o.mu.Lock()
	defer o.mu.Unlock()

	frames := make([]Frame, 0, 3)

	if o.carousel != nil {
		frames = append(frames, Frame{Type: FrameCarousel, Data: *o.carousel})
		o.carousel = nil
	}

	if o.counter != nil {
		frames = append(frames, Frame{Type: FrameCounter, Data: *o.counter})
		o.counter = nil
	}

	if o.errorMsg != "" {
		frames = append(frames, Frame{Type: FrameError, Message: o.errorMsg})
		o.errorMsg = ""
	}

	return frames
}
