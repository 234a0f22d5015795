package carousel

import "time"

/*
Snapshot is a rendering of the carousel at one moment. It carries everything
a page needs to draw the story: the current photo, per-segment progress and
the couple name to show over the photo.
*/
type Snapshot struct {
	Generation   uint64        `json:"generation"`
	CurrentIndex int           `json:"currentIndex"`
	Count        int           `json:"count"`
	Elapsed      time.Duration `json:"-"`
	ElapsedMs    int64         `json:"elapsedMs"`
	Progress     []float64     `json:"progress"`
	Photo        Photo         `json:"photo"`
	CoupleName   string        `json:"coupleName"`
	Empty        bool          `json:"empty"`
	Message      string        `json:"message,omitempty"`
	Cause        Cause         `json:"cause"`
}

/*
ProgressFor returns the fill percentage of the segment at index given the
current index and elapsed time. Segments already shown are full and segments
not yet reached are empty.
*/
func ProgressFor(index, current int, elapsed time.Duration) float64 {
	switch {
	case index < current:
		return 100

	case index > current:
		return 0

	default:
		if elapsed <= 0 {
			return 0
		}

		if elapsed >= StoryDuration {
			return 100
		}

		return float64(elapsed) / float64(StoryDuration) * 100
	}
}

func (c *Carousel) snapshot(cause Cause) Snapshot {
	name := c.coupleName

	if name == "" {
		name = DefaultCoupleName
	}

	result := Snapshot{
		Generation:   c.generation,
		CurrentIndex: c.index,
		Count:        len(c.photos),
		Elapsed:      c.elapsed,
		ElapsedMs:    c.elapsed.Milliseconds(),
		Progress:     make([]float64, len(c.photos)),
		CoupleName:   name,
		Empty:        len(c.photos) == 0,
		Cause:        cause,
	}

	if result.Empty {
		result.Message = EmptyMessage
		return result
	}

	result.Photo = c.photos[c.index]

	for i := range c.photos {
		result.Progress[i] = ProgressFor(i, c.index, c.elapsed)
	}

	return result
}
