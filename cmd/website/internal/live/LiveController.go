package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/adampresley/couplestory/cmd/website/internal/metrics"
	"github.com/adampresley/couplestory/pkg/carousel"
	"github.com/adampresley/couplestory/pkg/counter"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/scheduler"
	"github.com/adampresley/couplestory/pkg/services"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

const (
	WriteTimeout   = 10 * time.Second
	MaxMessageSize = 1024

	ActionNext     = "next"
	ActionPrevious = "previous"
	ActionJump     = "jump"
)

/*
Action is a message sent by the page. Index is only read for jump.
*/
type Action struct {
	Action string `json:"action"`
	Index  int    `json:"index"`
}

type LiveControllerConfig struct {
	Clock         clockwork.Clock
	ConfigService services.ConfigServicer
	Location      *time.Location
	Metrics       *metrics.Metrics
}

type LiveController struct {
	clock         clockwork.Clock
	configService services.ConfigServicer
	location      *time.Location
	metrics       *metrics.Metrics
	upgrader      websocket.Upgrader
}

func NewLiveController(config LiveControllerConfig) LiveController {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	if config.Location == nil {
		config.Location = time.Local
	}

	return LiveController{
		clock:         config.Clock,
		configService: config.ConfigService,
		location:      config.Location,
		metrics:       config.Metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

/*
GET /story/live
*/
func (c LiveController) StoryLive(w http.ResponseWriter, r *http.Request) {
	config, err := services.CurrentConfig(r.Context(), c.configService)

	if err != nil {
		slog.Error("error loading couple config for live story", "error", err)
		config = nil
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)

	if err != nil {
		slog.Error("error upgrading live story connection", "error", err)
		return
	}

	c.Serve(r.Context(), conn, config)
}

/*
Serve runs one live story on conn until the page goes away or a read or
write fails. The carousel and counter are mounted for exactly as long as
Serve runs.
*/
func (c LiveController) Serve(ctx context.Context, conn *websocket.Conn, config *models.CoupleConfig) {
	var (
		err   error
		start *time.Time
	)

	sessionID := uuid.NewString()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.metrics != nil {
		c.metrics.LiveConnections.Inc()
		defer c.metrics.LiveConnections.Dec()
	}

	slog.Info("live story connected", "session", sessionID, "remote", conn.RemoteAddr().String())

	if start, err = config.StartDate(c.location); err != nil {
		slog.Error("stored relationship start date is invalid", "session", sessionID, "error", err)
		start = nil
	}

	box := newOutbox()
	sched := scheduler.NewClockScheduler(c.clock)

	phrase := ""

	if config != nil {
		phrase = config.CustomPhrase
	}

	story := carousel.New(carousel.Config{
		Scheduler:  sched,
		Photos:     config.CarouselPhotos(),
		CoupleName: config.DisplayName(),
		OnChange:   box.offerCarousel,
	})

	elapsed := counter.New(counter.Config{
		Scheduler:    sched,
		Start:        start,
		CustomPhrase: phrase,
		OnTick:       box.offerCounter,
	})

	closeConn := sync.OnceFunc(func() {
		_ = conn.Close()
	})

	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		defer closeConn()

		if err := writeLoop(ctx, conn, box); err != nil && !errors.Is(err, context.Canceled) {
			slog.Info("live story writer stopped", "session", sessionID, "error", err)
		}
	}()

	story.Mount()
	elapsed.Mount()

	err = readLoop(conn, story, box)

	story.Unmount()
	elapsed.Unmount()
	cancel()
	<-writerDone

	slog.Info("live story disconnected", "session", sessionID, "reason", err)
}

func readLoop(conn *websocket.Conn, story *carousel.Carousel, box *outbox) error {
	conn.SetReadLimit(MaxMessageSize)
	_ = conn.SetReadDeadline(time.Time{})

	for {
		_, data, err := conn.ReadMessage()

		if err != nil {
			return err
		}

		action := Action{}

		if err = json.Unmarshal(data, &action); err != nil {
			box.offerError("could not read action")
			continue
		}

		switch action.Action {
		case ActionNext:
			story.Next()

		case ActionPrevious:
			story.Previous()

		case ActionJump:
			if err = story.JumpTo(action.Index); err != nil {
				box.offerError(err.Error())
			}

		default:
			box.offerError("unknown action " + action.Action)
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, box *outbox) error {
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			return ctx.Err()

		case <-box.signal:
			for _, frame := range box.take() {
				b, err := json.Marshal(frame)

				if err != nil {
					return err
				}

				if err = conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
					return err
				}

				if err = conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return err
				}
			}
		}
	}
}
