package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"proctor-quiz-service/internal/domain"
)

// API is the server surface the session talks to.
type API interface {
	Submit(ctx context.Context, req domain.SubmissionRequest) (domain.Receipt, error)
	Results(ctx context.Context) ([]domain.Submission, error)
}

// Ticker drives the elapsed-time counter.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SignalSource reports focus changes. Subscribe is called on entering the quiz
// and the returned cancel func on leaving it.
type SignalSource interface {
	Subscribe(emit func(Event)) (cancel func())
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the default ticker factory.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Controller runs one session: events are applied one at a time on the Run
// goroutine, effects run concurrently and post their outcome back as events.
type Controller struct {
	api       API
	newTicker func(time.Duration) Ticker
	sources   []SignalSource
	afterFunc func(time.Duration, func())
	onChange  func(State)
	onError   func(error)
	log       zerolog.Logger

	events chan Event
	done   chan struct{}

	mu    sync.RWMutex
	state State

	// owned by the Run goroutine
	ticker  Ticker
	cancels []func()
	ctx     context.Context
}

type ControllerOption func(*Controller)

func WithTicker(factory func(time.Duration) Ticker) ControllerOption {
	return func(c *Controller) { c.newTicker = factory }
}

func WithSignalSources(sources ...SignalSource) ControllerOption {
	return func(c *Controller) { c.sources = append(c.sources, sources...) }
}

// WithAfterFunc replaces time.AfterFunc for alert expiry.
func WithAfterFunc(fn func(time.Duration, func())) ControllerOption {
	return func(c *Controller) { c.afterFunc = fn }
}

// WithOnChange is called on the Run goroutine after every applied event.
func WithOnChange(fn func(State)) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

// WithOnError receives guard failures from Reduce.
func WithOnError(fn func(error)) ControllerOption {
	return func(c *Controller) { c.onError = fn }
}

func WithControllerLogger(log zerolog.Logger) ControllerOption {
	return func(c *Controller) { c.log = log.With().Str("component", "session").Logger() }
}

func NewController(initial State, api API, opts ...ControllerOption) *Controller {
	c := &Controller{
		api:       api,
		newTicker: NewTimeTicker,
		afterFunc: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		onChange:  func(State) {},
		onError:   func(error) {},
		log:       zerolog.Nop(),
		events:    make(chan Event, 64),
		done:      make(chan struct{}),
		state:     initial,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current session.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Dispatch queues an event. It returns false once the controller has stopped.
func (c *Controller) Dispatch(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

// Run processes events until ctx is cancelled. It can only be called once.
func (c *Controller) Run(ctx context.Context) error {
	c.ctx = ctx
	defer close(c.done)
	defer c.detach()

	c.reconcile()
	for {
		var tick <-chan time.Time
		if c.ticker != nil {
			tick = c.ticker.C()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			c.apply(ev)
		case <-tick:
			c.apply(Tick{})
		}
	}
}

func (c *Controller) apply(ev Event) {
	c.mu.RLock()
	current := c.state
	c.mu.RUnlock()

	next, effects, err := Reduce(current, ev)
	if err != nil {
		c.log.Debug().Err(err).Msgf("%T rejected", ev)
		c.onError(err)
		return
	}

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	if next.Step != current.Step {
		c.log.Debug().Str("from", string(current.Step)).Str("to", string(next.Step)).Msg("step changed")
	}
	c.reconcile()
	for _, eff := range effects {
		c.run(eff)
	}
	c.onChange(next)
}

// reconcile keeps the ticker and signal sources attached exactly while in the quiz.
func (c *Controller) reconcile() {
	if c.State().Step == StepQuiz {
		c.attach()
	} else {
		c.detach()
	}
}

func (c *Controller) attach() {
	if c.ticker != nil {
		return
	}
	c.ticker = c.newTicker(time.Second)
	for _, src := range c.sources {
		c.cancels = append(c.cancels, src.Subscribe(c.post))
	}
}

func (c *Controller) detach() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
}

// post delivers an event from outside the Run goroutine.
func (c *Controller) post(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Controller) run(eff Effect) {
	switch e := eff.(type) {
	case SubmitEffect:
		go func() {
			receipt, err := c.api.Submit(c.ctx, e.Request)
			if err != nil {
				c.log.Warn().Err(err).Msg("submit failed")
				c.post(SubmitFailed{Err: err})
				return
			}
			c.post(SubmitSucceeded{Receipt: receipt})
		}()
	case FetchResultsEffect:
		go func() {
			records, err := c.api.Results(c.ctx)
			if err != nil {
				c.log.Warn().Err(err).Msg("load results failed")
				c.post(ResultsFailed{Err: err})
				return
			}
			c.post(ResultsLoaded{Records: records})
		}()
	case ClearAlertEffect:
		c.afterFunc(e.After, func() { c.post(AlertExpired{Seq: e.Seq}) })
	}
}
