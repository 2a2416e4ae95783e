// Package autosave откладывает запись правок формы до паузы в вводе и
// гарантирует не более одной записи документа в полёте.
package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"portfolio/internal/models"
)

type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
	StateWriting State = "writing"
)

// DefaultDelay — пауза в правках перед записью.
const DefaultDelay = 2 * time.Second

const writeTimeout = 10 * time.Second

var (
	// ErrUnsavedDocument — у документа ещё нет id; нужен ручной «Сохранить».
	ErrUnsavedDocument = errors.New("autosave: document has no id yet")
	ErrClosed          = errors.New("autosave: coordinator is closed")
)

// Saver пишет накопленные поля документа (частичное обновление).
type Saver func(ctx context.Context, fields models.Payload) error

type Status struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	Dirty     bool      `json:"dirty"`
	LastSaved time.Time `json:"lastSaved,omitempty"`
	LastError string    `json:"lastError,omitempty"`
	Writes    int       `json:"writes"`
}

type Option func(*Coordinator)

// WithNotify вызывается после каждой записи (успешной или нет).
func WithNotify(fn func(Status, error)) Option {
	return func(c *Coordinator) { c.notify = fn }
}

// Coordinator — автосохранение одного документа.
//
// Idle -> Pending (таймер) -> Writing -> Idle. Правка в Idle/Pending
// перезапускает таймер. Правка во время Writing копится в черновике,
// новый цикл начинается только после завершения текущей записи.
// Ошибка записи не повторяется автоматически: поля остаются в черновике
// до следующей правки или Flush.
type Coordinator struct {
	mu        sync.Mutex
	id        string
	delay     time.Duration
	save      Saver
	notify    func(Status, error)
	draft     models.Payload
	state     State
	timer     *time.Timer
	gen       uint64
	editedMid bool
	inflight  chan struct{}
	lastSaved time.Time
	lastErr   error
	writes    int
	closed    bool
}

func New(id string, delay time.Duration, save Saver, opts ...Option) (*Coordinator, error) {
	if id == "" {
		return nil, ErrUnsavedDocument
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	c := &Coordinator{
		id:    id,
		delay: delay,
		save:  save,
		draft: models.Payload{},
		state: StateIdle,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Edit добавляет правку полей в черновик и перезапускает отсчёт.
func (c *Coordinator) Edit(fields models.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.draft = c.draft.Merge(fields)

	if c.state == StateWriting {
		c.editedMid = true
		return nil
	}
	c.armLocked()
	return nil
}

// armLocked (пере)запускает таймер. Вызывать под c.mu.
func (c *Coordinator) armLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.state = StatePending
	c.timer = time.AfterFunc(c.delay, func() { c.fire(gen) })
}

func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.closed || c.state != StatePending {
		c.mu.Unlock()
		return
	}
	fields, done := c.beginWriteLocked()
	c.mu.Unlock()

	c.write(fields, done)
}

// beginWriteLocked переводит в Writing и забирает черновик. Вызывать под c.mu.
func (c *Coordinator) beginWriteLocked() (models.Payload, chan struct{}) {
	c.state = StateWriting
	c.editedMid = false
	fields := c.draft
	c.draft = models.Payload{}
	done := make(chan struct{})
	c.inflight = done
	return fields, done
}

func (c *Coordinator) write(fields models.Payload, done chan struct{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	err := c.save(ctx, fields)
	cancel()

	c.mu.Lock()
	c.writes++
	c.state = StateIdle
	if err != nil {
		c.lastErr = err
		// правки из формы не теряем: более новые поля поверх неудачных
		c.draft = fields.Merge(c.draft)
	} else {
		c.lastErr = nil
		c.lastSaved = time.Now().UTC()
	}
	if c.editedMid && !c.closed {
		c.editedMid = false
		c.armLocked()
	}
	c.inflight = nil
	st := c.statusLocked()
	notify := c.notify
	c.mu.Unlock()

	close(done)
	if notify != nil {
		notify(st, err)
	}
	return err
}

// Flush пишет черновик немедленно (ручное сохранение), дождавшись
// записи, которая уже в полёте.
func (c *Coordinator) Flush(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.state != StateWriting {
			break
		}
		wait := c.inflight
		c.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	// здесь c.mu захвачен
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	if len(c.draft) == 0 {
		c.state = StateIdle
		c.mu.Unlock()
		return nil
	}
	fields, done := c.beginWriteLocked()
	c.mu.Unlock()

	return c.write(fields, done)
}

// Close останавливает таймер; несохранённый черновик отбрасывается.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Coordinator) statusLocked() Status {
	st := Status{
		ID:        c.id,
		State:     c.state,
		Dirty:     len(c.draft) > 0,
		LastSaved: c.lastSaved,
		Writes:    c.writes,
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}
