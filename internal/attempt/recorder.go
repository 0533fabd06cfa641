package attempt

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/courseloop/assessment-platform/internal/assessment"
)

// Result is the persisted record of one graded attempt. TimeSpentSeconds
// is echoed from the client and never interpreted by grading.
type Result struct {
	ID               string                `json:"id"`
	ItemID           string                `json:"item_id"`
	UserID           string                `json:"user_id"`
	Score            float64               `json:"score"`
	MaxScore         float64               `json:"max_score"`
	CorrectCount     int                   `json:"correct_count"`
	TotalUnits       int                   `json:"total_units"`
	Selections       assessment.Selections `json:"selections"`
	TimeSpentSeconds int                   `json:"time_spent_seconds,omitempty"`
	SubmittedAt      time.Time             `json:"submitted_at"`
}

// Store persists attempt results (implemented by the Postgres repository).
type Store interface {
	Insert(ctx context.Context, res Result) error
}

// Recorder is a fire-and-forget attempt sink: Record enqueues without
// blocking the grading flow and a background worker persists. Failures
// are logged and counted, never surfaced to the submitter.
type Recorder struct {
	store     Store
	queue     chan Result
	logger    zerolog.Logger
	timeout   time.Duration
	shutdownC chan struct{}
	doneC     chan struct{}
}

func NewRecorder(store Store, logger zerolog.Logger, bufferSize int, timeout time.Duration) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{
		store:     store,
		queue:     make(chan Result, bufferSize),
		logger:    logger.With().Str("component", "attempt_recorder").Logger(),
		timeout:   timeout,
		shutdownC: make(chan struct{}),
		doneC:     make(chan struct{}),
	}
}

// Record enqueues a result for persistence. A full queue drops the
// result rather than stalling a submission.
func (r *Recorder) Record(res Result) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.SubmittedAt.IsZero() {
		res.SubmittedAt = time.Now().UTC()
	}
	select {
	case r.queue <- res:
	default:
		attemptsDropped.Inc()
		r.logger.Warn().Str("item_id", res.ItemID).Msg("attempt queue full, result dropped")
	}
}

// Run drains the queue until Stop, then flushes what is already queued.
func (r *Recorder) Run() {
	defer close(r.doneC)
	for {
		select {
		case <-r.shutdownC:
			r.drain()
			r.logger.Info().Msg("attempt recorder stopping")
			return
		case res := <-r.queue:
			r.persist(res)
		}
	}
}

func (r *Recorder) drain() {
	for {
		select {
		case res := <-r.queue:
			r.persist(res)
		default:
			return
		}
	}
}

func (r *Recorder) persist(res Result) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.store.Insert(ctx, res); err != nil {
		attemptsFailed.Inc()
		r.logger.Error().Err(err).
			Str("item_id", res.ItemID).
			Str("user_id", res.UserID).
			Msg("persist attempt failed")
		return
	}
	attemptsRecorded.Inc()
}

// Stop signals shutdown and waits for the final flush.
func (r *Recorder) Stop() {
	close(r.shutdownC)
	<-r.doneC
}
