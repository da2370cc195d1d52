package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/postsphere/internal/platform"
	"go.uber.org/zap"
)

// DefaultDelay is how long a simulated schedule or publish takes.
const DefaultDelay = time.Second

// Receipt confirms a simulated schedule or publish.
type Receipt struct {
	ID           string        `json:"id"`
	Platforms    []platform.ID `json:"platforms"`
	ScheduledFor *time.Time    `json:"scheduled_for,omitempty"`
	At           time.Time     `json:"at"`
}

// Publisher schedules and publishes posts.
type Publisher interface {
	Schedule(ctx context.Context, vm *ViewModel) (Receipt, error)
	Publish(ctx context.Context, vm *ViewModel) (Receipt, error)
}

// SimulatedPublisher stands in for real platform integrations: it waits a
// fixed delay and reports success. Nothing leaves the process.
type SimulatedPublisher struct {
	delay  time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewSimulatedPublisher returns a publisher that takes delay per operation.
// A negative delay is treated as zero.
func NewSimulatedPublisher(delay time.Duration, logger *zap.Logger) *SimulatedPublisher {
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulatedPublisher{delay: delay, now: time.Now, logger: logger}
}

// Schedule moves vm through scheduling to scheduled.
// vm is only modified on success or to abort an interrupted schedule.
func (p *SimulatedPublisher) Schedule(ctx context.Context, vm *ViewModel) (Receipt, error) {
	if err := vm.BeginScheduling(); err != nil {
		return Receipt{}, err
	}
	if err := p.wait(ctx); err != nil {
		vm.AbortScheduling()
		return Receipt{}, err
	}

	receipt := p.receipt(vm)
	scheduledFor := *vm.ScheduleDate
	receipt.ScheduledFor = &scheduledFor
	vm.MarkScheduled()

	p.logger.Info("post scheduled",
		zap.String("receipt", receipt.ID),
		zap.Time("scheduled_for", scheduledFor),
		zap.Int("platforms", len(receipt.Platforms)))
	return receipt, nil
}

// Publish "posts" the content to every selected platform and clears vm.
func (p *SimulatedPublisher) Publish(ctx context.Context, vm *ViewModel) (Receipt, error) {
	if len(vm.SelectedPlatforms) == 0 {
		return Receipt{}, ErrNoPlatforms
	}
	if vm.busy() {
		return Receipt{}, ErrBusy
	}
	if err := p.wait(ctx); err != nil {
		return Receipt{}, err
	}

	receipt := p.receipt(vm)
	vm.MarkPublished()

	p.logger.Info("post published",
		zap.String("receipt", receipt.ID),
		zap.Int("platforms", len(receipt.Platforms)))
	return receipt, nil
}

func (p *SimulatedPublisher) receipt(vm *ViewModel) Receipt {
	return Receipt{
		ID:        uuid.NewString(),
		Platforms: append([]platform.ID(nil), vm.SelectedPlatforms...),
		At:        p.now().UTC(),
	}
}

func (p *SimulatedPublisher) wait(ctx context.Context) error {
	if p.delay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
