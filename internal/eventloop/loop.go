// Package eventloop is the single-goroutine reactor spec.md §5 describes:
// one goroutine owns every Job/Target map, multiplexing child-exit,
// signal, notify-socket, and memory-pressure sources over channels
// (SPEC_FULL.md §4.4 "event loop internals"). It also implements the
// busapi handler interfaces directly, so RMI method dispatch (running on
// godbus's own per-call goroutine) hands off all state mutation to this
// goroutine via Submit rather than taking a lock.
//
// Grounded on the teacher's internal/commands/serve.go signal-handling
// shape (signal.Notify + select over a done channel), generalized with
// the additional source kinds SPEC_FULL.md names.
package eventloop

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreupdate/sysupdated/internal/busapi"
	"github.com/coreupdate/sysupdated/internal/config"
	"github.com/coreupdate/sysupdated/internal/discovery"
	"github.com/coreupdate/sysupdated/internal/notifysock"
	"github.com/coreupdate/sysupdated/internal/policy"
	"github.com/coreupdate/sysupdated/internal/registry"
	"github.com/coreupdate/sysupdated/internal/sysupdate"
	"github.com/coreupdate/sysupdated/internal/worker"
)

// jobBus bundles the bus-facing handles the loop needs per tracked job:
// the exported object path and the live *prop.Properties handle used to
// emit Progress changes.
type jobBus struct {
	path  string
	props progressEmitter
}

// progressEmitter is the subset of *prop.Properties the loop needs,
// narrowed to keep this package decoupled from the prop package's full
// surface.
type progressEmitter interface {
	SetMust(iface, property string, v interface{})
}

// Loop owns every piece of mutable daemon state. Nothing outside this
// package's Run goroutine may touch jobs/targets/jobBuses directly.
type Loop struct {
	cfg     *config.Config
	bus     *busapi.Conn
	invoker *worker.Invoker
	sync    *worker.Sync
	lister  discovery.ImageLister
	policyClient policy.Client

	jobs     *registry.Jobs
	targets  *registry.Targets
	jobBuses map[sysupdate.JobID]jobBus

	tasks      chan func()
	jobDone    chan sysupdate.JobID
	notifyCh   chan notifysock.Message
	sigCh      chan os.Signal
	pressureCh chan float64

	idleTimeout time.Duration
	quit        chan struct{}
}

// New constructs a Loop. The caller must call Run to start processing.
func New(cfg *config.Config, bus *busapi.Conn, lister discovery.ImageLister, policyClient policy.Client) *Loop {
	return &Loop{
		cfg:          cfg,
		bus:          bus,
		invoker:      worker.New(cfg.WorkerPath, cfg.VerifyDisabled, cfg.NotifySocketPath()),
		sync:         worker.NewSync(cfg.WorkerPath, cfg.VerifyDisabled),
		lister:       lister,
		policyClient: policyClient,

		jobs:     registry.NewJobs(),
		targets:  registry.NewTargets(),
		jobBuses: make(map[sysupdate.JobID]jobBus),

		tasks:      make(chan func()),
		jobDone:    make(chan sysupdate.JobID, 16),
		notifyCh:   make(chan notifysock.Message, 64),
		sigCh:      make(chan os.Signal, 4),
		pressureCh: make(chan float64, 1),

		idleTimeout: cfg.IdleTimeout,
		quit:        make(chan struct{}),
	}
}

// Submit enqueues fn to run on the loop goroutine and blocks until it has
// been accepted for execution. Exported-method handlers (running on
// godbus's per-call goroutine) call this to safely touch jobs/targets.
func (l *Loop) Submit(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.quit:
	}
}

// SubmitWait runs fn on the loop goroutine and blocks until it has
// completed, returning whatever fn computed.
func SubmitWait[T any](l *Loop, fn func() T) T {
	reply := make(chan T, 1)
	l.Submit(func() { reply <- fn() })
	return <-reply
}

// SubmitWaitErr is SubmitWait for the common (T, error) return shape used
// by every RMI handler below.
func SubmitWaitErr[T any](l *Loop, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	reply := make(chan result, 1)
	l.Submit(func() {
		v, err := fn()
		reply <- result{v, err}
	})
	r := <-reply
	return r.v, r.err
}

// Run blocks, multiplexing every source kind, until ctx is cancelled or
// the idle quiescence timer fires with no jobs outstanding.
func (l *Loop) Run(ctx context.Context) error {
	signal.Notify(l.sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(l.sigCh)

	notifyCtx, cancelNotify := context.WithCancel(ctx)
	defer cancelNotify()

	receiver, err := notifysock.Listen(l.cfg.NotifySocketPath())
	if err != nil {
		return err
	}
	defer receiver.Close()
	go receiver.Run(notifyCtx, l.notifyCh)

	go pollMemoryPressure(notifyCtx, l.pressureCh)

	idleTimer := time.NewTimer(l.idleTimeout)
	defer idleTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case sig := <-l.sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			return nil

		case fn := <-l.tasks:
			fn()
			l.resetIdleTimer(idleTimer)

		case id := <-l.jobDone:
			l.handleChildExit(id)
			l.resetIdleTimer(idleTimer)

		case msg := <-l.notifyCh:
			l.handleNotification(msg)

		case avg10 := <-l.pressureCh:
			if avg10 > memoryPressureLogThreshold {
				slog.Warn("elevated memory pressure", "some_avg10", avg10)
			}

		case <-idleTimer.C:
			if l.jobs.Empty() {
				slog.Info("idle timeout reached, exiting")
				return nil
			}
			idleTimer.Reset(l.idleTimeout)
		}
	}
}

func (l *Loop) resetIdleTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(l.idleTimeout)
}

// idleCheck flushes the Target registry once the Job map is empty,
// per spec.md §5 ("Each child-exit triggers an idle check which, if the
// Job map is empty, flushes the Target registry").
func (l *Loop) idleCheck() {
	if !l.jobs.Empty() {
		return
	}
	for _, t := range l.targets.List() {
		l.bus.UnexportTarget(t)
	}
	l.targets.Flush()
}
