package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

var (
	ErrLoopStopped    = errors.New("sim: loop stopped")
	ErrLoopNotRunning = errors.New("sim: loop not running")
)

type commandKind int

const (
	cmdStart commandKind = iota
	cmdPause
	cmdReset
	cmdSetParam
)

type command struct {
	kind  commandKind
	name  string
	value float64
	reply chan error
}

// Loop runs a Clock on its own goroutine, ticking it once per frame from a
// host frame source. Controls are sent as commands and applied between
// ticks, so a tick is never interleaved with a control or a parameter
// change. Snapshots are published latest-wins: a slow reader skips frames
// but never sees a partial one.
type Loop struct {
	clock *Clock
	cmds  chan command
	snaps chan dynamo.Snapshot

	running   chan struct{}
	startOnce sync.Once
	done      chan struct{}
	stopOnce  sync.Once
	origin    time.Time
}

func NewLoop(c *Clock) *Loop {
	return &Loop{
		clock:   c,
		cmds:    make(chan command),
		snaps:   make(chan dynamo.Snapshot, 1),
		running: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (l *Loop) Snapshots() <-chan dynamo.Snapshot { return l.snaps }

// Ready is closed once Run has started accepting commands.
func (l *Loop) Ready() <-chan struct{} { return l.running }

func (l *Loop) Start() error { return l.send(command{kind: cmdStart}) }
func (l *Loop) Pause() error { return l.send(command{kind: cmdPause}) }
func (l *Loop) Reset() error { return l.send(command{kind: cmdReset}) }

func (l *Loop) SetParam(name string, value float64) error {
	return l.send(command{kind: cmdSetParam, name: name, value: value})
}

// Stop ends Run. No tick happens after Stop returns.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Run ticks the clock for every frame received until ctx is cancelled,
// Stop is called or frames is closed. Frames arriving while the clock is
// not running are dropped.
func (l *Loop) Run(ctx context.Context, frames <-chan time.Time) error {
	defer l.Stop()
	l.origin = time.Now()
	l.publish(l.clock.Snapshot())
	l.startOnce.Do(func() { close(l.running) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case cmd := <-l.cmds:
			err := l.apply(cmd)
			l.publish(l.clock.Snapshot())
			cmd.reply <- err
		case t, ok := <-frames:
			if !ok {
				return nil
			}
			// a Stop racing with a frame must still win
			select {
			case <-l.done:
				return nil
			default:
			}
			if l.clock.Phase() != dynamo.Running {
				continue
			}
			l.publish(l.clock.Tick(t.Sub(l.origin)))
		}
	}
}

func (l *Loop) apply(cmd command) error {
	switch cmd.kind {
	case cmdStart:
		l.clock.Start()
	case cmdPause:
		l.clock.Pause()
	case cmdReset:
		l.clock.Reset()
	case cmdSetParam:
		return l.clock.SetParam(cmd.name, cmd.value)
	}
	return nil
}

// send fails with ErrLoopNotRunning when Run has not been entered yet,
// and with ErrLoopStopped once it has returned.
func (l *Loop) send(cmd command) error {
	select {
	case <-l.running:
	default:
		select {
		case <-l.done:
			return ErrLoopStopped
		default:
			return ErrLoopNotRunning
		}
	}
	cmd.reply = make(chan error, 1)
	select {
	case l.cmds <- cmd:
	case <-l.done:
		return ErrLoopStopped
	}
	return <-cmd.reply
}

func (l *Loop) publish(s dynamo.Snapshot) {
	select {
	case <-l.snaps:
	default:
	}
	select {
	case l.snaps <- s:
	default:
	}
}
