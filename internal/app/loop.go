package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrLoopStopped is returned when work is handed to a stopped loop.
var ErrLoopStopped = errors.New("ui loop stopped")

// Loop runs closures one at a time on a single goroutine. Window and focus
// operations all go through it so they never interleave.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewLoop starts a loop with room for buffer queued tasks.
func NewLoop(buffer int) *Loop {
	l := &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			return
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic on UI loop: %v", r)
		}
	}()
	fn()
}

// Post queues fn without waiting for it. It reports false if the loop has
// stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for its result.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("panic on UI loop: %v", r)
				panic(r)
			}
		}()
		result <- fn()
	}

	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop ends the loop after the task in progress. Queued tasks are dropped.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
	l.wg.Wait()
}
