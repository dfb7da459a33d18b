// seehuhn.de/go/contour - iso-contours of gridded data
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package parallel provides a fixed size pool of worker goroutines.
package parallel

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a set of worker goroutines pulling jobs from a shared queue.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queue   chan func()
	wg      sync.WaitGroup
	running atomic.Bool
	once    sync.Once
}

// New starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		queue:   make(chan func(), 2*workers),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.queue {
		job()
	}
}

// Run calls fn(0), ..., fn(n-1) on the workers of the pool and waits for
// all calls to return.  If any call fails, the error of the call with the
// lowest index is returned.  A panic inside fn is recovered and reported
// as an error.
//
// If the pool has been closed, the calls are made on the calling
// goroutine instead.
func (p *Pool) Run(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	errs := make([]error, n)
	if !p.running.Load() {
		for i := range n {
			errs[i] = call(i, fn)
		}
		return firstError(errs)
	}

	var done sync.WaitGroup
	done.Add(n)
	for i := range n {
		p.queue <- func() {
			defer done.Done()
			errs[i] = call(i, fn)
		}
	}
	done.Wait()

	return firstError(errs)
}

func call(i int, fn func(int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Job: i, Value: r}
		}
	}()
	return fn(i)
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// PanicError reports a job which panicked.
type PanicError struct {
	Job   int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("parallel: job %d panicked: %v", e.Job, e.Value)
}

// Close stops the workers, after all queued jobs have finished.
// Close must not be called concurrently with Run.  Close is safe to call
// multiple times.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.running.Store(false)
		close(p.queue)
		p.wg.Wait()
	})
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning returns true until the pool is closed.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
