package main

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/evo-i/threads/thrd"
)

// mutexCommand hammers a timed recursive mutex from N workers and
// checks that the protected counter comes out exact.
func mutexCommand() *cli.Command {
	return &cli.Command{
		Name:  "mutex",
		Usage: "contend on a timed recursive mutex",
		Flags: []cli.Flag{
			workersFlag(8),
			&cli.IntFlag{Name: "iterations", Aliases: []string{"n"}, Value: 100_000, Usage: "lock/unlock pairs per worker"},
		},
		Action: func(c *cli.Context) error {
			workers := c.Int("workers")
			iters := c.Int("iterations")

			m, err := thrd.NewMutex(thrd.MutexTimed | thrd.MutexRecursive)
			if err != nil {
				return err
			}
			var counter int
			var timeouts atomic.Int64

			start := time.Now()
			var g errgroup.Group
			for w := 0; w < workers; w++ {
				g.Go(func() error {
					for i := 0; i < iters; i++ {
						deadline, err := thrd.DeadlineIn(time.Second)
						if err != nil {
							return err
						}
						if err := m.LockDeadline(deadline); err != nil {
							if errors.Is(err, thrd.ErrTimedOut) {
								timeouts.Add(1)
								continue
							}
							return err
						}
						counter++
						m.Unlock()
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			elapsed := time.Since(start)

			want := workers*iters - int(timeouts.Load())
			fmt.Printf("mutex: %d workers x %d iters in %v (%.0f locks/s), %d timeouts\n",
				workers, iters, elapsed.Round(time.Millisecond),
				float64(want)/elapsed.Seconds(), timeouts.Load())
			if counter != want {
				return fmt.Errorf("counter = %d, want %d: mutual exclusion violated", counter, want)
			}
			fmt.Println("mutex: counter exact, mutual exclusion held")
			return nil
		},
	}
}

// condCommand runs a bounded producer/consumer queue over a
// condition-variable pair for a fixed duration.
func condCommand() *cli.Command {
	return &cli.Command{
		Name:  "cond",
		Usage: "producer/consumer over a condition variable",
		Flags: []cli.Flag{
			workersFlag(4),
			&cli.DurationFlag{Name: "duration", Aliases: []string{"d"}, Value: 2 * time.Second, Usage: "how long to run"},
		},
		Action: func(c *cli.Context) error {
			workers := c.Int("workers")
			duration := c.Duration("duration")

			m, err := thrd.NewMutex(thrd.MutexPlain)
			if err != nil {
				return err
			}
			notEmpty := thrd.NewCond()
			notFull := thrd.NewCond()

			const capacity = 16
			var queue []int
			var produced, consumed atomic.Int64
			var stop atomic.Bool

			var g errgroup.Group
			for w := 0; w < workers; w++ {
				g.Go(func() error { // producer
					for !stop.Load() {
						m.Lock()
						for len(queue) == capacity && !stop.Load() {
							notFull.Wait(m)
						}
						if !stop.Load() {
							queue = append(queue, 1)
							produced.Add(1)
						}
						m.Unlock()
						notEmpty.Signal()
					}
					return nil
				})
				g.Go(func() error { // consumer
					for {
						m.Lock()
						for len(queue) == 0 && !stop.Load() {
							notEmpty.Wait(m)
						}
						if len(queue) == 0 {
							m.Unlock()
							return nil
						}
						queue = queue[1:]
						consumed.Add(1)
						m.Unlock()
						notFull.Signal()
					}
				})
			}

			time.Sleep(duration)
			stop.Store(true)
			// Flush everyone out of their wait loops.
			notEmpty.Broadcast()
			notFull.Broadcast()
			if err := g.Wait(); err != nil {
				return err
			}

			fmt.Printf("cond: produced %d, consumed %d in %v\n", produced.Load(), consumed.Load(), duration)
			if consumed.Load() != produced.Load() {
				return fmt.Errorf("consumed %d != produced %d", consumed.Load(), produced.Load())
			}
			fmt.Println("cond: queue drained exactly")
			return nil
		},
	}
}

// onceCommand races N threads into CallOnce on a fresh flag.
func onceCommand() *cli.Command {
	return &cli.Command{
		Name:  "once",
		Usage: "race workers into one-time initialization",
		Flags: []cli.Flag{workersFlag(64)},
		Action: func(c *cli.Context) error {
			workers := c.Int("workers")

			var flag thrd.OnceFlag
			var runs atomic.Int64
			var g errgroup.Group
			for w := 0; w < workers; w++ {
				g.Go(func() error {
					thrd.CallOnce(&flag, func() {
						// Widen the race window for late arrivals.
						time.Sleep(10 * time.Millisecond)
						runs.Add(1)
					})
					if runs.Load() != 1 {
						return fmt.Errorf("returned from CallOnce with %d initializer runs", runs.Load())
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			fmt.Printf("once: %d workers, initializer ran %d time(s)\n", workers, runs.Load())
			return nil
		},
	}
}

// tlsCommand gives every worker a private value in a shared slot and
// counts destructor invocations at thread exit.
func tlsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tls",
		Usage: "thread-local slots with exit destructors",
		Flags: []cli.Flag{workersFlag(32)},
		Action: func(c *cli.Context) error {
			workers := c.Int("workers")

			var destroyed atomic.Int64
			slot, err := thrd.NewSlot(func(any) { destroyed.Add(1) })
			if err != nil {
				return err
			}

			threads := make([]*thrd.Thread, 0, workers)
			for w := 0; w < workers; w++ {
				t, err := thrd.Spawn(func(arg any) int {
					id := arg.(int)
					if err := slot.Set(id); err != nil {
						return 1
					}
					thrd.Yield()
					if slot.Get() != id {
						return 2 // another thread's value leaked in
					}
					return 0
				}, w)
				if err != nil {
					return err
				}
				threads = append(threads, t)
			}
			for _, t := range threads {
				code, err := thrd.Join(t)
				if err != nil {
					return err
				}
				if code != 0 {
					return fmt.Errorf("worker exited with %d: slot isolation violated", code)
				}
			}

			fmt.Printf("tls: %d workers, %d destructor invocations\n", workers, destroyed.Load())
			if destroyed.Load() != int64(workers) {
				return fmt.Errorf("destructor ran %d times, want %d", destroyed.Load(), workers)
			}
			return nil
		},
	}
}
