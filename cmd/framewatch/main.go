// Command framewatch is a demo host application for the frameloop
// scheduler: it registers a synthetic executor, seeds a small
// dependency graph, and renders live task state in a terminal
// dashboard. It replaces the teacher's cmd/orchestrator, which wired
// its TUI to an AI-CLI backend instead of a generic scheduler.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/coopsched/frameloop"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := frameloop.New(frameloop.Options{
		MaxTasksPerFrame:   4,
		FrameTimeBudget:    16 * time.Millisecond,
		MaxConcurrentTasks: 3,
		RetentionPeriod:    30 * time.Second,
	})

	sched.RegisterExecutor("demo.work", func(rc frameloop.Context, data any) (any, error) {
		steps := 5
		for i := 0; i < steps; i++ {
			select {
			case <-rc.Done():
				return nil, rc.Err()
			case <-time.After(150 * time.Millisecond):
			}
			rc.ReportProgress(100 * float64(i+1) / float64(steps))
		}
		if rand.Intn(10) == 0 {
			return nil, fmt.Errorf("simulated transient failure")
		}
		return "ok", nil
	})

	events := make(chan frameloop.Event, 256)
	forward := func(evt frameloop.Event) {
		select {
		case events <- evt:
		default:
		}
	}
	for _, t := range []frameloop.EventType{
		frameloop.EventTaskAdded, frameloop.EventTaskStarted, frameloop.EventTaskProgress,
		frameloop.EventTaskCompleted, frameloop.EventTaskFailed, frameloop.EventTaskCancelled,
		frameloop.EventTaskRetry,
	} {
		sched.On(t, forward)
	}

	if err := sched.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "starting scheduler: %v\n", err)
		os.Exit(1)
	}
	defer sched.Stop()

	seedDemoTasks(sched)

	p := tea.NewProgram(newModel(sched, events))

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Run()
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "framewatch: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		stop()
		p.Quit()
		<-errCh
	}
}

func seedDemoTasks(sched *frameloop.Scheduler) {
	_, _ = sched.AddTask(frameloop.Descriptor{ID: "fetch", Type: "demo.work", Priority: frameloop.PriorityNormal})
	_, _ = sched.AddTask(frameloop.Descriptor{ID: "parse", Type: "demo.work", Priority: frameloop.PriorityNormal, Dependencies: []string{"fetch"}})
	_, _ = sched.AddTask(frameloop.Descriptor{ID: "render", Type: "demo.work", Priority: frameloop.PriorityHigh, Dependencies: []string{"parse"}})
	_, _ = sched.AddTask(frameloop.Descriptor{ID: "background-sweep", Type: "demo.work", Priority: frameloop.PriorityLow, RetryCount: 2, RetryStrategy: frameloop.RetryExponential})
}
