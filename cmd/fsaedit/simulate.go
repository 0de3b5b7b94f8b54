package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsa-sketch/internal/session"
	"github.com/ha1tch/fsa-sketch/pkg/fsa"
)

func (ed *Editor) promptSimulate() {
	ed.prompt("Simulate input: ", "", ed.startSimulation)
}

// startSimulation begins an animated run of input. The walk advances one
// symbol per step_delay, or immediately on space.
func (ed *Editor) startSimulation(input string) {
	r, err := fsa.NewRunner(ed.fsa, input)
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.runner = r
	ed.driver.Highlight(r.Current())
	ed.mode = ModeSimulate
	ed.showMessage(fmt.Sprintf("Simulating %q from %s", input, r.Current()), MsgInfo)
	ed.log.Debug("simulation started", "input", input, "start", r.Current())

	if r.Done() {
		ed.finishSimulation()
		return
	}
	ed.startTicker()
}

// stepSimulation consumes one symbol and moves the highlight.
func (ed *Editor) stepSimulation() {
	if ed.runner == nil {
		return
	}
	if step, ok := ed.runner.Next(); ok {
		ed.driver.Observe(step)
		ed.showMessage(fmt.Sprintf("%d: %s --%s--> %s", step.Index+1, step.From, step.Symbol, step.To), MsgInfo)
	}
	if ed.runner.Done() {
		ed.finishSimulation()
	}
}

func (ed *Editor) finishSimulation() {
	ed.stopTicker()
	res, err := ed.runner.Result()
	ed.runner = nil
	ed.mode = ModeCanvas

	msgType := MsgError
	if res.Status == fsa.StatusAccepted && res.EndsInFinal {
		msgType = MsgSuccess
	}
	ed.showMessage(session.FormatVerdict(res, err), msgType)
	ed.log.Info("simulation finished", "status", res.Status, "final", res.Final, "path", res.Path)
}

// startTicker posts a simTick for the current run every step delay. The
// goroutine only posts events; the event loop does the stepping.
func (ed *Editor) startTicker() {
	ed.stopTicker()
	ed.simGen++
	gen := ed.simGen
	stop := make(chan struct{})
	ed.simStop = stop

	delay := ed.cfg.StepDelay
	screen := ed.screen
	go func() {
		t := time.NewTicker(delay)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				screen.PostEvent(tcell.NewEventInterrupt(simTick{gen: gen}))
			}
		}
	}()
}

func (ed *Editor) stopTicker() {
	if ed.simStop != nil {
		close(ed.simStop)
		ed.simStop = nil
	}
}
