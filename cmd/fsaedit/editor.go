package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/fsa-sketch/internal/config"
	"github.com/ha1tch/fsa-sketch/internal/session"
	"github.com/ha1tch/fsa-sketch/pkg/fsa"
	"github.com/ha1tch/fsa-sketch/pkg/render"
)

const (
	maxUndoLevels = 50
	sidebarWidth  = 32
)

// Mode represents editor mode
type Mode int

const (
	ModeCanvas   Mode = iota
	ModeInput         // single-line prompt
	ModeMove          // keyboard-driven state movement
	ModeSimulate      // animated run in progress
	ModeHelp          // help overlay
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
)

// simTick is the payload of the interrupts that advance an animated run.
// gen ties a tick to the run that scheduled it.
type simTick struct{ gen int }

// Editor holds all editor state. Only the event loop goroutine touches it.
type Editor struct {
	screen tcell.Screen
	cfg    config.Config
	log    *slog.Logger

	fsa    *fsa.Automaton
	sess   *session.Session
	canvas *termCanvas
	driver *render.Driver
	out    bytes.Buffer // session command output

	mode        Mode
	message     string
	messageType MessageType

	cursorX, cursorY int // screen cell within the canvas
	selected         string
	mouseDown        bool

	moveOrig fsa.State

	inputPrompt string
	inputBuffer string
	inputAction func(string)

	undoStack []*fsa.Automaton
	redoStack []*fsa.Automaton

	runner  *fsa.Runner
	simGen  int
	simStop chan struct{}

	quit bool
}

// NewEditor returns an editor drawing on screen. The screen must already be
// initialised.
func NewEditor(screen tcell.Screen, cfg config.Config, log *slog.Logger) *Editor {
	ed := &Editor{
		screen:  screen,
		cfg:     cfg,
		log:     log,
		canvas:  newTermCanvas(screen),
		cursorX: 4,
		cursorY: 2,
	}
	ed.driver = render.NewDriver(ed.canvas)
	ed.setModel(fsa.New())
	return ed
}

// setModel swaps in a, as after undo.
func (ed *Editor) setModel(a *fsa.Automaton) {
	ed.fsa = a
	ed.sess = session.New(a, ed.driver, &ed.out, ed.log)
	if _, ok := a.State(ed.selected); !ok {
		ed.selected = ""
	}
	if _, ok := a.State(ed.driver.Highlighted()); !ok {
		ed.driver.Highlight("")
	}
}

func (ed *Editor) run() {
	defer ed.stopTicker()
	for !ed.quit {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			if tick, ok := ev.Data().(simTick); ok && tick.gen == ed.simGen && ed.mode == ModeSimulate {
				ed.stepSimulation()
			}
		}
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyCtrlQ {
		return true
	}
	if ed.mode == ModeCanvas {
		switch ev.Key() {
		case tcell.KeyCtrlZ:
			ed.undo()
			return false
		case tcell.KeyCtrlY:
			ed.redo()
			return false
		}
	}

	switch ed.mode {
	case ModeCanvas:
		return ed.handleCanvasKey(ev)
	case ModeInput:
		ed.handleInputKey(ev)
	case ModeMove:
		ed.handleMoveKey(ev)
	case ModeSimulate:
		ed.handleSimulateKey(ev)
	case ModeHelp:
		ed.mode = ModeCanvas
	}
	return ed.quit
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) bool {
	if ev.Modifiers()&tcell.ModShift != 0 {
		switch ev.Key() {
		case tcell.KeyUp:
			ed.pan(0, -1)
			return false
		case tcell.KeyDown:
			ed.pan(0, 1)
			return false
		case tcell.KeyLeft:
			ed.pan(-1, 0)
			return false
		case tcell.KeyRight:
			ed.pan(1, 0)
			return false
		}
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		ed.selected = ""
		ed.driver.Highlight("")
	case tcell.KeyUp:
		if ed.cursorY > 0 {
			ed.cursorY--
		}
	case tcell.KeyDown:
		ed.cursorY++
	case tcell.KeyLeft:
		if ed.cursorX > 0 {
			ed.cursorX--
		}
	case tcell.KeyRight:
		ed.cursorX++
	case tcell.KeyEnter:
		ed.promptState(ed.cursorX, ed.cursorY)
	case tcell.KeyTab:
		ed.cycleSelection()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.deleteSelected()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'n', 'N':
			ed.promptState(ed.cursorX, ed.cursorY)
		case 's', 'S':
			ed.setInitial()
		case 'f', 'F', 'a', 'A':
			ed.toggleFinal()
		case 't', 'T':
			ed.promptTransition()
		case 'd', 'D':
			ed.promptRemoveTransition()
		case 'x', 'X':
			ed.deleteSelected()
		case 'g', 'G':
			if name, ok := ed.stateAt(ed.cursorX, ed.cursorY); ok {
				ed.selected = name
			}
			ed.startMove()
		case 'r', 'R':
			ed.promptSimulate()
		case 'e', 'E':
			ed.export()
		case ':':
			ed.prompt(":", "", ed.runCommand)
		case 'h', 'H', '?':
			ed.mode = ModeHelp
		case 'q', 'Q':
			return true
		}
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.inputAction = nil
	case tcell.KeyEnter:
		action, text := ed.inputAction, ed.inputBuffer
		ed.mode = ModeCanvas
		ed.inputAction = nil
		ed.inputBuffer = ""
		if action != nil {
			action(text)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if _, size := utf8.DecodeLastRuneInString(ed.inputBuffer); size > 0 {
			ed.inputBuffer = ed.inputBuffer[:len(ed.inputBuffer)-size]
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
}

func (ed *Editor) handleMoveKey(ev *tcell.EventKey) {
	s, ok := ed.fsa.State(ed.selected)
	if !ok {
		ed.mode = ModeCanvas
		return
	}
	switch ev.Key() {
	case tcell.KeyUp:
		ed.fsa.MoveState(s.Name, s.X, s.Y-cellH)
	case tcell.KeyDown:
		ed.fsa.MoveState(s.Name, s.X, s.Y+cellH)
	case tcell.KeyLeft:
		ed.fsa.MoveState(s.Name, s.X-cellW, s.Y)
	case tcell.KeyRight:
		ed.fsa.MoveState(s.Name, s.X+cellW, s.Y)
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		ed.showMessage("Moved "+s.Name, MsgSuccess)
	case tcell.KeyEscape:
		ed.fsa.MoveState(s.Name, ed.moveOrig.X, ed.moveOrig.Y)
		ed.dropSnapshot()
		ed.mode = ModeCanvas
		ed.showMessage("Move cancelled", MsgInfo)
	}
}

func (ed *Editor) handleSimulateKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyEscape:
		ed.stopTicker()
		ed.runner = nil
		ed.driver.Highlight("")
		ed.mode = ModeCanvas
		ed.showMessage("Simulation stopped", MsgInfo)
	case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
		ed.stepSimulation()
	}
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		ed.mouseDown = false
		return
	}
	if ed.mouseDown {
		return
	}
	ed.mouseDown = true

	if ed.mode != ModeCanvas {
		return
	}
	x, y := ev.Position()
	w, h := ed.screen.Size()
	if x >= w-sidebarWidth || y >= h-2 {
		return
	}

	ed.cursorX, ed.cursorY = x, y
	if name, ok := ed.stateAt(x, y); ok {
		ed.selected = name
		return
	}
	ed.promptState(x, y)
}

func (ed *Editor) pan(dx, dy int) {
	ed.canvas.offX = max(0, ed.canvas.offX+dx)
	ed.canvas.offY = max(0, ed.canvas.offY+dy)
}

func (ed *Editor) prompt(label, initial string, action func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = label
	ed.inputBuffer = initial
	ed.inputAction = action
}

// stateAt returns the state whose drawn label covers cell (x, y).
func (ed *Editor) stateAt(x, y int) (string, bool) {
	states := ed.fsa.States()
	for i := len(states) - 1; i >= 0; i-- {
		s := states[i]
		cx, cy := ed.canvas.cell(render.Center(s))
		if cy != y {
			continue
		}
		width := runewidth.StringWidth(stateLabel(s.Name, ed.fsa.IsFinal(s.Name)))
		left := cx - width/2
		if x >= left-1 && x < left+width {
			return s.Name, true
		}
	}
	return "", false
}

// Model operations. Each one snapshots for undo and rolls the snapshot back
// when the operation fails.

func (ed *Editor) apply(op func() error) error {
	ed.snapshot()
	if err := op(); err != nil {
		ed.dropSnapshot()
		ed.showMessage(err.Error(), MsgError)
		ed.log.Info("edit rejected", "error", err)
		return err
	}
	if ed.runner == nil {
		ed.driver.Highlight("")
	}
	return nil
}

func (ed *Editor) promptState(x, y int) {
	at := ed.canvas.point(x, y)
	ed.prompt("State name: ", "", func(name string) {
		name = strings.TrimSpace(name)
		err := ed.apply(func() error { return ed.fsa.AddStateAt(name, at.X, at.Y) })
		if err == nil {
			ed.selected = name
			ed.showMessage("Added state "+name, MsgSuccess)
			ed.log.Debug("state added", "name", name, "x", at.X, "y", at.Y)
		}
	})
}

func (ed *Editor) requireSelection() (string, bool) {
	if ed.selected == "" {
		ed.showMessage("Select a state first (Tab to cycle, or click it)", MsgInfo)
		return "", false
	}
	return ed.selected, true
}

func (ed *Editor) setInitial() {
	name, ok := ed.requireSelection()
	if !ok {
		return
	}
	ed.apply(func() error {
		ed.fsa.SetInitial(name)
		return nil
	})
	ed.showMessage(name+" is the initial state", MsgSuccess)
}

func (ed *Editor) toggleFinal() {
	name, ok := ed.requireSelection()
	if !ok {
		return
	}
	var final bool
	ed.apply(func() error {
		final = ed.fsa.ToggleFinal(name)
		return nil
	})
	if final {
		ed.showMessage(name+" is final", MsgSuccess)
	} else {
		ed.showMessage(name+" is no longer final", MsgSuccess)
	}
}

func (ed *Editor) promptTransition() {
	initial := ""
	if ed.selected != "" {
		initial = ed.selected + ","
	}
	ed.prompt("Transition from,to,symbol: ", initial, func(token string) {
		if err := ed.apply(func() error { return ed.fsa.AddTransitionToken(token) }); err == nil {
			ed.showMessage("Added transition "+strings.TrimSpace(token), MsgSuccess)
		}
	})
}

func (ed *Editor) promptRemoveTransition() {
	ed.prompt("Remove transition from,to,symbol: ", "", func(token string) {
		err := ed.apply(func() error {
			t, err := fsa.ParseTransition(token)
			if err != nil {
				return err
			}
			if !ed.fsa.RemoveTransition(t.From, t.To, t.Symbol) {
				return fmt.Errorf("no transition %s", t)
			}
			return nil
		})
		if err == nil {
			ed.showMessage("Removed transition", MsgSuccess)
		}
	})
}

func (ed *Editor) deleteSelected() {
	name, ok := ed.requireSelection()
	if !ok {
		return
	}
	ed.apply(func() error {
		ed.fsa.RemoveState(name)
		return nil
	})
	ed.selected = ""
	ed.showMessage("Deleted state "+name, MsgSuccess)
}

func (ed *Editor) cycleSelection() {
	states := ed.fsa.States()
	if len(states) == 0 {
		return
	}
	next := 0
	for i, s := range states {
		if s.Name == ed.selected {
			next = (i + 1) % len(states)
		}
	}
	ed.selected = states[next].Name
}

func (ed *Editor) startMove() {
	name, ok := ed.requireSelection()
	if !ok {
		return
	}
	ed.moveOrig, _ = ed.fsa.State(name)
	ed.snapshot()
	ed.mode = ModeMove
	ed.showMessage("Moving "+name+": arrows to move, Enter to place, Esc to cancel", MsgInfo)
}

// runCommand executes a session command typed at the ':' prompt.
func (ed *Editor) runCommand(line string) {
	mutates := session.Mutates(line)
	if mutates {
		ed.snapshot()
	}
	ed.out.Reset()
	err := ed.sess.Exec(line)
	switch {
	case errors.Is(err, session.ErrQuit):
		ed.quit = true
	case err != nil:
		if mutates {
			ed.dropSnapshot()
		}
		ed.showMessage(err.Error(), MsgError)
	default:
		ed.showMessage(lastLine(ed.out.String(), "OK"), MsgInfo)
	}
}

func lastLine(s, fallback string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if l := strings.TrimSpace(lines[len(lines)-1]); l != "" {
		return l
	}
	return fallback
}

func (ed *Editor) export() {
	name := fmt.Sprintf("fsa-%s.%s", time.Now().Format("20060102-150405"), ed.cfg.ExportFormat)
	path := filepath.Join(ed.cfg.ExportDir, name)
	err := render.ExportFile(ed.fsa, path, render.ExportOptions{
		Width:     ed.cfg.CanvasWidth,
		Height:    ed.cfg.CanvasHeight,
		Highlight: ed.driver.Highlighted(),
	})
	if err != nil {
		ed.showMessage("Export failed: "+err.Error(), MsgError)
		ed.log.Warn("export failed", "path", path, "error", err)
		return
	}
	ed.showMessage("Exported "+path, MsgSuccess)
	ed.log.Info("exported", "path", path)
}

// Undo/Redo

func (ed *Editor) snapshot() {
	ed.undoStack = append(ed.undoStack, ed.fsa.Clone())
	if len(ed.undoStack) > maxUndoLevels {
		ed.undoStack = ed.undoStack[1:]
	}
	ed.redoStack = nil
}

func (ed *Editor) dropSnapshot() {
	if n := len(ed.undoStack); n > 0 {
		ed.undoStack = ed.undoStack[:n-1]
	}
}

func (ed *Editor) undo() {
	if len(ed.undoStack) == 0 {
		ed.showMessage("Nothing to undo", MsgInfo)
		return
	}
	ed.redoStack = append(ed.redoStack, ed.fsa.Clone())
	prev := ed.undoStack[len(ed.undoStack)-1]
	ed.undoStack = ed.undoStack[:len(ed.undoStack)-1]
	ed.setModel(prev)
	ed.showMessage("Undo", MsgInfo)
}

func (ed *Editor) redo() {
	if len(ed.redoStack) == 0 {
		ed.showMessage("Nothing to redo", MsgInfo)
		return
	}
	ed.undoStack = append(ed.undoStack, ed.fsa.Clone())
	next := ed.redoStack[len(ed.redoStack)-1]
	ed.redoStack = ed.redoStack[:len(ed.redoStack)-1]
	ed.setModel(next)
	ed.showMessage("Redo", MsgInfo)
}
