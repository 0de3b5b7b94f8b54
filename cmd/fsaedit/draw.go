package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Styles
var (
	styleDefault     = tcell.StyleDefault
	styleState       = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStateSel    = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleStateInit   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStateAcc    = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleStateActive = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack).Bold(true)
	styleTrans       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleTransLabel  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebar     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSidebarSel  = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleConsumed    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo     = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError    = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess  = tcell.StyleDefault.Foreground(tcell.ColorLime).Background(tcell.ColorNavy)
	styleHelp        = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor      = tcell.StyleDefault.Background(tcell.ColorDarkGray)
	styleInput       = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder      = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

var helpLines = []string{
	"Canvas",
	"  click / Enter / n   add a state at the cursor",
	"  click on a state    select it (Tab cycles)",
	"  arrows              move the cursor",
	"  Shift+arrows        pan the view",
	"Editing",
	"  s                   make the selection initial",
	"  f / a               toggle final",
	"  t                   add a transition from,to,symbol",
	"  d                   remove a transition",
	"  x / Del             delete the selected state",
	"  g                   move the selected state",
	"  Ctrl+Z / Ctrl+Y     undo / redo",
	"Running",
	"  r                   simulate an input (Space steps, Esc stops)",
	"  e                   export the diagram",
	"  :                   type a shell command",
	"  q / Ctrl+C          quit",
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	canvasW := max(0, w-sidebarWidth)
	canvasH := max(0, h-2)
	ed.canvas.resize(canvasW, canvasH)
	ed.canvas.selected = ed.selected
	ed.driver.Draw(ed.fsa)

	for y := 0; y < canvasH; y++ {
		ed.screen.SetContent(canvasW, y, '│', nil, styleBorder)
	}
	if ed.mode == ModeCanvas && ed.cursorX < canvasW && ed.cursorY < canvasH {
		if r, _, _, _ := ed.screen.GetContent(ed.cursorX, ed.cursorY); r == ' ' {
			ed.screen.SetContent(ed.cursorX, ed.cursorY, '+', nil, styleCursor)
		}
	}

	ed.drawSidebar(w, h)

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawSidebar(w, h int) {
	x := w - sidebarWidth + 2
	width := sidebarWidth - 3
	y := 0
	limit := h - 3

	line := func(s string, style tcell.Style) bool {
		if y >= limit {
			return false
		}
		ed.drawString(x, y, truncate(s, width), style)
		y++
		return true
	}

	line("States:", styleSidebarH)
	for _, s := range ed.fsa.States() {
		prefix := "  "
		if ed.fsa.IsInitial(s.Name) {
			prefix = "→ "
		}
		suffix := ""
		if ed.fsa.IsFinal(s.Name) {
			suffix = " *"
		}
		style := styleSidebar
		if s.Name == ed.selected {
			style = styleSidebarSel
		}
		if !line(prefix+s.Name+suffix, style) {
			return
		}
	}
	y++

	line("Transitions:", styleSidebarH)
	for _, t := range ed.fsa.Transitions() {
		if !line(fmt.Sprintf("  %s --%s--> %s", t.From, t.Symbol, t.To), styleSidebar) {
			ed.drawString(x, y, "  ...", styleSidebar)
			return
		}
	}

	if ed.runner == nil {
		return
	}
	y++
	line("Input:", styleSidebarH)
	if y >= limit {
		return
	}
	// Consumed symbols dimmed, the rest highlighted.
	var consumed strings.Builder
	for _, st := range ed.runner.History() {
		consumed.WriteString(st.Symbol)
	}
	done := truncate(consumed.String(), width-2)
	ed.drawString(x+2, y, done, styleConsumed)
	dw := runewidth.StringWidth(done)
	ed.drawString(x+2+dw, y, truncate(ed.runner.Remaining(), width-2-dw), styleSidebarH)
	y++

	line(fmt.Sprintf("At %s, step %d", ed.runner.Current(), ed.runner.Position()), styleSidebar)
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	info := fmt.Sprintf("%d states, %d transitions", ed.fsa.Len(), len(ed.fsa.Transitions()))
	ed.drawString(1, y, info, styleStatus)

	mode := ed.modeString()
	ed.drawString(w/2-runewidth.StringWidth(mode)/2, y, mode, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		msg := truncate(ed.message, max(0, w/2-4))
		ed.drawString(w-runewidth.StringWidth(msg)-2, y, msg, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, truncate(ed.helpString(), w-2), styleHelp)
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := min(60, w-2)
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(boxX+2+runewidth.StringWidth(ed.inputPrompt), boxY+1, ed.inputBuffer+"_", styleInput)
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := min(64, w-2)
	boxH := min(len(helpLines)+2, h-2)
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	for i, l := range helpLines {
		if i >= boxH-2 {
			break
		}
		ed.drawString(boxX+2, boxY+1+i, truncate(l, boxW-4), styleInput)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) modeString() string {
	switch ed.mode {
	case ModeInput:
		return "INPUT"
	case ModeMove:
		return "MOVE"
	case ModeSimulate:
		return "SIMULATE"
	case ModeHelp:
		return "HELP"
	default:
		return ""
	}
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeCanvas:
		return "Click/Enter:State  Tab:Select  S:Initial  F:Final  T:Transition  X:Delete  G:Move  R:Run  E:Export  ::Cmd  ?:Help  Q:Quit"
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeMove:
		return "Arrows:Move  Enter:Place  Esc:Cancel"
	case ModeSimulate:
		return "Space:Step  Esc:Stop"
	default:
		return "Any key:Close"
	}
}

// truncate shortens s to at most maxWidth columns.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
