package diagram

import (
	"fmt"
	"sort"
)

// Fill colours of the built-in diagrams.
const (
	fillBlue   = "#bbdefb"
	fillGreen  = "#c8e6c9"
	fillAmber  = "#ffe0b2"
	fillPurple = "#e1bee7"
	fillTeal   = "#b2dfdb"
	fillRed    = "#ffcdd2"
)

var builtins = map[string]func() *Diagram{
	"process-flow": processFlow,
	"sprint-cycle": sprintCycle,
}

// Lookup returns a fresh copy of the named built-in diagram.
func Lookup(name string) (*Diagram, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDiagram, name)
	}
	return build(), nil
}

// Exists reports whether name is a built-in diagram.
func Exists(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Names lists the built-in diagrams in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// processFlow is the waterfall staircase of the SDLC chapter.
func processFlow() *Diagram {
	return &Diagram{
		Name:   "process-flow",
		Title:  "Software development process flow",
		Width:  540,
		Height: 320,
		Boxes: []Box{
			{Label: "Requirement Analysis", X: 10, Y: 10, Width: 140, Height: 36, Fill: fillBlue},
			{Label: "System Design", X: 85, Y: 62, Width: 140, Height: 36, Fill: fillGreen},
			{Label: "Implementation", X: 160, Y: 114, Width: 140, Height: 36, Fill: fillAmber},
			{Label: "Testing", X: 235, Y: 166, Width: 140, Height: 36, Fill: fillPurple},
			{Label: "Deployment", X: 310, Y: 218, Width: 140, Height: 36, Fill: fillTeal},
			{Label: "Maintenance", X: 385, Y: 270, Width: 140, Height: 36, Fill: fillRed},
		},
		Connectors: []Connector{
			{X1: 150, Y1: 28, X2: 155, Y2: 62},
			{X1: 225, Y1: 80, X2: 230, Y2: 114},
			{X1: 300, Y1: 132, X2: 305, Y2: 166},
			{X1: 375, Y1: 184, X2: 380, Y2: 218},
			{X1: 450, Y1: 236, X2: 455, Y2: 270},
		},
	}
}

// sprintCycle is the Scrum loop used in the methodology chapter.
func sprintCycle() *Diagram {
	return &Diagram{
		Name:   "sprint-cycle",
		Title:  "Scrum sprint cycle",
		Width:  520,
		Height: 340,
		Boxes: []Box{
			{Label: "Product Backlog", X: 30, Y: 80, Width: 120, Height: 44, Fill: fillBlue},
			{Label: "Sprint Planning", X: 200, Y: 20, Width: 120, Height: 44, Fill: fillGreen},
			{Label: "Sprint Backlog", X: 370, Y: 80, Width: 120, Height: 44, Fill: fillAmber},
			{Label: "Sprint Execution\n(Daily Scrum)", X: 370, Y: 220, Width: 120, Height: 44, Fill: fillPurple},
			{Label: "Sprint Review", X: 200, Y: 280, Width: 120, Height: 44, Fill: fillTeal},
			{Label: "Sprint Retrospective", X: 30, Y: 220, Width: 120, Height: 44, Fill: fillRed},
		},
		Connectors: []Connector{
			{X1: 150, Y1: 90, X2: 200, Y2: 42},
			{X1: 320, Y1: 42, X2: 370, Y2: 90},
			{X1: 430, Y1: 124, X2: 430, Y2: 220},
			{X1: 370, Y1: 256, X2: 320, Y2: 300},
			{X1: 200, Y1: 300, X2: 150, Y2: 256},
			{X1: 90, Y1: 220, X2: 90, Y2: 124},
		},
	}
}
