package explorer

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// AnimationDuration is how long the sidebar slide takes.
const AnimationDuration = 150 * time.Millisecond

// SidebarState represents the UI state of the stats sidebar.
type SidebarState int

const (
	SidebarCollapsed SidebarState = iota
	SidebarExpanded
	SidebarCollapsing
	SidebarExpanding
)

// AnimationState tracks the sidebar's slide between collapsed and
// expanded, interpolating its width over wall-clock time.
type AnimationState struct {
	state         SidebarState
	currentWidth  int
	targetWidth   int
	expandedWidth int
	timer         time.Time
}

func NewAnimationState(expanded bool, expandedWidth int) *AnimationState {
	state := SidebarCollapsed
	currentWidth := 0
	targetWidth := 0

	if expanded {
		state = SidebarExpanded
		currentWidth = expandedWidth
		targetWidth = expandedWidth
	}

	return &AnimationState{
		state:         state,
		currentWidth:  currentWidth,
		targetWidth:   targetWidth,
		expandedWidth: expandedWidth,
	}
}

// Toggle starts a slide toward the opposite end state.
//
// Ignored while a slide is already running.
func (a *AnimationState) Toggle() {
	switch a.state {
	case SidebarCollapsed:
		a.state = SidebarExpanding
		a.targetWidth = a.expandedWidth
	case SidebarExpanded:
		a.state = SidebarCollapsing
		a.targetWidth = 0
	default:
		return
	}
	a.timer = time.Now()
}

// Update advances the slide. The second return value is true exactly
// when the animation just reached its end state.
func (a *AnimationState) Update() (tea.Cmd, bool) {
	if !a.IsAnimating() {
		return nil, false
	}

	progress := float64(time.Since(a.timer)) / float64(AnimationDuration)
	if progress >= 1 {
		a.currentWidth = a.targetWidth
		if a.state == SidebarExpanding {
			a.state = SidebarExpanded
		} else {
			a.state = SidebarCollapsed
		}
		return nil, true
	}

	// Ease against the full width so that collapsing mirrors expanding.
	eased := easeOutCubic(progress)
	if a.state == SidebarCollapsing {
		eased = 1 - eased
	}
	a.currentWidth = int(eased * float64(a.expandedWidth))

	return a.animationCmd(), false
}

// SetExpandedWidth changes the width an expanded sidebar settles at.
func (a *AnimationState) SetExpandedWidth(width int) {
	a.expandedWidth = width
	if a.state == SidebarExpanded {
		a.targetWidth = width
		a.currentWidth = width
	}
}

// Width returns the sidebar's width at this moment of the slide.
func (a *AnimationState) Width() int {
	return a.currentWidth
}

// State returns the current slide state.
func (a *AnimationState) State() SidebarState {
	return a.state
}

// IsVisible reports whether any part of the sidebar is showing.
func (a *AnimationState) IsVisible() bool {
	return a.state != SidebarCollapsed
}

// IsAnimating reports whether a slide is in progress.
func (a *AnimationState) IsAnimating() bool {
	return a.state == SidebarExpanding || a.state == SidebarCollapsing
}

// easeOutCubic decelerates the slide toward its end.
func easeOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

// animationCmd schedules the next frame at roughly 60fps.
func (a *AnimationState) animationCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return SidebarAnimationMsg{}
	})
}
