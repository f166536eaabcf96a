package explorer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding maps keys to a handler on the target model.
//
// A nil Handler makes the binding documentation-only: it shows up in the
// help screen but is dispatched elsewhere, by a child component or by
// the terminal itself.
type KeyBinding[T any] struct {
	Keys        []string
	Description string
	Handler     func(*T, tea.KeyMsg) tea.Cmd
}

// BindingCategory is a named group of bindings. The help screen mirrors
// the grouping.
type BindingCategory[T any] struct {
	Name     string
	Bindings []KeyBinding[T]
}

// ExplorerKeyBindings returns key bindings for the distribution view.
func ExplorerKeyBindings() []BindingCategory[Model] {
	return []BindingCategory[Model]{
		{
			Name: "General",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"h", "?"},
					Description: "Toggle this help screen",
					Handler:     (*Model).handleToggleHelp,
				},
				{
					Keys:        []string{"q", "ctrl+c"},
					Description: "Quit",
					Handler:     (*Model).handleQuit,
				},
				{
					Keys:        []string{"r"},
					Description: "Reload the data file",
					Handler:     (*Model).handleReload,
				},
			},
		},
		{
			Name: "Threshold",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"m"},
					Description: "Cycle comparison mode (lt, lte, gt, gte)",
					Handler:     (*Model).handleCycleMode,
				},
				{
					Keys:        []string{"left"},
					Description: "Nudge threshold left by 1% of the axis",
					Handler:     (*Model).handleNudgeLeft,
				},
				{
					Keys:        []string{"right"},
					Description: "Nudge threshold right by 1% of the axis",
					Handler:     (*Model).handleNudgeRight,
				},
				{
					Keys:        []string{"shift+left"},
					Description: "Nudge threshold left by 5%",
					Handler:     (*Model).handleBigNudgeLeft,
				},
				{
					Keys:        []string{"shift+right"},
					Description: "Nudge threshold right by 5%",
					Handler:     (*Model).handleBigNudgeRight,
				},
				{
					Keys:        []string{"0"},
					Description: "Reset threshold to the axis midpoint",
					Handler:     (*Model).handleResetThreshold,
				},
			},
		},
		{
			Name: "Axes",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"l"},
					Description: "Toggle logarithmic value axis",
					Handler:     (*Model).handleToggleLogScale,
				},
				{
					Keys:        []string{"t"},
					Description: "Cycle x-axis tick count (auto, 5, 9)",
					Handler:     (*Model).handleCycleTicks,
				},
			},
		},
		{
			Name: "Panels",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"s", "]"},
					Description: "Toggle stats sidebar",
					Handler:     (*Model).handleToggleSidebar,
				},
			},
		},

		mouseCategory[Model](),
	}
}

// buildKeyMap flattens the categories into a key-to-handler lookup.
func buildKeyMap[T any](categories []BindingCategory[T]) map[string]func(*T, tea.KeyMsg) tea.Cmd {
	keyMap := make(map[string]func(*T, tea.KeyMsg) tea.Cmd)
	for _, category := range categories {
		for _, binding := range category.Bindings {
			if binding.Handler == nil {
				continue
			}
			for _, key := range binding.Keys {
				keyMap[normalizeKey(key)] = binding.Handler
			}
		}
	}
	return keyMap
}

// normalizeKey maps Bubble Tea's KeyMsg.String() to the names used in
// the binding tables.
//
// Space gets a readable name since KeyMsg.String() can report it as a
// literal " ".
func normalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

func mouseCategory[T any]() BindingCategory[T] {
	return BindingCategory[T]{
		Name: "Mouse",
		Bindings: []KeyBinding[T]{
			{
				Keys:        []string{"click"},
				Description: "Jump the threshold to the clicked value",
			},
			{
				Keys:        []string{"drag"},
				Description: "Drag the threshold along the axis",
			},
			{
				Keys:        []string{"wheel"},
				Description: "Nudge the threshold up/down",
			},
			{
				Keys:        []string{"shift+drag"},
				Description: "Select text (handled by the terminal)",
			},
		},
	}
}
