// Package router keeps the stack of open screens. Screens navigate by
// returning the commands from Push, Back and Replace; the app frame feeds
// the resulting NavigateMsg back into the Stack.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wenyan/internal/screen"
)

// Op is a stack operation.
type Op int

const (
	OpPush Op = iota
	OpBack
	OpReplace
)

// NavigateMsg asks the Stack to apply Op. Screen is unused for OpBack.
type NavigateMsg struct {
	Op     Op
	Screen screen.Screen
}

// Push opens s above the current screen.
func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Op: OpPush, Screen: s} }
}

// Back closes the current screen unless it is the last one.
func Back() tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Op: OpBack} }
}

// Replace swaps the current screen for s.
func Replace(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Op: OpReplace, Screen: s} }
}

// Stack is a non-empty stack of screens. Only the top one receives
// messages and is drawn.
type Stack struct {
	screens []screen.Screen
}

// New creates a Stack holding root.
func New(root screen.Screen) *Stack {
	return &Stack{screens: []screen.Screen{root}}
}

// Top returns the visible screen.
func (st *Stack) Top() screen.Screen {
	return st.screens[len(st.screens)-1]
}

// Len returns the number of open screens.
func (st *Stack) Len() int { return len(st.screens) }

// Apply performs op and returns the Init command of any screen it opened.
func (st *Stack) Apply(msg NavigateMsg) tea.Cmd {
	switch msg.Op {
	case OpPush:
		st.screens = append(st.screens, msg.Screen)
	case OpReplace:
		st.screens[len(st.screens)-1] = msg.Screen
	case OpBack:
		if len(st.screens) > 1 {
			st.screens = st.screens[:len(st.screens)-1]
		}
		return nil
	default:
		return nil
	}
	return msg.Screen.Init()
}

// Update applies navigation messages and hands everything else to the top
// screen.
func (st *Stack) Update(msg tea.Msg) tea.Cmd {
	if nav, ok := msg.(NavigateMsg); ok {
		return st.Apply(nav)
	}
	next, cmd := st.Top().Update(msg)
	st.screens[len(st.screens)-1] = next
	return cmd
}

// View draws the top screen.
func (st *Stack) View(width, height int) string {
	return st.Top().View(width, height)
}
