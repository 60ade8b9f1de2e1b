// Package viz draws the collision track in a terminal.
//
// [Track] projects body positions onto a braille [Canvas] for the
// interactive view; [Strip] renders the same frame as one line of ASCII for
// logs and watch mode. The package also holds the lipgloss styles and
// themes shared by the TUI.
package viz
