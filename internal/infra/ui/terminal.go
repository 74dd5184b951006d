// Where: internal/infra/ui/terminal.go
// What: TTY detection for emoji defaults.
package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// EmojiEnabled resolves the emoji preference: an explicit setting wins,
// otherwise emoji are shown only on a terminal.
func EmojiEnabled(setting *bool, file *os.File) bool {
	if setting != nil {
		return *setting
	}
	return IsTerminal(file)
}
