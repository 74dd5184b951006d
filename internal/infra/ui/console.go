// Where: internal/infra/ui/console.go
// What: Console output helpers for consistent CLI UX.
// Why: Keep compile/validate reports readable while allowing emoji to be toggled.
package ui

import (
	"fmt"
	"io"
	"strings"
)

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// Console provides helper methods for formatted output.
type Console struct {
	Out          io.Writer
	EmojiEnabled bool
}

// New creates a Console with explicit emoji settings.
func New(out io.Writer, emoji bool) *Console {
	return &Console{Out: out, EmojiEnabled: emoji}
}

// Header prints a section header.
func (c *Console) Header(emoji, title string) {
	fmt.Fprintf(c.Out, "%s%s\n", c.emojiPrefix(emoji), title)
}

// Block prints a padded header followed by aligned rows.
func (c *Console) Block(emoji, title string, rows []KeyValue) {
	fmt.Fprintln(c.Out)
	c.Header(emoji, title)
	for _, row := range rows {
		c.Item(row.Key, row.Value)
	}
	fmt.Fprintln(c.Out)
}

// Item prints a key-value item with indentation.
func (c *Console) Item(key string, value any) {
	fmt.Fprintf(c.Out, "   %-30s %v\n", key+":", value)
}

// ItemPlain prints a generic indented line.
func (c *Console) ItemPlain(msg string) {
	fmt.Fprintf(c.Out, "   %s\n", msg)
}

// Success prints a success message with a checkmark.
func (c *Console) Success(msg string) {
	c.tagged("✅", "[ok] ", msg)
}

// Warn prints a warning message.
func (c *Console) Warn(msg string) {
	c.tagged("⚠️", "[warn] ", msg)
}

// Error prints an error message.
func (c *Console) Error(msg string) {
	c.tagged("❌", "[error] ", msg)
}

// Info prints a plain message.
func (c *Console) Info(msg string) {
	fmt.Fprintln(c.Out, msg)
}

func (c *Console) tagged(emoji, fallback, msg string) {
	prefix := c.emojiPrefix(emoji)
	if prefix == "" {
		prefix = fallback
	}
	fmt.Fprintf(c.Out, "%s%s\n", prefix, msg)
}

func (c *Console) emojiPrefix(emoji string) string {
	if !c.EmojiEnabled || strings.TrimSpace(emoji) == "" {
		return ""
	}
	return emoji + " "
}
