// Package clipboard wraps the system clipboard behind a narrow interface so
// the chat store can be exercised without a display server.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Writer copies text to a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// writeAll is a package-level variable to allow mocking in tests.
var writeAll = clipboard.WriteAll

// System writes to the operating system clipboard.
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no clipboard utility available")
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Func adapts a plain function to Writer.
type Func func(text string) error

func (f Func) WriteAll(text string) error { return f(text) }
