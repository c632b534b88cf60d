package clipboard

import (
	"errors"
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_WriteAll(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("no clipboard utility on this host")
	}
	var got string
	orig := writeAll
	writeAll = func(text string) error { got = text; return nil }
	t.Cleanup(func() { writeAll = orig })

	require.NoError(t, System{}.WriteAll("copied"))
	assert.Equal(t, "copied", got)
}

func TestSystem_WriteAllWrapsErrors(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("no clipboard utility on this host")
	}
	boom := errors.New("boom")
	orig := writeAll
	writeAll = func(string) error { return boom }
	t.Cleanup(func() { writeAll = orig })

	err := System{}.WriteAll("x")
	require.ErrorIs(t, err, boom)
}

func TestFunc(t *testing.T) {
	var got string
	w := Func(func(text string) error { got = text; return nil })
	require.NoError(t, w.WriteAll("hi"))
	assert.Equal(t, "hi", got)
}
