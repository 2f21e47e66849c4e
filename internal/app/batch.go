package app

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dshills/keymask/internal/engine/selection"
	"github.com/dshills/keymask/internal/field"
)

// ConformLines conforms every line read from r to opts and writes the
// results to w, one per line.
func ConformLines(r io.Reader, w io.Writer, opts field.Options) error {
	bw := bufio.NewWriter(w)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		state := selection.State{Value: line, Selection: selection.Caret(len([]rune(line)))}

		out, err := field.Conform(state, opts)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(bw, out.Value); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return bw.Flush()
}
