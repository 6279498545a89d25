package store

import (
	"context"
	"fmt"
	"io"

	"github.com/leonardcser/redis-basic/internal/kv"
)

// Replay writes the recorded history of op to w: a header with the number
// of calls followed by one `op(*inputs) -> output` line per call in call
// order. It only reads from backend.
func Replay(ctx context.Context, w io.Writer, backend kv.Backend, op Op) error {
	inputs, err := backend.LRange(ctx, op.InputsKey(), 0, -1)
	if err != nil {
		return fmt.Errorf("read %s inputs: %w", op, err)
	}
	outputs, err := backend.LRange(ctx, op.OutputsKey(), 0, -1)
	if err != nil {
		return fmt.Errorf("read %s outputs: %w", op, err)
	}

	unit := "times"
	if len(inputs) == 1 {
		unit = "time"
	}
	if _, err := fmt.Fprintf(w, "%s was called %d %s:\n", op, len(inputs), unit); err != nil {
		return err
	}
	for i := 0; i < len(inputs) && i < len(outputs); i++ {
		if _, err := fmt.Fprintf(w, "%s(*%s) -> %s\n", op, inputs[i], outputs[i]); err != nil {
			return err
		}
	}
	return nil
}
