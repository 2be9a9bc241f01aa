package cli

import (
	"context"
	"fmt"
)

// Await blocks until done delivers the workflow's final result, rendering
// progress updates as they arrive. An interrupt on ctx calls cancel once to
// ask the run to stop, then the wait keeps going until the workflow winds
// down. The interrupt arm is disarmed after firing: a done context channel
// stays permanently ready and would otherwise spin the loop.
func Await(ctx context.Context, updates <-chan PollResult, done <-chan error, cancel func() error, renderer *Renderer) error {
	ctxDone := ctx.Done()
	for {
		select {
		case <-ctxDone:
			ctxDone = nil
			if err := cancel(); err != nil {
				return fmt.Errorf("cancel run: %w", err)
			}
		case update := <-updates:
			if update.Err == nil {
				renderer.RenderProgress(update.Progress)
			}
		case err := <-done:
			return err
		}
	}
}
