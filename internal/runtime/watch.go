package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/stanza/pkg/ports"
)

// Watch purges the chain cache whenever the loader reports a change.
// It returns once watching has started; the loop stops with ctx.
// Loaders that cannot be watched yield an error.
func (e *Engine) Watch(ctx context.Context) error {
	w, ok := e.loader.(ports.Watchable)
	if !ok {
		return fmt.Errorf("current loader does not support watching")
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for range changes {
			e.logger.Info("chains changed, purging cache")
			e.cache.purge()
		}
	}()
	return nil
}
