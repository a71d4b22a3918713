package store

import (
	"context"
	"sync"
	"time"

	"github.com/scribeware/chalk"
)

// asyncTimeout bounds each background persistence call.
const asyncTimeout = 10 * time.Second

// Async wraps a Store with fire-and-forget persistence. Calls return
// immediately; failures surface through the status callback as non-fatal
// text, never as errors the authoring sequence must handle. Async never
// mutates caller state.
type Async struct {
	store  *Store
	status func(string)
	wg     sync.WaitGroup
}

// NewAsync wraps store. status may be nil; failures are then only logged.
func NewAsync(store *Store, status func(string)) *Async {
	return &Async{store: store, status: status}
}

// SaveAsync persists obj in the background.
func (a *Async) SaveAsync(obj BoardObject) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()
		if err := a.store.Save(ctx, obj); err != nil {
			a.report("sync failed for "+obj.Name, err)
		}
	}()
}

// DeleteAsync removes a record in the background.
func (a *Async) DeleteAsync(boardID, name string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()
		if err := a.store.Delete(ctx, boardID, name); err != nil {
			a.report("delete failed for "+name, err)
		}
	}()
}

// Flush waits for all pending background calls. Useful at shutdown and in
// tests.
func (a *Async) Flush() {
	a.wg.Wait()
}

func (a *Async) report(msg string, err error) {
	chalk.Logger().Warn("store: "+msg, "error", err)
	if a.status != nil {
		a.status(msg)
	}
}
