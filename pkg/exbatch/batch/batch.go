// Package batch queues typed commands against a spreadsheet host and sends
// them as one ordered unit at a single synchronization point.
//
// A Batch is the batch context: handles obtained from it only record
// commands, and nothing reaches the host until Sync. Sync may be called once;
// afterwards the batch and every handle it produced are closed.
//
// A Batch is not safe for concurrent use.
package batch

import (
	"context"
)

// Host executes a batch of commands. Execute must apply the commands in
// order and either apply all of them or none.
type Host interface {
	Execute(ctx context.Context, cmds []Command) error
	// Supports reports whether the host implements the named requirement
	// set at the given version (for example "ExcelApi", "1.7").
	Supports(set, version string) bool
}

type state int

const (
	stateOpen state = iota
	stateClosed
)

// Batch accumulates commands until Sync.
type Batch struct {
	host  Host
	queue []Command
	loads []*RangeData
	next  Ref
	state state
	// err is the first misuse recorded by a handle; Sync reports it.
	err error
}

// New opens a batch against host.
func New(host Host) *Batch {
	return &Batch{host: host}
}

// Run opens a batch, lets fn queue commands on it and synchronizes once.
// If fn already called Sync, Run does not sync again.
func Run(ctx context.Context, host Host, fn func(b *Batch) error) error {
	b := New(host)
	if err := fn(b); err != nil {
		b.state = stateClosed
		return err
	}
	if b.Closed() {
		return b.err
	}
	return b.Sync(ctx)
}

// Sync sends the queued commands to the host as one unit. On success every
// pending Load result becomes readable. The batch is closed either way.
func (b *Batch) Sync(ctx context.Context) error {
	if b.state == stateClosed {
		return ErrBatchClosed
	}
	b.state = stateClosed
	if b.err != nil {
		return b.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(b.queue) == 0 {
		return nil
	}
	if err := b.host.Execute(ctx, b.queue); err != nil {
		return err
	}
	for _, d := range b.loads {
		d.loaded = true
	}
	return nil
}

// Closed reports whether Sync has been called.
func (b *Batch) Closed() bool {
	return b.state == stateClosed
}

// Err returns the first handle misuse recorded on the batch.
func (b *Batch) Err() error {
	return b.err
}

// Len returns the number of queued commands.
func (b *Batch) Len() int {
	return len(b.queue)
}

// Commands returns a copy of the queue.
func (b *Batch) Commands() []Command {
	out := make([]Command, len(b.queue))
	copy(out, b.queue)
	return out
}

// Host returns the host the batch was opened against.
func (b *Batch) Host() Host {
	return b.host
}

// Workbook returns the root handle of the batch.
func (b *Batch) Workbook() *Workbook {
	return &Workbook{b: b}
}

func (b *Batch) newRef() Ref {
	b.next++
	return b.next
}

func (b *Batch) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// enqueue appends cmd unless the batch is closed.
func (b *Batch) enqueue(cmd Command) bool {
	if b.state == stateClosed {
		b.fail(ErrBatchClosed)
		return false
	}
	b.queue = append(b.queue, cmd)
	return true
}

// owns reports whether h was produced by this batch, recording a misuse
// otherwise.
func (b *Batch) owns(h handle) bool {
	if h.b != b {
		b.fail(ErrForeignHandle)
		return false
	}
	return true
}
