package service

import (
	"context"
	"sync"
)

// tableLocks serializes work per table id. Different ids never contend.
type tableLocks struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	held chan struct{}
	refs int
}

func newTableLocks() *tableLocks {
	return &tableLocks{slots: make(map[string]*lockSlot)}
}

// lock waits for the table's slot or for ctx to end.
func (l *tableLocks) lock(ctx context.Context, tableID string) (unlock func(), err error) {
	l.mu.Lock()
	slot, ok := l.slots[tableID]
	if !ok {
		slot = &lockSlot{held: make(chan struct{}, 1)}
		l.slots[tableID] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.held <- struct{}{}:
		return func() {
			<-slot.held
			l.release(tableID, slot)
		}, nil
	case <-ctx.Done():
		l.release(tableID, slot)
		return nil, ctx.Err()
	}
}

func (l *tableLocks) release(tableID string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, tableID)
	}
}

