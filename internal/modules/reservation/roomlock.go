package reservation

import (
	"context"
	"sync"
)

// RoomLocker serialises writers per room inside one process. Locks for
// different rooms never contend.
type RoomLocker struct {
	mu    sync.Mutex
	rooms map[int64]*roomSlot
}

type roomSlot struct {
	sem  chan struct{}
	refs int
}

func NewRoomLocker() *RoomLocker {
	return &RoomLocker{rooms: make(map[int64]*roomSlot)}
}

// Lock blocks until the room is free or ctx is done. The returned func
// releases the room and must be called exactly once.
func (l *RoomLocker) Lock(ctx context.Context, roomID int64) (func(), error) {
	l.mu.Lock()
	slot, ok := l.rooms[roomID]
	if !ok {
		slot = &roomSlot{sem: make(chan struct{}, 1)}
		l.rooms[roomID] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.sem <- struct{}{}:
		return func() {
			<-slot.sem
			l.release(roomID, slot)
		}, nil
	case <-ctx.Done():
		l.release(roomID, slot)
		return nil, ctx.Err()
	}
}

func (l *RoomLocker) release(roomID int64, slot *roomSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.rooms, roomID)
	}
}

func (l *RoomLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}
