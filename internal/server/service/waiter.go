// FILE: othello/internal/server/service/waiter.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second
)

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*waitRequest // gameID -> waiting clients
	shutdown chan struct{}
	closing  sync.Once
	wg       sync.WaitGroup
}

// waitRequest is a single client waiting for a change in move count
type waitRequest struct {
	moveCount int
	notify    chan struct{} // Buffered, one pending signal at most
	timer     *time.Timer
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel signalled when the game's move count
// differs from moveCount, the game is deleted, the wait times out, or the
// server shuts down
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	req := &waitRequest{
		moveCount: moveCount,
		notify:    make(chan struct{}, 1),
	}
	out := make(chan struct{})

	w.mu.Lock()
	req.timer = time.AfterFunc(WaitTimeout, func() { signal(req) })
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer req.timer.Stop()
		defer w.removeWaiter(gameID, req)

		select {
		case <-ctx.Done():
			// Client went away, nobody reads out
			return
		case <-req.notify:
		case <-w.shutdown:
		}
		close(out)
	}()

	return out
}

// NotifyGame wakes clients whose last known move count is stale
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, req := range w.waiters[gameID] {
		if req.moveCount != currentMoveCount {
			signal(req)
		}
	}
}

// RemoveGame wakes and forgets all waiters of a deleted game
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		signal(req)
	}
}

// Waiting returns the number of clients waiting on a game
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every waiter and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.closing.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timeout exceeded")
	}
}

// signal never blocks; a pending signal already covers a new one
func signal(req *waitRequest) {
	select {
	case req.notify <- struct{}{}:
	default:
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
