// FILE: othello/internal/server/processor/queue.go
package processor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"othello/internal/server/board"
	"othello/internal/server/cache"
	"othello/internal/server/core"
	"othello/internal/server/engine"
)

const (
	defaultWorkers = 2
	defaultTimeout = 5 * time.Second
	cacheTimeout   = 200 * time.Millisecond
)

// EngineTask contains computer move calculation request and response channel
type EngineTask struct {
	GameID   string
	Board    board.Board
	Color    core.Color
	Player   *core.Player // Full player config including engine configuration
	Response chan<- EngineResult
}

// EngineResult contains the outcome of an engine calculation
type EngineResult struct {
	GameID   string
	Move     board.Move
	Strategy string
	Value    float64
	Depth    int
	Nodes    int64
	Cached   bool
	Error    error
}

// EngineQueue manages async engine computations
type EngineQueue struct {
	tasks   chan EngineTask
	workers int
	timeout time.Duration
	cache   cache.Cache // Optional
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewEngineQueue creates a queue with specified worker count. Results are
// abandoned after timeout; c may be nil to disable result caching.
func NewEngineQueue(workerCount int, timeout time.Duration, c cache.Cache) *EngineQueue {
	if workerCount < 1 {
		workerCount = defaultWorkers
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &EngineQueue{
		tasks:   make(chan EngineTask, 100),
		workers: workerCount,
		timeout: timeout,
		cache:   c,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.start()
	return q
}

// start initializes the worker pool
func (q *EngineQueue) start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// worker processes engine tasks
func (q *EngineQueue) worker() {
	defer q.wg.Done()

	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return // Channel closed
			}

			result := q.processTask(task)

			// Send result if receiver still listening
			select {
			case task.Response <- result:
			case <-time.After(100 * time.Millisecond):
				// Receiver abandoned, discard result
			}

		case <-q.ctx.Done():
			return
		}
	}
}

// playerSearch is the engine configuration of a computer player
type playerSearch struct {
	strategy  engine.Strategy
	depth     int
	evaluator string
}

// searchFor builds the strategy of a computer player. Unset fields fall
// back to the Medium level and the default evaluator.
func searchFor(player *core.Player) (playerSearch, error) {
	level := engine.Difficulty(player.Level)
	if !level.Valid() {
		level = engine.Medium
	}

	evaluator := player.Evaluator
	if evaluator == "" {
		evaluator = engine.DefaultEvaluator
	}
	eval, err := engine.LookupEvaluator(evaluator)
	if err != nil {
		return playerSearch{}, err
	}

	depth := level.Depth()
	opts := []engine.Option{engine.WithEvaluator(eval)}
	if player.Depth > 0 && level != engine.Easy {
		depth = player.Depth
		opts = append(opts, engine.WithDepth(depth))
	}

	s, err := engine.NewStrategy(level, opts...)
	if err != nil {
		return playerSearch{}, err
	}
	return playerSearch{strategy: s, depth: depth, evaluator: evaluator}, nil
}

// cacheable reports whether equal inputs always produce equal results
func (ps playerSearch) cacheable() bool {
	_, ok := ps.strategy.(engine.Searcher)
	return ok
}

// processTask executes a single engine calculation
func (q *EngineQueue) processTask(task EngineTask) EngineResult {
	result := EngineResult{
		GameID: task.GameID,
	}

	ps, err := searchFor(task.Player)
	if err != nil {
		result.Error = fmt.Errorf("engine configuration: %w", err)
		return result
	}
	result.Strategy = ps.strategy.Name()
	result.Depth = ps.depth

	useCache := q.cache != nil && ps.cacheable()
	key := cache.Key(board.EncodePosition(task.Board, task.Color), ps.strategy.Name(), ps.depth, ps.evaluator)

	if useCache {
		if hit, ok := q.lookup(task, key); ok {
			hit.GameID = task.GameID
			hit.Strategy = result.Strategy
			return hit
		}
	}

	searcher, ok := ps.strategy.(engine.Searcher)
	if !ok {
		move, err := ps.strategy.SelectMove(task.Board, task.Color)
		if err != nil {
			result.Error = fmt.Errorf("engine search failed: %w", err)
			return result
		}
		result.Move = move
		return result
	}

	search, err := searcher.Search(task.Board, task.Color)
	if err != nil {
		result.Error = fmt.Errorf("engine search failed: %w", err)
		return result
	}
	result.Move = search.Move
	result.Value = search.Value
	result.Depth = search.Depth
	result.Nodes = search.Nodes

	if useCache {
		ctx, cancel := context.WithTimeout(q.ctx, cacheTimeout)
		defer cancel()
		entry := cache.Entry{Move: search.Move.String(), Value: search.Value, Depth: search.Depth, Nodes: search.Nodes}
		if err := q.cache.Set(ctx, key, entry); err != nil {
			log.Printf("Engine cache write failed: %v", err)
		}
	}

	return result
}

// lookup returns a cached result if it still names a legal move
func (q *EngineQueue) lookup(task EngineTask, key string) (EngineResult, bool) {
	ctx, cancel := context.WithTimeout(q.ctx, cacheTimeout)
	defer cancel()

	entry, ok, err := q.cache.Get(ctx, key)
	if err != nil {
		log.Printf("Engine cache read failed: %v", err)
		return EngineResult{}, false
	}
	if !ok {
		return EngineResult{}, false
	}

	move, err := cachedMove(task, entry)
	if err != nil {
		log.Printf("Dropping cache entry %s: %v", key, err)
		if err := q.cache.Delete(ctx, key); err != nil {
			log.Printf("Engine cache delete failed: %v", err)
		}
		return EngineResult{}, false
	}

	return EngineResult{
		Move:   move,
		Value:  entry.Value,
		Depth:  entry.Depth,
		Nodes:  entry.Nodes,
		Cached: true,
	}, true
}

// cachedMove resolves a cached move on the task board
func cachedMove(task EngineTask, entry cache.Entry) (board.Move, error) {
	p, err := board.ParsePoint(entry.Move)
	if err != nil {
		return board.Move{}, err
	}
	return task.Board.MoveAt(p, task.Color)
}

// Submit adds a task to the queue
func (q *EngineQueue) Submit(task EngineTask) error {
	select {
	case <-q.ctx.Done():
		return fmt.Errorf("queue is shutting down")
	default:
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return fmt.Errorf("queue is full")
	}
}

// SubmitAsync submits a task and calls callback with its result, or with
// a timeout error if the engine takes longer than the queue timeout
func (q *EngineQueue) SubmitAsync(gameID string, b board.Board, color core.Color, player *core.Player, callback func(EngineResult)) error {
	respChan := make(chan EngineResult, 1)

	task := EngineTask{
		GameID:   gameID,
		Board:    b,
		Color:    color,
		Player:   player,
		Response: respChan,
	}

	if err := q.Submit(task); err != nil {
		return err
	}

	go func() {
		select {
		case result := <-respChan:
			callback(result)
		case <-time.After(q.timeout):
			callback(EngineResult{
				GameID: gameID,
				Error:  fmt.Errorf("engine timeout"),
			})
		}
	}()

	return nil
}

// Shutdown stops the workers and waits for them to exit
func (q *EngineQueue) Shutdown(timeout time.Duration) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
