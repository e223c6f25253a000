// Package scheduler walks a target graph bottom-up with bounded parallelism.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/zerr"
)

// NodeStatus represents the status of a node during a walk.
type NodeStatus string

const (
	// StatusPending indicates the node is waiting for its dependencies.
	StatusPending NodeStatus = "Pending"
	// StatusRunning indicates the node is being visited.
	StatusRunning NodeStatus = "Running"
	// StatusCompleted indicates the visit succeeded.
	StatusCompleted NodeStatus = "Completed"
	// StatusFailed indicates the visit returned an error.
	StatusFailed NodeStatus = "Failed"
)

// VisitFunc is called once per node, after every dependency of the node was visited successfully.
type VisitFunc func(ctx context.Context, node *domain.TargetNode) error

// Scheduler visits the nodes of a validated target graph, children before parents.
type Scheduler struct {
	graph *domain.TargetGraph

	mu         sync.RWMutex
	nodeStatus map[domain.BuildTarget]NodeStatus
}

// NewScheduler creates a Scheduler for graph. The graph must have been validated.
func NewScheduler(graph *domain.TargetGraph) *Scheduler {
	s := &Scheduler{
		graph:      graph,
		nodeStatus: make(map[domain.BuildTarget]NodeStatus, graph.Len()),
	}
	for node := range graph.Walk() {
		s.nodeStatus[node.Target] = StatusPending
	}
	return s
}

func (s *Scheduler) updateStatus(target domain.BuildTarget, status NodeStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeStatus[target] = status
}

// Status returns the status of a node.
func (s *Scheduler) Status(target domain.BuildTarget) NodeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodeStatus[target]
}

// Run visits every node with at most parallelism visits in flight. The first failed visit
// aborts the walk: nodes not yet started stay pending and their context is cancelled.
func (s *Scheduler) Run(ctx context.Context, parallelism int, visit VisitFunc) error {
	if parallelism < 1 {
		parallelism = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := s.newRunState(ctx, cancel, parallelism, visit)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil {
			if state.active == 0 {
				break
			}
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.errs == nil && state.ctx.Err() != nil {
		return state.ctx.Err()
	}
	return state.errs
}

type result struct {
	target domain.BuildTarget
	err    error
}

type runState struct {
	inDegree    map[domain.BuildTarget]int
	dependents  map[domain.BuildTarget][]domain.BuildTarget
	nodes       map[domain.BuildTarget]*domain.TargetNode
	ready       []domain.BuildTarget
	active      int
	resultsCh   chan result
	errs        error
	ctx         context.Context
	cancel      context.CancelFunc
	parallelism int
	visit       VisitFunc
	s           *Scheduler
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	cancel context.CancelFunc,
	parallelism int,
	visit VisitFunc,
) *runState {
	count := s.graph.Len()
	state := &runState{
		inDegree:    make(map[domain.BuildTarget]int, count),
		dependents:  make(map[domain.BuildTarget][]domain.BuildTarget, count),
		nodes:       make(map[domain.BuildTarget]*domain.TargetNode, count),
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		cancel:      cancel,
		parallelism: parallelism,
		visit:       visit,
		s:           s,
	}

	for node := range s.graph.Walk() {
		state.nodes[node.Target] = node
		state.inDegree[node.Target] = len(node.Deps)
		for _, dep := range node.Deps {
			state.dependents[dep] = append(state.dependents[dep], node.Target)
		}
		if len(node.Deps) == 0 {
			state.ready = append(state.ready, node.Target)
		}
	}
	return state
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		target := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(target, StatusRunning)

		go func(node *domain.TargetNode) {
			state.resultsCh <- result{target: node.Target, err: state.visit(state.ctx, node)}
		}(state.nodes[target])
	}
}

func (state *runState) handleResult(res result) {
	state.active--
	if res.err != nil {
		wrapped := zerr.With(zerr.Wrap(res.err, "failed to visit target"), "target", res.target.String())
		state.errs = errors.Join(state.errs, wrapped)
		state.s.updateStatus(res.target, StatusFailed)
		state.cancel()
		return
	}

	state.s.updateStatus(res.target, StatusCompleted)
	for _, dependent := range state.dependents[res.target] {
		state.inDegree[dependent]--
		if state.inDegree[dependent] == 0 {
			state.ready = append(state.ready, dependent)
		}
	}
}
