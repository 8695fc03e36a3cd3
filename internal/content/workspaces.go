package content

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"io.winapps.clubconsole/internal/store"
)

var ErrWorkspaceNotFound = errors.New("workspace not found")

// Workspaces keeps one workspace per session. Workspaces live in memory:
// drafts hold uploaded bytes and prompts hold closures.
type Workspaces struct {
	docs    store.DocumentStore
	objects store.ObjectStore
	logger  *zap.SugaredLogger

	now func() time.Time

	mu       sync.Mutex
	items    map[string]*Workspace
	lastUsed map[string]time.Time
}

func NewWorkspaces(docs store.DocumentStore, objects store.ObjectStore, logger *zap.SugaredLogger) *Workspaces {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Workspaces{
		docs:     docs,
		objects:  objects,
		logger:   logger,
		now:      time.Now,
		items:    map[string]*Workspace{},
		lastUsed: map[string]time.Time{},
	}
}

// Open returns the session's workspace, creating it on first use.
func (ws *Workspaces) Open(sessionID string) *Workspace {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.lastUsed[sessionID] = ws.now()
	if w, ok := ws.items[sessionID]; ok {
		return w
	}
	w := NewWorkspace(sessionID, ws.docs, ws.objects, ws.logger)
	ws.items[sessionID] = w
	return w
}

func (ws *Workspaces) Get(sessionID string) (*Workspace, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	w, ok := ws.items[sessionID]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return w, nil
}

func (ws *Workspaces) Close(sessionID string) {
	ws.mu.Lock()
	w, ok := ws.items[sessionID]
	delete(ws.items, sessionID)
	delete(ws.lastUsed, sessionID)
	ws.mu.Unlock()
	if ok {
		w.Close()
	}
}

func (ws *Workspaces) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.items)
}

// SweepDrafts expires idle drafts in every workspace.
func (ws *Workspaces) SweepDrafts(maxIdle time.Duration) int {
	ws.mu.Lock()
	all := make([]*Workspace, 0, len(ws.items))
	for _, w := range ws.items {
		all = append(all, w)
	}
	ws.mu.Unlock()

	total := 0
	for _, w := range all {
		total += w.Editor.Sweep(maxIdle)
	}
	return total
}

// SweepIdle closes workspaces nobody has opened for longer than maxIdle and
// returns how many were closed. A session outlives its workspace by at most
// maxIdle when that is the session TTL. Workspaces with work in flight are
// kept.
func (ws *Workspaces) SweepIdle(maxIdle time.Duration) int {
	cutoff := ws.now().Add(-maxIdle)

	ws.mu.Lock()
	var idle []*Workspace
	for id, w := range ws.items {
		if ws.lastUsed[id].After(cutoff) || w.Busy.Busy() {
			continue
		}
		delete(ws.items, id)
		delete(ws.lastUsed, id)
		idle = append(idle, w)
	}
	ws.mu.Unlock()

	for _, w := range idle {
		w.Close()
	}
	return len(idle)
}

// CloseAll tears down every workspace on shutdown.
func (ws *Workspaces) CloseAll() {
	ws.mu.Lock()
	all := ws.items
	ws.items = map[string]*Workspace{}
	ws.lastUsed = map[string]time.Time{}
	ws.mu.Unlock()

	for _, w := range all {
		w.Close()
	}
	ws.logger.Infow("closed workspaces", "count", len(all))
}
