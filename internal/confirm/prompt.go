// Package confirm holds the yes/no prompts that guard destructive actions.
package confirm

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrPromptNotFound = errors.New("prompt not found")

// Kinds of prompt the console opens.
const (
	KindDeleteEvent  = "delete-event"
	KindDeleteImage  = "delete-image"
	KindDeleteMember = "delete-member"
	KindDeleteLink   = "delete-link"
	KindLogout       = "logout"
)

// Prompt is what the browser renders as the modal.
type Prompt struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type pending struct {
	prompt   Prompt
	action   func(ctx context.Context) error
	onCancel func()
}

// Registry holds open prompts until they are confirmed or cancelled.
type Registry struct {
	mu      sync.Mutex
	pending map[string]*pending
}

func NewRegistry() *Registry {
	return &Registry{pending: map[string]*pending{}}
}

// Open registers action behind a new prompt. Nothing runs until Confirm.
// onCancel, if set, runs when the prompt is cancelled or the registry closed.
func (r *Registry) Open(kind, message string, action func(ctx context.Context) error, onCancel func()) Prompt {
	p := &pending{
		prompt:   Prompt{ID: uuid.NewString(), Kind: kind, Message: message},
		action:   action,
		onCancel: onCancel,
	}
	r.mu.Lock()
	r.pending[p.prompt.ID] = p
	r.mu.Unlock()
	return p.prompt
}

func (r *Registry) Get(id string) (Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[id]
	if !ok {
		return Prompt{}, ErrPromptNotFound
	}
	return p.prompt, nil
}

func (r *Registry) take(id string) (*pending, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[id]
	if !ok {
		return nil, ErrPromptNotFound
	}
	delete(r.pending, id)
	return p, nil
}

// Confirm closes the prompt and runs its action once, returning the
// action's error.
func (r *Registry) Confirm(ctx context.Context, id string) error {
	p, err := r.take(id)
	if err != nil {
		return err
	}
	return p.action(ctx)
}

// Cancel closes the prompt without running its action.
func (r *Registry) Cancel(id string) error {
	p, err := r.take(id)
	if err != nil {
		return err
	}
	if p.onCancel != nil {
		p.onCancel()
	}
	return nil
}

// Len returns the number of prompts still awaiting an answer.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Close cancels every open prompt.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.pending
	r.pending = map[string]*pending{}
	r.mu.Unlock()

	for _, p := range all {
		if p.onCancel != nil {
			p.onCancel()
		}
	}
}
