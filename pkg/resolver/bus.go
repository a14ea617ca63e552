package resolver

import (
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/google/uuid"
)

type subscription struct {
	target  domain.Reference
	handler func(domain.DestinationAction)
}

// actionBus delivers actions to the subscribers of a reference.
type actionBus struct {
	mu   sync.RWMutex
	subs map[string]subscription
}

func newActionBus() *actionBus {
	return &actionBus{subs: make(map[string]subscription)}
}

func (b *actionBus) subscribe(target domain.Reference, handler func(domain.DestinationAction)) string {
	id := uuid.NewString()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[id] = subscription{target: target, handler: handler}
	return id
}

func (b *actionBus) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// send calls the matching handlers outside the lock so they may subscribe or navigate.
func (b *actionBus) send(action domain.DestinationAction, target domain.Reference) {
	b.mu.RLock()
	var handlers []func(domain.DestinationAction)
	for _, s := range b.subs {
		if s.target == target {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(action)
	}
}
