package sessions

import "sync"

// Broker fans "the ledger changed" signals out to the live feeds of a
// workspace. Publishing never blocks; a subscriber that has not drained its
// previous signal simply keeps the one already queued.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe registers a listener on workspace. The returned cancel func must
// be called once the listener is done.
func (b *Broker) Subscribe(workspace string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[workspace] == nil {
		b.subs[workspace] = make(map[chan struct{}]struct{})
	}
	b.subs[workspace][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[workspace], ch)
			if len(b.subs[workspace]) == 0 {
				delete(b.subs, workspace)
			}
		})
	}
	return ch, cancel
}

func (b *Broker) Publish(workspace string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[workspace] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (b *Broker) Subscribers(workspace string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[workspace])
}
