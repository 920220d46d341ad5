package internal

import "sync"

// Relay fans inbound frames out to the chat screen that owns it. Publish hands
// a frame to every subscriber, in subscription order, before returning.
type Relay struct {
	mu        sync.Mutex
	subs      []chan string
	done      chan struct{}
	closeOnce sync.Once
}

func NewRelay() *Relay {
	return &Relay{done: make(chan struct{})}
}

// Subscribe registers a new subscriber. The returned channel is closed when
// the relay closes.
func (r *Relay) Subscribe(buffer int) <-chan string {
	ch := make(chan string, buffer)
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.done:
		close(ch)
	default:
		r.subs = append(r.subs, ch)
	}
	return ch
}

// Publish delivers frame to all current subscribers. It returns false once
// the relay is closed.
func (r *Relay) Publish(frame string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		select {
		case sub <- frame:
		case <-r.done:
			return false
		}
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Pipe publishes every frame from src until src closes or the relay does,
// then closes the relay.
func (r *Relay) Pipe(src <-chan string) {
	defer r.Close()
	for frame := range src {
		if !r.Publish(frame) {
			return
		}
	}
}

// Close stops delivery and closes every subscriber channel.
func (r *Relay) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		r.mu.Lock()
		defer r.mu.Unlock()
		for _, sub := range r.subs {
			close(sub)
		}
		r.subs = nil
	})
}
