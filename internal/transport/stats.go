package transport

import "sync/atomic"

// Stats counts frames moving through a channel. The chat screen shares the
// same value so it can count frames it drops after decoding.
type Stats struct {
	sent         atomic.Uint64
	received     atomic.Uint64
	dropped      atomic.Uint64
	sendFailures atomic.Uint64
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Sent         uint64
	Received     uint64
	Dropped      uint64
	SendFailures uint64
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) IncSent() {
	s.sent.Add(1)
}

func (s *Stats) IncReceived() {
	s.received.Add(1)
}

// IncDropped records an inbound frame that was discarded as malformed.
func (s *Stats) IncDropped() {
	s.dropped.Add(1)
}

func (s *Stats) IncSendFailure() {
	s.sendFailures.Add(1)
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Sent:         s.sent.Load(),
		Received:     s.received.Load(),
		Dropped:      s.dropped.Load(),
		SendFailures: s.sendFailures.Load(),
	}
}
