package workflow

import (
	"sync"

	"go-leave/internal/client/api"
)

// PendingList holds the last applied pending list. Every fetch takes a
// sequence number from Begin; only the most recently issued fetch may
// apply its result, whatever order the answers arrive in.
type PendingList struct {
	mu     sync.Mutex
	issued uint64
	items  []api.LeaveRecord
}

func (p *PendingList) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

func (p *PendingList) Apply(seq uint64, items []api.LeaveRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.issued {
		return ErrStaleResult
	}
	p.items = append([]api.LeaveRecord(nil), items...)
	return nil
}

func (p *PendingList) Items() []api.LeaveRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]api.LeaveRecord(nil), p.items...)
}
