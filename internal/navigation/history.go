package navigation

import "sync"

// History is the platform history stack the navigator pushes onto and walks.
type History interface {
	Current() string
	Push(address string)
	Back() (string, bool)
	Forward() (string, bool)
}

// MemoryHistory is an in-process History. Pushing discards any forward entries.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	index   int
}

func NewMemoryHistory(initial string) *MemoryHistory {
	if initial == "" {
		initial = "/"
	}
	return &MemoryHistory{entries: []string{initial}}
}

func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

func (h *MemoryHistory) Push(address string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], address)
	h.index++
}

func (h *MemoryHistory) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return "", false
	}
	h.index--
	return h.entries[h.index], true
}

func (h *MemoryHistory) Forward() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index >= len(h.entries)-1 {
		return "", false
	}
	h.index++
	return h.entries[h.index], true
}

// Len is the number of entries, forward entries included.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
