package contact

import "sync"

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeFailure NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a short toast for the visitor.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

// Notifier receives notices; display is up to the implementation.
type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

var failureNotice = Notice{
	Kind:        NoticeFailure,
	Title:       "Failed to send message",
	Description: "Please try again or contact directly via email.",
}

// Inbox queues notices until the next response drains them.
type Inbox struct {
	mu      sync.Mutex
	notices []Notice
}

func (i *Inbox) Notify(n Notice) {
	i.mu.Lock()
	i.notices = append(i.notices, n)
	i.mu.Unlock()
}

// Drain returns the queued notices in arrival order and empties the queue.
func (i *Inbox) Drain() []Notice {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.notices
	i.notices = nil
	return out
}
