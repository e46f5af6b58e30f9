package eventmodels

// Queue is the FIFO event queue shared by the backtest components. The
// simulation is single-threaded, so no locking is needed: every producer and
// the dispatch loop run on the same goroutine.
type Queue struct {
	events []Event
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(event Event) {
	q.events = append(q.events, event)
}

// Pop removes and returns the head of the queue. The second return value is
// false when the queue is empty.
func (q *Queue) Pop() (Event, bool) {
	if len(q.events) == 0 {
		return nil, false
	}

	event := q.events[0]
	q.events = q.events[1:]

	return event, true
}

func (q *Queue) Len() int {
	return len(q.events)
}
