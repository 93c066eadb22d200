package bandwidth

import "sort"

// MessageSender delivers raw bytes to a client's transport connection.
type MessageSender interface {
	Send(data []byte)
}

// SendTickMessages processes one client's outgoing queue for a single
// tick: messages are sent in ascending priority order until the
// budget is exhausted. Any message that would overflow the budget is
// returned, to be retried next tick. Mutates tracker via Consume and
// EndTick.
func SendTickMessages(tracker *ClientTracker, queue []PrioritizedMessage, sender MessageSender) []PrioritizedMessage {
	sorted := make([]PrioritizedMessage, len(queue))
	copy(sorted, queue)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	var deferred []PrioritizedMessage
	for _, msg := range sorted {
		if tracker.RemainingBudget() >= msg.Size() {
			tracker.Consume(msg.Size())
			sender.Send(msg.Data)
		} else {
			deferred = append(deferred, msg)
		}
	}

	tracker.EndTick()
	return deferred
}
