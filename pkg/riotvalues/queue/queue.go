package queuevalues

// Queues that are going to be collected for every player.
// A match belongs to exactly one queue, so the ids discovered per
// queue never overlap.
var TrackedQueues = []int{400, 420, 430, 440, 450}

// Human readable names, used only for logging.
var QueueNames = map[int]string{
	400: "NORMAL_DRAFT",
	420: "RANKED_SOLO_5x5",
	430: "NORMAL_BLIND",
	440: "RANKED_FLEX_5x5",
	450: "ARAM",
}

// Name returns the queue name, falling back to "UNKNOWN".
func Name(queue int) string {
	if name, ok := QueueNames[queue]; ok {
		return name
	}
	return "UNKNOWN"
}
