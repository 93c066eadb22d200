package bandwidth

// Config configures the maximum bandwidth allowed per client.
type Config struct {
	// MaxBytesPerSecond is the cap on bytes the server will send to
	// one client per second. Default: 125,000 (1 Mbps).
	MaxBytesPerSecond int
	// TickRate is the server tick rate in Hz.
	TickRate int
}

// DefaultConfig returns the standard per-client bandwidth budget.
func DefaultConfig() Config {
	return Config{MaxBytesPerSecond: 125_000, TickRate: 60}
}

// BytesPerTick returns the byte budget for a single tick.
func (c Config) BytesPerTick() int {
	return c.MaxBytesPerSecond / c.TickRate
}

// ClientID identifies one connected client for bandwidth purposes.
type ClientID = uint64

// defaultMaxHistory is the number of per-tick samples retained, 10
// seconds of history at the default 60Hz tick rate.
const defaultMaxHistory = 600

// ClientTracker tracks how much bandwidth one client has consumed in
// the current tick and maintains a rolling per-tick history.
type ClientTracker struct {
	ClientID       ClientID
	Config         Config
	bytesThisTick  int
	history        []int
	maxHistory     int
}

// NewClientTracker returns a tracker for clientID using cfg.
func NewClientTracker(clientID ClientID, cfg Config) *ClientTracker {
	return &ClientTracker{ClientID: clientID, Config: cfg, maxHistory: defaultMaxHistory}
}

// RemainingBudget returns how many bytes remain in this tick's budget.
func (t *ClientTracker) RemainingBudget() int {
	remaining := t.Config.BytesPerTick() - t.bytesThisTick
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Consume records that n bytes were sent to this client this tick.
func (t *ClientTracker) Consume(n int) {
	t.bytesThisTick += n
}

// EndTick archives this tick's usage into the history ring and resets
// the counter.
func (t *ClientTracker) EndTick() {
	t.history = append(t.history, t.bytesThisTick)
	if len(t.history) > t.maxHistory {
		t.history = t.history[len(t.history)-t.maxHistory:]
	}
	t.bytesThisTick = 0
}

// AverageUsage returns the arithmetic mean of bytes sent per tick over
// the recorded history.
func (t *ClientTracker) AverageUsage() float64 {
	if len(t.history) == 0 {
		return 0
	}
	sum := 0
	for _, v := range t.history {
		sum += v
	}
	return float64(sum) / float64(len(t.history))
}

// History returns a snapshot of the recorded per-tick usage, most
// recent last.
func (t *ClientTracker) History() []int {
	out := make([]int, len(t.history))
	copy(out, t.history)
	return out
}
