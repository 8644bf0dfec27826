package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Sink receives progress from bulk operations. Implementations must be safe
// for concurrent use: workers call Inc in parallel.
type Sink interface {
	// SetTotal sets the number of steps the current operation will report
	SetTotal(total int64)
	// Inc advances progress by delta steps
	Inc(delta int64)
}

// Update is a progress snapshot passed to callbacks
type Update struct {
	Current int64
	Total   int64
}

// Callback is a function that receives progress updates
type Callback func(update Update)

// Counter is a lock-free Sink. The callback, if any, runs on the
// goroutine that called Inc.
type Counter struct {
	current  atomic.Int64
	total    atomic.Int64
	callback Callback
}

// NewCounter creates a Counter; callback may be nil
func NewCounter(callback Callback) *Counter {
	return &Counter{callback: callback}
}

// SetTotal sets the total and resets the current position
func (c *Counter) SetTotal(total int64) {
	c.total.Store(total)
	c.current.Store(0)
}

// Inc advances the counter
func (c *Counter) Inc(delta int64) {
	current := c.current.Add(delta)
	if c.callback != nil {
		c.callback(Update{Current: current, Total: c.total.Load()})
	}
}

// Current returns the steps reported so far
func (c *Counter) Current() int64 {
	return c.current.Load()
}

// Total returns the configured total
func (c *Counter) Total() int64 {
	return c.total.Load()
}

// NullSink discards progress
type NullSink struct{}

func (NullSink) SetTotal(total int64) {}
func (NullSink) Inc(delta int64)      {}

// Bar renders a Counter as a terminal progress bar, redrawn on a ticker.
// It is also an io.Writer: text written through it is printed above the bar.
type Bar struct {
	counter  Counter
	message  string
	width    int
	interval time.Duration

	mu       sync.Mutex // guards out and finished
	out      io.Writer
	finished bool

	startTime time.Time
	done      chan struct{}
	wg        sync.WaitGroup
	once      sync.Once
}

// NewBar starts rendering to out until Finish is called
func NewBar(out io.Writer, message string) *Bar {
	b := &Bar{
		out:       out,
		message:   message,
		width:     30,
		interval:  100 * time.Millisecond,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.render()
	return b
}

// SetTotal sets the total number of steps
func (b *Bar) SetTotal(total int64) {
	b.counter.SetTotal(total)
}

// Inc advances the bar
func (b *Bar) Inc(delta int64) {
	b.counter.Inc(delta)
}

func (b *Bar) render() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			b.mu.Lock()
			b.draw()
			fmt.Fprintf(b.out, "  %s\n", time.Since(b.startTime).Round(time.Millisecond))
			b.finished = true
			b.mu.Unlock()
			return
		case <-ticker.C:
			b.mu.Lock()
			b.draw()
			b.mu.Unlock()
		}
	}
}

// Write clears the bar line, prints p and redraws the bar below it.
// Once the bar is finished p is passed through unchanged.
func (b *Bar) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.finished {
		return b.out.Write(p)
	}

	fmt.Fprint(b.out, "\r\033[K")
	n, err := b.out.Write(p)
	if err != nil {
		return n, err
	}
	b.draw()
	return n, nil
}

// draw must be called with mu held
func (b *Bar) draw() {
	current, total := b.counter.Current(), b.counter.Total()
	if total == 0 {
		fmt.Fprintf(b.out, "\r%s [%d]", b.message, current)
		return
	}
	fmt.Fprintf(b.out, "\r%s %s %d/%d", b.message, FormatProgress(current, total, b.width), current, total)
}

// Finish draws the final state and stops rendering. Safe to call twice.
func (b *Bar) Finish() {
	b.once.Do(func() {
		close(b.done)
		b.wg.Wait()
	})
}

// FormatBytes formats bytes into human-readable string
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatSpeed formats a byte count over a duration as a rate
func FormatSpeed(bytes int64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return FormatBytes(bytes) + "/s"
	}
	return FormatBytes(int64(float64(bytes)/elapsed.Seconds())) + "/s"
}

// FormatProgress returns a progress bar string
func FormatProgress(current, total int64, width int) string {
	if total == 0 {
		return ""
	}

	percent := float64(current) / float64(total)
	if percent > 1 {
		percent = 1
	}
	filled := int(percent * float64(width))

	bar := make([]byte, width)
	for i := 0; i < width; i++ {
		switch {
		case i < filled:
			bar[i] = '='
		case i == filled:
			bar[i] = '>'
		default:
			bar[i] = ' '
		}
	}

	return fmt.Sprintf("[%s] %5.1f%%", string(bar), percent*100)
}
