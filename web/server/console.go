package server

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// ConsoleLog keeps the most recent messages from all renders
type ConsoleLog struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	capacity int
}

// NewConsoleLog creates a log holding at most capacity messages
func NewConsoleLog(capacity int) *ConsoleLog {
	return &ConsoleLog{capacity: capacity}
}

// Append records a message, dropping the oldest once full
func (c *ConsoleLog) Append(msg ConsoleMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	if len(c.messages) > c.capacity {
		c.messages = c.messages[len(c.messages)-c.capacity:]
	}
}

// Messages returns a copy of the stored messages, filtered by render ID when one is given
func (c *ConsoleLog) Messages(renderID string) []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]ConsoleMessage, 0, len(c.messages))
	for _, msg := range c.messages {
		if renderID == "" || msg.RenderID == renderID {
			result = append(result, msg)
		}
	}
	return result
}

// WebLogger implements core.Logger by recording messages for a single render
type WebLogger struct {
	renderID string
	console  *ConsoleLog
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, console *ConsoleLog) core.Logger {
	return &WebLogger{
		renderID: renderID,
		console:  console,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Also write to the server log
	log.Printf("[%s] %s", wl.renderID, message)

	if wl.console != nil {
		wl.console.Append(ConsoleMessage{
			RenderID:  wl.renderID,
			Message:   message,
			Timestamp: time.Now(),
			Level:     "info",
		})
	}
}
