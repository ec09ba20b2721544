// Package audit records security-relevant rejections. Every event is
// written to the process log immediately; when broker publishing is
// enabled the event is also shipped to the security.events queue in
// the background so audit consumers get a durable trail. Recording is
// best effort and never affects the response sent to the caller.
package audit

import (
    "context"
    "log"
    "time"

    "github.com/arashnm/gym-portal/internal/queue"
    queue_publisher "github.com/arashnm/gym-portal/internal/service"
)

// Logger emits security events. The zero value logs locally only;
// use New to enable broker publishing.
type Logger struct {
    publish bool
}

// New returns a Logger. When publish is true each event is also sent
// to RabbitMQ in a background goroutine.
func New(publish bool) *Logger {
    return &Logger{publish: publish}
}

// Record stamps and emits a security event.
func (l *Logger) Record(ev queue.SecurityEvent) {
    if ev.OccurredAt == "" {
        ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
    }
    log.Printf("security: kind=%s reason=%q user_id=%d role=%s method=%s path=%s ip=%s ua=%q",
        ev.Kind, ev.Reason, ev.UserID, ev.Role, ev.Method, ev.Path, ev.RemoteIP, ev.UserAgent)
    if l != nil && l.publish {
        go func() {
            ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
            defer cancel()
            _ = queue_publisher.PublishSecurityEvent(ctx, ev)
        }()
    }
}
