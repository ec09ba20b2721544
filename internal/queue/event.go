// Package queue defines message payloads exchanged over the message broker.
package queue

// SecurityEvent is published whenever a guard rejects a request or a
// store call degrades. It carries enough request metadata for audit
// consumers to correlate without querying the primary database. Zero
// fields are omitted from the JSON so entries stay compact.
type SecurityEvent struct {
    Kind          string   `json:"kind"`                     // auth_rejected | forbidden | ownership_denied | rate_limited | store_degraded
    Reason        string   `json:"reason"`                   // human-readable failure reason
    UserID        uint64   `json:"user_id,omitempty"`        // caller id, when known
    Role          string   `json:"role,omitempty"`           // caller role, when known
    RequiredRoles []string `json:"required_roles,omitempty"` // allow-list that rejected the caller
    ResourceType  string   `json:"resource_type,omitempty"`  // entity kind for ownership denials
    ResourceID    uint64   `json:"resource_id,omitempty"`    // entity id for ownership denials
    Method        string   `json:"method,omitempty"`         // HTTP method
    Path          string   `json:"path,omitempty"`           // request path
    RemoteIP      string   `json:"remote_ip,omitempty"`      // originating network address
    UserAgent     string   `json:"user_agent,omitempty"`     // client user agent
    OccurredAt    string   `json:"occurred_at"`              // RFC3339 UTC timestamp
}
