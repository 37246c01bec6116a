package linear

import "strings"

// WebhookPayload is the body Linear posts to a webhook endpoint.
// Type discriminates between url_verification handshakes, entity
// notifications ("Issue", "Comment", ...) and anything else we ignore.
type WebhookPayload struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	Challenge string `json:"challenge,omitempty"`
	Data      *Issue `json:"data,omitempty"`
}

// Issue is the subset of Linear's issue payload the bridge reads.
type Issue struct {
	Title       string  `json:"title"`
	Identifier  string  `json:"identifier"`
	Description string  `json:"description"`
	Labels      []Label `json:"labels"`
}

// Label is a named tag attached to an issue.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsIssueCreate reports whether the payload is an issue-creation
// notification. Everything else (updates, other entities, handshakes)
// is outside the bridge's interest.
func IsIssueCreate(p *WebhookPayload) bool {
	return p.Type == "Issue" && p.Action == "create"
}

// HasLabel reports whether the issue carries a label whose name matches
// target, case-insensitively.
func (i *Issue) HasLabel(target string) bool {
	for _, label := range i.Labels {
		if strings.EqualFold(label.Name, target) {
			return true
		}
	}
	return false
}
