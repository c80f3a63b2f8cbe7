package ama

// SuppressionPolicy decides whether a flush reaches the network. It is built
// once from Config and safe for concurrent reads.
type SuppressionPolicy struct {
	ignoreUsers map[string]struct{}
	suppressAll bool
}

// NewSuppressionPolicy builds the policy from cfg.IgnoreUsers and cfg.SuppressSending.
func NewSuppressionPolicy(cfg Config) *SuppressionPolicy {
	users := make(map[string]struct{}, len(cfg.IgnoreUsers))
	for _, u := range cfg.IgnoreUsers {
		users[u] = struct{}{}
	}
	return &SuppressionPolicy{ignoreUsers: users, suppressAll: cfg.SuppressSending}
}

// ShouldSend returns false when sending is globally suppressed or userID is ignored.
func (p *SuppressionPolicy) ShouldSend(userID string) bool {
	if p == nil {
		return true
	}
	if p.suppressAll {
		return false
	}
	_, ignored := p.ignoreUsers[userID]
	return !ignored
}

// SuppressesAll reports whether sending is disabled for every user.
func (p *SuppressionPolicy) SuppressesAll() bool {
	return p != nil && p.suppressAll
}
