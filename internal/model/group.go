package model

// GroupType is one of the proxy-group selector kinds a client UI
// understands.
type GroupType string

const (
	GroupSelect      GroupType = "select"
	GroupURLTest     GroupType = "url-test"
	GroupFallback    GroupType = "fallback"
	GroupLoadBalance GroupType = "load-balance"
	GroupSmart       GroupType = "smart"
	GroupSSID        GroupType = "ssid"
	GroupRelay       GroupType = "relay"
)

// LoadBalanceStrategy selects how GroupLoadBalance picks a node.
type LoadBalanceStrategy string

const (
	StrategyConsistentHashing LoadBalanceStrategy = "consistent-hashing"
	StrategyRoundRobin        LoadBalanceStrategy = "round-robin"
)

// Group is a user-declared proxy-group descriptor. Proxies holds raw
// matcher expressions (see internal/groupmatch), not resolved node
// names — resolution happens per-target at emission time against
// that target's emitted node list.
type Group struct {
	Name    string
	Type    GroupType
	Proxies []string

	URL       string
	Interval  int
	Tolerance int
	Timeout   int

	Lazy              bool
	DisableUDP        bool
	Strategy          LoadBalanceStrategy
	Persistent        bool
	EvaluateBeforeUse bool
	UsingProvider     []string
}
