package hacknet

import (
	"fmt"
	"math"
)

// Node is a Hacknet Node: it earns money directly.
type Node struct {
	Name                string  `json:"name"`
	Level               int     `json:"level"`
	Ram                 int     `json:"ram"`
	Cores               int     `json:"cores"`
	TotalMoneyGenerated float64 `json:"totalMoneyGenerated"`
	OnlineSeconds       float64 `json:"onlineSeconds"`
}

// NewNode returns a freshly purchased node.
func NewNode(name string) Node {
	return Node{Name: name, Level: 1, Ram: 1, Cores: 1}
}

// Server is a Hacknet Server: it produces hashes instead of money.
type Server struct {
	Hostname      string  `json:"hostname"`
	Level         int     `json:"level"`
	MaxRam        int     `json:"maxRam"`
	RamUsed       float64 `json:"ramUsed"`
	Cores         int     `json:"cores"`
	Cache         int     `json:"cache"`
	TotalHashes   float64 `json:"totalHashes"`
	OnlineSeconds float64 `json:"onlineSeconds"`
}

// NewServer returns a freshly purchased server.
func NewServer(hostname string) Server {
	return Server{Hostname: hostname, Level: 1, MaxRam: 1, Cores: 1, Cache: 1}
}

// Remaining is how many upgrades of part are left before the node is maxed.
func (t NodeTable) Remaining(n Node, part Part) int {
	switch part {
	case PartLevel:
		return max(0, t.MaxLevel-n.Level)
	case PartRam:
		return doublingsBetween(n.Ram, t.MaxRam)
	case PartCores:
		return max(0, t.MaxCores-n.Cores)
	default:
		return 0
	}
}

// UpgradeCost prices count upgrades of part on n.
func (t NodeTable) UpgradeCost(n Node, part Part, count int, costMult float64) (float64, error) {
	switch part {
	case PartLevel:
		return t.LevelUpgradeCost(n.Level, count, costMult), nil
	case PartRam:
		return t.RamUpgradeCost(n.Ram, count, costMult), nil
	case PartCores:
		return t.CoreUpgradeCost(n.Cores, count, costMult), nil
	default:
		return 0, fmt.Errorf("hacknet: nodes have no %q upgrade", part)
	}
}

// Apply returns n with count upgrades of part applied, clamped to the caps.
func (t NodeTable) Apply(n Node, part Part, count int) Node {
	switch part {
	case PartLevel:
		n.Level = min(t.MaxLevel, n.Level+count)
	case PartRam:
		for i := 0; i < count && n.Ram < t.MaxRam; i++ {
			n.Ram *= 2
		}
	case PartCores:
		n.Cores = min(t.MaxCores, n.Cores+count)
	}
	return n
}

// Production is the node's current money rate.
func (t NodeTable) Production(n Node, mult float64) float64 {
	return t.MoneyGainRate(n.Level, n.Ram, n.Cores, mult)
}

// Remaining is how many upgrades of part are left before the server is maxed.
func (t ServerTable) Remaining(s Server, part Part) int {
	switch part {
	case PartLevel:
		return max(0, t.MaxLevel-s.Level)
	case PartRam:
		return doublingsBetween(s.MaxRam, t.MaxRam)
	case PartCores:
		return max(0, t.MaxCores-s.Cores)
	case PartCache:
		return max(0, t.MaxCache-s.Cache)
	default:
		return 0
	}
}

// UpgradeCost prices count upgrades of part on s.
func (t ServerTable) UpgradeCost(s Server, part Part, count int, costMult float64) (float64, error) {
	switch part {
	case PartLevel:
		return t.LevelUpgradeCost(s.Level, count, costMult), nil
	case PartRam:
		return t.RamUpgradeCost(s.MaxRam, count, costMult), nil
	case PartCores:
		return t.CoreUpgradeCost(s.Cores, count, costMult), nil
	case PartCache:
		return t.CacheUpgradeCost(s.Cache, count), nil
	default:
		return 0, fmt.Errorf("hacknet: servers have no %q upgrade", part)
	}
}

// Apply returns s with count upgrades of part applied, clamped to the caps.
func (t ServerTable) Apply(s Server, part Part, count int) Server {
	switch part {
	case PartLevel:
		s.Level = min(t.MaxLevel, s.Level+count)
	case PartRam:
		for i := 0; i < count && s.MaxRam < t.MaxRam; i++ {
			s.MaxRam *= 2
		}
	case PartCores:
		s.Cores = min(t.MaxCores, s.Cores+count)
	case PartCache:
		s.Cache = min(t.MaxCache, s.Cache+count)
	}
	return s
}

// Production is the server's current hash rate.
func (t ServerTable) Production(s Server, mult float64) float64 {
	return t.HashGainRate(s.Level, s.RamUsed, s.MaxRam, s.Cores, mult)
}

// Capacity is the number of hashes the server's cache can hold.
func (t ServerTable) Capacity(s Server) float64 {
	return HashCapacity(s.Cache)
}

// MaxAffordable returns the largest k in [0, remaining] with cost(k) <= money.
// cost must be non-decreasing in k.
func MaxAffordable(remaining int, money float64, cost func(k int) float64) int {
	if remaining <= 0 || money < cost(1) {
		return 0
	}
	if cost(remaining) <= money {
		return remaining
	}
	lo, hi := 1, remaining
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if cost(mid) <= money {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// UpgradeCount resolves a purchase multiplier into a concrete upgrade count.
// For MultiplierMax it is the most the player can afford (possibly 0).
func UpgradeCount(m PurchaseMultiplier, remaining int, money float64, cost func(k int) float64) int {
	if m == MultiplierMax {
		return MaxAffordable(remaining, money, cost)
	}
	return min(int(m), remaining)
}

func doublingsBetween(from, to int) int {
	if from <= 0 || to <= from {
		return 0
	}
	return int(math.Round(math.Log2(float64(to) / float64(from))))
}
