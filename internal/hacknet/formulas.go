package hacknet

import "math"

// Part names an upgradable component of a node or server.
type Part string

const (
	PartLevel Part = "level"
	PartRam   Part = "ram"
	PartCores Part = "cores"
	PartCache Part = "cache"
)

// ParsePart maps a lower-case part name to a Part.
func ParsePart(s string) (Part, bool) {
	switch Part(s) {
	case PartLevel, PartRam, PartCores, PartCache:
		return Part(s), true
	}
	return "", false
}

// Infinite is returned for upgrades that are not possible (already maxed).
var Infinite = math.Inf(1)

func sanitizeCount(n int) int {
	if n < 1 {
		return 0
	}
	return n
}

// MoneyGainRate is the money per second produced by a Hacknet Node.
func (t NodeTable) MoneyGainRate(level, ram, cores int, mult float64) float64 {
	levelMult := float64(level) * t.MoneyGainPerLevel
	ramMult := math.Pow(1.035, float64(ram-1))
	coresMult := float64(cores+5) / 6
	return levelMult * ramMult * coresMult * mult
}

// LevelUpgradeCost is the cost of buying extra levels starting at level.
func (t NodeTable) LevelUpgradeCost(level, extra int, costMult float64) float64 {
	extra = sanitizeCount(extra)
	if extra == 0 {
		return 0
	}
	if level >= t.MaxLevel {
		return Infinite
	}
	total := 0.0
	curr := level
	for i := 0; i < extra; i++ {
		total += math.Pow(t.UpgradeLevelMult, float64(curr))
		curr++
	}
	return (t.LevelBaseCost / 2) * total * costMult
}

// RamUpgradeCost is the cost of doubling RAM extra times starting at ram.
func (t NodeTable) RamUpgradeCost(ram, extra int, costMult float64) float64 {
	extra = sanitizeCount(extra)
	if extra == 0 {
		return 0
	}
	if ram >= t.MaxRam {
		return Infinite
	}
	total := 0.0
	upgrades := math.Round(math.Log2(float64(ram)))
	curr := float64(ram)
	for i := 0; i < extra; i++ {
		total += curr * t.RamBaseCost * math.Pow(t.UpgradeRamMult, upgrades)
		curr *= 2
		upgrades++
	}
	return total * costMult
}

// CoreUpgradeCost is the cost of buying extra cores starting at cores.
func (t NodeTable) CoreUpgradeCost(cores, extra int, costMult float64) float64 {
	extra = sanitizeCount(extra)
	if extra == 0 {
		return 0
	}
	if cores >= t.MaxCores {
		return Infinite
	}
	total := 0.0
	curr := cores
	for i := 0; i < extra; i++ {
		total += t.CoreBaseCost * math.Pow(t.UpgradeCoreMult, float64(curr-1))
		curr++
	}
	return total * costMult
}

// PurchaseCost is the price of the n-th Hacknet Node (1-based).
func (t NodeTable) PurchaseCost(n int, costMult float64) float64 {
	if n <= 0 {
		return 0
	}
	return t.BaseCost * math.Pow(t.PurchaseNextMult, float64(n-1)) * costMult
}

// HashGainRate is the hashes per second produced by a Hacknet Server.
func (t ServerTable) HashGainRate(level int, ramUsed float64, maxRam, cores int, mult float64) float64 {
	if maxRam <= 0 {
		return 0
	}
	baseGain := t.HashesPerLevel * float64(level)
	ramMult := math.Pow(1.07, math.Log2(float64(maxRam)))
	coreMult := 1 + float64(cores-1)/5
	ramRatio := 1 - ramUsed/float64(maxRam)
	return baseGain * ramMult * coreMult * ramRatio * mult
}

// LevelUpgradeCost is the cost of buying extra server levels starting at level.
func (t ServerTable) LevelUpgradeCost(level, extra int, costMult float64) float64 {
	extra = sanitizeCount(extra)
	if extra == 0 {
		return 0
	}
	if level >= t.MaxLevel {
		return Infinite
	}
	total := 0.0
	curr := level
	for i := 0; i < extra; i++ {
		total += math.Pow(t.UpgradeLevelMult, float64(curr))
		curr++
	}
	return 10 * total * costMult
}

// RamUpgradeCost is the cost of doubling server RAM extra times.
func (t ServerTable) RamUpgradeCost(ram, extra int, costMult float64) float64 {
	extra = sanitizeCount(extra)
	if extra == 0 {
		return 0
	}
	if ram >= t.MaxRam {
		return Infinite
	}
	total := 0.0
	upgrades := math.Round(math.Log2(float64(ram)))
	curr := float64(ram)
	for i := 0; i < extra; i++ {
		total += curr * t.RamBaseCost * math.Pow(t.UpgradeRamMult, upgrades)
		curr *= 2
		upgrades++
	}
	return total * costMult
}

// CoreUpgradeCost is the cost of buying extra server cores.
func (t ServerTable) CoreUpgradeCost(cores, extra int, costMult float64) float64 {
	extra = sanitizeCount(extra)
	if extra == 0 {
		return 0
	}
	if cores >= t.MaxCores {
		return Infinite
	}
	total := 0.0
	curr := cores
	for i := 0; i < extra; i++ {
		total += math.Pow(t.UpgradeCoreMult, float64(curr-1)) * t.CoreBaseCost
		curr++
	}
	return total * costMult
}

// CacheUpgradeCost is the cost of raising the hash cache level. Cache
// upgrades ignore the player's cost multiplier.
func (t ServerTable) CacheUpgradeCost(cache, extra int) float64 {
	extra = sanitizeCount(extra)
	if extra == 0 {
		return 0
	}
	if cache >= t.MaxCache {
		return Infinite
	}
	total := 0.0
	curr := cache
	for i := 0; i < extra; i++ {
		total += math.Pow(t.UpgradeCacheMult, float64(curr-1)) * t.CacheBaseCost
		curr++
	}
	return total
}

// PurchaseCost is the price of the n-th Hacknet Server (1-based).
func (t ServerTable) PurchaseCost(n int, costMult float64) float64 {
	if n <= 0 {
		return 0
	}
	if n-1 >= t.MaxServers {
		return Infinite
	}
	return t.BaseCost * math.Pow(t.PurchaseMult, float64(n-1)) * costMult
}

// HashCapacity is the number of hashes a server with the given cache level stores.
func HashCapacity(cache int) float64 {
	return 32 * math.Pow(2, float64(cache))
}
