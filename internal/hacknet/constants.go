package hacknet

// NodeTable holds the tuning constants for Hacknet Nodes.
type NodeTable struct {
	MoneyGainPerLevel float64 `yaml:"money-gain-per-level"`

	BaseCost      float64 `yaml:"base-cost"`
	LevelBaseCost float64 `yaml:"level-base-cost"`
	RamBaseCost   float64 `yaml:"ram-base-cost"`
	CoreBaseCost  float64 `yaml:"core-base-cost"`

	PurchaseNextMult float64 `yaml:"purchase-next-mult"`
	UpgradeLevelMult float64 `yaml:"upgrade-level-mult"`
	UpgradeRamMult   float64 `yaml:"upgrade-ram-mult"`
	UpgradeCoreMult  float64 `yaml:"upgrade-core-mult"`

	MaxLevel int `yaml:"max-level"`
	MaxRam   int `yaml:"max-ram"`
	MaxCores int `yaml:"max-cores"`
}

// ServerTable holds the tuning constants for Hacknet Servers.
type ServerTable struct {
	HashesPerLevel float64 `yaml:"hashes-per-level"`

	BaseCost      float64 `yaml:"base-cost"`
	RamBaseCost   float64 `yaml:"ram-base-cost"`
	CoreBaseCost  float64 `yaml:"core-base-cost"`
	CacheBaseCost float64 `yaml:"cache-base-cost"`

	PurchaseMult     float64 `yaml:"purchase-mult"`
	UpgradeLevelMult float64 `yaml:"upgrade-level-mult"`
	UpgradeRamMult   float64 `yaml:"upgrade-ram-mult"`
	UpgradeCoreMult  float64 `yaml:"upgrade-core-mult"`
	UpgradeCacheMult float64 `yaml:"upgrade-cache-mult"`

	MaxServers int `yaml:"max-servers"`

	MaxLevel int `yaml:"max-level"`
	MaxRam   int `yaml:"max-ram"`
	MaxCores int `yaml:"max-cores"`
	MaxCache int `yaml:"max-cache"`
}

// Tables bundles both tuning tables. It is loaded once at start-up and
// passed around by value.
type Tables struct {
	Node   NodeTable   `yaml:"node"`
	Server ServerTable `yaml:"server"`
}

// DefaultNodeTable returns the built-in Hacknet Node constants.
func DefaultNodeTable() NodeTable {
	return NodeTable{
		MoneyGainPerLevel: 1.5,

		BaseCost:      1000,
		LevelBaseCost: 500,
		RamBaseCost:   30e3,
		CoreBaseCost:  500e3,

		PurchaseNextMult: 1.085,
		UpgradeLevelMult: 1.004,
		UpgradeRamMult:   1.028,
		UpgradeCoreMult:  1.048,

		MaxLevel: 200,
		MaxRam:   64,
		MaxCores: 16,
	}
}

// DefaultServerTable returns the built-in Hacknet Server constants.
func DefaultServerTable() ServerTable {
	return ServerTable{
		HashesPerLevel: 0.001,

		BaseCost:      50e3,
		RamBaseCost:   200e3,
		CoreBaseCost:  1e6,
		CacheBaseCost: 10e6,

		PurchaseMult:     1.22,
		UpgradeLevelMult: 1.01,
		UpgradeRamMult:   1.04,
		UpgradeCoreMult:  1.055,
		UpgradeCacheMult: 1.085,

		MaxServers: 24,

		MaxLevel: 300,
		MaxRam:   8192,
		MaxCores: 128,
		MaxCache: 15,
	}
}

// DefaultTables returns both built-in tables.
func DefaultTables() Tables {
	return Tables{
		Node:   DefaultNodeTable(),
		Server: DefaultServerTable(),
	}
}

// PurchaseMultiplier is how many upgrades one purchase action buys.
// MultiplierMax buys as many as the player can afford.
type PurchaseMultiplier int

const (
	MultiplierMax PurchaseMultiplier = 0
	Multiplier1   PurchaseMultiplier = 1
	Multiplier5   PurchaseMultiplier = 5
	Multiplier10  PurchaseMultiplier = 10
)

// PurchaseMultipliers lists the multipliers in the order the UI cycles them.
var PurchaseMultipliers = []PurchaseMultiplier{Multiplier1, Multiplier5, Multiplier10, MultiplierMax}

func (m PurchaseMultiplier) String() string {
	switch m {
	case Multiplier1:
		return "x1"
	case Multiplier5:
		return "x5"
	case Multiplier10:
		return "x10"
	case MultiplierMax:
		return "MAX"
	default:
		return "x?"
	}
}

// ParsePurchaseMultiplier accepts "x1", "x5", "x10" or "MAX".
func ParsePurchaseMultiplier(s string) (PurchaseMultiplier, bool) {
	for _, m := range PurchaseMultipliers {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}
