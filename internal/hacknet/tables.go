package hacknet

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTables returns the default tables with any values from the YAML file at
// path layered on top. An empty path yields the defaults.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()
	if strings.TrimSpace(path) == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tables, fmt.Errorf("hacknet: read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return DefaultTables(), fmt.Errorf("hacknet: parse tuning file: %w", err)
	}
	if err := tables.Validate(); err != nil {
		return DefaultTables(), err
	}
	return tables, nil
}

// Validate rejects tables with non-positive costs, multipliers or caps.
func (t Tables) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	n := t.Node
	check("node.money-gain-per-level", n.MoneyGainPerLevel)
	check("node.base-cost", n.BaseCost)
	check("node.level-base-cost", n.LevelBaseCost)
	check("node.ram-base-cost", n.RamBaseCost)
	check("node.core-base-cost", n.CoreBaseCost)
	check("node.purchase-next-mult", n.PurchaseNextMult)
	check("node.upgrade-level-mult", n.UpgradeLevelMult)
	check("node.upgrade-ram-mult", n.UpgradeRamMult)
	check("node.upgrade-core-mult", n.UpgradeCoreMult)
	check("node.max-level", float64(n.MaxLevel))
	check("node.max-ram", float64(n.MaxRam))
	check("node.max-cores", float64(n.MaxCores))

	s := t.Server
	check("server.hashes-per-level", s.HashesPerLevel)
	check("server.base-cost", s.BaseCost)
	check("server.ram-base-cost", s.RamBaseCost)
	check("server.core-base-cost", s.CoreBaseCost)
	check("server.cache-base-cost", s.CacheBaseCost)
	check("server.purchase-mult", s.PurchaseMult)
	check("server.upgrade-level-mult", s.UpgradeLevelMult)
	check("server.upgrade-ram-mult", s.UpgradeRamMult)
	check("server.upgrade-core-mult", s.UpgradeCoreMult)
	check("server.upgrade-cache-mult", s.UpgradeCacheMult)
	check("server.max-servers", float64(s.MaxServers))
	check("server.max-level", float64(s.MaxLevel))
	check("server.max-ram", float64(s.MaxRam))
	check("server.max-cores", float64(s.MaxCores))
	check("server.max-cache", float64(s.MaxCache))

	if len(errs) > 0 {
		return fmt.Errorf("hacknet: invalid tuning tables: %w", errors.Join(errs...))
	}
	return nil
}
