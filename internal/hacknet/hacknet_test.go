package hacknet

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestDefaultTables(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	if tables.Node.MaxLevel != 200 || tables.Node.MaxRam != 64 || tables.Node.MaxCores != 16 {
		t.Fatalf("unexpected node caps: %+v", tables.Node)
	}
	if tables.Server.MaxServers != 24 || tables.Server.MaxCache != 15 {
		t.Fatalf("unexpected server caps: %+v", tables.Server)
	}
	if err := tables.Validate(); err != nil {
		t.Fatalf("default tables invalid: %v", err)
	}
}

func TestNodeCosts(t *testing.T) {
	t.Parallel()

	n := DefaultNodeTable()

	if got := n.PurchaseCost(1, 1); !almostEqual(got, 1000) {
		t.Fatalf("PurchaseCost(1) = %v, want 1000", got)
	}
	if got := n.PurchaseCost(2, 1); !almostEqual(got, 1085) {
		t.Fatalf("PurchaseCost(2) = %v, want 1085", got)
	}
	if got := n.PurchaseCost(0, 1); got != 0 {
		t.Fatalf("PurchaseCost(0) = %v, want 0", got)
	}
	if got := n.RamUpgradeCost(1, 1, 1); !almostEqual(got, 30e3) {
		t.Fatalf("RamUpgradeCost(1) = %v, want 30000", got)
	}
	if got := n.CoreUpgradeCost(1, 1, 1); !almostEqual(got, 500e3) {
		t.Fatalf("CoreUpgradeCost(1) = %v, want 500000", got)
	}
	if got := n.LevelUpgradeCost(1, 1, 1); !almostEqual(got, 250*1.004) {
		t.Fatalf("LevelUpgradeCost(1) = %v, want %v", got, 250*1.004)
	}
	if got := n.LevelUpgradeCost(n.MaxLevel, 1, 1); !math.IsInf(got, 1) {
		t.Fatalf("LevelUpgradeCost at max = %v, want +Inf", got)
	}
	if got := n.LevelUpgradeCost(1, 0, 1); got != 0 {
		t.Fatalf("LevelUpgradeCost with no levels = %v, want 0", got)
	}

	one := n.LevelUpgradeCost(10, 1, 1)
	five := n.LevelUpgradeCost(10, 5, 1)
	if five <= one {
		t.Fatalf("five levels (%v) should cost more than one (%v)", five, one)
	}
}

func TestNodeMoneyGainRate(t *testing.T) {
	t.Parallel()

	n := DefaultNodeTable()
	if got := n.MoneyGainRate(1, 1, 1, 1); !almostEqual(got, 1.5) {
		t.Fatalf("MoneyGainRate(1,1,1) = %v, want 1.5", got)
	}
	base := n.MoneyGainRate(10, 1, 1, 1)
	if withCores := n.MoneyGainRate(10, 1, 7, 1); !almostEqual(withCores, base*2) {
		t.Fatalf("7 cores should double production: %v vs %v", withCores, base)
	}
}

func TestServerCostsAndRates(t *testing.T) {
	t.Parallel()

	s := DefaultServerTable()
	if got := s.PurchaseCost(1, 1); !almostEqual(got, 50e3) {
		t.Fatalf("PurchaseCost(1) = %v, want 50000", got)
	}
	if got := s.PurchaseCost(s.MaxServers+1, 1); !math.IsInf(got, 1) {
		t.Fatalf("PurchaseCost past cap = %v, want +Inf", got)
	}
	if got := s.CacheUpgradeCost(1, 1); !almostEqual(got, 10e6) {
		t.Fatalf("CacheUpgradeCost(1) = %v, want 1e7", got)
	}
	if got := s.CacheUpgradeCost(s.MaxCache, 1); !math.IsInf(got, 1) {
		t.Fatalf("CacheUpgradeCost at max = %v, want +Inf", got)
	}
	if got := s.HashGainRate(1, 0, 1, 1, 1); !almostEqual(got, 0.001) {
		t.Fatalf("HashGainRate(1) = %v, want 0.001", got)
	}
	if got := s.HashGainRate(10, 1, 1, 1, 1); got != 0 {
		t.Fatalf("fully used RAM should produce nothing, got %v", got)
	}
	if got := HashCapacity(1); got != 64 {
		t.Fatalf("HashCapacity(1) = %v, want 64", got)
	}
}

func TestRemainingAndApply(t *testing.T) {
	t.Parallel()

	nt := DefaultNodeTable()
	n := NewNode("hacknet-node-0")
	if got := nt.Remaining(n, PartRam); got != 6 {
		t.Fatalf("Remaining ram doublings = %d, want 6", got)
	}
	n = nt.Apply(n, PartRam, 10)
	if n.Ram != nt.MaxRam {
		t.Fatalf("ram = %d, want clamped to %d", n.Ram, nt.MaxRam)
	}
	n = nt.Apply(n, PartLevel, 500)
	if n.Level != nt.MaxLevel {
		t.Fatalf("level = %d, want clamped to %d", n.Level, nt.MaxLevel)
	}
	if _, err := nt.UpgradeCost(n, PartCache, 1, 1); err == nil {
		t.Fatal("expected error for cache upgrade on a node")
	}

	st := DefaultServerTable()
	s := NewServer("hacknet-server-0")
	if got := st.Capacity(s); got != 64 {
		t.Fatalf("capacity = %v, want 64", got)
	}
	s = st.Apply(s, PartCache, 100)
	if s.Cache != st.MaxCache {
		t.Fatalf("cache = %d, want %d", s.Cache, st.MaxCache)
	}
}

func TestMaxAffordable(t *testing.T) {
	t.Parallel()

	linear := func(k int) float64 { return float64(k) * 10 }

	tests := []struct {
		name      string
		remaining int
		money     float64
		want      int
	}{
		{"cannot afford one", 10, 5, 0},
		{"exact", 10, 30, 3},
		{"between", 10, 35, 3},
		{"everything", 10, 1000, 10},
		{"nothing left", 0, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxAffordable(tt.remaining, tt.money, linear); got != tt.want {
				t.Fatalf("MaxAffordable(%d, %v) = %d, want %d", tt.remaining, tt.money, got, tt.want)
			}
		})
	}
}

func TestUpgradeCount(t *testing.T) {
	t.Parallel()

	linear := func(k int) float64 { return float64(k) }
	if got := UpgradeCount(Multiplier10, 4, 0, linear); got != 4 {
		t.Fatalf("x10 with 4 remaining = %d, want 4", got)
	}
	if got := UpgradeCount(Multiplier5, 100, 0, linear); got != 5 {
		t.Fatalf("x5 = %d, want 5", got)
	}
	if got := UpgradeCount(MultiplierMax, 100, 42.5, linear); got != 42 {
		t.Fatalf("MAX = %d, want 42", got)
	}
}

func TestParsePurchaseMultiplier(t *testing.T) {
	t.Parallel()

	for _, m := range PurchaseMultipliers {
		got, ok := ParsePurchaseMultiplier(m.String())
		if !ok || got != m {
			t.Fatalf("round trip of %v failed: %v %v", m, got, ok)
		}
	}
	if _, ok := ParsePurchaseMultiplier("x3"); ok {
		t.Fatal("x3 should not parse")
	}
}

func TestLoadTables(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("empty path keeps defaults", func(t *testing.T) {
		got, err := LoadTables("")
		if err != nil {
			t.Fatalf("LoadTables: %v", err)
		}
		if got != DefaultTables() {
			t.Fatalf("expected defaults, got %+v", got)
		}
	})

	t.Run("override layers on defaults", func(t *testing.T) {
		path := filepath.Join(dir, "tuning.yml")
		body := "node:\n  max-level: 100\nserver:\n  purchase-mult: 1.5\n"
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := LoadTables(path)
		if err != nil {
			t.Fatalf("LoadTables: %v", err)
		}
		if got.Node.MaxLevel != 100 {
			t.Fatalf("max-level = %d, want 100", got.Node.MaxLevel)
		}
		if got.Node.BaseCost != 1000 {
			t.Fatalf("base-cost = %v, want default 1000", got.Node.BaseCost)
		}
		if got.Server.PurchaseMult != 1.5 {
			t.Fatalf("purchase-mult = %v, want 1.5", got.Server.PurchaseMult)
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yml")
		if err := os.WriteFile(path, []byte("node:\n  base-cost: -1\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadTables(path); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTables(filepath.Join(dir, "nope.yml")); err == nil {
			t.Fatal("expected read error")
		}
	})
}
