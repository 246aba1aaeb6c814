package game

import (
	"context"
	"fmt"

	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

// Save persists the current state through the configured Saver.
func (s *Service) Save(ctx context.Context) error {
	if s.saver == nil {
		return ErrNoSaver
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := s.saver.Save(ctx, snap); err != nil {
		return fmt.Errorf("game: save: %w", err)
	}
	s.mu.Lock()
	s.lastSaved = s.clk.Now()
	s.mu.Unlock()
	return nil
}

// KillScripts stops every running script and returns how many were killed.
func (s *Service) KillScripts(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	killed := s.st.RunningScripts
	s.st.RunningScripts = 0
	s.mu.Unlock()

	s.notify()
	return killed, nil
}

// StartFocusing puts the player's attention on their current work.
func (s *Service) StartFocusing(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.st.CurrentWork == nil {
		s.mu.Unlock()
		return fmt.Errorf("game: focus: not working")
	}
	s.st.Focus = true
	s.mu.Unlock()

	s.notify()
	return nil
}

// ToggleProgressBars flips the overview progress bar setting and returns
// whether bars are now shown.
func (s *Service) ToggleProgressBars(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	s.st.Settings.DisableOverviewProgressBars = !s.st.Settings.DisableOverviewProgressBars
	shown := !s.st.Settings.DisableOverviewProgressBars
	s.mu.Unlock()

	s.notify()
	return shown, nil
}

// PurchaseNode buys the next Hacknet Node, or Hacknet Server once those are
// unlocked, and returns its index.
func (s *Service) PurchaseNode(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	idx, err := s.purchaseLocked()
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	s.notify()
	return idx, nil
}

func (s *Service) purchaseLocked() (int, error) {
	p := &s.st
	costMult := p.Mults.HacknetNodePurchaseCost

	if p.HasHacknetServers() {
		n := len(p.HacknetServers) + 1
		cost := s.tables.Server.PurchaseCost(n, costMult)
		if cost == hacknet.Infinite {
			return 0, fmt.Errorf("game: purchase server %d: %w", n, ErrMaxed)
		}
		if cost > p.Money {
			return 0, fmt.Errorf("game: purchase server costs %.0f: %w", cost, ErrInsufficientFunds)
		}
		hostname := fmt.Sprintf("hacknet-server-%d", n-1)
		p.Money -= cost
		p.HacknetServers = append(p.HacknetServers, hacknet.NewServer(hostname))
		p.Servers = append(p.Servers, model.ServerInfo{
			Hostname:          hostname,
			HasAdminRights:    true,
			PurchasedByPlayer: true,
			MaxRam:            1,
		})
		p.HashManager.Capacity = s.hashCapacityLocked()
		return n - 1, nil
	}

	n := len(p.HacknetNodes) + 1
	cost := s.tables.Node.PurchaseCost(n, costMult)
	if cost > p.Money {
		return 0, fmt.Errorf("game: purchase node costs %.0f: %w", cost, ErrInsufficientFunds)
	}
	p.Money -= cost
	p.HacknetNodes = append(p.HacknetNodes, hacknet.NewNode(fmt.Sprintf("hacknet-node-%d", n-1)))
	return n - 1, nil
}

// Upgrade buys upgrades of part on the node or server at index. The purchase
// multiplier picks the count; MAX buys as many as the player can afford.
func (s *Service) Upgrade(ctx context.Context, index int, part hacknet.Part, m hacknet.PurchaseMultiplier) (model.UpgradeResult, error) {
	if err := ctx.Err(); err != nil {
		return model.UpgradeResult{}, err
	}
	s.mu.Lock()
	res, err := s.upgradeLocked(index, part, m)
	s.mu.Unlock()
	if err != nil {
		return model.UpgradeResult{}, err
	}
	s.notify()
	return res, nil
}

func (s *Service) upgradeLocked(index int, part hacknet.Part, m hacknet.PurchaseMultiplier) (model.UpgradeResult, error) {
	p := &s.st
	costMult := s.partCostMult(part)

	var (
		remaining int
		cost      func(k int) float64
		apply     func(k int)
	)
	if p.HasHacknetServers() {
		if index < 0 || index >= len(p.HacknetServers) {
			return model.UpgradeResult{}, fmt.Errorf("game: server %d: %w", index, ErrUnknownNode)
		}
		t := s.tables.Server
		sv := p.HacknetServers[index]
		if _, err := t.UpgradeCost(sv, part, 1, costMult); err != nil {
			return model.UpgradeResult{}, fmt.Errorf("game: %w", err)
		}
		remaining = t.Remaining(sv, part)
		cost = func(k int) float64 {
			c, _ := t.UpgradeCost(sv, part, k, costMult)
			return c
		}
		apply = func(k int) {
			p.HacknetServers[index] = t.Apply(sv, part, k)
			if part == hacknet.PartCache {
				p.HashManager.Capacity = s.hashCapacityLocked()
			}
			if part == hacknet.PartRam {
				s.syncServerRamLocked(p.HacknetServers[index])
			}
		}
	} else {
		if index < 0 || index >= len(p.HacknetNodes) {
			return model.UpgradeResult{}, fmt.Errorf("game: node %d: %w", index, ErrUnknownNode)
		}
		t := s.tables.Node
		n := p.HacknetNodes[index]
		if _, err := t.UpgradeCost(n, part, 1, costMult); err != nil {
			return model.UpgradeResult{}, fmt.Errorf("game: %w", err)
		}
		remaining = t.Remaining(n, part)
		cost = func(k int) float64 {
			c, _ := t.UpgradeCost(n, part, k, costMult)
			return c
		}
		apply = func(k int) { p.HacknetNodes[index] = t.Apply(n, part, k) }
	}

	if remaining == 0 {
		return model.UpgradeResult{}, fmt.Errorf("game: upgrade %s on %d: %w", part, index, ErrMaxed)
	}
	count := hacknet.UpgradeCount(m, remaining, p.Money, cost)
	if count == 0 {
		return model.UpgradeResult{}, fmt.Errorf("game: upgrade %s on %d: %w", part, index, ErrInsufficientFunds)
	}
	total := cost(count)
	if total > p.Money {
		return model.UpgradeResult{}, fmt.Errorf("game: upgrade %s x%d costs %.0f: %w", part, count, total, ErrInsufficientFunds)
	}

	p.Money -= total
	apply(count)
	return model.UpgradeResult{Index: index, Part: part, Count: count, Cost: total}, nil
}

// QuoteUpgrade prices count upgrades of part starting from a level, without
// touching state. It backs the HTTP cost endpoint.
func (s *Service) QuoteUpgrade(servers bool, part hacknet.Part, from, count int) (float64, error) {
	if count <= 0 {
		return 0, nil
	}
	s.mu.RLock()
	costMult := s.partCostMult(part)
	s.mu.RUnlock()

	if servers {
		sv := hacknet.NewServer("quote")
		switch part {
		case hacknet.PartLevel:
			sv.Level = from
		case hacknet.PartRam:
			sv.MaxRam = from
		case hacknet.PartCores:
			sv.Cores = from
		case hacknet.PartCache:
			sv.Cache = from
		}
		return s.tables.Server.UpgradeCost(sv, part, count, costMult)
	}

	n := hacknet.NewNode("quote")
	switch part {
	case hacknet.PartLevel:
		n.Level = from
	case hacknet.PartRam:
		n.Ram = from
	case hacknet.PartCores:
		n.Cores = from
	}
	return s.tables.Node.UpgradeCost(n, part, count, costMult)
}

func (s *Service) partCostMult(part hacknet.Part) float64 {
	m := s.st.Mults
	switch part {
	case hacknet.PartLevel:
		return m.HacknetNodeLevelCost
	case hacknet.PartRam:
		return m.HacknetNodeRamCost
	case hacknet.PartCores:
		return m.HacknetNodeCoreCost
	default:
		return 1
	}
}

func (s *Service) syncServerRamLocked(sv hacknet.Server) {
	for i := range s.st.Servers {
		if s.st.Servers[i].Hostname == sv.Hostname {
			s.st.Servers[i].MaxRam = float64(sv.MaxRam)
			return
		}
	}
}
