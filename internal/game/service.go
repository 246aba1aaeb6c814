// Package game owns the mutable player state and advances it in cycles.
package game

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

// Saver persists a player snapshot.
type Saver interface {
	Save(ctx context.Context, p model.Player) error
}

// Service guards the player aggregate. Readers get deep copies; writers go
// through the action methods or Process.
type Service struct {
	mu     sync.RWMutex
	tables hacknet.Tables
	clk    Clock
	st     model.Player

	lastProcessed time.Time
	lastSaved     time.Time

	saver    Saver
	onChange func()
}

// Option configures a Service.
type Option func(*Service)

// WithSaver enables Save and autosave.
func WithSaver(s Saver) Option {
	return func(svc *Service) { svc.saver = s }
}

// WithChangeNotifier is called, outside the lock, after every action that
// mutates state. Servers hook a broadcaster Emit here so viewers do not wait
// for the next poll.
func WithChangeNotifier(fn func()) Option {
	return func(svc *Service) { svc.onChange = fn }
}

// NewService wraps an initial player state.
func NewService(tables hacknet.Tables, clk Clock, initial model.Player, opts ...Option) *Service {
	if clk == nil {
		clk = RealClock{}
	}
	now := clk.Now()
	svc := &Service{
		tables:        tables,
		clk:           clk,
		st:            initial.Clone(),
		lastProcessed: now,
		lastSaved:     now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.st.HashManager.Capacity = svc.hashCapacityLocked()
	svc.st.UpdatedAt = now
	return svc
}

// Tables returns the tuning tables the service prices against.
func (s *Service) Tables() hacknet.Tables {
	return s.tables
}

// Snapshot returns a deep copy of the current player state.
func (s *Service) Snapshot(ctx context.Context) (model.Player, error) {
	if err := ctx.Err(); err != nil {
		return model.Player{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Clone(), nil
}

// Process runs every whole cycle elapsed since the previous call and returns
// how many ran. Partial cycles carry over.
func (s *Service) Process() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	cycles := int(now.Sub(s.lastProcessed) / model.CycleInterval)
	if cycles <= 0 {
		return 0
	}
	s.processLocked(cycles)
	s.lastProcessed = s.lastProcessed.Add(time.Duration(cycles) * model.CycleInterval)
	s.st.UpdatedAt = now
	return cycles
}

// Run calls Process every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = model.CycleInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Process()
		}
	}
}

// RunAutosave saves whenever the player's autosave interval has elapsed since
// the last save. An interval of 0 disables autosave until it changes.
func (s *Service) RunAutosave(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.mu.RLock()
			interval := time.Duration(s.st.Settings.AutosaveInterval) * time.Second
			due := interval > 0 && s.clk.Now().Sub(s.lastSaved) >= interval
			s.mu.RUnlock()
			if !due {
				continue
			}
			if err := s.Save(ctx); err != nil {
				log.Printf("game: autosave failed: %v", err)
			}
		}
	}
}

func (s *Service) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Service) processLocked(cycles int) {
	secs := float64(cycles*model.MilliPerCycle) / 1000
	p := &s.st

	nodeMult := p.Mults.HacknetNodeMoney * p.NodeMults.HacknetNodeMoney
	for i := range p.HacknetNodes {
		n := &p.HacknetNodes[i]
		gain := s.tables.Node.Production(*n, nodeMult) * secs
		n.TotalMoneyGenerated += gain
		n.OnlineSeconds += secs
		p.Money += gain
	}

	var hashes float64
	for i := range p.HacknetServers {
		sv := &p.HacknetServers[i]
		gain := s.tables.Server.Production(*sv, p.Mults.HacknetNodeMoney) * secs
		sv.TotalHashes += gain
		sv.OnlineSeconds += secs
		hashes += gain
	}
	if hashes > 0 {
		p.HashManager.Hashes = min(p.HashManager.Hashes+hashes, p.HashManager.Capacity)
	}

	if p.Gang != nil {
		p.Money += p.Gang.MoneyGainRate * float64(cycles)
	}

	s.processWorkLocked(cycles)
}

func (s *Service) processWorkLocked(cycles int) {
	p := &s.st
	w := p.CurrentWork
	if w == nil {
		return
	}
	ms := float64(cycles * model.MilliPerCycle)

	switch w.Kind {
	case model.WorkCrime:
		c := w.Crime
		c.UnitCompleted += ms
		// Crimes repeat until the player stops.
		for c.Time > 0 && c.UnitCompleted >= c.Time {
			c.UnitCompleted -= c.Time
		}
	case model.WorkClass:
		c := w.Class
		c.CyclesWorked += cycles
		s.gainExpLocked(c.Stat, c.ExpPerCycle*float64(cycles))
	case model.WorkCreateProgram:
		c := w.CreateProgram
		c.UnitCompleted += ms
		if c.UnitCompleted >= c.UnitNeeded {
			p.CurrentWork = nil
		}
	case model.WorkGrafting:
		g := w.Grafting
		g.UnitCompleted += ms
		if g.UnitCompleted >= g.UnitNeeded {
			p.CurrentWork = nil
		}
	case model.WorkFaction:
		f := w.Faction
		if p.FactionReputation == nil {
			p.FactionReputation = make(map[string]float64)
		}
		p.FactionReputation[f.FactionName] += f.ReputationRate * float64(cycles)
	case model.WorkCompany:
		c := w.Company
		if _, ok := p.Jobs[c.CompanyName]; !ok {
			return
		}
		if p.CompanyReputation == nil {
			p.CompanyReputation = make(map[string]float64)
		}
		p.CompanyReputation[c.CompanyName] += c.ReputationRate * float64(cycles)
	}
}

// gainExpLocked adds exp to one stat and recomputes its level.
func (s *Service) gainExpLocked(stat string, exp float64) {
	if exp <= 0 {
		return
	}
	p := &s.st
	switch stat {
	case "hacking":
		p.Exp.Hacking += exp
		p.Skills.Hacking = model.CalculateSkill(p.Exp.Hacking, p.Mults.Hacking*p.NodeMults.HackingLevelMultiplier)
	case "strength":
		p.Exp.Strength += exp
		p.Skills.Strength = model.CalculateSkill(p.Exp.Strength, p.Mults.Strength*p.NodeMults.StrengthLevelMultiplier)
	case "defense":
		p.Exp.Defense += exp
		p.Skills.Defense = model.CalculateSkill(p.Exp.Defense, p.Mults.Defense*p.NodeMults.DefenseLevelMultiplier)
	case "dexterity":
		p.Exp.Dexterity += exp
		p.Skills.Dexterity = model.CalculateSkill(p.Exp.Dexterity, p.Mults.Dexterity*p.NodeMults.DexterityLevelMultiplier)
	case "agility":
		p.Exp.Agility += exp
		p.Skills.Agility = model.CalculateSkill(p.Exp.Agility, p.Mults.Agility*p.NodeMults.AgilityLevelMultiplier)
	case "charisma":
		p.Exp.Charisma += exp
		p.Skills.Charisma = model.CalculateSkill(p.Exp.Charisma, p.Mults.Charisma*p.NodeMults.CharismaLevelMultiplier)
	case "intelligence":
		p.Exp.Intelligence += exp
		p.Skills.Intelligence = model.CalculateSkill(p.Exp.Intelligence, 1)
	}
}

func (s *Service) hashCapacityLocked() float64 {
	var total float64
	for _, sv := range s.st.HacknetServers {
		total += s.tables.Server.Capacity(sv)
	}
	return total
}
