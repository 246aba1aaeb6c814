package model

import (
	"time"

	"github.com/tinytelemetry/bitrunner/internal/hacknet"
)

// Player is a point-in-time copy of the player aggregate.
// It is the canonical type for storage, transport (socket RPC, HTTP) and display.
type Player struct {
	HP    HP      `json:"hp"`
	Money float64 `json:"money"`

	Skills    Skills    `json:"skills"`
	Exp       Exp       `json:"exp"`
	Mults     Mults     `json:"mults"`
	NodeMults NodeMults `json:"nodeMults"`

	HacknetNodes   []hacknet.Node   `json:"hacknetNodes"`
	HacknetServers []hacknet.Server `json:"hacknetServers"`
	HashManager    HashManager      `json:"hashManager"`

	PurchasedServers      []string     `json:"purchasedServers"`
	Servers               []ServerInfo `json:"servers"`
	PurchasedServerLimit  int          `json:"purchasedServerLimit"`
	PurchasedServerMaxRam float64      `json:"purchasedServerMaxRam"`

	Gang        *Gang        `json:"gang,omitempty"`
	Bladeburner *Bladeburner `json:"bladeburner,omitempty"`

	CurrentWork *Work `json:"currentWork,omitempty"`
	Focus       bool  `json:"focus"`

	Jobs              map[string]string  `json:"jobs"`
	FactionReputation map[string]float64 `json:"factionReputation"`
	CompanyReputation map[string]float64 `json:"companyReputation"`

	BitNodeN       int            `json:"bitNodeN"`
	SourceFiles    map[int]int    `json:"sourceFiles"`
	BitNodeOptions BitNodeOptions `json:"bitNodeOptions"`

	Settings       Settings `json:"settings"`
	RunningScripts int      `json:"runningScripts"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// HP is current and maximum hit points.
type HP struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

// Skills are the player's stat levels.
type Skills struct {
	Hacking      int `json:"hacking"`
	Strength     int `json:"strength"`
	Defense      int `json:"defense"`
	Dexterity    int `json:"dexterity"`
	Agility      int `json:"agility"`
	Charisma     int `json:"charisma"`
	Intelligence int `json:"intelligence"`
}

// Exp is the experience behind each skill.
type Exp struct {
	Hacking      float64 `json:"hacking"`
	Strength     float64 `json:"strength"`
	Defense      float64 `json:"defense"`
	Dexterity    float64 `json:"dexterity"`
	Agility      float64 `json:"agility"`
	Charisma     float64 `json:"charisma"`
	Intelligence float64 `json:"intelligence"`
}

// Mults are the player's own multipliers (augmentations and the like).
type Mults struct {
	Hacking   float64 `json:"hacking"`
	Strength  float64 `json:"strength"`
	Defense   float64 `json:"defense"`
	Dexterity float64 `json:"dexterity"`
	Agility   float64 `json:"agility"`
	Charisma  float64 `json:"charisma"`

	HacknetNodeMoney        float64 `json:"hacknetNodeMoney"`
	HacknetNodePurchaseCost float64 `json:"hacknetNodePurchaseCost"`
	HacknetNodeLevelCost    float64 `json:"hacknetNodeLevelCost"`
	HacknetNodeRamCost      float64 `json:"hacknetNodeRamCost"`
	HacknetNodeCoreCost     float64 `json:"hacknetNodeCoreCost"`
}

// NodeMults are the multipliers imposed by the current BitNode.
type NodeMults struct {
	HackingLevelMultiplier   float64 `json:"hackingLevelMultiplier"`
	StrengthLevelMultiplier  float64 `json:"strengthLevelMultiplier"`
	DefenseLevelMultiplier   float64 `json:"defenseLevelMultiplier"`
	DexterityLevelMultiplier float64 `json:"dexterityLevelMultiplier"`
	AgilityLevelMultiplier   float64 `json:"agilityLevelMultiplier"`
	CharismaLevelMultiplier  float64 `json:"charismaLevelMultiplier"`

	HacknetNodeMoney      float64 `json:"hacknetNodeMoney"`
	PurchasedServerLimit  float64 `json:"purchasedServerLimit"`
	PurchasedServerMaxRam float64 `json:"purchasedServerMaxRam"`
}

// DefaultMults returns neutral player multipliers.
func DefaultMults() Mults {
	return Mults{
		Hacking: 1, Strength: 1, Defense: 1, Dexterity: 1, Agility: 1, Charisma: 1,
		HacknetNodeMoney:        1,
		HacknetNodePurchaseCost: 1,
		HacknetNodeLevelCost:    1,
		HacknetNodeRamCost:      1,
		HacknetNodeCoreCost:     1,
	}
}

// DefaultNodeMults returns neutral BitNode multipliers.
func DefaultNodeMults() NodeMults {
	return NodeMults{
		HackingLevelMultiplier:   1,
		StrengthLevelMultiplier:  1,
		DefenseLevelMultiplier:   1,
		DexterityLevelMultiplier: 1,
		AgilityLevelMultiplier:   1,
		CharismaLevelMultiplier:  1,
		HacknetNodeMoney:         1,
		PurchasedServerLimit:     1,
		PurchasedServerMaxRam:    1,
	}
}

// HashManager tracks the hash wallet fed by Hacknet Servers.
type HashManager struct {
	Hashes   float64 `json:"hashes"`
	Capacity float64 `json:"capacity"`
}

// ServerInfo is the part of a world server the overview needs.
type ServerInfo struct {
	Hostname          string  `json:"hostname"`
	HasAdminRights    bool    `json:"hasAdminRights"`
	BackdoorInstalled bool    `json:"backdoorInstalled"`
	PurchasedByPlayer bool    `json:"purchasedByPlayer"`
	MaxRam            float64 `json:"maxRam"`
}

// Gang is the player's gang, if one has been created.
type Gang struct {
	FactionName string       `json:"factionName"`
	Members     []GangMember `json:"members"`
	Respect     float64      `json:"respect"`
	WantedLevel float64      `json:"wantedLevel"`
	// MoneyGainRate is money per cycle.
	MoneyGainRate float64 `json:"moneyGainRate"`
}

// GangMember is one gang member and the task they are assigned.
type GangMember struct {
	Name string `json:"name"`
	Task string `json:"task"`
}

// WantedPenalty is the fraction of gains kept given the gang's wanted level.
func (g *Gang) WantedPenalty() float64 {
	if g.Respect+g.WantedLevel <= 0 {
		return 1
	}
	return g.Respect / (g.Respect + g.WantedLevel)
}

// Bladeburner holds the Bladeburner division state the overview shows.
type Bladeburner struct {
	Action *ActionIdentifier `json:"action,omitempty"`
}

// ActionIdentifier names a Bladeburner action.
type ActionIdentifier struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// BitNodeOptions are per-run overrides chosen when entering a BitNode.
type BitNodeOptions struct {
	// IntelligenceOverride caps the displayed intelligence when set.
	IntelligenceOverride *int `json:"intelligenceOverride,omitempty"`
}

// Settings are player-controlled options read by the overview.
type Settings struct {
	DisableOverviewProgressBars bool `json:"disableOverviewProgressBars"`
	// AutosaveInterval is in seconds; 0 disables autosave.
	AutosaveInterval int `json:"autosaveInterval"`
}

// SourceFileLvl returns the owned level of source file n (0 when missing).
func (p *Player) SourceFileLvl(n int) int {
	return p.SourceFiles[n]
}

// HasHacknetServers reports whether Hacknet Servers replace Hacknet Nodes.
func (p *Player) HasHacknetServers() bool {
	return p.SourceFileLvl(9) >= 3 || p.BitNodeN == 9
}

// Clone returns a deep copy of p.
func (p Player) Clone() Player {
	out := p
	out.HacknetNodes = append([]hacknet.Node(nil), p.HacknetNodes...)
	out.HacknetServers = append([]hacknet.Server(nil), p.HacknetServers...)
	out.PurchasedServers = append([]string(nil), p.PurchasedServers...)
	out.Servers = append([]ServerInfo(nil), p.Servers...)
	if p.Gang != nil {
		g := *p.Gang
		g.Members = append([]GangMember(nil), p.Gang.Members...)
		out.Gang = &g
	}
	if p.Bladeburner != nil {
		b := *p.Bladeburner
		if p.Bladeburner.Action != nil {
			a := *p.Bladeburner.Action
			b.Action = &a
		}
		out.Bladeburner = &b
	}
	if p.CurrentWork != nil {
		w := p.CurrentWork.Clone()
		out.CurrentWork = &w
	}
	if p.BitNodeOptions.IntelligenceOverride != nil {
		v := *p.BitNodeOptions.IntelligenceOverride
		out.BitNodeOptions.IntelligenceOverride = &v
	}
	out.Jobs = cloneMap(p.Jobs)
	out.FactionReputation = cloneMap(p.FactionReputation)
	out.CompanyReputation = cloneMap(p.CompanyReputation)
	out.SourceFiles = cloneMap(p.SourceFiles)
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Sample is one row of economy history.
type Sample struct {
	At         time.Time `json:"at"`
	Money      float64   `json:"money"`
	Hashes     float64   `json:"hashes"`
	Hacking    int       `json:"hacking"`
	Production float64   `json:"production"`
	HashRate   float64   `json:"hashRate"`
}

// UpgradeResult reports what an upgrade purchase bought.
type UpgradeResult struct {
	Index int          `json:"index"`
	Part  hacknet.Part `json:"part"`
	Count int          `json:"count"`
	Cost  float64      `json:"cost"`
}
