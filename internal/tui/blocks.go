package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/bitrunner/internal/format"
	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

// overviewWidth is the inner width of the overview sidebar.
const overviewWidth = 30

// skillRow describes one skill line of the overview and its progress bar.
type skillRow struct {
	label string
	color lipgloss.Color
	level func(p *model.Player) int
	exp   func(p *model.Player) float64
	// mult is the combined player and BitNode level multiplier.
	mult func(p *model.Player) float64
}

var combatRows = []skillRow{
	{
		label: "Str", color: ColorCombat,
		level: func(p *model.Player) int { return p.Skills.Strength },
		exp:   func(p *model.Player) float64 { return p.Exp.Strength },
		mult:  func(p *model.Player) float64 { return p.Mults.Strength * p.NodeMults.StrengthLevelMultiplier },
	},
	{
		label: "Def", color: ColorCombat,
		level: func(p *model.Player) int { return p.Skills.Defense },
		exp:   func(p *model.Player) float64 { return p.Exp.Defense },
		mult:  func(p *model.Player) float64 { return p.Mults.Defense * p.NodeMults.DefenseLevelMultiplier },
	},
	{
		label: "Dex", color: ColorCombat,
		level: func(p *model.Player) int { return p.Skills.Dexterity },
		exp:   func(p *model.Player) float64 { return p.Exp.Dexterity },
		mult:  func(p *model.Player) float64 { return p.Mults.Dexterity * p.NodeMults.DexterityLevelMultiplier },
	},
	{
		label: "Agi", color: ColorCombat,
		level: func(p *model.Player) int { return p.Skills.Agility },
		exp:   func(p *model.Player) float64 { return p.Exp.Agility },
		mult:  func(p *model.Player) float64 { return p.Mults.Agility * p.NodeMults.AgilityLevelMultiplier },
	},
}

var hackRow = skillRow{
	label: "Hack", color: ColorHack,
	level: func(p *model.Player) int { return p.Skills.Hacking },
	exp:   func(p *model.Player) float64 { return p.Exp.Hacking },
	mult:  func(p *model.Player) float64 { return p.Mults.Hacking * p.NodeMults.HackingLevelMultiplier },
}

var chaRow = skillRow{
	label: "Cha", color: ColorCha,
	level: func(p *model.Player) int { return p.Skills.Charisma },
	exp:   func(p *model.Player) float64 { return p.Exp.Charisma },
	mult:  func(p *model.Player) float64 { return p.Mults.Charisma * p.NodeMults.CharismaLevelMultiplier },
}

var intRow = skillRow{
	label: "Int", color: ColorInt,
	level: func(p *model.Player) int { return p.Skills.Intelligence },
	exp:   func(p *model.Player) float64 { return p.Exp.Intelligence },
	mult:  func(*model.Player) float64 { return 1 },
}

// skillRows lists every skill row in display order.
func skillRows() []skillRow {
	rows := []skillRow{hackRow}
	rows = append(rows, combatRows...)
	return append(rows, chaRow, intRow)
}

// dataRow lays label and value out on one line, value right-aligned.
func dataRow(label, value string) string {
	gap := overviewWidth - lipgloss.Width(label) - lipgloss.Width(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value
}

func hpText(p *model.Player) string {
	return dataRow("HP", format.HP(p.HP.Current)+" / "+format.HP(p.HP.Max))
}

func moneyText(p *model.Player) string {
	return dataRow("Money", format.Money(p.Money))
}

func skillText(row skillRow, p *model.Player) string {
	if row.label == intRow.label {
		return dataRow(row.label, intelligenceValue(p))
	}
	return dataRow(row.label, format.Skill(row.level(p)))
}

// intelligenceValue shows the BitNode cap, marked with *, when it is lower
// than the real skill.
func intelligenceValue(p *model.Player) string {
	if o := p.BitNodeOptions.IntelligenceOverride; o != nil && *o < p.Skills.Intelligence {
		return format.Skill(*o) + "*"
	}
	return format.Skill(p.Skills.Intelligence)
}

// hiddenHosts never count towards the hacked servers block.
var hiddenHosts = map[string]bool{
	"home":         true,
	"run4theh111z": true,
	"I.I.I.I":      true,
	"avmnite-02h":  true,
	".":            true,
	"CSEC":         true,
	"The-Cave":     true,
	"w0r1d_d43m0n": true,
	"darkweb":      true,
}

func countsTowardsHacked(hostname string) bool {
	if hiddenHosts[hostname] {
		return false
	}
	return !strings.HasPrefix(hostname, "hacknet-server") && !strings.HasPrefix(hostname, "neighbor")
}

func hackedServersText(p *model.Player) string {
	var total, admin, backdoor int
	for _, s := range p.Servers {
		if !countsTowardsHacked(s.Hostname) {
			continue
		}
		total++
		if s.HasAdminRights {
			admin++
		}
		if s.BackdoorInstalled {
			backdoor++
		}
	}
	return fmt.Sprintf("Hacked servers\nhacked: %d / %d\nbackdoored: %d / %d", admin, total, backdoor, total)
}

func hackingServersText(p *model.Player) string {
	if len(p.PurchasedServers) == 0 {
		return "Hacking servers\nno hacking servers yet!"
	}
	first := p.PurchasedServers[0]
	for _, s := range p.Servers {
		if s.Hostname != first {
			continue
		}
		return fmt.Sprintf("Hacking servers\nnumber: %d / %d\nstats: %s / %s",
			len(p.PurchasedServers), p.PurchasedServerLimit,
			format.Ram(s.MaxRam), format.Ram(p.PurchasedServerMaxRam))
	}
	// The purchased server is not in the world list yet.
	return "Hacking servers"
}

func hacknetText(p *model.Player, t hacknet.Tables) string {
	if p.HasHacknetServers() {
		return fmt.Sprintf("Hacknet servers\nnumber: %d / %d\nproduction: %s/s\nhashes: %s\ncapacity: %s",
			len(p.HacknetServers), t.Server.MaxServers,
			format.Hashes(p.HashRate(t.Server)),
			format.Hashes(p.HashManager.Hashes),
			format.Hashes(p.HashManager.Capacity))
	}
	return fmt.Sprintf("Hacknet nodes\nnumber: %d\nproduction: %s/s",
		len(p.HacknetNodes), format.Money(p.HacknetMoneyRate(t.Node)))
}

// gangText is empty for players without a gang.
func gangText(p *model.Player) string {
	g := p.Gang
	if g == nil {
		return ""
	}
	var tasks []string
	seen := make(map[string]bool, len(g.Members))
	for _, m := range g.Members {
		if seen[m.Task] {
			continue
		}
		seen[m.Task] = true
		tasks = append(tasks, m.Task)
	}
	return fmt.Sprintf("Gang\nname: %s\nmembers: %d / %d\ntasks: %s\nwanted level penalty: %s%%\nmoney gain: %s/s\nreputation: %s",
		g.FactionName,
		len(g.Members), model.MaximumGangMembers,
		strings.Join(tasks, ", "),
		format.NumberNoSuffix((1-g.WantedPenalty())*100, 2),
		format.Money(5*g.MoneyGainRate),
		format.Reputation(p.FactionReputation[g.FactionName]))
}

// cyclesPerSecond converts per-cycle rates to per-second ones.
const cyclesPerSecond = 1000 / model.MilliPerCycle

// workText describes the current work. It is empty when the player is idle,
// focused on the work, working a company shift without holding a job there,
// or when the work payload does not match its kind.
func workText(p *model.Player) string {
	w := p.CurrentWork
	if w == nil || p.Focus || w.Validate() != nil {
		return ""
	}

	var header, body string
	switch w.Kind {
	case model.WorkCrime:
		header = "You are attempting to " + w.Crime.CrimeType
		body = fmt.Sprintf("%.2f%%", w.Crime.Percent())
	case model.WorkClass:
		header = "You are " + w.Class.YouAreCurrently
		body = format.TimeElapsed(float64(w.Class.CyclesWorked * model.MilliPerCycle))
	case model.WorkCreateProgram:
		header = "Creating a program"
		body = fmt.Sprintf("%s %.2f%%", w.CreateProgram.ProgramName, w.CreateProgram.Percent())
	case model.WorkGrafting:
		header = "Grafting an Augmentation"
		body = fmt.Sprintf("%.2f%% done", w.Grafting.Percent())
	case model.WorkFaction:
		f := w.Faction
		header = "Working for " + f.FactionName
		body = repLines(p.FactionReputation[f.FactionName], f.ReputationRate)
	case model.WorkCompany:
		c := w.Company
		if _, ok := p.Jobs[c.CompanyName]; !ok {
			return ""
		}
		header = "Working at " + c.CompanyName
		body = repLines(p.CompanyReputation[c.CompanyName], c.ReputationRate)
	default:
		return ""
	}
	return header + "\n" + body + "\n[f] Focus"
}

func repLines(rep, ratePerCycle float64) string {
	return fmt.Sprintf("%s rep\n(%s / sec)", format.Reputation(rep), format.Reputation(ratePerCycle*cyclesPerSecond))
}

// bladeburnerText is empty unless a Bladeburner action is in progress.
func bladeburnerText(p *model.Player) string {
	if p.Bladeburner == nil || p.Bladeburner.Action == nil {
		return ""
	}
	a := p.Bladeburner.Action
	return fmt.Sprintf("Bladeburner:\n%s: %s", a.Type, a.Name)
}
