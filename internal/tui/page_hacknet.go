package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/bitrunner/internal/broadcast"
	"github.com/tinytelemetry/bitrunner/internal/format"
	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

// hacknetRow is one node or server as the page lists it.
type hacknetRow struct {
	name       string
	level      int
	ram        int
	cores      int
	cache      int
	production float64
	// quotes holds the next purchase for each part at the current multiplier.
	quotes map[hacknet.Part]upgradeQuote
}

type upgradeQuote struct {
	count int
	cost  float64
}

// HacknetPage lists Hacknet Nodes (or Servers) and buys upgrades for the
// selected one. Its rows are re-derived on every broadcast.
type HacknetPage struct {
	overview *Overview
	actions  model.PlayerActions
	keys     KeyMap

	cursor  int
	multIdx int

	servers      bool
	money        float64
	purchaseCost float64
	rows         []hacknetRow

	unsub broadcast.Unsubscribe
}

func NewHacknetPage(overview *Overview, actions model.PlayerActions, keys KeyMap) *HacknetPage {
	return &HacknetPage{overview: overview, actions: actions, keys: keys}
}

func (h *HacknetPage) ID() string    { return "hacknet" }
func (h *HacknetPage) Title() string { return "Hacknet" }

// Init subscribes to the overview's broadcaster.
func (h *HacknetPage) Init() tea.Cmd {
	if h.unsub == nil {
		h.derive()
		h.unsub = h.overview.Bus().Subscribe(h.derive)
	}
	return nil
}

// Leave releases the subscription.
func (h *HacknetPage) Leave() {
	if h.unsub != nil {
		h.unsub()
		h.unsub = nil
	}
}

func (h *HacknetPage) multiplier() hacknet.PurchaseMultiplier {
	return hacknet.PurchaseMultipliers[h.multIdx]
}

func (h *HacknetPage) derive() {
	p := h.overview.Player()
	t := h.overview.Tables()
	m := h.multiplier()

	h.servers = p.HasHacknetServers()
	h.money = p.Money
	h.rows = h.rows[:0]

	if h.servers {
		h.purchaseCost = t.Server.PurchaseCost(len(p.HacknetServers)+1, p.Mults.HacknetNodePurchaseCost)
		for _, s := range p.HacknetServers {
			row := hacknetRow{
				name: s.Hostname, level: s.Level, ram: s.MaxRam, cores: s.Cores, cache: s.Cache,
				production: t.Server.Production(s, p.Mults.HacknetNodeMoney),
				quotes:     make(map[hacknet.Part]upgradeQuote, 4),
			}
			for _, part := range []hacknet.Part{hacknet.PartLevel, hacknet.PartRam, hacknet.PartCores, hacknet.PartCache} {
				remaining := t.Server.Remaining(s, part)
				mult := partCostMult(&p, part)
				cost := func(k int) float64 {
					c, _ := t.Server.UpgradeCost(s, part, k, mult)
					return c
				}
				row.quotes[part] = quoteUpgrade(m, remaining, p.Money, cost)
			}
			h.rows = append(h.rows, row)
		}
	} else {
		h.purchaseCost = t.Node.PurchaseCost(len(p.HacknetNodes)+1, p.Mults.HacknetNodePurchaseCost)
		mult := p.Mults.HacknetNodeMoney * p.NodeMults.HacknetNodeMoney
		for _, n := range p.HacknetNodes {
			row := hacknetRow{
				name: n.Name, level: n.Level, ram: n.Ram, cores: n.Cores,
				production: t.Node.Production(n, mult),
				quotes:     make(map[hacknet.Part]upgradeQuote, 3),
			}
			for _, part := range []hacknet.Part{hacknet.PartLevel, hacknet.PartRam, hacknet.PartCores} {
				remaining := t.Node.Remaining(n, part)
				costMult := partCostMult(&p, part)
				cost := func(k int) float64 {
					c, _ := t.Node.UpgradeCost(n, part, k, costMult)
					return c
				}
				row.quotes[part] = quoteUpgrade(m, remaining, p.Money, cost)
			}
			h.rows = append(h.rows, row)
		}
	}

	if h.cursor >= len(h.rows) {
		h.cursor = max(len(h.rows)-1, 0)
	}
}

// quoteUpgrade prices the purchase m would make. When nothing is affordable
// it quotes a single upgrade so the page can show what is needed.
func quoteUpgrade(m hacknet.PurchaseMultiplier, remaining int, money float64, cost func(k int) float64) upgradeQuote {
	if remaining == 0 {
		return upgradeQuote{cost: hacknet.Infinite}
	}
	count := hacknet.UpgradeCount(m, remaining, money, cost)
	if count == 0 {
		count = 1
	}
	return upgradeQuote{count: count, cost: cost(count)}
}

func partCostMult(p *model.Player, part hacknet.Part) float64 {
	switch part {
	case hacknet.PartLevel:
		return p.Mults.HacknetNodeLevelCost
	case hacknet.PartRam:
		return p.Mults.HacknetNodeRamCost
	case hacknet.PartCores:
		return p.Mults.HacknetNodeCoreCost
	default:
		return 1
	}
}

func (h *HacknetPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, nil
	}
	switch {
	case key.Matches(km, h.keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(km, h.keys.Down):
		if h.cursor < len(h.rows)-1 {
			h.cursor++
		}
	case key.Matches(km, h.keys.Multiplier):
		h.multIdx = (h.multIdx + 1) % len(hacknet.PurchaseMultipliers)
		h.derive()
	case key.Matches(km, h.keys.Buy):
		return h.buyCmd(), nil
	case key.Matches(km, h.keys.UpgradeLevel):
		return h.upgradeCmd(hacknet.PartLevel), nil
	case key.Matches(km, h.keys.UpgradeRam):
		return h.upgradeCmd(hacknet.PartRam), nil
	case key.Matches(km, h.keys.UpgradeCores):
		return h.upgradeCmd(hacknet.PartCores), nil
	case key.Matches(km, h.keys.UpgradeCache):
		if !h.servers {
			return nil, nil
		}
		return h.upgradeCmd(hacknet.PartCache), nil
	}
	return nil, nil
}

func (h *HacknetPage) unitName() string {
	if h.servers {
		return "server"
	}
	return "node"
}

func (h *HacknetPage) buyCmd() tea.Cmd {
	actions, unit := h.actions, h.unitName()
	return runAction(func(ctx context.Context) (string, error) {
		idx, err := actions.PurchaseNode(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("bought hacknet %s #%d", unit, idx), nil
	})
}

func (h *HacknetPage) upgradeCmd(part hacknet.Part) tea.Cmd {
	if len(h.rows) == 0 {
		return nil
	}
	actions, idx, m := h.actions, h.cursor, h.multiplier()
	return runAction(func(ctx context.Context) (string, error) {
		res, err := actions.Upgrade(ctx, idx, part, m)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("upgraded %s x%d on #%d for %s", res.Part, res.Count, res.Index, format.Money(res.Cost)), nil
	})
}

func (h *HacknetPage) View(width, height int) string {
	title := "Hacknet Nodes"
	if h.servers {
		title = "Hacknet Servers"
	}
	header := lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render(title) +
		mutedStyle.Render(fmt.Sprintf("   buy %s   money %s", h.multiplier(), format.Money(h.money)))

	buy := "n: purchase for " + format.Money(h.purchaseCost)
	if h.purchaseCost == hacknet.Infinite {
		buy = "server limit reached"
	}
	buyStyle := blockTextStyle
	if h.purchaseCost > h.money {
		buyStyle = mutedStyle
	}

	lines := []string{header, buyStyle.Render(buy), ""}
	if len(h.rows) == 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("no hacknet %ss yet!", h.unitName())))
		return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
	}

	lines = append(lines, mutedStyle.Render(h.tableHeader()))
	for i, row := range h.rows {
		line := h.tableRow(row)
		if i == h.cursor {
			line = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", h.quoteLine())

	chartHeight := height - len(lines) - 2
	if chartHeight >= 4 {
		lines = append(lines, "", h.renderChart(width, chartHeight))
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (h *HacknetPage) tableHeader() string {
	if h.servers {
		return fmt.Sprintf("  %-18s %5s %6s %5s %5s %14s", "server", "level", "ram", "cores", "cache", "hashes/s")
	}
	return fmt.Sprintf("  %-18s %5s %6s %5s %14s", "node", "level", "ram", "cores", "money/s")
}

func (h *HacknetPage) tableRow(row hacknetRow) string {
	if h.servers {
		return fmt.Sprintf("%-18s %5d %6s %5d %5d %14s", row.name, row.level, format.Ram(float64(row.ram)), row.cores, row.cache, format.Hashes(row.production))
	}
	return fmt.Sprintf("%-18s %5d %6s %5d %14s", row.name, row.level, format.Ram(float64(row.ram)), row.cores, format.Money(row.production))
}

// quoteLine prices each upgrade of the selected row.
func (h *HacknetPage) quoteLine() string {
	row := h.rows[h.cursor]
	parts := []hacknet.Part{hacknet.PartLevel, hacknet.PartRam, hacknet.PartCores}
	if h.servers {
		parts = append(parts, hacknet.PartCache)
	}
	var out []string
	for i, part := range parts {
		q := row.quotes[part]
		text := fmt.Sprintf("%d: %s MAXED", i+1, part)
		if q.cost != hacknet.Infinite {
			text = fmt.Sprintf("%d: %s +%d %s", i+1, part, q.count, format.Money(q.cost))
		}
		style := blockTextStyle
		if q.cost > h.money {
			style = mutedStyle
		}
		out = append(out, style.Render(text))
	}
	return strings.Join(out, "  ")
}

// renderChart draws production per node, one bar each.
func (h *HacknetPage) renderChart(width, height int) string {
	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(2),
		barchart.WithNoAxis(),
	)
	bar := lipgloss.NewStyle().Foreground(ColorGreen).Background(ColorGreen)
	if h.servers {
		bar = lipgloss.NewStyle().Foreground(ColorBlue).Background(ColorBlue)
	}
	selected := lipgloss.NewStyle().Foreground(ColorYellow).Background(ColorYellow)

	maxBars := max(width/3, 1)
	start := max(len(h.rows)-maxBars, 0)
	for i := start; i < len(h.rows); i++ {
		style := bar
		if i == h.cursor {
			style = selected
		}
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: h.rows[i].name, Value: h.rows[i].production, Style: style}},
		})
	}
	bc.Draw()
	return bc.View()
}
