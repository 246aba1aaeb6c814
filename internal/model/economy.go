package model

import "github.com/tinytelemetry/bitrunner/internal/hacknet"

// HacknetMoneyRate is the combined money per second of all Hacknet Nodes.
func (p *Player) HacknetMoneyRate(t hacknet.NodeTable) float64 {
	mult := p.Mults.HacknetNodeMoney * p.NodeMults.HacknetNodeMoney
	var total float64
	for _, n := range p.HacknetNodes {
		total += t.Production(n, mult)
	}
	return total
}

// HashRate is the combined hashes per second of all Hacknet Servers.
func (p *Player) HashRate(t hacknet.ServerTable) float64 {
	var total float64
	for _, s := range p.HacknetServers {
		total += t.Production(s, p.Mults.HacknetNodeMoney)
	}
	return total
}

// SampleOf summarises p into one history row.
func SampleOf(p Player, t hacknet.Tables) Sample {
	return Sample{
		At:         p.UpdatedAt,
		Money:      p.Money,
		Hashes:     p.HashManager.Hashes,
		Hacking:    p.Skills.Hacking,
		Production: p.HacknetMoneyRate(t.Node),
		HashRate:   p.HashRate(t.Server),
	}
}
