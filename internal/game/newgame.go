package game

import (
	"github.com/tinytelemetry/bitrunner/internal/model"
)

// Purchased server caps before BitNode multipliers.
const (
	basePurchasedServerLimit  = 25
	basePurchasedServerMaxRam = 1 << 20
)

// worldServers is the starting network. Special servers are included so the
// overview's filtering has something to drop.
var worldServers = []string{
	"home",
	"n00dles", "foodnstuff", "sigma-cosmetics", "joesguns", "hong-fang-tea",
	"harakiri-sushi", "iron-gym", "nectar-net", "zer0", "max-hardware",
	"neo-net", "silver-helix", "phantasy", "omega-net", "the-hub",
	"CSEC", "avmnite-02h", "I.I.I.I", "run4theh111z", ".", "The-Cave",
	"w0r1d_d43m0n", "darkweb",
}

// NewPlayer returns the state of a fresh run in the given BitNode.
func NewPlayer(bitNode int, autosaveSeconds int) model.Player {
	servers := make([]model.ServerInfo, 0, len(worldServers))
	for _, h := range worldServers {
		servers = append(servers, model.ServerInfo{
			Hostname:       h,
			HasAdminRights: h == "home",
			MaxRam:         8,
		})
	}

	nodeMults := model.DefaultNodeMults()
	return model.Player{
		HP:        model.HP{Current: 10, Max: 10},
		Money:     1000,
		Skills:    model.Skills{Hacking: 1, Strength: 1, Defense: 1, Dexterity: 1, Agility: 1, Charisma: 1},
		Mults:     model.DefaultMults(),
		NodeMults: nodeMults,

		Servers:               servers,
		PurchasedServerLimit:  int(basePurchasedServerLimit * nodeMults.PurchasedServerLimit),
		PurchasedServerMaxRam: basePurchasedServerMaxRam * nodeMults.PurchasedServerMaxRam,

		Jobs:              map[string]string{},
		FactionReputation: map[string]float64{},
		CompanyReputation: map[string]float64{},

		BitNodeN:    bitNode,
		SourceFiles: map[int]int{},
		Settings:    model.Settings{AutosaveInterval: autosaveSeconds},
	}
}
