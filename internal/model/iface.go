package model

import (
	"context"

	"github.com/tinytelemetry/bitrunner/internal/hacknet"
)

// PlayerReader returns copies of the live player state.
type PlayerReader interface {
	Snapshot(ctx context.Context) (Player, error)
}

// PlayerActions are the mutations the overview and Hacknet pages can trigger.
type PlayerActions interface {
	Save(ctx context.Context) error
	KillScripts(ctx context.Context) (int, error)
	StartFocusing(ctx context.Context) error
	ToggleProgressBars(ctx context.Context) (bool, error)
	PurchaseNode(ctx context.Context) (int, error)
	Upgrade(ctx context.Context, index int, part hacknet.Part, m hacknet.PurchaseMultiplier) (UpgradeResult, error)
}

// HistoryReader reads recorded economy samples, newest first.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]Sample, error)
}

// GameAPI is the unified contract served over socket RPC and consumed by the TUI.
type GameAPI interface {
	PlayerReader
	PlayerActions
}
