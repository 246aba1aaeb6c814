package game

import "errors"

var (
	// ErrInsufficientFunds means the player cannot afford even one unit of the purchase.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrMaxed means the part, or the node count, is already at its cap.
	ErrMaxed = errors.New("already at maximum")
	// ErrUnknownNode means the node or server index does not exist.
	ErrUnknownNode = errors.New("unknown hacknet node")
	// ErrNoSaver is returned by Save when the service was built without persistence.
	ErrNoSaver = errors.New("saving is not configured")
)
