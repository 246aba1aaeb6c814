package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/bitrunner/internal/game"
)

const actionTimeout = 10 * time.Second

// actionDoneMsg reports the outcome of a game action.
type actionDoneMsg struct {
	text string
	err  error
}

// runAction runs fn off the update loop and reports back with actionDoneMsg.
func runAction(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		text, err := fn(ctx)
		return actionDoneMsg{text: text, err: err}
	}
}

// describeError turns game errors into status line text.
func describeError(err error) string {
	switch {
	case errors.Is(err, game.ErrInsufficientFunds):
		return "not enough money"
	case errors.Is(err, game.ErrMaxed):
		return "already maxed"
	case errors.Is(err, game.ErrUnknownNode):
		return "no such node"
	case errors.Is(err, game.ErrNoSaver):
		return "saving is not configured on the service"
	case errors.Is(err, context.DeadlineExceeded):
		return "service did not answer in time"
	default:
		return err.Error()
	}
}
