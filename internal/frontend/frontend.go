// Package frontend defines the host interface that presents the machine to
// the user.
package frontend

import (
	"context"

	"github.com/retroenv/retrochip8/internal/machine"
)

// Frontend runs a booted machine until the user quits, the context is done
// or the program fails.
type Frontend interface {
	Run(ctx context.Context, m *machine.Machine) error
}
