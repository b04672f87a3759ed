// Package notifier delivers finished run reports to external channels.
package notifier

import (
	"github.com/newthinker/insiderlog/internal/config"
	"github.com/newthinker/insiderlog/internal/core"
)

// Notifier defines the interface for report delivery.
type Notifier interface {
	// Name returns the unique identifier for this notifier
	Name() string

	// Init initializes the notifier with configuration
	Init(cfg config.NotifierConfig) error

	// Send delivers one run report. page is the rendered HTML body.
	Send(report core.Report, page []byte) error
}
