// Package pdf exports certificate markup as paginated PDF documents through a
// headless rendering engine. The engine is a capability interface so that
// tests can substitute a fake without launching a browser.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/relabs-tech/certify/core/logger"
)

// ErrEngineUnavailable is returned when the rendering engine cannot be started.
var ErrEngineUnavailable = errors.New("render engine unavailable")

// DefaultTimeout bounds engine launch, page render and PDF export together.
const DefaultTimeout = 30 * time.Second

// Session is one exclusive browsing context of a rendering engine. A session
// is owned by a single invocation and must not be shared.
type Session interface {
	// Render loads html and prints it as a PDF document.
	Render(ctx context.Context, html string) ([]byte, error)
	// Close tears down the session and all engine resources behind it.
	Close() error
}

// Engine launches rendering sessions.
type Engine interface {
	Launch(ctx context.Context) (Session, error)
}

// Exporter converts markup into PDF bytes within a bounded duration. Each
// export launches its own session and tears it down on every exit path.
type Exporter struct {
	engine  Engine
	timeout time.Duration
}

// NewExporter returns an exporter on top of engine. A timeout of zero selects
// DefaultTimeout.
func NewExporter(engine Engine, timeout time.Duration) *Exporter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Exporter{engine: engine, timeout: timeout}
}

// Export renders html into a single PDF document.
func (e *Exporter) Export(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	session, err := e.engine.Launch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("pdf export: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s", ErrEngineUnavailable, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Default().WithError(err).Warn("could not close render session")
		}
	}()

	data, err := session.Render(ctx, html)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("pdf export: %w", ctx.Err())
		}
		return nil, fmt.Errorf("pdf export: %w", err)
	}
	return data, nil
}
