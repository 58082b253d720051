package services

import (
	"context"
	"sync"

	"github.com/epeers/riskflow/internal/models"
)

type warningContextKey struct{}

// WarningCollector accumulates non-fatal warnings during one analysis run.
// Identical warnings (same code and message) are recorded once.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []models.Warning
	seen     map[models.Warning]bool
}

// NewWarningContext returns a context carrying a fresh WarningCollector,
// plus a reference to the collector so the caller can read warnings later.
func NewWarningContext(ctx context.Context) (context.Context, *WarningCollector) {
	wc := &WarningCollector{seen: make(map[models.Warning]bool)}
	return context.WithValue(ctx, warningContextKey{}, wc), wc
}

// AddWarning appends a warning to the collector in ctx.
// If ctx has no collector, the call is a no-op.
func AddWarning(ctx context.Context, w models.Warning) {
	wc, ok := ctx.Value(warningContextKey{}).(*WarningCollector)
	if !ok || wc == nil {
		return
	}
	wc.Add(w)
}

// Add records w unless an identical warning is already present
func (wc *WarningCollector) Add(w models.Warning) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if wc.seen[w] {
		return
	}
	wc.seen[w] = true
	wc.warnings = append(wc.warnings, w)
}

// GetWarnings returns a copy of all collected warnings in insertion order.
func (wc *WarningCollector) GetWarnings() []models.Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if len(wc.warnings) == 0 {
		return nil
	}
	return append([]models.Warning(nil), wc.warnings...)
}
