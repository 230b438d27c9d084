package engine

import (
	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/domain"
)

// Statuses reports the local copy status of each view. Failures to inspect a
// file are recorded on the entry rather than aborting the listing.
func (e *Engine) Statuses(ws *Workspace, views []domain.AssetView) []AssetStatus {
	out := make([]AssetStatus, 0, len(views))
	for _, v := range views {
		st, err := ws.syncer.Status(v.Kind, v.Path)
		entry := AssetStatus{View: v, Local: st}
		if err != nil {
			e.logger.Warn("failed to compute local status", "path", v.Path, "error", err)
			entry.Error = err.Error()
		}
		out = append(out, entry)
	}
	return out
}

// Summary counts enabled assets per kind.
type Summary struct {
	Kind    catalog.AssetKind `json:"kind"`
	Total   int               `json:"total"`
	Enabled int               `json:"enabled"`
}

// Summarize returns per-kind totals in catalog kind order.
func (e *Engine) Summarize(ws *Workspace) []Summary {
	res := ws.Session.Resolution()
	out := make([]Summary, 0, len(catalog.Kinds()))
	for _, kind := range catalog.Kinds() {
		out = append(out, Summary{
			Kind:    kind,
			Total:   len(res.Views(kind)),
			Enabled: res.EnabledCount(kind),
		})
	}
	return out
}
