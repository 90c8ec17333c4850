package telemetry

import (
	"context"

	"github.com/zer0-1s/GPTtrace/internal/metrics"
)

// EmitResponseFeatures records local text features of a completed response
// under the current exchange ID. No-op unless observation is enabled.
func EmitResponseFeatures(ctx context.Context, response string) {
	if !ObserveEnabled() {
		return
	}
	exchangeID, _ := ExchangeIDFromContext(ctx)
	f := metrics.CountFeatures(response)
	Emit("response_features", map[string]any{
		"exchange_id":      exchangeID,
		"features_version": "1",
		"response": map[string]any{
			"bytes":  f.Bytes,
			"runes":  f.Runes,
			"words":  f.Words,
			"lines":  f.Lines,
			"fences": f.Fences,
		},
	})
}
