package vi

import (
	"log/slog"
)

// LoggingHooks logs the progress of a run.
// Layers are logged every `every` layers, and always the last one
func LoggingHooks(logger *slog.Logger, every int) Hooks {
	if every < 1 {
		every = 1
	}
	return Hooks{
		OnLambdaMax: func(e LambdaMaxEvent) {
			logger.Debug("new maximum rate",
				"lambda_max", e.Rate,
				"automaton", e.Automaton,
				"state", e.State.Hash(),
				"action", e.Action.Hash(),
			)
		},
		OnDiscretized: func(e DiscretizationEvent) {
			logger.Info("discretized time horizon",
				"horizon", e.Horizon,
				"epsilon", e.Epsilon,
				"lambda_max", e.LambdaMax,
				"delta", e.Delta,
				"num_steps", e.NumSteps,
			)
		},
		OnDiscovered: func(e DiscoveryEvent) {
			hashes := make([]string, len(e.States))
			for i, s := range e.States {
				hashes[i] = s.Hash()
			}
			logger.Info("discovered states",
				"policy", e.Policy.String(),
				"count", len(e.States),
				"states", hashes,
			)
			if e.MissingSuccessors > 0 {
				logger.Warn("successors outside the discovered states read as probability 0",
					"missing", e.MissingSuccessors,
				)
			}
		},
		OnLayer: func(e LayerEvent) {
			if e.Index%every == 0 || e.Index == e.NumSteps-1 {
				logger.Debug("processed time layer", "layer", e.Index, "of", e.NumSteps-1)
			}
		},
		OnComplete: func(e CompleteEvent) {
			logger.Info("value iteration complete",
				"value", e.Value,
				"product_states", e.ProductStates,
				"duration", e.Duration,
			)
		},
	}
}
