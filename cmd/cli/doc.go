// Package cli constructs the relman command-line interface, wiring the Cobra
// command hierarchy, the Viper backed configuration loader and structured
// zap logging around the release command group.
package cli
