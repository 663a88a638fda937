// Package utils exposes helpers shared by the relman commands.
//
// ConfigurationLoader layers the embedded defaults, an optional configuration
// file and RELMAN_ environment variables through Viper. LoggerFactory builds the
// zap loggers used across the release engine, and CommandContextAccessor carries
// per-invocation values through cobra command contexts.
package utils
