// Package descriptor models the release descriptor shared by every release phase and
// persists it between runs so an interrupted release can resume from its last completed phase.
package descriptor
