// Package releaseerrors defines the error taxonomy of release phases. Every error names the
// phase it came from and can be classified into a stable Kind with KindOf.
package releaseerrors
