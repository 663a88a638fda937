// Package strategy turns a reactor into the work units an SCM phase acts on. With
// commit-by-project every module is its own unit; otherwise the reactor is handled as one
// unit rooted at the common base directory of its modules.
package strategy
