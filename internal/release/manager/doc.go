// Package manager drives the prepare, branch and perform workflows. It runs the phases of a
// workflow in order, persists the completed-phase marker after every successful phase of a
// prepare run and resumes from that marker when asked to.
package manager
