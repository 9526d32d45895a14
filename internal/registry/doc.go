// Package registry maps pass kinds, as they appear in graph documents, to
// the Go constructors that build them.
//
// Modules register their constructors at startup through the Module
// interface. The registry is then validated once so that a broken
// constructor fails the process before any document is loaded.
package registry
