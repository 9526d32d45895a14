// Package app contains the core application logic. It loads a graph
// document, runs the frame loop and hosts the optional health, metrics,
// editor and reload services around it, decoupled from any specific
// entrypoint like a CLI.
package app
