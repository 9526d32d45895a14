// Package pass defines the contract between the render graph and the
// passes it schedules.
//
// A pass declares its fields through Reflect and does its work in Execute.
// The graph only reads the declared metadata; everything a pass does inside
// Execute is its own business. Optional capabilities (export, scene access,
// resize notification) are expressed as small interfaces a pass may
// implement.
package pass
