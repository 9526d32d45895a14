// Package hcldoc reads and writes render graph documents in HCL.
//
// A document describes the swap chain, the passes (by registry kind and
// settings), the edges between their fields, the graph outputs and any
// resource overrides:
//
//	swapchain {
//	  width  = 1920
//	  height = 1080
//	}
//
//	pass "gbuf" {
//	  type = "gbuffer"
//	}
//
//	pass "present" {
//	  type     = "blit"
//	  settings = { filter = "point" }
//	}
//
//	edge {
//	  from     = "gbuf.albedo"
//	  to       = "present.src"
//	  viewport = [640, 360]
//	}
//
//	output "present.dst" {}
//
// Decoding produces a graph.Description; building the graph from it is
// left to graph.Import.
package hcldoc
