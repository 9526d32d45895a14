package hcldoc

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/passgraph/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// Encode renders a description in canonical form: swap chain first, then
// passes in registration order, then edges, outputs and overrides.
func Encode(desc *graph.Description) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	sc := root.AppendNewBlock("swapchain", nil).Body()
	sc.SetAttributeValue("width", cty.NumberUIntVal(uint64(desc.SwapChain.Width)))
	sc.SetAttributeValue("height", cty.NumberUIntVal(uint64(desc.SwapChain.Height)))
	sc.SetAttributeValue("color_format", cty.StringVal(desc.SwapChain.ColorFormat.String()))
	sc.SetAttributeValue("depth_format", cty.StringVal(desc.SwapChain.DepthFormat.String()))

	for _, pd := range desc.Passes {
		root.AppendNewline()
		body := root.AppendNewBlock("pass", []string{pd.Name}).Body()
		body.SetAttributeValue("type", cty.StringVal(pd.Kind))
		if len(pd.Settings) > 0 {
			body.SetAttributeValue("settings", cty.ObjectVal(pd.Settings))
		}
	}

	for _, ed := range desc.Edges {
		root.AppendNewline()
		body := root.AppendNewBlock("edge", nil).Body()
		body.SetAttributeValue("from", cty.StringVal(ed.Src))
		body.SetAttributeValue("to", cty.StringVal(ed.Dst))
		if !ed.Bounds.IsZero() {
			body.SetAttributeValue("viewport", cty.TupleVal([]cty.Value{
				cty.NumberUIntVal(uint64(ed.Bounds.Width)),
				cty.NumberUIntVal(uint64(ed.Bounds.Height)),
			}))
		}
	}

	if len(desc.Outputs) > 0 {
		root.AppendNewline()
	}
	for _, addr := range desc.Outputs {
		root.AppendNewBlock("output", []string{addr})
	}

	for _, od := range desc.Overrides {
		root.AppendNewline()
		body := root.AppendNewBlock("override", []string{od.Address}).Body()
		body.SetAttributeValue("label", cty.StringVal(od.Label))
		body.SetAttributeValue("width", cty.NumberUIntVal(uint64(od.Shape.Width)))
		body.SetAttributeValue("height", cty.NumberUIntVal(uint64(od.Shape.Height)))
		body.SetAttributeValue("format", cty.StringVal(od.Shape.Format.String()))
	}

	return hclwrite.Format(f.Bytes())
}
