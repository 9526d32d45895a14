package hcldoc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/graph"
	"github.com/vk/passgraph/internal/resource"
	"github.com/zclconf/go-cty/cty"
)

// Extension is the file extension of graph documents.
const Extension = ".hcl"

// fileRoot is a struct used to decode all top-level blocks of a document.
type fileRoot struct {
	SwapChain *swapChainBlock  `hcl:"swapchain,block"`
	Passes    []*passBlock     `hcl:"pass,block"`
	Edges     []*edgeBlock     `hcl:"edge,block"`
	Outputs   []*outputBlock   `hcl:"output,block"`
	Overrides []*overrideBlock `hcl:"override,block"`
}

type swapChainBlock struct {
	Width       uint32 `hcl:"width,optional"`
	Height      uint32 `hcl:"height,optional"`
	ColorFormat string `hcl:"color_format,optional"`
	DepthFormat string `hcl:"depth_format,optional"`
}

type passBlock struct {
	Name     string    `hcl:"name,label"`
	Type     string    `hcl:"type"`
	Settings cty.Value `hcl:"settings,optional"`
}

type edgeBlock struct {
	From     string   `hcl:"from"`
	To       string   `hcl:"to"`
	Viewport []uint32 `hcl:"viewport,optional"`
}

type outputBlock struct {
	Address string `hcl:"address,label"`
}

type overrideBlock struct {
	Address string `hcl:"address,label"`
	Label   string `hcl:"label,optional"`
	Width   uint32 `hcl:"width"`
	Height  uint32 `hcl:"height"`
	Format  string `hcl:"format,optional"`
}

// Decode parses a document held in memory. filename is only used in
// diagnostics.
func Decode(src []byte, filename string) (*graph.Description, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decodeBody(file.Body, filename)
}

// LoadFile reads and decodes the document at path.
func LoadFile(ctx context.Context, path string) (*graph.Description, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading graph document.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	desc, err := decodeBody(file.Body, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Graph document loaded.", "path", path, "passes", len(desc.Passes), "edges", len(desc.Edges), "outputs", len(desc.Outputs))
	return desc, nil
}

// FindDocuments expands the given paths into a sorted list of document
// files. Directories are walked recursively; missing paths are skipped.
func FindDocuments(paths ...string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) == Extension {
				add(path)
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == Extension {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func decodeBody(body hcl.Body, filename string) (*graph.Description, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	desc := &graph.Description{SwapChain: resource.DefaultSwapChain()}
	if sc := root.SwapChain; sc != nil {
		if err := applySwapChain(&desc.SwapChain, sc); err != nil {
			return nil, fmt.Errorf("%s: swapchain: %w", filename, err)
		}
	}

	for _, pb := range root.Passes {
		settings, err := settingsMap(pb.Settings)
		if err != nil {
			return nil, fmt.Errorf("%s: pass %q: %w", filename, pb.Name, err)
		}
		desc.Passes = append(desc.Passes, graph.PassDescription{Name: pb.Name, Kind: pb.Type, Settings: settings})
	}

	for _, eb := range root.Edges {
		ed := graph.EdgeDescription{Src: eb.From, Dst: eb.To}
		switch len(eb.Viewport) {
		case 0:
		case 2:
			ed.Bounds = resource.Bounds{Width: eb.Viewport[0], Height: eb.Viewport[1]}
		default:
			return nil, fmt.Errorf("%s: edge %s -> %s: viewport must be [width, height]", filename, eb.From, eb.To)
		}
		desc.Edges = append(desc.Edges, ed)
	}

	for _, ob := range root.Outputs {
		desc.Outputs = append(desc.Outputs, ob.Address)
	}

	for _, ov := range root.Overrides {
		format, err := resource.ParseFormat(ov.Format)
		if err != nil {
			return nil, fmt.Errorf("%s: override %q: %w", filename, ov.Address, err)
		}
		label := ov.Label
		if label == "" {
			label = ov.Address
		}
		desc.Overrides = append(desc.Overrides, graph.OverrideDescription{
			Address: ov.Address,
			Label:   label,
			Shape:   resource.Shape{Width: ov.Width, Height: ov.Height, Format: format},
		})
	}
	return desc, nil
}

func applySwapChain(dst *resource.SwapChain, sc *swapChainBlock) error {
	if sc.Width > 0 {
		dst.Width = sc.Width
	}
	if sc.Height > 0 {
		dst.Height = sc.Height
	}
	if sc.ColorFormat != "" {
		f, err := resource.ParseFormat(sc.ColorFormat)
		if err != nil {
			return err
		}
		dst.ColorFormat = f
	}
	if sc.DepthFormat != "" {
		f, err := resource.ParseFormat(sc.DepthFormat)
		if err != nil {
			return err
		}
		if !f.IsDepth() {
			return fmt.Errorf("depth_format %q is not a depth format", sc.DepthFormat)
		}
		dst.DepthFormat = f
	}
	return nil
}

func settingsMap(v cty.Value) (map[string]cty.Value, error) {
	if v.Type() == cty.NilType || v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("settings must be an object, got %s", ty.FriendlyName())
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("settings must be known values")
	}
	return v.AsValueMap(), nil
}
