package app

import (
	"github.com/vk/passgraph/internal/registry"
	"github.com/vk/passgraph/modules/blit"
	"github.com/vk/passgraph/modules/clearcolor"
	"github.com/vk/passgraph/modules/composite"
	"github.com/vk/passgraph/modules/gbuffer"
)

// coreModules is the definitive list of all pass modules that are compiled
// into the passgraph binary.
var coreModules = []registry.Module{
	&clearcolor.Module{},
	&gbuffer.Module{},
	&blit.Module{},
	&composite.Module{},
}
