// Package bom expands a quoted item into its bill of materials: the
// flat sheet-metal blanks, tube cuts and discrete accessories required
// to build it. Every material code the builder emits must exist in the
// registry whitelist; the builder fails closed otherwise.
package bom

// Material families used by the registry.
const (
	FamilySheet     = "sheet"
	FamilyTube      = "tube"
	FamilyAccessory = "accessory"
)

// MaterialInfo describes one authorized material code.
type MaterialInfo struct {
	Code        string
	Description string
	Family      string
}

// Registry is a closed whitelist of material codes. It is constructed
// once at process start and never mutated afterwards; the builder only
// reads from it.
type Registry struct {
	byCode map[string]MaterialInfo
}

// NewRegistry builds a registry from the given material infos.
func NewRegistry(infos ...MaterialInfo) *Registry {
	byCode := make(map[string]MaterialInfo, len(infos))
	for _, info := range infos {
		byCode[info.Code] = info
	}
	return &Registry{byCode: byCode}
}

// Authorized reports whether code belongs to the whitelist.
func (r *Registry) Authorized(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// Lookup returns the material info for code.
func (r *Registry) Lookup(code string) (MaterialInfo, bool) {
	info, ok := r.byCode[code]
	return info, ok
}

// Codes returns all authorized codes. Order is unspecified.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	return codes
}

// Accessory codes emitted by the builder.
const (
	AccessoryAdjustableFoot = "foot-adjustable"
	AccessoryDrainKit       = "drain-kit"
)

// DefaultRegistry returns the materials the shop currently works with.
func DefaultRegistry() *Registry {
	return NewRegistry(
		MaterialInfo{Code: "inox-304", Description: "Stainless sheet AISI 304", Family: FamilySheet},
		MaterialInfo{Code: "inox-430", Description: "Stainless sheet AISI 430", Family: FamilySheet},
		MaterialInfo{Code: "tube-30x30", Description: "Stainless tube 30x30x1.2mm", Family: FamilyTube},
		MaterialInfo{Code: "tube-40x40", Description: "Stainless tube 40x40x1.2mm", Family: FamilyTube},
		MaterialInfo{Code: AccessoryAdjustableFoot, Description: "Adjustable leveling foot", Family: FamilyAccessory},
		MaterialInfo{Code: AccessoryDrainKit, Description: "Basin drain kit 3.1/2\"", Family: FamilyAccessory},
	)
}
