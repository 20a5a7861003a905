// Package plant defines the process catalog and placed blocks of a plant
// site layout.
package plant

// Feature roles carried in the "role" property of exported features.
const (
	RoleSite  = "site"
	RoleBlock = "block"
)

// ProcessType is one catalog entry: a rectangular process footprint.
type ProcessType struct {
	ID      string  `yaml:"id" toml:"id" json:"id" msgpack:"id"`
	Label   string  `yaml:"label" toml:"label" json:"label" msgpack:"label"`
	Width   float64 `yaml:"width" toml:"width" json:"width" msgpack:"width"`     // meters
	Height  float64 `yaml:"height" toml:"height" json:"height" msgpack:"height"` // meters
	Color   string  `yaml:"color" toml:"color" json:"color" msgpack:"color"`
	Enabled bool    `yaml:"enabled" toml:"enabled" json:"enabled" msgpack:"enabled"`
}

// Catalog is an ordered list of process types.
type Catalog []ProcessType

// DefaultCatalog returns the built-in process catalog. Every call returns a
// fresh copy, so toggling Enabled never leaks between callers.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "receiving", Label: "Receiving & Intake", Width: 30, Height: 20, Color: "#4e79a7", Enabled: true},
		{ID: "raw_store", Label: "Raw Material Store", Width: 40, Height: 30, Color: "#f28e2b", Enabled: true},
		{ID: "cold_store", Label: "Cold Store", Width: 35, Height: 25, Color: "#76b7b2", Enabled: true},
		{ID: "processing", Label: "Processing Hall", Width: 60, Height: 40, Color: "#e15759", Enabled: true},
		{ID: "packaging", Label: "Packaging", Width: 45, Height: 30, Color: "#59a14f", Enabled: true},
		{ID: "fg_warehouse", Label: "Finished Goods Warehouse", Width: 50, Height: 35, Color: "#edc948", Enabled: true},
		{ID: "utilities", Label: "Utilities", Width: 25, Height: 20, Color: "#b07aa1", Enabled: false},
		{ID: "wwtp", Label: "Wastewater Treatment", Width: 30, Height: 30, Color: "#9c755f", Enabled: false},
	}
}

// Enabled returns the enabled types in catalog order.
func (c Catalog) Enabled() []ProcessType {
	var out []ProcessType
	for _, t := range c {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// ByID returns the type with the given id, or nil if not found.
func (c Catalog) ByID(id string) *ProcessType {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}

// SetEnabled toggles the listed ids on and every other type off. Unknown ids
// are returned.
func (c Catalog) SetEnabled(ids []string) (unknown []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for i := range c {
		c[i].Enabled = want[c[i].ID]
		delete(want, c[i].ID)
	}
	for _, id := range ids {
		if want[id] {
			unknown = append(unknown, id)
			delete(want, id)
		}
	}
	return unknown
}

// MaxWidth returns the largest width among types, or 0 for none.
func MaxWidth(types []ProcessType) float64 {
	w := 0.0
	for _, t := range types {
		if t.Width > w {
			w = t.Width
		}
	}
	return w
}
