package scene2d

// Scene2D is the complete 2D scene output for an SVG top-down renderer.
// Coordinates are meters east (x) and north (y) of Metadata.Origin.
type Scene2D struct {
	Metadata Metadata      `json:"metadata"`
	Site     Site2D        `json:"site"`
	Blocks   []Block2D     `json:"blocks"`
	Issues   []Issue2D     `json:"issues"`
	Heat     *Heat2D       `json:"heat,omitempty"`
	Summary  []TypeSummary `json:"summary"`
}

// Metadata holds plan-level summary data.
type Metadata struct {
	Project     string     `json:"project"`
	Origin      [2]float64 `json:"origin"` // [lng, lat]
	SiteAreaM2  float64    `json:"site_area_m2"`
	BlockCount  int        `json:"block_count"`
	IssueCount  int        `json:"issue_count"`
	Coverage    float64    `json:"coverage"` // placed block area / site area
	GeneratedAt string     `json:"generated_at"`
}

// Site2D is the site outline and any holes.
type Site2D struct {
	Boundary [][2]float64   `json:"boundary"`
	Holes    [][][2]float64 `json:"holes,omitempty"`
}

// Block2D describes a single placed block.
type Block2D struct {
	Index   int          `json:"index"`
	Type    string       `json:"type"`
	Label   string       `json:"label"`
	Color   string       `json:"color"`
	Center  [2]float64   `json:"center"`
	Polygon [][2]float64 `json:"polygon"`
	AreaM2  float64      `json:"area_m2"`
}

// Issue2D describes one validation finding.
type Issue2D struct {
	Kind     string         `json:"kind"`
	Blocks   []int          `json:"blocks"`
	Polygons [][][2]float64 `json:"polygons"`
	AreaM2   float64        `json:"area_m2,omitempty"`
}

// Heat2D is the heat field with values scaled to [0, 1].
type Heat2D struct {
	Min   float64  `json:"min"`
	Max   float64  `json:"max"`
	Cells []Cell2D `json:"cells"`
}

// Cell2D is one heat cell.
type Cell2D struct {
	Center  [2]float64   `json:"center"`
	Polygon [][2]float64 `json:"polygon"`
	Value   float64      `json:"value"`
}

// TypeSummary aggregates placed blocks per process type.
type TypeSummary struct {
	Type   string  `json:"type"`
	Count  int     `json:"count"`
	AreaM2 float64 `json:"area_m2"`
}
