package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/exchange"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/heat"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/layout"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/pipeline"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/scene2d"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/snap"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/validation"
)

type generateRequest struct {
	Site   *geojson.Geometry `json:"site"`
	Types  []string          `json:"types"`
	Config *layout.Config    `json:"config"`
}

type generateResponse struct {
	Layout *geojson.FeatureCollection `json:"layout"`
	Stats  layout.Stats               `json:"stats"`
	Cached bool                       `json:"cached"`
}

type validateRequest struct {
	Site       *geojson.Geometry          `json:"site"`
	Blocks     *geojson.FeatureCollection `json:"blocks"`
	Thresholds validation.Thresholds      `json:"thresholds"`
}

type validateResponse struct {
	Issues *geojson.FeatureCollection `json:"issues"`
	Counts map[validation.Kind]int    `json:"counts"`
	Report *validation.Report         `json:"report"`
}

type heatRequest struct {
	Site       *geojson.Geometry `json:"site"`
	Sources    []orb.Point       `json:"sources"`
	CellM      float64           `json:"cell_m"`
	Catchments bool              `json:"catchments"`
}

type heatResponse struct {
	Cells      *geojson.FeatureCollection `json:"cells"`
	Min        float64                    `json:"min"`
	Max        float64                    `json:"max"`
	Mean       float64                    `json:"mean"`
	Cached     bool                       `json:"cached"`
	Catchments []heat.Catchment           `json:"catchments,omitempty"`
}

type snapRequest struct {
	Features *geojson.FeatureCollection `json:"features"`
	Options  snap.Options               `json:"options"`
	Close    bool                       `json:"close"`
}

type sceneRequest struct {
	Name       string                `json:"name"`
	Site       *geojson.Geometry     `json:"site"`
	Types      []string              `json:"types"`
	Config     *layout.Config        `json:"config"`
	Thresholds validation.Thresholds `json:"thresholds"`
	Sources    []orb.Point           `json:"sources"`
	CellM      float64               `json:"cell_m"`
}

type sceneResponse struct {
	Scene  *scene2d.Scene2D   `json:"scene"`
	Cache  map[string]bool    `json:"cache"`
	Timing map[string]float64 `json:"timing_ms"`
}

type exportRequest struct {
	Site   *geojson.Geometry          `json:"site"`
	Blocks *geojson.FeatureCollection `json:"blocks"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.cfg.Version,
	})
}

func (s *Server) handleCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, plant.DefaultCatalog())
}

func (s *Server) handleGenerate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid generate request", err)
	}
	site, err := sitePolygon(req.Site)
	if err != nil {
		return err
	}
	types, err := catalogTypes(req.Types)
	if err != nil {
		return err
	}
	cfg := layout.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}

	blocks, stats, hit, err := s.runner.Generate(c.Request().Context(), site, types, cfg)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, generateResponse{
		Layout: exchange.Export(site, blocks),
		Stats:  stats,
		Cached: hit,
	})
}

func (s *Server) handleValidate(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid validate request", err)
	}
	site, err := sitePolygon(req.Site)
	if err != nil {
		return err
	}
	blocks, err := blockList(req.Blocks)
	if err != nil {
		return err
	}

	issues, err := s.runner.Validate(c.Request().Context(), site, blocks, req.Thresholds)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, validateResponse{
		Issues: validation.IssueCollection(issues),
		Counts: validation.CountByKind(issues),
		Report: validation.IssuesReport(issues),
	})
}

func (s *Server) handleHeat(c echo.Context) error {
	var req heatRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid heat request", err)
	}
	site, err := sitePolygon(req.Site)
	if err != nil {
		return err
	}
	if req.CellM <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cell_m must be positive, got %v", req.CellM)
	}

	field, hit, err := s.runner.Heat(c.Request().Context(), site, req.Sources, req.CellM)
	if err != nil {
		return err
	}
	resp := heatResponse{
		Cells:  field.Collection(),
		Min:    field.Min,
		Max:    field.Max,
		Mean:   field.Mean,
		Cached: hit,
	}
	if req.Catchments {
		resp.Catchments = heat.Catchments(site, req.Sources)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSnap(c echo.Context) error {
	var req snapRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid snap request", err)
	}
	if req.Features == nil {
		return errors.New(errors.ErrCodeInvalidInput, "features are required")
	}
	out := snap.Collection(req.Features, req.Options)
	if req.Close {
		for _, f := range out.Features {
			f.Geometry = snap.Close(f.Geometry)
		}
	}
	return c.JSON(http.StatusOK, out)
}

// handleImport accepts GeoJSON, KML or WKT as the raw body. A positive
// snap_m query parameter snaps the shapes before they are split.
func (s *Server) handleImport(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return NewBadRequestError("reading request body", err)
	}
	fc, format, err := exchange.Parse(data)
	if err != nil {
		return err
	}

	var opt snap.Options
	if v := c.QueryParam("snap_m"); v != "" {
		opt.SpacingM, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return NewBadRequestError("snap_m must be a number", err)
		}
		opt.Orthogonal = c.QueryParam("orthogonal") == "true"
	}
	l := exchange.Prepare(fc, opt)
	return c.JSON(http.StatusOK, map[string]any{
		"format":  format,
		"layout":  exchange.Export(l.Site, l.Blocks),
		"sources": l.Sources,
	})
}

func (s *Server) handleExport(c echo.Context) error {
	var req exportRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid export request", err)
	}
	site, err := sitePolygon(req.Site)
	if err != nil {
		return err
	}
	blocks, err := blockList(req.Blocks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exchange.Export(site, blocks))
}

// sitePolygon extracts the site from a polygon or the first polygon of a
// multipolygon.
// handleScene runs the whole pipeline and returns the result as a 2D scene.
func (s *Server) handleScene(c echo.Context) error {
	var req sceneRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid scene request", err)
	}
	site, err := sitePolygon(req.Site)
	if err != nil {
		return err
	}
	types, err := catalogTypes(req.Types)
	if err != nil {
		return err
	}
	p := &pipeline.Project{
		Name:       req.Name,
		Site:       site,
		Types:      types,
		Generation: layout.DefaultConfig(),
		Thresholds: req.Thresholds,
		Sources:    req.Sources,
		HeatCellM:  req.CellM,
	}
	if req.Config != nil {
		p.Generation = *req.Config
	}

	res, err := s.runner.Run(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sceneResponse{
		Scene:  scene2d.Assemble2D(p.Name, site, types, res.Blocks, res.Issues, res.Heat),
		Cache:  res.Cache,
		Timing: res.Timing,
	})
}

func sitePolygon(g *geojson.Geometry) (orb.Polygon, error) {
	if g == nil || g.Coordinates == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "site is required")
	}
	switch geom := g.Geometry().(type) {
	case orb.Polygon:
		if len(geom) > 0 && len(geom[0]) >= 4 {
			return geom, nil
		}
	case orb.MultiPolygon:
		if len(geom) > 0 && len(geom[0]) > 0 && len(geom[0][0]) >= 4 {
			return geom[0], nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidGeometry, "site must be a polygon with at least three corners")
}

func blockList(fc *geojson.FeatureCollection) ([]plant.Block, error) {
	if fc == nil {
		return nil, nil
	}
	blocks := make([]plant.Block, 0, len(fc.Features))
	for i, f := range fc.Features {
		b, ok := plant.BlockFromFeature(f)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "block %d is not a polygon", i)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// catalogTypes returns the named catalog entries in catalog order, or the
// enabled defaults when ids is empty.
func catalogTypes(ids []string) ([]plant.ProcessType, error) {
	cat := plant.DefaultCatalog()
	if len(ids) == 0 {
		return cat.Enabled(), nil
	}
	if unknown := cat.SetEnabled(ids); len(unknown) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown process types: %v", unknown)
	}
	return cat.Enabled(), nil
}
