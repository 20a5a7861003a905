package spec

import (
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
)

func TestLoadProjectYAML(t *testing.T) {
	s, err := LoadProject("testdata/yaml")
	require.NoError(t, err)

	assert.Equal(t, "0.1.0", s.SpecVersion)
	assert.Equal(t, "riverside-dairy", s.Name)
	assert.Equal(t, "testdata/yaml", s.Dir)

	site := s.Site.Polygon()
	require.Len(t, site, 1)
	assert.Len(t, site[0], 5)
	assert.True(t, site[0].Closed())

	assert.Equal(t, 12.0, s.Generation.PlacementMargin)
	assert.Equal(t, int64(7), s.Generation.Seed)
	assert.Equal(t, 20, s.Generation.MaxBlocks)
	assert.Equal(t, 6.0, s.Checks.MinAisle)
	assert.Equal(t, 18.0, s.Checks.TurnRadius)
	assert.True(t, s.Snap.Orthogonal)
	assert.Nil(t, s.Snap.Origin)
	assert.Len(t, s.Heat.Points(), 2)
}

func TestLoadProjectTOML(t *testing.T) {
	s, err := LoadProject("testdata/toml")
	require.NoError(t, err)

	assert.Equal(t, "hillside-bakery", s.Name)
	assert.Nil(t, s.Site.Polygon())
	assert.Equal(t, filepath.Join("testdata", "toml", "site.geojson"), s.ResolvePath(s.Site.File))
	assert.Equal(t, 8.0, s.Generation.PlacementMargin)
	assert.Equal(t, 2.5, s.Snap.SpacingM)
	require.NotNil(t, s.Snap.Origin)
	assert.Equal(t, [2]float64{-2.24, 53.48}, *s.Snap.Origin)
}

func TestLoadDefaultsGeneration(t *testing.T) {
	s, err := LoadProject("testdata/toml")
	require.NoError(t, err)
	// jitter and rotation are absent and keep their defaults.
	assert.Zero(t, s.Generation.Jitter)
	assert.Zero(t, s.Generation.Rotation)
}

func TestLoadProjectMissing(t *testing.T) {
	_, err := LoadProject("testdata/none")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = Load("testdata/none/plant.yaml")
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestBuildCatalog(t *testing.T) {
	s, err := LoadProject("testdata/yaml")
	require.NoError(t, err)

	cat, unknown := s.BuildCatalog()
	assert.Empty(t, unknown)
	require.NotNil(t, cat.ByID("processing"))
	assert.Equal(t, 70.0, cat.ByID("processing").Width)
	require.NotNil(t, cat.ByID("cip"))

	var ids []string
	for _, pt := range cat.Enabled() {
		ids = append(ids, pt.ID)
	}
	assert.Equal(t, []string{"receiving", "processing", "cip"}, ids)
}

func TestResolvePathAbsolute(t *testing.T) {
	s := &PlantSpec{Dir: "proj"}
	assert.Equal(t, "/abs/site.kml", s.ResolvePath("/abs/site.kml"))
	assert.Equal(t, filepath.Join("proj", "site.kml"), s.ResolvePath("site.kml"))
	assert.Equal(t, "", s.ResolvePath(""))
}

func TestSnapOptions(t *testing.T) {
	s, err := LoadProject("testdata/toml")
	require.NoError(t, err)
	opt := s.Snap.Options()
	assert.Equal(t, 2.5, opt.SpacingM)
	require.NotNil(t, opt.Origin)
	assert.Equal(t, orb.Point{-2.24, 53.48}, *opt.Origin)

	assert.Nil(t, SnapDef{SpacingM: 5}.Options().Origin)

	zero := [2]float64{0, 0}
	opt = SnapDef{SpacingM: 5, Origin: &zero}.Options()
	require.NotNil(t, opt.Origin)
	assert.Equal(t, orb.Point{0, 0}, *opt.Origin)
}
