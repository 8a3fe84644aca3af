package gazetteer

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/quake-impact-aggregator/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cityFile = `# name	ccode	lat	lon	population
Calapan	PH	13.41	121.18	145786
Batangas	PH	13.76	121.06	351437
Puerto Galera	PH	13.50	120.95	41763

Lubang	PH	13.86	120.12	30330
`

// stepLayer reports stronger shaking east of 121°E and nothing north of 14°N.
type stepLayer struct{}

func (stepLayer) ValueAt(lat, lon float64) (float64, bool) {
	if lat > 14 {
		return 0, false
	}
	if lon >= 121 {
		return 7.5, true
	}
	return 5.0, true
}

func writeCityFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cities.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	g := New(slog.Default())

	set, err := g.Load(writeCityFile(t, cityFile))
	require.NoError(t, err)

	cs, ok := set.(*citySet)
	require.True(t, ok)
	assert.Len(t, cs.cities, 4, "comments and blank lines are skipped")
	assert.Equal(t, "Calapan", cs.cities[0].name)
	assert.Equal(t, 145786, cs.cities[0].population)
}

func TestLoadErrors(t *testing.T) {
	g := New(slog.Default())

	t.Run("missing file", func(t *testing.T) {
		_, err := g.Load(filepath.Join(t.TempDir(), "nope.txt"))
		require.Error(t, err)
	})

	t.Run("wrong field count", func(t *testing.T) {
		_, err := g.Load(writeCityFile(t, "Calapan\tPH\t13.41\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 1")
	})

	t.Run("bad latitude", func(t *testing.T) {
		_, err := g.Load(writeCityFile(t, "Calapan\tPH\tnorth\t121.18\t145786\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "latitude")
	})

	t.Run("bad population", func(t *testing.T) {
		_, err := g.Load(writeCityFile(t, "Calapan\tPH\t13.41\t121.18\tmany\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "population")
	})
}

func TestCityTableTopCities(t *testing.T) {
	g := New(slog.Default())
	set, err := g.Load(writeCityFile(t, cityFile))
	require.NoError(t, err)

	table, err := set.CityTable(stepLayer{})
	require.NoError(t, err)

	top, err := table.TopCities(3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	// Strongest shaking first; population breaks the MMI tie.
	assert.Equal(t, "Batangas", top[0].Name)
	assert.Equal(t, 7.5, top[0].MMI)
	assert.Equal(t, "Calapan", top[1].Name)
	assert.Equal(t, 7.5, top[1].MMI)
	assert.Equal(t, "Puerto Galera", top[2].Name)
	assert.Equal(t, 5.0, top[2].MMI)
}

func TestCityTableExcludesCitiesOutsideGrid(t *testing.T) {
	g := New(slog.Default())
	set, err := g.Load(writeCityFile(t, "Vigan\tPH\t17.57\t120.39\t53879\n"))
	require.NoError(t, err)

	table, err := set.CityTable(stepLayer{})
	require.NoError(t, err)

	top, err := table.TopCities(10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestCityTableNilLayer(t *testing.T) {
	g := New(slog.Default())
	set, err := g.Load(writeCityFile(t, cityFile))
	require.NoError(t, err)

	_, err = set.CityTable(nil)
	require.Error(t, err)
}

func TestTopCitiesCountClamp(t *testing.T) {
	g := New(slog.Default())
	set, err := g.Load(writeCityFile(t, cityFile))
	require.NoError(t, err)
	table, err := set.CityTable(stepLayer{})
	require.NoError(t, err)

	all, err := table.TopCities(100)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = table.TopCities(-1)
	require.Error(t, err)
}

var _ report.Gazetteer = (*FileGazetteer)(nil)
