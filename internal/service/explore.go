package service

import (
	"log/slog"

	"github.com/metroatlas/metroatlas-server/internal/color"
	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
	"github.com/metroatlas/metroatlas-server/internal/schema"
	"github.com/metroatlas/metroatlas-server/internal/session"
)

// plotAxes are the numeric columns the dashboard offers for scatter
// plots, in display order.
var plotAxes = []string{
	schema.ColOpenedYear,
	schema.ColNumberOfLines,
	schema.ColStations,
	schema.ColTotalMiles,
	schema.ColAnnualRidership,
	schema.ColCityPopulation,
}

// ExploreService builds the map and plot views over the active dataset.
type ExploreService struct {
	session *session.Session
	logger  *slog.Logger
}

// NewExploreService creates a new explore service.
func NewExploreService(sess *session.Session, logger *slog.Logger) *ExploreService {
	return &ExploreService{session: sess, logger: logger}
}

// MapPoint is one marker on the systems map.
type MapPoint struct {
	SystemID     string     `json:"systemId"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	Lat          float64    `json:"lat"`
	Lon          float64    `json:"lon"`
	Visited      string     `json:"visited"`
	VisitedColor color.RGBA `json:"visitedColor"`
	Era          string     `json:"era"`
	EraColor     color.RGBA `json:"eraColor"`
}

// MapPoints returns a marker for every row that has both coordinates.
// Rows without coordinates are counted but never rendered.
func (s *ExploreService) MapPoints() (points []MapPoint, skipped int, err error) {
	ds := s.session.Dataset()
	if ds == nil {
		return nil, 0, errors.NoDataset("no dataset loaded")
	}

	t := ds.Table
	for i := 0; i < t.NumRows(); i++ {
		lat, latOK := t.Cell(schema.ColLatitude, i).Float()
		lon, lonOK := t.Cell(schema.ColLongitude, i).Float()
		if !latOK || !lonOK {
			skipped++
			continue
		}

		visited := domain.ParseVisited(t.Cell(schema.ColVisited, i))
		opened := t.Cell(schema.ColOpenedYear, i)
		points = append(points, MapPoint{
			SystemID:     t.Cell(schema.ColSystemID, i).String(),
			City:         t.Cell(schema.ColCity, i).String(),
			Country:      t.Cell(schema.ColCountry, i).String(),
			Lat:          lat,
			Lon:          lon,
			Visited:      string(visited),
			VisitedColor: color.ForVisited(visited),
			Era:          color.OpenedEra(opened),
			EraColor:     color.ForOpenedYear(opened),
		})
	}
	return points, skipped, nil
}

// PlotSeries is the data for one scatter plot.
type PlotSeries struct {
	XColumn string    `json:"xColumn"`
	YColumn string    `json:"yColumn"`
	Labels  []string  `json:"labels"`
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
	Omitted int       `json:"omitted"`
}

// Axes lists the plottable columns present in the active dataset.
func (s *ExploreService) Axes() ([]string, error) {
	ds := s.session.Dataset()
	if ds == nil {
		return nil, errors.NoDataset("no dataset loaded")
	}

	var axes []string
	for _, col := range plotAxes {
		if ds.Table.Has(col) {
			axes = append(axes, col)
		}
	}
	return axes, nil
}

// Series extracts the points for an x/y column pair. Rows where either
// cell is not numeric are omitted and counted.
func (s *ExploreService) Series(xCol, yCol string) (*PlotSeries, error) {
	ds := s.session.Dataset()
	if ds == nil {
		return nil, errors.NoDataset("no dataset loaded")
	}

	t := ds.Table
	if !t.Has(xCol) || !t.Has(yCol) {
		return nil, errors.Validation("unknown plot column")
	}
	if !plottable(xCol) || !plottable(yCol) {
		return nil, errors.Validation("column is not plottable")
	}

	series := &PlotSeries{XColumn: xCol, YColumn: yCol}
	for i := 0; i < t.NumRows(); i++ {
		x, xOK := t.Cell(xCol, i).Float()
		y, yOK := t.Cell(yCol, i).Float()
		if !xOK || !yOK {
			series.Omitted++
			continue
		}
		series.Labels = append(series.Labels, t.Cell(schema.ColSystemID, i).String())
		series.X = append(series.X, x)
		series.Y = append(series.Y, y)
	}
	return series, nil
}

func plottable(col string) bool {
	for _, a := range plotAxes {
		if a == col {
			return true
		}
	}
	return false
}
