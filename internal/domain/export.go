package domain

import "github.com/google/uuid"

// ExportRow is one flattened cafe in a catalogue export.
type ExportRow struct {
	CafeID    uuid.UUID
	Name      string
	ZipCode   string
	Stars     int
	Latitude  *float64
	Longitude *float64
	Vibe      Vibe
	Scores    VibeScores
}

// NewExportRow flattens c into an ExportRow. Scores is always complete.
func NewExportRow(c Cafe) ExportRow {
	row := ExportRow{
		CafeID:  c.ID,
		Name:    c.Name,
		ZipCode: c.ZipCode,
		Stars:   c.Stars,
		Vibe:    c.Vibe,
		Scores:  NewVibeScores(),
	}
	for v, n := range c.Scores {
		row.Scores[v] = n
	}
	if c.Coords != nil {
		lat, lon := c.Coords.Lat, c.Coords.Lon
		row.Latitude, row.Longitude = &lat, &lon
	}
	return row
}
