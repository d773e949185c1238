package ibtracs

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Default season bounds for prepared datasets.
const (
	DefaultStartYear = 2005
	DefaultEndYear   = 2025
)

// Record is one storm fix from an IBTrACS "all list" export. Wind and
// pressure are NaN when the agency reported no value.
type Record struct {
	SID      string
	Season   int
	Number   int
	Basin    string
	Name     string
	ISOTime  string
	Lat      float64
	Lon      float64
	Wind     float64
	Pressure float64
}

// Stats mirrors the counters of the prep pipeline: rows read, rows left
// after dropping unparseable storm IDs, rows inside the season range,
// and first fixes kept.
type Stats struct {
	Original   int
	Cleaned    int
	Filtered   int
	FirstFixes int
}

// columns the reader needs from the export header.
var required = []string{"SID", "NAME", "NUMBER", "BASIN", "ISO_TIME", "LAT", "LON"}

// Prep reads an IBTrACS export and reduces it to the first fix of every
// storm within [startYear, endYear]:
//
//   - the season is the first four digits of the storm ID; rows whose
//     SID does not start with a year are dropped,
//   - rows with unparseable coordinates are dropped during the range
//     filter, after the cleaning counter,
//   - rows are ordered by (SID, NUMBER, ISO_TIME) so the earliest fix
//     comes first,
//   - one row is kept per (SID, NUMBER).
func Prep(r io.Reader, startYear, endYear int) ([]Record, Stats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, Stats{}, err
	}

	var stats Stats
	var recs []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Stats{}, fmt.Errorf("read row: %w", err)
		}
		stats.Original++

		sid, season, ok := parseSID(row, idx)
		if !ok {
			continue
		}
		stats.Cleaned++

		if season < startYear || season > endYear {
			continue
		}
		rec, ok := buildRecord(row, idx, sid, season)
		if !ok {
			continue
		}
		stats.Filtered++
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].SID != recs[j].SID {
			return recs[i].SID < recs[j].SID
		}
		if recs[i].Number != recs[j].Number {
			return recs[i].Number < recs[j].Number
		}
		return recs[i].ISOTime < recs[j].ISOTime
	})

	first := recs[:0]
	seen := make(map[string]bool)
	for _, rec := range recs {
		key := fmt.Sprintf("%s/%d", rec.SID, rec.Number)
		if seen[key] {
			continue
		}
		seen[key] = true
		first = append(first, rec)
	}
	stats.FirstFixes = len(first)

	return first, stats, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("input is missing column %s", name)
		}
	}
	return idx, nil
}

func rowField(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseSID is the cleaning stage: a row survives it when its storm ID
// starts with a four-digit season.
func parseSID(row []string, idx map[string]int) (sid string, season int, ok bool) {
	sid = rowField(row, idx, "SID")
	if len(sid) < 4 {
		return "", 0, false
	}
	season, err := strconv.Atoi(sid[:4])
	if err != nil {
		return "", 0, false
	}
	return sid, season, true
}

func buildRecord(row []string, idx map[string]int, sid string, season int) (Record, bool) {
	lat, errLat := strconv.ParseFloat(rowField(row, idx, "LAT"), 64)
	lon, errLon := strconv.ParseFloat(rowField(row, idx, "LON"), 64)
	if errLat != nil || errLon != nil {
		return Record{}, false
	}

	number, _ := strconv.Atoi(rowField(row, idx, "NUMBER"))

	return Record{
		SID:      sid,
		Season:   season,
		Number:   number,
		Basin:    rowField(row, idx, "BASIN"),
		Name:     rowField(row, idx, "NAME"),
		ISOTime:  rowField(row, idx, "ISO_TIME"),
		Lat:      lat,
		Lon:      lon,
		Wind:     parseOptional(rowField(row, idx, "WMO_WIND")),
		Pressure: parseOptional(rowField(row, idx, "WMO_PRES")),
	}, true
}

func parseOptional(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
