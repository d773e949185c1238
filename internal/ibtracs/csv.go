package ibtracs

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

var preparedHeader = []string{
	"sid", "season", "number", "basin", "name", "iso_time",
	"lat", "lon", "wmo_wind", "wmo_pres",
}

// WriteCSV writes prepared first-fix records in the format the import
// command and the store consume.
func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(preparedHeader); err != nil {
		return err
	}
	for _, rec := range recs {
		row := []string{
			rec.SID,
			strconv.Itoa(rec.Season),
			strconv.Itoa(rec.Number),
			rec.Basin,
			rec.Name,
			rec.ISOTime,
			strconv.FormatFloat(rec.Lat, 'f', 4, 64),
			strconv.FormatFloat(rec.Lon, 'f', 4, 64),
			formatOptional(rec.Wind),
			formatOptional(rec.Pressure),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPrepared reads a CSV produced by WriteCSV.
func ReadPrepared(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(preparedHeader)

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var recs []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		season, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("bad season %q: %w", row[1], err)
		}
		number, _ := strconv.Atoi(row[2])
		lat, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return nil, fmt.Errorf("bad lat %q: %w", row[6], err)
		}
		lon, err := strconv.ParseFloat(row[7], 64)
		if err != nil {
			return nil, fmt.Errorf("bad lon %q: %w", row[7], err)
		}

		recs = append(recs, Record{
			SID:      row[0],
			Season:   season,
			Number:   number,
			Basin:    row[3],
			Name:     row[4],
			ISOTime:  row[5],
			Lat:      lat,
			Lon:      lon,
			Wind:     parseOptional(row[8]),
			Pressure: parseOptional(row[9]),
		})
	}
	return recs, nil
}

func formatOptional(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
