package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chromaworks/aircanvas/model"
)

// ErrEmptyDataset is returned when a load produced no usable observations.
var ErrEmptyDataset = errors.New("dataset: no usable observations")

// LoadOptions controls how CSV rows become observations.
type LoadOptions struct {
	// Station keeps only rows from the named station. When empty, rows from
	// all stations are averaged per timestamp into a single observation.
	Station string
}

// LoadResult summarizes a completed load.
type LoadResult struct {
	Observations int
	SkippedRows  int
	Stations     []string
}

// LoadCSVFile opens path and loads it with LoadCSV.
func LoadCSVFile(d *Dataset, path string, opts LoadOptions) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadCSV(d, f, opts)
}

// LoadCSV reads hourly air-quality rows into d. The reader must yield a
// header row naming at least the year, month, day and hour columns;
// measurement columns are matched by name and extra columns are ignored.
// Unreadable field values become missing measurements, rows with an
// unreadable timestamp are skipped and counted.
func LoadCSV(d *Dataset, r io.Reader, opts LoadOptions) (LoadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return LoadResult{}, fmt.Errorf("dataset: read header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return LoadResult{}, err
	}

	var (
		res      LoadResult
		stations = make(map[string]struct{})
		groups   = make(map[time.Time]*accumulator)
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.SkippedRows++
			continue
		}

		ts, ok := rowTime(record, cols)
		if !ok {
			res.SkippedRows++
			continue
		}
		station := field(record, cols.station)
		if station != "" {
			stations[station] = struct{}{}
		}
		if opts.Station != "" && station != opts.Station {
			continue
		}

		values := rowValues(record, cols)
		if opts.Station != "" {
			d.Add(model.NewObservation(ts, station, values))
			res.Observations++
			continue
		}
		acc, ok := groups[ts]
		if !ok {
			acc = newAccumulator()
			groups[ts] = acc
		}
		acc.add(values)
	}

	if opts.Station == "" {
		times := make([]time.Time, 0, len(groups))
		for ts := range groups {
			times = append(times, ts)
		}
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		for _, ts := range times {
			d.Add(model.NewObservation(ts, "", groups[ts].mean()))
			res.Observations++
		}
	}

	for s := range stations {
		res.Stations = append(res.Stations, s)
	}
	sort.Strings(res.Stations)

	if res.Observations == 0 {
		return res, ErrEmptyDataset
	}
	return res, nil
}

// columns maps the header layout to field indexes. A value of -1 marks an
// absent column.
type columns struct {
	year, month, day, hour int
	station                int
	measurements           map[model.Measurement]int
}

func indexColumns(header []string) (columns, error) {
	cols := columns{
		year: -1, month: -1, day: -1, hour: -1, station: -1,
		measurements: make(map[model.Measurement]int),
	}
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.TrimSpace(name)] = i
	}

	required := map[string]*int{
		"year":  &cols.year,
		"month": &cols.month,
		"day":   &cols.day,
		"hour":  &cols.hour,
	}
	for name, dst := range required {
		i, ok := byName[name]
		if !ok {
			return columns{}, fmt.Errorf("dataset: header missing %q column", name)
		}
		*dst = i
	}
	if i, ok := byName["station"]; ok {
		cols.station = i
	}
	for _, m := range model.Measurements {
		if i, ok := byName[string(m)]; ok {
			cols.measurements[m] = i
		}
	}
	return cols, nil
}

func rowTime(record []string, cols columns) (time.Time, bool) {
	year, err := strconv.Atoi(field(record, cols.year))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(field(record, cols.month))
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(field(record, cols.day))
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	hour, err := strconv.Atoi(field(record, cols.hour))
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC), true
}

func rowValues(record []string, cols columns) map[model.Measurement]float64 {
	values := make(map[model.Measurement]float64, len(cols.measurements))
	for m, i := range cols.measurements {
		raw := field(record, i)
		if raw == "" || strings.EqualFold(raw, "NA") {
			continue
		}
		if m == model.WindDirection {
			if deg, ok := windDegrees(raw); ok {
				values[m] = deg
			}
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		values[m] = v
	}
	return values
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// compassDegrees maps the sixteen-point compass labels used by the hourly
// station files to degrees clockwise from north.
var compassDegrees = map[string]float64{
	"N": 0, "NNE": 22.5, "NE": 45, "ENE": 67.5,
	"E": 90, "ESE": 112.5, "SE": 135, "SSE": 157.5,
	"S": 180, "SSW": 202.5, "SW": 225, "WSW": 247.5,
	"W": 270, "WNW": 292.5, "NW": 315, "NNW": 337.5,
}

// windDegrees converts a wind direction field to degrees. It accepts compass
// labels in any case, plain numbers, and treats "cv" (calm and variable) and
// anything unrecognized as missing.
func windDegrees(raw string) (float64, bool) {
	if deg, ok := compassDegrees[strings.ToUpper(raw)]; ok {
		return deg, true
	}
	if deg, err := strconv.ParseFloat(raw, 64); err == nil {
		return math.Mod(math.Mod(deg, 360)+360, 360), true
	}
	return 0, false
}

// accumulator builds the per-timestamp mean across stations. Wind direction
// uses a circular mean so that headings either side of north do not cancel.
type accumulator struct {
	sums   map[model.Measurement]float64
	counts map[model.Measurement]int

	windSin, windCos float64
	windCount        int
}

func newAccumulator() *accumulator {
	return &accumulator{
		sums:   make(map[model.Measurement]float64),
		counts: make(map[model.Measurement]int),
	}
}

func (a *accumulator) add(values map[model.Measurement]float64) {
	for m, v := range values {
		if m == model.WindDirection {
			rad := v * math.Pi / 180
			a.windSin += math.Sin(rad)
			a.windCos += math.Cos(rad)
			a.windCount++
			continue
		}
		a.sums[m] += v
		a.counts[m]++
	}
}

func (a *accumulator) mean() map[model.Measurement]float64 {
	values := make(map[model.Measurement]float64, len(a.sums)+1)
	for m, sum := range a.sums {
		values[m] = sum / float64(a.counts[m])
	}
	if a.windCount > 0 {
		deg := math.Atan2(a.windSin, a.windCos) * 180 / math.Pi
		values[model.WindDirection] = math.Mod(deg+360, 360)
	}
	return values
}
