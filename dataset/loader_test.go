package dataset

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/chromaworks/aircanvas/model"
)

const sampleCSV = `No,year,month,day,hour,PM2.5,PM10,SO2,NO2,CO,O3,TEMP,PRES,DEWP,RAIN,wd,WSPM,station
1,2017,3,1,0,80,95,10,40,900,60,12.5,1012,-5,0,NNW,2.1,Aotizhongxin
2,2017,3,1,0,120,140,14,48,1100,52,11.9,1013,-6,0,NNE,1.7,Wanliu
3,2017,3,1,1,70,90,NA,42,NA,58,12.1,1012,-5,0,cv,0.4,Aotizhongxin
4,2017,3,1,1,96,102,12,44,950,55,11.8,1013,-6,0,N,1.1,Wanliu
`

func TestLoadCSVStationFilter(t *testing.T) {
	d := New()
	res, err := LoadCSV(d, strings.NewReader(sampleCSV), LoadOptions{Station: "Aotizhongxin"})
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if res.Observations != 2 {
		t.Fatalf("Observations = %d, want 2", res.Observations)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}

	obs, _ := d.At(0)
	if obs.Station != "Aotizhongxin" {
		t.Fatalf("Station = %q, want Aotizhongxin", obs.Station)
	}
	wantTime := time.Date(2017, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !obs.Time.Equal(wantTime) {
		t.Fatalf("Time = %v, want %v", obs.Time, wantTime)
	}
	if v, ok := obs.Value(model.PM25); !ok || v != 80 {
		t.Fatalf("PM2.5 = %v (present %v), want 80", v, ok)
	}
	if v, ok := obs.Value(model.WindDirection); !ok || v != 337.5 {
		t.Fatalf("wd = %v (present %v), want 337.5", v, ok)
	}

	// The second hour has NA sulfur dioxide and a calm-and-variable wind,
	// both of which must read back as missing.
	obs, _ = d.At(1)
	if _, ok := obs.Value(model.SO2); ok {
		t.Fatal("SO2 present, want missing for NA field")
	}
	if _, ok := obs.Value(model.WindDirection); ok {
		t.Fatal("wd present, want missing for cv field")
	}
}

func TestLoadCSVAggregatesStations(t *testing.T) {
	d := New()
	res, err := LoadCSV(d, strings.NewReader(sampleCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if res.Observations != 2 {
		t.Fatalf("Observations = %d, want 2 hourly means", res.Observations)
	}
	if want := []string{"Aotizhongxin", "Wanliu"}; !reflect.DeepEqual(res.Stations, want) {
		t.Fatalf("Stations = %v, want %v", res.Stations, want)
	}

	obs, _ := d.At(0)
	if obs.Station != "" {
		t.Fatalf("aggregated Station = %q, want empty", obs.Station)
	}
	if v, _ := obs.Value(model.PM25); v != 100 {
		t.Fatalf("mean PM2.5 = %v, want 100", v)
	}
	// NNW (337.5) and NNE (22.5) average to due north on the circle, not to
	// the arithmetic 180.
	if v, _ := obs.Value(model.WindDirection); math.Abs(v) > 1e-9 && math.Abs(v-360) > 1e-9 {
		t.Fatalf("mean wd = %v, want 0", v)
	}

	// SO2 is NA for one of the two stations in hour 1, so the mean covers
	// only the present value.
	obs, _ = d.At(1)
	if v, ok := obs.Value(model.SO2); !ok || v != 12 {
		t.Fatalf("hour 1 mean SO2 = %v (present %v), want 12", v, ok)
	}
}

func TestLoadCSVSkipsMalformedRows(t *testing.T) {
	const csv = `No,year,month,day,hour,PM2.5,wd,station
1,2017,3,1,0,80,N,Dingling
2,bad,3,1,1,81,N,Dingling
3,2017,13,1,2,82,N,Dingling
4,2017,3,1,24,83,N,Dingling
5,2017,3,1,2,84,N,Dingling
`
	d := New()
	res, err := LoadCSV(d, strings.NewReader(csv), LoadOptions{Station: "Dingling"})
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if res.SkippedRows != 3 {
		t.Fatalf("SkippedRows = %d, want 3", res.SkippedRows)
	}
	if res.Observations != 2 {
		t.Fatalf("Observations = %d, want 2", res.Observations)
	}
}

func TestLoadCSVMissingHeaderColumn(t *testing.T) {
	const csv = `No,year,month,day,PM2.5,station
1,2017,3,1,80,Dingling
`
	_, err := LoadCSV(New(), strings.NewReader(csv), LoadOptions{})
	if err == nil || !strings.Contains(err.Error(), "hour") {
		t.Fatalf("LoadCSV() error = %v, want missing hour column", err)
	}
}

func TestLoadCSVEmpty(t *testing.T) {
	const csv = `No,year,month,day,hour,PM2.5,station
`
	_, err := LoadCSV(New(), strings.NewReader(csv), LoadOptions{})
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("LoadCSV() error = %v, want ErrEmptyDataset", err)
	}
}

func TestWindDegrees(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"N", 0, true},
		{"ssw", 202.5, true},
		{"ENE", 67.5, true},
		{"123.4", 123.4, true},
		{"370", 10, true},
		{"-90", 270, true},
		{"cv", 0, false},
		{"gibberish", 0, false},
	}
	for _, tt := range tests {
		got, ok := windDegrees(tt.raw)
		if ok != tt.ok || math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("windDegrees(%q) = %v, %v, want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
