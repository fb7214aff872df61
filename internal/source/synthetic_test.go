package source

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/chromaworks/aircanvas/core"
	"github.com/chromaworks/aircanvas/model"
)

func TestSyntheticDeterministic(t *testing.T) {
	ctx := context.Background()
	cfg := core.DefaultConfig()
	a := NewSynthetic(7, cfg)
	b := NewSynthetic(7, cfg)

	for i := 0; i < 48; i++ {
		oa, err := a.Next(ctx)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		ob, err := b.Next(ctx)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if !reflect.DeepEqual(oa, ob) {
			t.Fatalf("hour %d: same seed diverged: %+v vs %+v", i, oa, ob)
		}
	}
}

func TestSyntheticSeedsDiffer(t *testing.T) {
	ctx := context.Background()
	cfg := core.DefaultConfig()
	a := NewSynthetic(1, cfg)
	b := NewSynthetic(2, cfg)

	same := true
	for i := 0; i < 5; i++ {
		oa, _ := a.Next(ctx)
		ob, _ := b.Next(ctx)
		if !reflect.DeepEqual(oa, ob) {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical sequences")
	}
}

func TestSyntheticInDomain(t *testing.T) {
	ctx := context.Background()
	cfg := core.DefaultConfig()
	src := NewSynthetic(42, cfg)

	for i := 0; i < 200; i++ {
		obs, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		for _, m := range model.Measurements {
			v, ok := obs.Value(m)
			if !ok {
				t.Fatalf("hour %d: %s missing", i, m)
			}
			b := cfg.Bounds[m]
			if v < b.Min || v > b.Max {
				t.Fatalf("hour %d: %s = %v outside [%v, %v]", i, m, v, b.Min, b.Max)
			}
		}
	}
}

func TestSyntheticAdvancesHourly(t *testing.T) {
	ctx := context.Background()
	src := NewSynthetic(3, core.DefaultConfig())

	first, _ := src.Next(ctx)
	second, _ := src.Next(ctx)
	if got := second.Time.Sub(first.Time); got != time.Hour {
		t.Fatalf("time step = %v, want %v", got, time.Hour)
	}
}
