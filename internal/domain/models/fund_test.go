package models

import "testing"

func TestLevelFor(t *testing.T) {
	cases := []struct {
		move float64
		want AlertLevel
	}{
		{0, AlertNone},
		{0.49, AlertNone},
		{-0.49, AlertNone},
		{0.5, AlertWarning},
		{-0.5, AlertWarning},
		{0.99, AlertWarning},
		{1.0, AlertCritical},
		{-1.2, AlertCritical},
		{4.5, AlertCritical},
	}
	for _, c := range cases {
		if got := LevelFor(c.move); got != c.want {
			t.Fatalf("LevelFor(%v) = %d, want %d", c.move, got, c.want)
		}
	}
}

func TestFundSetLenNil(t *testing.T) {
	var fs *FundSet
	if fs.Len() != 0 {
		t.Fatalf("nil set should have zero length")
	}
}

func TestPriceBookMergeKeepsMissing(t *testing.T) {
	b := NewPriceBook()
	b.Set("AAA", PriceInfo{ChangePercent: Float(1.0), Source: "OLD"})
	b.Merge(map[string]PriceInfo{"BBB": {ChangePercent: Float(2.0), Source: "NEW"}})

	if p, ok := b.Lookup("AAA"); !ok || p.Source != "OLD" {
		t.Fatalf("merge must not drop symbols absent from the update")
	}
	if p, ok := b.Lookup("BBB"); !ok || *p.ChangePercent != 2.0 {
		t.Fatalf("merged entry missing")
	}
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
}

func TestPriceBookReset(t *testing.T) {
	b := NewPriceBook()
	b.Set("AAA", PriceInfo{ChangePercent: Float(1.0)})
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("reset should drop all entries")
	}
}
