package chart

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ppiankov/rectifica/internal/model"
)

func testInstant(t *testing.T) model.Instant {
	t.Helper()
	in, err := model.NewInstant("1990-05-20", "06:30",
		model.Location{Name: "test", Latitude: 40.7, Longitude: -74.0}, -5*time.Hour)
	if err != nil {
		t.Fatalf("NewInstant: %v", err)
	}
	return in
}

// spreadPositions places the nine bodies 40 degrees apart
func spreadPositions() []model.PlanetaryPosition {
	positions := make([]model.PlanetaryPosition, len(model.AllBodies))
	for i, body := range model.AllBodies {
		positions[i] = model.PlanetaryPosition{
			Body:      body,
			Longitude: float64(i) * 40,
			Speed:     1,
		}
	}
	return positions
}

func TestAssembleCompleteChart(t *testing.T) {
	a := NewAssembler(8)
	c, err := a.Assemble(testInstant(t), spreadPositions(), 23.85)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if c.Ascendant < 0 || c.Ascendant >= 360 {
		t.Errorf("ascendant %v out of [0, 360)", c.Ascendant)
	}
	if c.Ayanamsa != 23.85 {
		t.Errorf("ayanamsa %v, want 23.85", c.Ayanamsa)
	}
	if len(c.Cusps) != 12 {
		t.Fatalf("expected 12 cusps, got %d", len(c.Cusps))
	}
	for _, p := range c.Positions {
		if p.House < 1 || p.House > 12 {
			t.Errorf("%s assigned house %d, want 1-12", p.Body, p.House)
		}
	}
}

func TestAssembleMissingBody(t *testing.T) {
	a := NewAssembler(8)
	incomplete := spreadPositions()[:len(model.AllBodies)-1]

	_, err := a.Assemble(testInstant(t), incomplete, 23.85)
	if !errors.Is(err, model.ErrIncompleteChartData) {
		t.Errorf("expected ErrIncompleteChartData, got %v", err)
	}
}

func TestEqualHouseCusps(t *testing.T) {
	cusps := equalHouseCusps(347.5)

	if cusps[0].Degree != 347.5 || cusps[0].House != 1 {
		t.Errorf("first cusp %+v, want house 1 at ascendant", cusps[0])
	}
	for i := 0; i < 12; i++ {
		next := cusps[(i+1)%12]
		gap := model.NormalizeDegrees(next.Degree - cusps[i].Degree)
		if math.Abs(gap-30) > 1e-9 {
			t.Errorf("cusp %d to %d gap %v, want 30", cusps[i].House, next.House, gap)
		}
	}
}

func TestHouseOfPartition(t *testing.T) {
	cusps := equalHouseCusps(350) // houses wrap through 0 Aries

	tests := []struct {
		lon  float64
		want int
	}{
		{350, 1},
		{355, 1},
		{5, 1}, // wrapped span of house 1
		{20, 2},
		{349.9, 12},
		{200, 8},
	}
	for _, tt := range tests {
		if got := houseOf(tt.lon, cusps); got != tt.want {
			t.Errorf("houseOf(%v) = %d, want %d", tt.lon, got, tt.want)
		}
	}
}

func TestHouseOfCoversCircle(t *testing.T) {
	cusps := equalHouseCusps(123.4)
	seen := make(map[int]int)
	for lon := 0.0; lon < 360; lon += 0.5 {
		seen[houseOf(lon, cusps)]++
	}
	for h := 1; h <= 12; h++ {
		if seen[h] != 60 {
			t.Errorf("house %d covers %d samples, want 60", h, seen[h])
		}
	}
}

func TestSeparation(t *testing.T) {
	tests := []struct{ a, b, want float64 }{
		{10, 10, 0},
		{0, 180, 180},
		{10, 350, 20},
		{350, 10, 20}, // symmetric across the wrap
		{90, 300, 150},
	}
	for _, tt := range tests {
		if got := Separation(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Separation(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if Separation(tt.a, tt.b) != Separation(tt.b, tt.a) {
			t.Errorf("Separation(%v, %v) not symmetric", tt.a, tt.b)
		}
	}
}

func TestAspectsNearestTypeWins(t *testing.T) {
	a := NewAssembler(8)
	positions := []model.PlanetaryPosition{
		{Body: model.BodySun, Longitude: 0},
		{Body: model.BodyMoon, Longitude: 63}, // sextile with orb 3
	}
	aspects := a.aspects(positions)

	if len(aspects) != 1 {
		t.Fatalf("expected 1 aspect, got %d", len(aspects))
	}
	if aspects[0].Type != model.AspectSextile {
		t.Errorf("expected sextile, got %s", aspects[0].Type)
	}
	if math.Abs(aspects[0].Orb-3) > 1e-9 {
		t.Errorf("orb %v, want 3", aspects[0].Orb)
	}
}

func TestAspectsOutsideOrb(t *testing.T) {
	a := NewAssembler(8)
	positions := []model.PlanetaryPosition{
		{Body: model.BodySun, Longitude: 0},
		{Body: model.BodyMoon, Longitude: 40}, // 20 from conjunction and sextile alike
	}
	if aspects := a.aspects(positions); len(aspects) != 0 {
		t.Errorf("expected no aspects at 40 deg separation, got %d", len(aspects))
	}
}

func TestAspectsOnePerPairSortedByOrb(t *testing.T) {
	a := NewAssembler(8)
	c, err := a.Assemble(testInstant(t), spreadPositions(), 23.85)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	type pair struct{ a, b model.Body }
	seen := make(map[pair]bool)
	for i, asp := range c.Aspects {
		p := pair{asp.First, asp.Second}
		if seen[p] {
			t.Errorf("duplicate aspect for pair %s-%s", asp.First, asp.Second)
		}
		seen[p] = true

		if i > 0 && c.Aspects[i-1].Orb > asp.Orb {
			t.Error("aspects not sorted by ascending orb")
		}
	}
}

func TestAscendantDependsOnTime(t *testing.T) {
	in := testInstant(t)
	early := Ascendant(in, 23.85)
	later := Ascendant(in.Add(20*time.Minute), 23.85)

	// Rising speed varies by sign and latitude, but twenty minutes always
	// moves the ascendant forward by a few degrees
	shift := model.NormalizeDegrees(later - early)
	if shift < 1 || shift > 15 {
		t.Errorf("ascendant shifted %v deg over 20 minutes, want a few degrees forward", shift)
	}
}
