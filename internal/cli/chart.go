package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/rectifica/internal/chart"
	"github.com/ppiankov/rectifica/internal/ephemeris"
	"github.com/ppiankov/rectifica/internal/geo"
	"github.com/ppiankov/rectifica/internal/model"
)

var (
	chartJSON     string
	chartAyanamsa float64
	chartOrb      float64
)

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart <date> <time> <location...>",
	Short: "Compute a one-shot sidereal chart for an exact birth time",
	Long: `Chart computes the sidereal positions, equal-house cusps and aspects
for a single known birth time, with no rectification loop.

Example:
  rectifica chart 1990-01-01 13:20 "New York, USA"
  rectifica chart 1985-06-15 06:10 Chennai, India --json chart.json`,
	Args: cobra.MinimumNArgs(3),
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringVar(&chartJSON, "json", "", "write chart JSON to path")
	chartCmd.Flags().Float64Var(&chartAyanamsa, "ayanamsa", 0, "fixed ayanamsa override in degrees (0 uses the Lahiri model)")
	chartCmd.Flags().Float64Var(&chartOrb, "orb", 8.0, "aspect orb tolerance in degrees")
}

func runChart(cmd *cobra.Command, args []string) error {
	date, clock := args[0], args[1]
	location := strings.Join(args[2:], " ")

	cfg := model.DefaultConfig()
	cfg.Chart.AspectOrb = chartOrb

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Geo.Timeout)
	defer cancel()

	geocoder := geo.NewFallbackGeocoder(geo.StaticGeocoder{}, geo.NewHTTPGeocoder(cfg.Geo))
	loc, err := geocoder.Resolve(ctx, location)
	if err != nil {
		return fmt.Errorf("resolve location %q: %w", location, err)
	}

	naive, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return fmt.Errorf("parse %q %q: %w", date, clock, err)
	}

	offset, err := geo.ZoneResolver{}.OffsetFor(ctx, naive, loc)
	if err != nil {
		return fmt.Errorf("resolve timezone for %q: %w", loc.Name, err)
	}

	in, err := model.NewInstant(date, clock, loc, offset)
	if err != nil {
		return err
	}

	ayanamsa := ephemeris.Ayanamsa(ephemeris.LahiriAyanamsa)
	if chartAyanamsa != 0 {
		ayanamsa = ephemeris.FixedAyanamsa(chartAyanamsa)
	}

	provider := ephemeris.NewAnalytic(ayanamsa)
	positions, err := provider.Positions(in)
	if err != nil {
		return fmt.Errorf("compute positions: %w", err)
	}

	ay := ayanamsa(ephemeris.JulianDay(in.UTC()))
	c, err := chart.NewAssembler(cfg.Chart.AspectOrb).Assemble(in, positions, ay)
	if err != nil {
		return fmt.Errorf("assemble chart: %w", err)
	}

	renderChart(c)

	if chartJSON != "" {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal chart: %w", err)
		}
		if err := os.WriteFile(chartJSON, data, 0644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}

	return nil
}

// renderChart prints the positions, cusps and aspects tables
func renderChart(c *model.Chart) {
	fmt.Printf("Chart for %s at %s (%.4f, %.4f)\n",
		c.Instant.Civil.Format("2006-01-02 15:04 MST"),
		c.Instant.Location.Name, c.Instant.Location.Latitude, c.Instant.Location.Longitude)
	fmt.Printf("Ayanamsa: %.4f°   Ascendant: %s %s\n\n",
		c.Ayanamsa, model.SignName(c.Ascendant), formatDegree(c.Ascendant))

	fmt.Println("Body       Sign          Degree     Speed      House")
	fmt.Println("─────────────────────────────────────────────────────")
	for _, p := range c.Positions {
		retro := " "
		if p.Speed < 0 {
			retro = "R"
		}
		fmt.Printf("%-10s %-13s %-10s %+8.4f%s %5d\n",
			p.Body, model.SignName(p.Longitude), formatDegree(p.Longitude), p.Speed, retro, p.House)
	}

	fmt.Println("\nHouse cusps:")
	for _, cusp := range c.Cusps {
		fmt.Printf("  %2d: %s %s\n", cusp.House, model.SignName(cusp.Degree), formatDegree(cusp.Degree))
	}

	if len(c.Aspects) > 0 {
		fmt.Println("\nAspects (tightest first):")
		for _, a := range c.Aspects {
			fmt.Printf("  %-8s %-11s %-8s orb %.2f°\n", a.First, a.Type, a.Second, a.Orb)
		}
	}
}

// formatDegree renders a longitude as degrees and minutes within its sign
func formatDegree(longitude float64) string {
	deg := model.DegreeInSign(longitude)
	whole := int(deg)
	minutes := int((deg - float64(whole)) * 60)
	return fmt.Sprintf("%2d°%02d'", whole, minutes)
}
