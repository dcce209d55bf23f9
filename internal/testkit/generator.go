package testkit

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// FunnelGeneratorConfig controls synthetic funnel exports.
type FunnelGeneratorConfig struct {
	Name          string
	Steps         int
	Segments      []string
	StartingUsers int
	// DropRate is the mean fraction of users lost at each step.
	DropRate float64
	Seed     int64
}

// DefaultFunnelGeneratorConfig returns a small deterministic funnel.
func DefaultFunnelGeneratorConfig() FunnelGeneratorConfig {
	return FunnelGeneratorConfig{
		Name:          "Checkout",
		Steps:         4,
		Segments:      []string{"All Users"},
		StartingUsers: 10000,
		DropRate:      0.35,
		Seed:          42,
	}
}

// GeneratedStep is the expected value of one generated row.
type GeneratedStep struct {
	Step            string
	Segment         string
	ActiveUsers     int
	ElapsedMicros   int64
	CompletionRate  float64
	Abandonments    int
	AbandonmentRate float64
}

// GenerateFunnel builds a funnel export plus the rows it encodes. Elapsed
// times are microsecond counts in scientific notation and rates are decimal
// fractions.
func GenerateFunnel(cfg FunnelGeneratorConfig) (*ExportBuilder, []GeneratedStep) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	b := NewExportBuilder().Preamble(cfg.Name).Header()

	var expected []GeneratedStep
	for _, segment := range cfg.Segments {
		users := cfg.StartingUsers
		for i := 0; i < cfg.Steps; i++ {
			drop := cfg.DropRate * (0.5 + rng.Float64())
			if drop > 0.95 {
				drop = 0.95
			}
			next := int(float64(users) * (1 - drop))
			if i == cfg.Steps-1 {
				next = 0
			}
			abandoned := users - next
			completion, abandonRate := 0.0, 0.0
			if users > 0 {
				completion = float64(next) / float64(users)
				abandonRate = float64(abandoned) / float64(users)
			}
			elapsed := int64(rng.Intn(3600)) * 1_000_000

			step := GeneratedStep{
				Step:            fmt.Sprintf("%d. Step %d", i+1, i+1),
				Segment:         segment,
				ActiveUsers:     users,
				ElapsedMicros:   elapsed,
				CompletionRate:  completion,
				Abandonments:    abandoned,
				AbandonmentRate: abandonRate,
			}
			expected = append(expected, step)

			b.Row(
				step.Step,
				segment,
				strconv.FormatFloat(float64(elapsed), 'e', -1, 64),
				strconv.Itoa(users),
				strconv.FormatFloat(completion, 'f', -1, 64),
				strconv.Itoa(abandoned),
				strconv.FormatFloat(abandonRate, 'f', -1, 64),
			)
			users = next
		}
	}
	return b, expected
}

// TabularConfig controls synthetic rectangular data for the generic path.
type TabularConfig struct {
	Rows int
	// NoiseEvery replaces every Nth numeric cell with free text; zero disables.
	NoiseEvery int
	Seed       int64
}

// GenerateTabular returns header and rows with id, name, amount, signup_date
// and active columns.
func GenerateTabular(cfg TabularConfig) ([]string, [][]string) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	header := []string{"id", "name", "amount", "signup_date", "active"}
	names := []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}

	rows := make([][]string, cfg.Rows)
	for i := range rows {
		amount := strconv.FormatFloat(float64(rng.Intn(100000))/100, 'f', 2, 64)
		if cfg.NoiseEvery > 0 && (i+1)%cfg.NoiseEvery == 0 {
			amount = "n/a"
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			names[rng.Intn(len(names))],
			amount,
			fmt.Sprintf("2024-%02d-%02d", rng.Intn(12)+1, rng.Intn(28)+1),
			strconv.FormatBool(rng.Intn(2) == 0),
		}
	}
	return header, rows
}

// TabularCSV renders GenerateTabular output as comma-separated text.
func TabularCSV(cfg TabularConfig) string {
	header, rows := GenerateTabular(cfg)
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}
