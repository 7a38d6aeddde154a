package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/rectifica/internal/geo"
	"github.com/ppiankov/rectifica/internal/llm"
	"github.com/ppiankov/rectifica/internal/model"
	"github.com/ppiankov/rectifica/internal/rectify"
)

var (
	outJSON       string
	minConfidence float64
	maxQuestions  int
	loopTimeout   time.Duration
	ayanamsaDeg   float64
	noCache       bool
	autoAnswers   string
	llmEnabled    bool
	llmProvider   string
	llmModel      string
)

// rectifyCmd represents the rectify command
var rectifyCmd = &cobra.Command{
	Use:   "rectify <date> <from> <to> <location...>",
	Short: "Run an interactive birth-time rectification session",
	Long: `Rectify narrows an approximate birth time range by:
- Computing a sidereal chart at the midpoint of the candidate window
- Measuring how time-sensitive that chart is
- Asking targeted yes/no questions about corroborating life events
- Narrowing the window after each answer until confidence is reached

Answers: y (yes), n (no), s (skip). The session ends when confidence
reaches the threshold, the question budget runs out, or the time limit
passes.

Example:
  rectifica rectify 1990-01-01 12:00 14:00 "New York, USA"
  rectifica rectify 1985-06-15 05:30 07:00 Chennai, India --json result.json`,
	Args: cobra.MinimumNArgs(4),
	RunE: runRectify,
}

func init() {
	rootCmd.AddCommand(rectifyCmd)

	rectifyCmd.Flags().StringVar(&outJSON, "json", "", "write full result JSON to path")
	rectifyCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.7, "confidence threshold for convergence")
	rectifyCmd.Flags().IntVar(&maxQuestions, "max-questions", 15, "question budget")
	rectifyCmd.Flags().DurationVar(&loopTimeout, "timeout", 30*time.Minute, "session wall-clock budget")
	rectifyCmd.Flags().Float64Var(&ayanamsaDeg, "ayanamsa", 0, "fixed ayanamsa override in degrees (0 uses the Lahiri model)")
	rectifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable ephemeris caching")
	rectifyCmd.Flags().StringVar(&autoAnswers, "auto", "", "answer from a file of y/n/s lines instead of stdin")

	rectifyCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate an LLM narrative of the final chart")
	rectifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	rectifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runRectify(cmd *cobra.Command, args []string) error {
	date, from, to := args[0], args[1], args[2]
	location := strings.Join(args[3:], " ")

	cfg := model.DefaultConfig()
	cfg.Rectify.MinConfidence = minConfidence
	cfg.Rectify.MaxQuestions = maxQuestions
	cfg.Rectify.Timeout = loopTimeout
	cfg.Chart.AyanamsaOffset = ayanamsaDeg
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	session, err := engine.StartSession(ctx, rectify.StartRequest{
		Date:         date,
		TimeFrom:     from,
		TimeTo:       to,
		LocationText: location,
	})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Session %s\n", session.ID)
		fmt.Fprintf(os.Stderr, "Window: %s .. %s\n\n",
			session.Window().Earliest, session.Window().Latest)
	}

	answers, err := answerSource()
	if err != nil {
		return err
	}

	// The question-and-narrow loop: ask, read, submit, until terminal
	for {
		q, err := engine.NextQuestion(session)
		if errors.Is(err, model.ErrSessionClosed) {
			break
		}
		if err != nil {
			return fmt.Errorf("next question: %w", err)
		}

		fmt.Printf("Q%d [%s]: %s\n", q.Number, q.Factor, q.Text)
		answer, ok := answers()
		if !ok {
			if err := engine.Cancel(session); err != nil {
				return err
			}
			break
		}

		if err := engine.SubmitAnswer(session, answer); err != nil {
			if errors.Is(err, model.ErrSessionClosed) {
				break
			}
			return fmt.Errorf("submit answer: %w", err)
		}

		if verbose {
			sc := session.Confidence()
			fmt.Fprintf(os.Stderr, "  confidence %.3f (%s), window %s\n",
				sc.Value, sc.Band, session.Window().Length())
		}
	}

	result, err := engine.Result(session)
	if err != nil {
		return fmt.Errorf("result: %w", err)
	}

	renderResult(result, cfg)

	if llmEnabled {
		if err := renderInterpretation(ctx, cfg, result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: interpretation failed: %v\n", err)
		}
	}

	if outJSON != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(outJSON, data, 0644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	return nil
}

// newEngine wires the engine with the standard geocoder chain: the built-in
// gazetteer first, the HTTP geocoder for everything else
func newEngine(cfg *model.Config) (*rectify.Engine, error) {
	geocoder := geo.NewFallbackGeocoder(geo.StaticGeocoder{}, geo.NewHTTPGeocoder(cfg.Geo))

	opts := []rectify.Option{}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			opts = append(opts, rectify.WithLogger(logger))
		}
	}

	return rectify.NewEngine(cfg, geocoder, geo.ZoneResolver{}, opts...)
}

// answerSource returns a function yielding one answer per question, from the
// auto file when given, from stdin otherwise
func answerSource() (func() (model.Answer, bool), error) {
	var scanner *bufio.Scanner
	interactive := autoAnswers == ""

	if interactive {
		scanner = bufio.NewScanner(os.Stdin)
	} else {
		f, err := os.Open(autoAnswers)
		if err != nil {
			return nil, fmt.Errorf("open answers file: %w", err)
		}
		scanner = bufio.NewScanner(f)
	}

	return func() (model.Answer, bool) {
		for {
			if interactive {
				fmt.Print("  [y/n/s] > ")
			}
			if !scanner.Scan() {
				return "", false
			}
			switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
			case "y", "yes":
				return model.AnswerYes, true
			case "n", "no":
				return model.AnswerNo, true
			case "s", "skip", "":
				return model.AnswerSkip, true
			case "q", "quit":
				return "", false
			default:
				if !interactive {
					return "", false
				}
				fmt.Println("  please answer y, n or s (q to quit)")
			}
		}
	}, nil
}

// renderResult prints the terminal summary
func renderResult(result *model.Result, cfg *model.Config) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════")
	fmt.Printf("  Outcome:        %s\n", result.Outcome)
	fmt.Printf("  Rectified time: %s\n", result.RectifiedTime)
	fmt.Printf("  Confidence:     %.3f (%s)\n", result.Confidence.Value, result.Confidence.Band)
	fmt.Printf("  Questions:      %d\n", len(result.Questions))
	fmt.Println("═══════════════════════════════════════════")

	if result.Confidence.Value < cfg.Bands.Medium {
		fmt.Println("\nConfidence is below the medium threshold: treat this time as provisional.")
	}

	if result.Chart != nil {
		fmt.Printf("\nAscendant: %.2f° (%s rising)\n", result.Chart.Ascendant, model.SignName(result.Chart.Ascendant))
	}

	if len(result.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range result.Recommendations {
			fmt.Printf("  [%d] %s\n      %s\n", rec.Priority, rec.Text, rec.Rationale)
		}
	}
}

// renderInterpretation prints the optional LLM narrative, clearly separated
// from the computed result
func renderInterpretation(ctx context.Context, cfg *model.Config, result *model.Result) error {
	interp, err := llm.NewInterpreter(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}
	if !interp.IsEnabled() {
		return nil
	}

	resp, err := interp.Interpret(ctx, *result)
	if err != nil {
		return err
	}

	fmt.Println("\n--- Narrative interpretation (LLM-generated, not part of the computation) ---")
	fmt.Println(resp.Narrative)
	return nil
}
