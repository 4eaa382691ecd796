// Command copygen generates SEO-ready e-commerce product copy (title,
// description, hashtags) with Gemini, either for a single product given on
// the command line or for a whole CSV/TSV of products in chunked batch mode.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/ai-commerce-copy/internal/batch"
	"github.com/fpang/ai-commerce-copy/internal/cli"
	"github.com/fpang/ai-commerce-copy/internal/config"
	"github.com/fpang/ai-commerce-copy/internal/content"
	"github.com/fpang/ai-commerce-copy/internal/csvio"
	"github.com/fpang/ai-commerce-copy/internal/generator"
	"github.com/fpang/ai-commerce-copy/internal/llm"
	"github.com/fpang/ai-commerce-copy/internal/logging"
	"github.com/fpang/ai-commerce-copy/internal/metrics"
	"github.com/fpang/ai-commerce-copy/internal/retry"
	"github.com/fpang/ai-commerce-copy/internal/s3util"
)

// CLI flags
var (
	nameFlag        string
	attrFlags       []string
	toneFlag        string
	inputFlag       string
	outputFlag      string
	chunkSizeFlag   int
	modelFlag       string
	maxRetriesFlag  int
	listTonesFlag   bool
	quietFlag       bool
	emitMetricsFlag bool
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "copygen",
	Short: "AI-generated product copy for e-commerce catalogs",
	Long: `Copygen generates product titles, descriptions, and hashtags with Gemini.

Single mode takes a product name and optional key=value attributes on the
command line and prints the generated content as JSON. Batch mode reads a
CSV/TSV of products (required column: product_name), processes it in chunks,
and writes the original columns plus the generated ones to the output file.
Both input and output may be local paths or s3:// URIs.

Examples:
  copygen --name "Ceramic Coffee Mug" --attr material=ceramic --attr color=blue
  copygen --name "Wireless Earbuds" --tone playful
  copygen --input products.csv --output products_out.csv
  copygen --input s3://catalog/in.csv.gz --output s3://catalog/out.csv --tone luxury
  copygen --list-tones
  copygen  # Interactive mode - prompts for product name and attributes`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Product name for single-product mode")
	rootCmd.Flags().StringArrayVarP(&attrFlags, "attr", "a", nil, "Product attribute as key=value (repeatable)")
	rootCmd.Flags().StringVarP(&toneFlag, "tone", "t", generator.DefaultTone, "Tone of voice (see --list-tones)")
	rootCmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Input CSV/TSV file or s3:// URI for batch mode")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file or s3:// URI for batch mode")
	rootCmd.Flags().IntVar(&chunkSizeFlag, "chunk-size", 0, "Rows per chunk in batch mode (0 = auto)")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", llm.DefaultModelName, "Gemini model to use")
	rootCmd.Flags().IntVar(&maxRetriesFlag, "max-retries", -1, "Retries per model call (-1 = from environment)")
	rootCmd.Flags().BoolVar(&listTonesFlag, "list-tones", false, "List available tone profiles and exit")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress batch progress output")
	rootCmd.Flags().BoolVar(&emitMetricsFlag, "emit-metrics", false, "Emit CloudWatch EMF metrics for the run")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	tones := generator.DefaultCatalogue()
	if listTonesFlag {
		printTones(tones)
		return
	}

	cfg := config.Load()
	if modelFlag != "" {
		cfg.Model = modelFlag
	}
	if maxRetriesFlag >= 0 {
		cfg.MaxRetries = maxRetriesFlag
	}
	if chunkSizeFlag > 0 {
		cfg.ChunkSize = chunkSizeFlag
	}
	outcome := cfg.Validate()
	for _, w := range outcome.Warnings {
		log.Warn().Msg(w)
	}
	if !outcome.Valid {
		log.Fatal().Strs("errors", outcome.Errors).Msg("invalid configuration")
	}

	logging.NewStartupLogger("copygen").
		Config("model", cfg.Model).
		Config("tone", toneFlag).
		Feature("batch", inputFlag != "").
		Feature("metrics", emitMetricsFlag).
		Log()

	ctx, client := cli.InitClient(cfg.Model)

	policy := retry.New(cfg.MaxRetries, cfg.RetryDelayBase, cfg.RateLimitDelay)
	gen := generator.New(client, tones, policy)

	if inputFlag != "" {
		// Without an explicit size from the flag or the environment, let
		// the runner recommend one from the row count.
		chunkSize := cfg.ChunkSize
		if chunkSizeFlag <= 0 && os.Getenv(config.EnvChunkSize) == "" {
			chunkSize = 0
		}
		runBatch(ctx, gen, cfg, chunkSize)
		return
	}
	runSingle(ctx, gen)
}

// runSingle generates content for one product and prints it as JSON.
func runSingle(ctx context.Context, gen *generator.Generator) {
	name := nameFlag
	if name == "" {
		name = cli.PromptForProductName()
	}
	attrs := attrFlags
	if name != "" && nameFlag == "" && len(attrs) == 0 {
		attrs = cli.PromptForAttributes()
	}

	rec := content.ProductRecord{Name: name}
	for _, raw := range attrs {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			log.Fatal().Str("attr", raw).Msg("attributes must be key=value")
		}
		rec.Attributes = append(rec.Attributes, content.Attribute{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}

	result, err := gen.Process(ctx, rec, toneFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("content generation failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode result")
	}
	fmt.Println(string(out))

	if emitMetricsFlag {
		metrics.New(metrics.Namespace).
			Dimension("Mode", "single").
			Count("ProductsGenerated").
			Flush()
	}
}

// runBatch processes an input dataset in chunks and writes the merged output.
func runBatch(ctx context.Context, gen *generator.Generator, cfg config.Config, chunkSize int) {
	if outputFlag == "" {
		log.Fatal().Msg("batch mode requires --output")
	}
	inputPath := cli.ValidateAndResolveInput(inputFlag)

	dataset := readDataset(ctx, inputPath, int64(cfg.MaxFileSizeMB)*1024*1024)

	var progress batch.ProgressFunc
	if !quietFlag {
		progress = func(processed, total int) {
			fmt.Fprintf(os.Stderr, "Processed %d/%d rows (%.0f%%)\n",
				processed, total, float64(processed)/float64(total)*100)
		}
	}

	runner := batch.NewRunner(gen, nil)
	if emitMetricsFlag {
		runner.SetMetrics(metrics.New(metrics.Namespace))
	}

	result, err := runner.Run(ctx, dataset, toneFlag, chunkSize, progress)
	if err != nil {
		if partial, ok := runner.Store().RecoverPartialResults(result.OperationID); ok {
			partialPath := outputFlag + ".partial"
			log.Warn().
				Str("operation_id", result.OperationID).
				Str("path", partialPath).
				Msg("batch failed, writing recovered partial results")
			writeDataset(ctx, partialPath, partial)
			runner.Store().Clear(result.OperationID)
		}
		log.Fatal().Err(err).Msg("batch processing failed")
	}

	writeDataset(ctx, outputFlag, result.Data)

	fmt.Fprintf(os.Stderr, "Done: %d rows, %d succeeded, %d failed in %s\n",
		result.Rows, result.Succeeded, result.Failed, cli.FormatDurationShort(result.Duration))
}

// readDataset loads the input from a local path or S3, capped at maxBytes.
func readDataset(ctx context.Context, path string, maxBytes int64) *csvio.Dataset {
	var r io.ReadCloser
	if s3util.IsURI(path) {
		client, err := s3util.NewClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create S3 client")
		}
		r, err = s3util.Download(ctx, client, path)
		if err != nil {
			log.Fatal().Err(err).Str("uri", path).Msg("failed to download input")
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to open input file")
		}
		r = f
	}
	defer r.Close()

	dataset, err := csvio.ReadLimit(r, path, maxBytes)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to read input dataset")
	}
	return dataset
}

// writeDataset stores the output to a local path or S3.
func writeDataset(ctx context.Context, path string, d *csvio.Dataset) {
	if s3util.IsURI(path) {
		var buf strings.Builder
		if err := csvio.Write(&buf, d); err != nil {
			log.Fatal().Err(err).Msg("failed to encode output dataset")
		}
		client, err := s3util.NewClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create S3 client")
		}
		if err := s3util.Upload(ctx, client, path, []byte(buf.String()), "text/csv"); err != nil {
			log.Fatal().Err(err).Str("uri", path).Msg("failed to upload output")
		}
		return
	}

	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to create output file")
	}
	defer f.Close()
	if err := csvio.Write(f, d); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to write output dataset")
	}
	log.Info().Str("path", path).Int("rows", len(d.Rows)).Msg("results written")
}

// printTones lists the available tone profiles.
func printTones(tones generator.Catalogue) {
	fmt.Println("Available tones:")
	for _, p := range tones.Profiles() {
		fmt.Printf("  %-12s %s\n", p.Name, p.Description)
	}
}
