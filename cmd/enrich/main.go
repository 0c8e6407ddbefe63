package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"goterm/adapters/flatfile"
	"goterm/adapters/postgres"
	"goterm/adapters/report"
	"goterm/app"
	"goterm/domain/core"
	"goterm/domain/enrich"
	"goterm/domain/ontology"
	"goterm/internal/config"
	"goterm/internal/engine"
	"goterm/ports"
)

func main() {
	// Optional .env for local runs
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "enrich",
		Short: "Category enrichment analysis over an ontology DAG",
	}

	rootCmd.AddCommand(newRunCmd(), newShowCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		aspect     string
		population int
		mode       string
		correction string
		alpha      float64
		format     string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "run [item-list-files...]",
		Short: "Run enrichment for one or more query lists",
		Long: `Run enrichment for each query list file against the configured
ontology and association files (ONTOLOGY_FILE, ASSOCIATION_FILE).

Example: enrich run genes_upregulated.txt genes_downregulated.txt --aspect process --alpha 0.01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if aspect == "" {
				aspect = cfg.Analysis.Aspect
			}
			if population == 0 {
				population = cfg.Analysis.PopulationSize
			}
			if mode == "" {
				mode = cfg.Analysis.Mode
			}
			if correction == "" {
				correction = cfg.Analysis.Correction
			}
			if alpha == 0 {
				alpha = cfg.Analysis.Alpha
			}
			return runEnrichment(cmd.Context(), cfg, args, aspect, population, mode, correction, alpha, format, outDir)
		},
	}

	cmd.Flags().StringVar(&aspect, "aspect", "", "Ontology aspect: process, function or component")
	cmd.Flags().IntVar(&population, "population", 0, "Background population size (0 = use association file)")
	cmd.Flags().StringVar(&mode, "mode", "", "Sampling mode: hypergeometric or binomial")
	cmd.Flags().StringVar(&correction, "correction", "", "Multiple testing correction: minimal-set or none")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance threshold for report summaries")
	cmd.Flags().StringVar(&format, "format", "text", "Report format: text, markdown, html or xlsx")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory for report files (default: stdout, xlsx requires --out)")

	return cmd
}

func newShowCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show a persisted run, or list recent runs when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := os.Getenv("DATABASE_URL")
			if url == "" {
				return fmt.Errorf("DATABASE_URL is required for show")
			}
			db, err := sqlx.Connect("postgres", url)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()
			store := postgres.NewResultRepository(db)

			if len(args) == 1 {
				result, err := store.GetResult(cmd.Context(), core.RunID(args[0]))
				if err != nil {
					return err
				}
				return report.WriteText(os.Stdout, result, 0.05)
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Printf("%s\t%s\t%s\tquery=%d\thypotheses=%d\n",
					r.RunID, r.CreatedAt.Time().Format("2006-01-02 15:04:05"),
					r.Aspect, r.QuerySize, len(r.Hypotheses))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")

	return cmd
}

func runEnrichment(ctx context.Context, cfg *config.Config, files []string, aspectStr string, population int, modeStr, correctionStr string, alpha float64, format, outDir string) error {
	aspect, err := ontology.ParseAspect(aspectStr)
	if err != nil {
		return err
	}
	mode, err := enrich.ParseMode(modeStr)
	if err != nil {
		return err
	}
	correction, err := enrich.ParseCorrection(correctionStr)
	if err != nil {
		return err
	}
	if format == "xlsx" && outDir == "" {
		return fmt.Errorf("--out is required for xlsx reports")
	}

	graph, err := flatfile.LoadOBO(cfg.Data.OntologyFile)
	if err != nil {
		return err
	}
	source, err := flatfile.LoadAssociations(cfg.Data.AssociationFile)
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Config{
		PopulationSize: population,
		Aspect:         aspect,
		Annotation:     source,
		Graph:          graph,
	})
	if err != nil {
		return err
	}

	var store ports.ResultStore
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		store = postgres.NewResultRepository(db)
	}

	svc := app.NewEnrichmentService(eng, store, mode, correction)

	reqs := make([]app.EnrichmentRequest, 0, len(files))
	for _, file := range files {
		items, err := flatfile.LoadItems(file)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		reqs = append(reqs, app.EnrichmentRequest{Name: name, Items: items})
	}

	results, err := svc.RunBatch(ctx, reqs)
	if err != nil {
		return err
	}

	var failed int
	for _, br := range results {
		if br.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", br.Name, br.Err)
			failed++
			continue
		}
		if err := writeReport(br, format, outDir, alpha); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d query lists failed", failed, len(results))
	}
	return nil
}

func writeReport(br app.BatchResult, format, outDir string, alpha float64) error {
	if outDir == "" {
		fmt.Printf("== %s ==\n", br.Name)
		switch format {
		case "markdown":
			fmt.Print(report.Markdown(br.Result, alpha))
			return nil
		case "html":
			return report.WriteHTML(os.Stdout, br.Result, alpha)
		default:
			return report.WriteText(os.Stdout, br.Result, alpha)
		}
	}

	switch format {
	case "xlsx":
		return report.WriteXLSX(filepath.Join(outDir, br.Name+".xlsx"), br.Result, alpha)
	case "markdown":
		return os.WriteFile(filepath.Join(outDir, br.Name+".md"), []byte(report.Markdown(br.Result, alpha)), 0644)
	case "html":
		f, err := os.Create(filepath.Join(outDir, br.Name+".html"))
		if err != nil {
			return err
		}
		defer f.Close()
		return report.WriteHTML(f, br.Result, alpha)
	case "text":
		f, err := os.Create(filepath.Join(outDir, br.Name+".txt"))
		if err != nil {
			return err
		}
		defer f.Close()
		return report.WriteText(f, br.Result, alpha)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
