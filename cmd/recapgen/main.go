package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"recapcli/internal/config"
	"recapcli/internal/infrastructure"
	"recapcli/internal/loader"
	"recapcli/internal/recap"
	"recapcli/internal/validation"
	"recapcli/pkg/contracts/domain"
)

func main() {
	start := flag.String("start", "", "start date of the recap range (YYYY-MM-DD)")
	end := flag.String("end", "", "end date of the recap range (YYYY-MM-DD, defaults to start)")
	files := flag.String("files", "", "comma-separated task file paths (CSV; .txt is read as tab-separated)")
	rate := flag.String("rate", "", "hourly billing rate")
	template := flag.String("template", "", "template workbook path (defaults to data/template_daily_recap.xlsx)")
	out := flag.String("out", "", "output directory for the generated workbook (defaults to data/reports)")
	initTemplate := flag.Bool("init-template", false, "write a styled starter template to the template path and exit")
	flag.Parse()

	// Initialize paths first to get default locations
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *template == "" {
		*template = paths.TemplateFile
	}
	if *out == "" {
		*out = paths.ReportsDir
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("recapgen.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	// One run, one trace ID
	ctx := infrastructure.ContextWithTraceID(context.Background())
	logger = infrastructure.LoggerFromContext(ctx)

	if *initTemplate {
		if err := paths.EnsureDirectories(); err != nil {
			logger.Error("Failed to create required directories", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := recap.WriteStarterTemplate(*template, cfg.Report.TemplateSheet, cfg.Report.SummarySheet); err != nil {
			logger.Error("Failed to write starter template",
				slog.String("path", *template),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Starter template written", slog.String("path", *template))
		fmt.Printf("Starter template written to %s\n", *template)
		return
	}

	req, err := buildRequest(*start, *end, *files, *rate)
	if err != nil {
		logger.Error("Invalid invocation", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := validation.NewRequestValidator(logger).Validate(req); err != nil {
		logger.Error("Input validation failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Info("Starting recap generation",
		slog.String("start", req.Range.Start.Format(domain.CanonicalDateLayout)),
		slog.String("end", req.Range.End.Format(domain.CanonicalDateLayout)),
		slog.Int("files", len(req.Files)),
		slog.Float64("rate", req.Rate),
		slog.String("template", *template),
		slog.String("output_dir", *out))

	tasks, err := loader.Load(req.Files)
	if err != nil {
		logger.Error("Failed to load task files", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*out, 0755); err != nil {
		logger.Error("Cannot create output directory",
			slog.String("path", *out),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	assembler := recap.NewAssembler(logger, cfg.Report)
	outputPath, err := assembler.Run(ctx, recap.Request{
		TemplatePath: *template,
		OutputDir:    *out,
		Tasks:        tasks,
		Range:        req.Range,
		Rate:         req.Rate,
	})
	if err != nil {
		logger.Error("Recap generation failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Info("Recap generation completed", slog.String("output", outputPath))
	fmt.Printf("Workbook %s created successfully\n", outputPath)
}

// buildRequest converts raw flag values into a run request. Validation that
// goes beyond parsing (ordering, future dates, file existence) happens in the
// validation package.
func buildRequest(start, end, files, rate string) (validation.RunRequest, error) {
	if start == "" {
		return validation.RunRequest{}, fmt.Errorf("missing required flag -start")
	}
	if end == "" {
		end = start
	}

	startDate, err := time.Parse(domain.CanonicalDateLayout, start)
	if err != nil {
		return validation.RunRequest{}, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", start)
	}
	endDate, err := time.Parse(domain.CanonicalDateLayout, end)
	if err != nil {
		return validation.RunRequest{}, fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", end)
	}

	if files == "" {
		return validation.RunRequest{}, fmt.Errorf("missing required flag -files")
	}
	var paths []string
	for _, p := range strings.Split(files, ",") {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p != "" {
			paths = append(paths, p)
		}
	}

	if rate == "" {
		return validation.RunRequest{}, fmt.Errorf("missing required flag -rate")
	}
	rateVal, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return validation.RunRequest{}, fmt.Errorf("invalid rate %q, expected a numeric value", rate)
	}

	return validation.RunRequest{
		Range: domain.DateRange{Start: startDate, End: endDate},
		Files: paths,
		Rate:  rateVal,
	}, nil
}
