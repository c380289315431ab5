// Package main provides the kanadia CLI, which screens a batch of entry
// records against a watchlist and a country table.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"kanadia/internal/audit"
	"kanadia/internal/decision"
	"kanadia/internal/decision/metrics"
	"kanadia/internal/platform/config"
	"kanadia/internal/platform/logger"
	"kanadia/internal/platform/tracer"
	"kanadia/internal/reference"
	dErrors "kanadia/pkg/domain-errors"
)

// Exit codes.
const (
	exitOK         = 0
	exitInternal   = 1
	exitUsage      = 2
	exitSource     = 3
	exitBadRecords = 4
)

type resultOutput struct {
	Index   int    `json:"index"`
	Verdict string `json:"verdict"`
	Reason  string `json:"reason"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "decide":
		return runDecide(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func runDecide(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("decide", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	records := cmd.String("records", "", "Path to the records JSON array")
	watchlist := cmd.String("watchlist", "", "Path to the watchlist JSON array")
	countries := cmd.String("countries", "", "Path to the countries JSON object")
	asJSON := cmd.Bool("json", false, "Output as JSON")
	explain := cmd.Bool("explain", false, "Include the index and reason of each verdict")
	dumpMetrics := cmd.Bool("metrics", false, "Write batch metrics to stderr in Prometheus text format")
	if err := cmd.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitUsage
	}
	log := logger.NewWithWriter(stderr, cfg.Level())

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	trace := tracer.NewOTel()

	pubOpts := []audit.PublisherOption{audit.WithPublisherLogger(log)}
	if cfg.AuditBuffer > 0 {
		pubOpts = append(pubOpts, audit.WithAsyncBuffer(cfg.AuditBuffer))
	}
	publisher := audit.NewPublisher(audit.NewInMemoryStore(), pubOpts...)
	defer publisher.Close()

	loader := reference.NewLoader(reference.WithMetrics(m), reference.WithTracer(trace))
	svc := decision.New(loader,
		decision.WithAuditor(publisher),
		decision.WithHomeNation(cfg.HomeNation),
		decision.WithVisaMaxAgeDays(cfg.VisaMaxAgeDays),
		decision.WithMetrics(m),
		decision.WithTracer(trace),
		decision.WithLogger(log),
	)

	results, err := svc.DecideDetailed(ctx, decision.Sources{
		Records:   *records,
		Watchlist: *watchlist,
		Countries: *countries,
	})
	if *dumpMetrics {
		if mErr := writeMetrics(stderr, reg); mErr != nil {
			log.Warn("failed to write metrics", "error", mErr)
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "decide: %v\n", err)
		return exitCode(err)
	}

	if err := writeResults(stdout, results, *asJSON, *explain); err != nil {
		log.Error("failed to write verdicts", "error", err)
		return exitInternal
	}
	return exitOK
}

// exitCode maps batch errors onto process exit codes.
func exitCode(err error) int {
	var srcErr *reference.SourceError
	if errors.As(err, &srcErr) {
		return exitSource
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeSourceNotFound, dErrors.CodeMalformedSource:
		return exitSource
	case dErrors.CodeBadFormat, dErrors.CodeDataIntegrity:
		return exitBadRecords
	default:
		return exitInternal
	}
}

func writeResults(w io.Writer, results []decision.Result, asJSON, explain bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		if explain {
			out := make([]resultOutput, len(results))
			for i, r := range results {
				out[i] = resultOutput{Index: r.Index, Verdict: string(r.Verdict), Reason: string(r.Reason)}
			}
			return enc.Encode(out)
		}
		out := make([]string, len(results))
		for i, r := range results {
			out[i] = string(r.Verdict)
		}
		return enc.Encode(out)
	}

	for _, r := range results {
		var err error
		if explain {
			_, err = fmt.Fprintf(w, "%d\t%s\t%s\n", r.Index, r.Verdict, r.Reason)
		} else {
			_, err = fmt.Fprintln(w, r.Verdict)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `kanadia - Screen entry records at the Kanadia border

Usage:
  kanadia <command> [flags]

Commands:
  decide    Issue one verdict per record: Accept, Reject, Secondary or Quarantine

Examples:
  # Plain verdicts, one per line
  kanadia decide -records entries.json -watchlist watchlist.json -countries countries.json

  # JSON with the rule behind each verdict
  kanadia decide -records entries.json -watchlist watchlist.json -countries countries.json -json -explain

Environment:
  KANADIA_HOME_NATION         Country code of returning citizens (default KAN)
  KANADIA_VISA_MAX_AGE_DAYS   Visa validity in days (default 730)
  KANADIA_LOG_LEVEL           debug, info, warn or error (default info)
  KANADIA_AUDIT_BUFFER        Async audit buffer size, 0 for synchronous (default 0)

Exit codes:
  0  verdicts written
  2  usage or configuration error
  3  a source is missing, unreadable or not valid JSON
  4  a record holds a malformed date or an unknown country code
`)
}
