// Command conexus-filter applies descriptor filters to a tagged match offline.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agustinnadalich/conexus-play-sub000/internal/config"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/classify"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/filter"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/summary"
	"github.com/agustinnadalich/conexus-play-sub000/internal/testevents"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/logger"
)

const defaultSampleSeed = 1

var (
	errNoInput      = errors.New("one of -input or -sample is required")
	errBadFilter    = errors.New("filter must be KEY=VALUE")
	errInputFormat  = errors.New("input must be a JSON array of events or an object with an events array")
	errBothInputs   = errors.New("-input and -sample are mutually exclusive")
	errNegativeSize = errors.New("-sample must be positive")
)

// descriptorFlags collects repeated -filter KEY=VALUE flags in order.
type descriptorFlags []model.Descriptor

func (d *descriptorFlags) String() string {
	parts := make([]string, 0, len(*d))
	for _, desc := range *d {
		parts = append(parts, desc.Name+"="+model.Stringify(desc.Value))
	}
	return strings.Join(parts, ",")
}

// Set parses KEY=VALUE. A VALUE that is a JSON array is kept as a list.
func (d *descriptorFlags) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("%w: %q", errBadFilter, s)
	}
	var parsed any = value
	if strings.HasPrefix(strings.TrimSpace(value), "[") {
		var list []any
		if err := json.Unmarshal([]byte(value), &list); err == nil {
			parsed = list
		}
	}
	*d = append(*d, model.D(key, parsed))
	return nil
}

type teamFlags []string

func (t *teamFlags) String() string     { return strings.Join(*t, ",") }
func (t *teamFlags) Set(s string) error { *t = append(*t, s); return nil }

type options struct {
	input    string
	sample   int
	seed     int64
	filters  descriptorFlags
	ourTeams teamFlags
	summary  bool
	pretty   bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("conexus-filter", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.input, "input", "", "JSON file with match events (- for stdin)")
	fs.IntVar(&opts.sample, "sample", 0, "generate a synthetic match with N events instead of reading -input")
	fs.Int64Var(&opts.seed, "seed", defaultSampleSeed, "seed for -sample")
	fs.Var(&opts.filters, "filter", "descriptor filter KEY=VALUE (repeatable, conjunctive)")
	fs.Var(&opts.ourTeams, "our-team", "name of our team (repeatable; detected from the events when omitted)")
	fs.BoolVar(&opts.summary, "summary", false, "print the team-vs-opponent summary instead of the events")
	fs.BoolVar(&opts.pretty, "pretty", false, "indent JSON output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case opts.input != "" && opts.sample != 0:
		return nil, errBothInputs
	case opts.sample < 0:
		return nil, errNegativeSize
	case opts.input == "" && opts.sample == 0:
		return nil, errNoInput
	}
	return opts, nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	if err := run(ctx, cfg, opts, os.Stdin, os.Stdout); err != nil {
		logger.Get().Error(ctx, "conexus-filter failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts *options, stdin io.Reader, stdout io.Writer) error {
	log := logger.Named("conexus-filter")

	events, err := loadEvents(opts, stdin)
	if err != nil {
		return err
	}

	teams := []string(opts.ourTeams)
	if len(teams) == 0 {
		teams = cfg.OurTeams
	}
	if len(teams) == 0 {
		teams = classify.DetectOurTeams(events)
	}

	engine := filter.NewEngine(filter.WithOurTeams(teams...))
	state := filter.NewState(opts.filters...)
	filtered := engine.Apply(events, state.Filters)

	log.Info(ctx, "filtered events",
		logger.Int("total", len(events)),
		logger.Int("filtered", len(filtered)),
		logger.Int("descriptors", state.Len()),
		logger.String("our_teams", strings.Join(teams, ",")))

	var out any = filtered
	if opts.summary {
		out = summary.NewSummarizer(summary.WithAliases(classify.Aliases(cfg.CategoryAliases))).Summarize(filtered)
	}

	enc := json.NewEncoder(stdout)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func loadEvents(opts *options, stdin io.Reader) ([]model.Event, error) {
	if opts.sample > 0 {
		return testevents.New(opts.seed).Match(opts.sample), nil
	}

	var r io.Reader = stdin
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return decodeEvents(raw)
}

// decodeEvents accepts either a bare array or an export envelope {"events": [...]}.
func decodeEvents(raw []byte) ([]model.Event, error) {
	var list []model.Event
	if err := json.Unmarshal(raw, &list); err == nil {
		return nonNilEvents(list), nil
	}
	var envelope struct {
		Events []model.Event `json:"events"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Events == nil {
		return nil, errInputFormat
	}
	return nonNilEvents(envelope.Events), nil
}

func nonNilEvents(in []model.Event) []model.Event {
	out := make([]model.Event, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
