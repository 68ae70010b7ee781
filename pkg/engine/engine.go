package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/config"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/dataset"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/engine/render"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/series"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/storage"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/telemetry"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/version"
)

var (
	// ErrWriteOutput means the dashboard image could not be stored. It is not retried.
	ErrWriteOutput = errors.New("failed to write dashboard image")
	// ErrCrashed wraps a panic recovered during Run.
	ErrCrashed = errors.New("pipeline crashed")
)

// Config holds engine settings.
type Config struct {
	Seed         uint64
	Samples      int
	Output       string // local path or "s3://bucket/key"
	ProfilesFile string // HCL fleet file; empty uses the built-in fleet
	DPI          int

	// Start pins the first timestamp of the time index. Zero means "now".
	Start time.Time

	JsonLogs bool
	Verbose  bool

	// Telemetry config.
	OtelEndpoint  string
	SkipTelemetry bool

	// Dependencies.
	Logger *slog.Logger
}

// DefaultConfig returns the settings of a no-argument run.
func DefaultConfig() Config {
	return Config{
		Seed:     config.DefaultSeed,
		Samples:  config.DefaultSamples,
		Output:   config.DefaultOutput,
		DPI:      config.DefaultDPI,
		JsonLogs: true,
	}
}

// Result describes one completed run.
type Result struct {
	Table    *dataset.Table
	Output   string
	Bytes    int
	Seed     uint64
	Duration time.Duration
}

// Engine is the runtime core.
type Engine struct {
	Logger    *slog.Logger
	Tracer    trace.Tracer
	Store     storage.BlobStore
	Dashboard *render.Dashboard

	config    Config
	profiles  []config.MachineProfile
	outputKey string
	outputURI string
	clock     func() time.Time

	meterProvider    metric.MeterProvider
	samplesGenerated metric.Int64Counter
	shutdown         func(context.Context) error
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New initializes the Engine. It starts from DefaultConfig; WithConfig replaces it.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	e := &Engine{
		Tracer: otel.Tracer("sensordash/engine"),
		config: DefaultConfig(),
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}
	e.applyDefaults()

	if e.Logger == nil {
		e.Logger = NewLogger(os.Stderr, e.config.JsonLogs, e.config.Verbose)
	}

	slog.SetDefault(e.Logger)

	if !e.config.SkipTelemetry {
		shutdown, err := telemetry.Init(ctx, telemetry.Settings{
			ServiceName:    version.AppName,
			ServiceVersion: version.Current,
			Endpoint:       e.config.OtelEndpoint,
		})
		if err != nil {
			e.Logger.Warn("Telemetry failed", "error", err)
		} else {
			e.shutdown = shutdown
		}
	}

	if e.meterProvider == nil {
		e.meterProvider = otel.GetMeterProvider()
	}
	counter, err := e.meterProvider.Meter("sensordash/engine").Int64Counter(
		"sensordash.samples.generated",
		metric.WithDescription("Sensor samples synthesized"),
		metric.WithUnit("{sample}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create samples counter: %w", err)
	}
	e.samplesGenerated = counter

	if e.profiles == nil {
		profiles, err := e.loadProfiles()
		if err != nil {
			return nil, err
		}
		e.profiles = profiles
	}
	if err := config.Validate(e.profiles, e.config.Samples); err != nil {
		return nil, err
	}

	if e.Store == nil {
		target, err := storage.ResolveTarget(ctx, e.config.Output)
		if err != nil {
			return nil, err
		}
		e.Store, e.outputKey, e.outputURI = target.Store, target.Key, target.URI
	}

	if e.Dashboard == nil {
		e.Dashboard = render.NewDashboard(config.DefaultPanels())
		e.Dashboard.DPI = e.config.DPI
	}

	return e, nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.Logger = l
		}
	}
}

// WithConfig sets raw config.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
		if cfg.Logger != nil {
			e.Logger = cfg.Logger
		}
	}
}

// WithStore sends the image to store under key instead of resolving Config.Output.
func WithStore(store storage.BlobStore, key string) Option {
	return func(e *Engine) {
		e.Store = store
		e.outputKey = key
		e.outputURI = key
	}
}

// WithMeterProvider records engine metrics on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(e *Engine) {
		e.meterProvider = mp
	}
}

// WithProfiles replaces the fleet definition.
func WithProfiles(profiles []config.MachineProfile) Option {
	return func(e *Engine) {
		e.profiles = profiles
	}
}

// WithClock overrides the time source used for the time index and durations.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

func (e *Engine) applyDefaults() {
	d := DefaultConfig()
	if e.config.Samples == 0 {
		e.config.Samples = d.Samples
	}
	if e.config.Output == "" {
		e.config.Output = d.Output
	}
	if e.config.DPI <= 0 {
		e.config.DPI = d.DPI
	}
}

func (e *Engine) loadProfiles() ([]config.MachineProfile, error) {
	if e.config.ProfilesFile == "" {
		return config.DefaultProfiles(), nil
	}
	profiles, err := config.LoadProfiles(e.config.ProfilesFile, e.config.Samples)
	if err != nil {
		return nil, err
	}
	e.Logger.Info("Loaded fleet profiles", "file", e.config.ProfilesFile, "machines", len(profiles))
	return profiles, nil
}

// Config returns the effective settings.
func (e *Engine) Config() Config { return e.config }

// Profiles returns the fleet being simulated.
func (e *Engine) Profiles() []config.MachineProfile { return e.profiles }

// Close flushes telemetry.
func (e *Engine) Close(ctx context.Context) error {
	if e.shutdown == nil {
		return nil
	}
	return e.shutdown(ctx)
}

// Generate synthesizes the fleet and assembles it into a table.
// Every call reseeds, so repeated calls with the same config return equal tables.
func (e *Engine) Generate(ctx context.Context) (*dataset.Table, error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Generate")
	defer span.End()

	gen := series.NewGenerator(e.config.Seed)
	fleet := gen.Fleet(e.profiles, e.config.Samples)

	start := e.config.Start
	if start.IsZero() {
		start = e.clock()
	}

	table, err := dataset.Assemble(dataset.TimeIndex(start, e.config.Samples), fleet)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assemble failed")
		return nil, err
	}

	total := int64(len(fleet) * e.config.Samples)
	e.samplesGenerated.Add(ctx, total)
	span.SetAttributes(
		attribute.Int64("sensordash.seed", int64(e.config.Seed)),
		attribute.Int("sensordash.columns", len(table.Columns())),
		attribute.Int("sensordash.rows", table.Len()),
	)
	e.Logger.Debug("Generated fleet", "seed", e.config.Seed, "series", len(fleet), "samples", e.config.Samples)

	return table, nil
}

// Run executes Generate, renders the dashboard and stores the image.
func (e *Engine) Run(ctx context.Context) (res *Result, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Run")
	defer span.End()

	defer e.recoverPanic(ctx, &err)

	started := e.clock()
	e.Logger.Info("Starting sensor dashboard run",
		"seed", e.config.Seed,
		"samples", e.config.Samples,
		"machines", len(e.profiles),
		"output", e.outputURI,
	)

	table, err := e.Generate(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		return nil, err
	}

	img, err := e.render(ctx, table)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}

	if err := e.store(ctx, img); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		return nil, err
	}

	res = &Result{
		Table:    table,
		Output:   e.outputURI,
		Bytes:    len(img),
		Seed:     e.config.Seed,
		Duration: e.clock().Sub(started),
	}
	e.Logger.Info("Dashboard written", "output", res.Output, "bytes", res.Bytes, "duration", res.Duration)
	return res, nil
}

func (e *Engine) render(ctx context.Context, table *dataset.Table) ([]byte, error) {
	_, span := e.Tracer.Start(ctx, "Engine.Render")
	defer span.End()

	var buf bytes.Buffer
	if err := e.Dashboard.Render(&buf, table); err != nil {
		return nil, fmt.Errorf("failed to render dashboard: %w", err)
	}
	span.SetAttributes(attribute.Int("sensordash.image_bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (e *Engine) store(ctx context.Context, img []byte) error {
	ctx, span := e.Tracer.Start(ctx, "Engine.Store")
	defer span.End()

	span.SetAttributes(attribute.String("sensordash.output", e.outputURI))
	if err := e.Store.Put(ctx, e.outputKey, img); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteOutput, e.outputURI, err)
	}
	return nil
}

// recoverPanic turns a panic into ErrCrashed.
func (e *Engine) recoverPanic(ctx context.Context, err *error) {
	r := recover()
	if r == nil {
		return
	}

	_, span := otel.Tracer("sensordash/engine").Start(ctx, "CriticalPanic")
	stack := debug.Stack()

	span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
	span.SetStatus(codes.Error, "CRITICAL FAILURE")
	span.SetAttributes(
		attribute.String("crash.stack", string(stack)),
		attribute.String("crash.reason", fmt.Sprintf("%v", r)),
	)
	span.End()

	e.Logger.Error("CRITICAL FAILURE", "error", r, "stack", string(stack))
	*err = fmt.Errorf("%w: %v", ErrCrashed, r)
}

// NewLogger builds the engine logger: JSON or text, debug level when verbose.
func NewLogger(w io.Writer, jsonLogs, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: redactSensitiveData}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// redactSensitiveData scrubs sensitive keys from logs.
func redactSensitiveData(groups []string, a slog.Attr) slog.Attr {
	sensitiveKeys := map[string]bool{
		"access_key": true, "secret": true, "token": true,
		"session_token": true, "password": true, "credential": true,
	}

	if sensitiveKeys[a.Key] {
		return slog.Attr{
			Key:   a.Key,
			Value: slog.StringValue("[REDACTED]"),
		}
	}
	return a
}
