package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aura-assist/aura-backend/internal/session"
	"github.com/aura-assist/aura-backend/internal/telemetry"
	"github.com/aura-assist/aura-backend/internal/types"
)

// GraphInfo describes the static processing graph for operational tooling.
type GraphInfo struct {
	Nodes            []string            `json:"nodes"`
	EntryPoint       string              `json:"entry_point"`
	ConditionalEdges map[string][]string `json:"conditional_edges"`
	Description      string              `json:"description"`
}

// Orchestrator owns the fixed stage graph and runs one record through it.
// The graph is linear except for a single branch after check-ui: error and
// ready-plan records jump straight to synthesize, everything else goes
// through the vision locator first.
type Orchestrator struct {
	transcribe Stage
	classify   Stage
	checkUI    Stage
	locate     Stage
	plan       Stage
	synthesize Stage

	store   session.Store
	monitor *telemetry.Monitor
	metrics *telemetry.Metrics
	timeout time.Duration
	logger  *slog.Logger
}

type OrchestratorConfig struct {
	Transcribe Stage
	Classify   Stage
	CheckUI    Stage
	Locate     Stage
	Plan       Stage
	Synthesize Stage

	Store          session.Store
	Monitor        *telemetry.Monitor
	Metrics        *telemetry.Metrics
	RequestTimeout time.Duration
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}
	return &Orchestrator{
		transcribe: cfg.Transcribe,
		classify:   cfg.Classify,
		checkUI:    cfg.CheckUI,
		locate:     cfg.Locate,
		plan:       cfg.Plan,
		synthesize: cfg.Synthesize,
		store:      cfg.Store,
		monitor:    cfg.Monitor,
		metrics:    cfg.Metrics,
		timeout:    cfg.RequestTimeout,
		logger:     slog.Default().With("component", "orchestrator"),
	}
}

// Run executes the graph. It always returns a terminal record with
// Complete=true, even when a stage panics or the overall deadline elapses.
func (o *Orchestrator) Run(ctx context.Context, record types.RequestRecord) (result types.RequestRecord) {
	start := time.Now()
	record.StartTime = start

	threadKey := threadKeyFor(record.SessionID)
	logger := o.logger.With("session_id", record.SessionID, "thread_key", threadKey)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panic", "panic", r)
			record.Error = fmt.Sprintf("Graph processing failed: %v", r)
			record.Complete = true
			record.TotalTime = time.Since(start)
			result = record
		}
		o.finish(ctx, threadKey, &result, start)
	}()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	logger.Info("starting pipeline run",
		"has_audio", record.HasAudio,
		"has_screenshot", record.HasScreenshot)

	record = o.runStage(ctx, o.transcribe, record)
	record = o.runStage(ctx, o.classify, record)
	record = o.runStage(ctx, o.checkUI, record)

	switch route := o.routeAfterCheckUI(record); route {
	case "error", "has_action_plan":
		logger.Info("routing to synthesize", "route", route)
	default:
		logger.Info("routing through vision locator", "route", route)
		record = o.runStage(ctx, o.locate, record)
		record = o.runStage(ctx, o.plan, record)
	}

	record = o.runStage(ctx, o.synthesize, record)
	record.TotalTime = time.Since(start)

	logger.Info("pipeline run complete",
		"total_time", record.TotalTime,
		"error", record.Error,
		"steps", len(record.ActionPlan))

	result = record
	return result
}

// routeAfterCheckUI is the single conditional edge. Error wins, then an
// existing plan; an undecided record defaults to the vision path (fail open).
func (o *Orchestrator) routeAfterCheckUI(record types.RequestRecord) string {
	if record.Error != "" {
		return "error"
	}
	if len(record.ActionPlan) > 0 {
		return "has_action_plan"
	}
	return "use_vlm"
}

func (o *Orchestrator) runStage(ctx context.Context, stage Stage, record types.RequestRecord) types.RequestRecord {
	start := time.Now()
	record = stage.Run(ctx, record)
	elapsed := time.Since(start)
	if o.metrics != nil {
		o.metrics.RecordStage(stage.Name(), float64(elapsed.Microseconds())/1000)
	}
	return record.WithTiming(stage.Name(), elapsed)
}

// finish records run telemetry and writes the checkpoint. It operates on the
// final result, whether the run ended normally or via the panic handler.
func (o *Orchestrator) finish(ctx context.Context, threadKey string, record *types.RequestRecord, start time.Time) {
	status := "success"
	if record.Error != "" {
		status = "error"
	}
	category := ""
	if record.IntentData != nil {
		category = string(record.IntentData.Category)
	}
	if o.metrics != nil {
		o.metrics.RecordRequest(status, category, float64(time.Since(start).Microseconds())/1000)
	}
	if o.monitor != nil {
		o.monitor.Record(telemetry.Operation{
			Name:     "pipeline_run",
			Duration: time.Since(start),
			Category: category,
			Success:  record.Error == "",
		})
	}

	if o.store != nil {
		// Detached context: the checkpoint write should survive a request
		// deadline that just elapsed.
		putCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := o.store.Put(putCtx, threadKey, record.Snapshot()); err != nil {
			o.logger.Error("checkpoint write failed", "thread_key", threadKey, "error", err)
		}
	}
}

// threadKeyFor maps the caller's session id onto a UUID thread key. Ids that
// already are UUIDs pass through so repeat callers keep their checkpoints.
func threadKeyFor(sessionID string) string {
	if _, err := uuid.Parse(sessionID); err == nil {
		return sessionID
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(sessionID)).String()
}

// Info returns the static graph description.
func (o *Orchestrator) Info() GraphInfo {
	return GraphInfo{
		Nodes: []string{
			StageTranscribe, StageClassify, StageCheckUI,
			StageLocate, StagePlan, StageSynthesize,
		},
		EntryPoint: StageTranscribe,
		ConditionalEdges: map[string][]string{
			StageCheckUI: {"use_vlm", "has_action_plan", "error"},
		},
		Description: "AURA voice assistant processing pipeline",
	}
}

// ThreadKey exposes the session-id mapping for callers that proxy history
// and deletion requests to the checkpoint store.
func ThreadKey(sessionID string) string {
	return threadKeyFor(sessionID)
}
