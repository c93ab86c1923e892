// Package engine orchestrates the just-in-time adaptive intervention
// pipeline: it feeds learner events through the doom-scroll and false-
// confidence detectors, queues the resulting interventions per learner,
// and escalates to micro-bridge generation when a detector fires hard.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/attunelabs/attune/internal/confidence"
	"github.com/attunelabs/attune/internal/content"
	"github.com/attunelabs/attune/internal/engagement"
	"github.com/attunelabs/attune/internal/intervention"
	"github.com/attunelabs/attune/internal/microbridge"
	"github.com/attunelabs/attune/internal/signals"
	"github.com/attunelabs/attune/internal/speedbump"
	"github.com/attunelabs/attune/internal/store"
)

// ErrInvalidInput reports a caller-supplied value outside its documented
// range (confidence or mastery outside [0,1], negative times).
var ErrInvalidInput = errors.New("invalid input")

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	// QueueTTL is how long interventions stay pending. Only used when no
	// store is injected via WithStore. Default: intervention.DefaultTTL.
	QueueTTL time.Duration

	// MaxBridgeDurationSecs bounds generated micro-bridges.
	// Default: microbridge.DefaultMaxDurationSecs.
	MaxBridgeDurationSecs int

	// TargetMastery is the mastery level synthesized gaps aim for.
	// Default: microbridge.DefaultTargetMastery.
	TargetMastery float64
}

// Engine is the only entry point into the intervention pipeline. All
// methods are synchronous; apart from ErrInvalidInput on malformed input,
// operations degrade to logged no-ops rather than failing.
type Engine struct {
	cfg Config

	tracker    *engagement.Tracker
	speedBumps *speedbump.Generator
	detector   *confidence.Detector
	bridges    *microbridge.Generator
	queue      intervention.Store
	events     store.EventRepo
	log        *zap.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithStore replaces the default in-memory intervention queue.
func WithStore(s intervention.Store) Option {
	return func(e *Engine) { e.queue = s }
}

// WithEventRepo attaches a behavioral event log. Appends are best-effort.
func WithEventRepo(repo store.EventRepo) Option {
	return func(e *Engine) { e.events = repo }
}

// WithLogger replaces the default no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithPicker replaces the random message picker in both generators.
// Inject intervention.FixedPicker in tests.
func WithPicker(p intervention.Picker) Option {
	return func(e *Engine) {
		e.speedBumps = speedbump.NewGenerator(p)
		e.detector = confidence.NewDetector(p)
	}
}

// New creates an engine.
func New(cfg Config, opts ...Option) *Engine {
	if cfg.MaxBridgeDurationSecs <= 0 {
		cfg.MaxBridgeDurationSecs = microbridge.DefaultMaxDurationSecs
	}
	if cfg.TargetMastery <= 0 {
		cfg.TargetMastery = microbridge.DefaultTargetMastery
	}

	e := &Engine{
		cfg:        cfg,
		tracker:    engagement.NewTracker(),
		speedBumps: speedbump.NewGenerator(nil),
		detector:   confidence.NewDetector(nil),
		bridges:    microbridge.NewGenerator(),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.queue == nil {
		e.queue = intervention.NewMemoryStore(cfg.QueueTTL)
	}
	return e
}

// Tracker exposes the engagement tracker, mainly for tests and callers
// that want raw metrics.
func (e *Engine) Tracker() *engagement.Tracker {
	return e.tracker
}

// BlockResult is what OnBlockComplete hands back to the caller.
type BlockResult struct {
	Metrics      engagement.Metrics
	Signal       *signals.BehavioralSignal
	Intervention *intervention.Intervention

	// Bridge is set when a high-priority speed bump escalated into a
	// micro-bridge. It is returned, never enqueued; the caller renders it.
	Bridge *microbridge.Bridge
}

// OnBlockComplete processes a content-block completion: records engagement,
// emits a click-through signal, and fires a speed bump when the learner is
// skimming. A high-priority bump with known recent gaps escalates to a
// micro-bridge.
func (e *Engine) OnBlockComplete(lc *LearnerContext, block content.Block, actualMs int) (BlockResult, error) {
	if actualMs < 0 {
		return BlockResult{}, fmt.Errorf("%w: negative block time %dms", ErrInvalidInput, actualMs)
	}

	metrics := e.tracker.Record(lc.LearnerID, block, actualMs)
	result := BlockResult{
		Metrics: metrics,
		Signal:  e.tracker.Signal(lc.LearnerID),
	}

	e.appendEvent(func(ctx context.Context) error {
		return e.events.AppendEngagement(ctx, store.EngagementEventData{
			LearnerID:  lc.LearnerID,
			BlockID:    block.ID,
			BlockType:  string(block.Type),
			ExpectedMs: engagement.ExpectedTime(block),
			ActualMs:   actualMs,
			WasSkipped: metrics.SkipStreak > 0,
			SkipStreak: metrics.SkipStreak,
			Ratio:      metrics.Ratio,
		})
	})

	if !speedbump.ShouldTrigger(metrics) {
		return result, nil
	}

	iv := e.speedBumps.Generate(lc.LearnerID, metrics, block.ID)
	e.enqueue(lc.LearnerID, &iv)
	result.Intervention = &iv

	if iv.Priority == intervention.PriorityHigh {
		if gaps := lc.RecentGaps(); len(gaps) > 0 {
			result.Bridge = e.generateBridge(lc.LearnerID, gaps)
		}
	}

	return result, nil
}

// AssessmentResult is what OnAssessmentResponse hands back to the caller.
type AssessmentResult struct {
	Signal       *confidence.Signal
	Intervention *intervention.Intervention

	// Bridge is set when severe false confidence escalated into a
	// micro-bridge for the affected skill. Returned, never enqueued.
	Bridge *microbridge.Bridge
}

// OnAssessmentResponse processes a graded answer plus the learner's
// self-reported confidence. A missing KnowledgeState for the skill is a
// logged no-op, not an error.
func (e *Engine) OnAssessmentResponse(
	lc *LearnerContext,
	skillID, skillName string,
	correct bool,
	selfReportedConfidence float64,
	hesitation signals.Hesitation,
) (AssessmentResult, error) {
	if selfReportedConfidence < 0 || selfReportedConfidence > 1 {
		return AssessmentResult{}, fmt.Errorf(
			"%w: self-reported confidence %.2f outside [0,1]", ErrInvalidInput, selfReportedConfidence)
	}

	ks, ok := lc.SkillStates[skillID]
	if !ok {
		e.log.Warn("no knowledge state for skill, skipping confidence check",
			zap.String("learner_id", lc.LearnerID),
			zap.String("skill_id", skillID),
		)
		return AssessmentResult{}, nil
	}
	if ks.MasteryProbability < 0 || ks.MasteryProbability > 1 {
		return AssessmentResult{}, fmt.Errorf(
			"%w: mastery probability %.2f outside [0,1]", ErrInvalidInput, ks.MasteryProbability)
	}

	sig := confidence.Detect(lc.LearnerID, skillID, selfReportedConfidence, ks, hesitation)
	result := AssessmentResult{Signal: &sig}

	if !sig.IsFalseConfidence {
		return result, nil
	}

	e.log.Debug("false confidence detected",
		zap.String("learner_id", lc.LearnerID),
		zap.String("skill_id", skillID),
		zap.Bool("correct", correct),
		zap.Float64("divergence", sig.Divergence),
		zap.String("severity", string(sig.Severity)),
	)

	iv := e.detector.GenerateIntervention(sig, skillName)
	e.enqueue(lc.LearnerID, &iv)
	result.Intervention = &iv

	if sig.Severity == intervention.SeveritySevere {
		gap := microbridge.NewSkillGap(skillID, skillName, ks.MasteryProbability, e.cfg.TargetMastery)
		lc.AddGap(gap)
		result.Bridge = e.generateBridge(lc.LearnerID, []microbridge.SkillGap{gap})
	}

	return result, nil
}

// Pending returns the learner's non-expired interventions.
func (e *Engine) Pending(learnerID string) []intervention.Intervention {
	pending, err := e.queue.Pending(learnerID)
	if err != nil {
		e.log.Warn("failed to read pending interventions",
			zap.String("learner_id", learnerID), zap.Error(err))
		return nil
	}
	return pending
}

// Accept marks an intervention accepted and removes it from the queue.
// Accepting a speed bump also clears the learner's engagement session so
// the slate is clean after the review. ok is false if the intervention is
// not pending.
func (e *Engine) Accept(learnerID, id string) (intervention.Intervention, bool) {
	iv, ok, err := e.queue.Remove(learnerID, id)
	if err != nil {
		e.log.Warn("failed to remove intervention",
			zap.String("learner_id", learnerID), zap.String("intervention_id", id), zap.Error(err))
		return intervention.Intervention{}, false
	}
	if !ok {
		return intervention.Intervention{}, false
	}

	now := time.Now()
	iv.AcceptedAt = &now

	if iv.Type == intervention.TypeSpeedBump {
		e.tracker.ResetSession(learnerID)
	}

	e.appendInterventionEvent(learnerID, iv, "accepted")
	return iv, true
}

// Dismiss removes an intervention without acting on it.
func (e *Engine) Dismiss(learnerID, id string) bool {
	iv, ok, err := e.queue.Remove(learnerID, id)
	if err != nil {
		e.log.Warn("failed to remove intervention",
			zap.String("learner_id", learnerID), zap.String("intervention_id", id), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	now := time.Now()
	iv.DismissedAt = &now

	e.appendInterventionEvent(learnerID, iv, "dismissed")
	return true
}

// Clear drops the learner's entire intervention queue.
func (e *Engine) Clear(learnerID string) {
	if err := e.queue.Clear(learnerID); err != nil {
		e.log.Warn("failed to clear interventions",
			zap.String("learner_id", learnerID), zap.Error(err))
	}
}

// enqueue adds an intervention to the queue, logging instead of failing.
func (e *Engine) enqueue(learnerID string, iv *intervention.Intervention) {
	if err := e.queue.Enqueue(learnerID, *iv); err != nil {
		e.log.Warn("failed to enqueue intervention",
			zap.String("learner_id", learnerID),
			zap.String("type", string(iv.Type)),
			zap.Error(err),
		)
		return
	}
	e.appendInterventionEvent(learnerID, *iv, "created")
}

// generateBridge builds a bridge and records its creation.
func (e *Engine) generateBridge(learnerID string, gaps []microbridge.SkillGap) *microbridge.Bridge {
	bridge := e.bridges.Generate(learnerID, gaps, e.cfg.MaxBridgeDurationSecs)
	if bridge == nil {
		return nil
	}

	e.appendEvent(func(ctx context.Context) error {
		return e.events.AppendBridge(ctx, store.BridgeEventData{
			LearnerID:    learnerID,
			BridgeID:     bridge.ID,
			SkillIDs:     bridge.TargetSkills,
			DurationSecs: bridge.EstimatedDurationSecs,
			Status:       string(bridge.Status),
		})
	})
	return bridge
}

func (e *Engine) appendInterventionEvent(learnerID string, iv intervention.Intervention, action string) {
	e.appendEvent(func(ctx context.Context) error {
		return e.events.AppendIntervention(ctx, store.InterventionEventData{
			LearnerID:      learnerID,
			InterventionID: iv.ID,
			Type:           string(iv.Type),
			Trigger:        string(iv.Trigger),
			Priority:       string(iv.Priority),
			Severity:       string(iv.Severity),
			Action:         action,
			Message:        iv.Message,
		})
	})
}

// appendEvent runs an event append when a repo is attached. Failures are
// logged, never surfaced.
func (e *Engine) appendEvent(fn func(context.Context) error) {
	if e.events == nil {
		return
	}
	if err := fn(context.Background()); err != nil {
		e.log.Warn("failed to append event", zap.Error(err))
	}
}
