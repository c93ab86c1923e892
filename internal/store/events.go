package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// eventRepo implements EventRepo over raw SQL.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendEngagement(ctx context.Context, data EngagementEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO engagement_events
			(sequence, learner_id, block_id, block_type, expected_ms, actual_ms, was_skipped, skip_streak, ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.LearnerID, data.BlockID, data.BlockType,
		data.ExpectedMs, data.ActualMs, data.WasSkipped, data.SkipStreak, data.Ratio,
	)
	if err != nil {
		return fmt.Errorf("save engagement event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendIntervention(ctx context.Context, data InterventionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO intervention_events
			(sequence, learner_id, intervention_id, type, trigger_name, priority, severity, action, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.LearnerID, data.InterventionID, data.Type,
		data.Trigger, data.Priority, data.Severity, data.Action, data.Message,
	)
	if err != nil {
		return fmt.Errorf("save intervention event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendBridge(ctx context.Context, data BridgeEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	skillIDs, err := json.Marshal(data.SkillIDs)
	if err != nil {
		return fmt.Errorf("marshal skill ids: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO bridge_events
			(sequence, learner_id, bridge_id, skill_ids, duration_secs, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		seqNum, data.LearnerID, data.BridgeID, string(skillIDs), data.DurationSecs, data.Status,
	)
	if err != nil {
		return fmt.Errorf("save bridge event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO llm_request_events
			(sequence, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save llm request event: %w", err)
	}
	return nil
}

func (r *eventRepo) InterventionCounts(ctx context.Context, learnerID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT action, COUNT(*) FROM intervention_events WHERE learner_id = ? GROUP BY action`,
		learnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query intervention counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, fmt.Errorf("scan intervention count: %w", err)
		}
		counts[action] = n
	}
	return counts, rows.Err()
}

func (r *eventRepo) QueryInterventionEvents(ctx context.Context, learnerID string, opts QueryOpts) ([]InterventionEventRecord, error) {
	var sb strings.Builder
	sb.WriteString(
		`SELECT sequence, timestamp, learner_id, intervention_id, type, trigger_name, priority, severity, action, message
		FROM intervention_events WHERE learner_id = ?`)
	args := []any{learnerID}

	if !opts.From.IsZero() {
		sb.WriteString(" AND timestamp >= ?")
		args = append(args, opts.From)
	}
	if !opts.To.IsZero() {
		sb.WriteString(" AND timestamp <= ?")
		args = append(args, opts.To)
	}
	sb.WriteString(" ORDER BY sequence")
	if opts.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query intervention events: %w", err)
	}
	defer rows.Close()

	var out []InterventionEventRecord
	for rows.Next() {
		var rec InterventionEventRecord
		err := rows.Scan(
			&rec.Sequence, &rec.Timestamp, &rec.LearnerID, &rec.InterventionID,
			&rec.Type, &rec.Trigger, &rec.Priority, &rec.Severity, &rec.Action, &rec.Message,
		)
		if err != nil {
			return nil, fmt.Errorf("scan intervention event: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) EngagementSummary(ctx context.Context, learnerID string) (EngagementSummary, error) {
	var summary EngagementSummary
	var avgRatio sql.NullFloat64

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(was_skipped), 0), AVG(ratio)
		FROM engagement_events WHERE learner_id = ?`,
		learnerID,
	).Scan(&summary.Blocks, &summary.SkippedBlocks, &avgRatio)
	if err != nil {
		return EngagementSummary{}, fmt.Errorf("query engagement summary: %w", err)
	}

	if avgRatio.Valid {
		summary.AvgRatio = avgRatio.Float64
	}
	return summary, nil
}
