package postgres

import (
	"context"
	"fmt"

	"team-task-manager/internal/entities"
)

const (
	taskStatsByStatusQuery = `
SELECT t.status, COUNT(*)
FROM tasks t
WHERE ` + visibleTaskPredicate + `
GROUP BY t.status`
	taskStatsOverdueQuery = `
SELECT COUNT(*)
FROM tasks t
WHERE ` + visibleTaskPredicate + `
  AND t.due_date < NOW() AND t.status <> 'completed'`
)

// TaskStats aggregates the tasks visible to viewerID. A task matching both the
// membership and the assignee predicate is counted once.
func (p *Postgres) TaskStats(ctx context.Context, viewerID int64) (entities.TaskStats, error) {
	stats := entities.TaskStats{ByStatus: make(map[entities.TaskStatus]int64, len(entities.TaskStatuses))}
	for _, s := range entities.TaskStatuses {
		stats.ByStatus[s] = 0
	}

	rows, err := p.db.Query(ctx, taskStatsByStatusQuery, viewerID)
	if err != nil {
		return stats, fmt.Errorf("task stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status entities.TaskStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return stats, fmt.Errorf("scan task stats: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate task stats: %w", err)
	}

	if err := p.db.QueryRow(ctx, taskStatsOverdueQuery, viewerID).Scan(&stats.Overdue); err != nil {
		return stats, fmt.Errorf("overdue stats: %w", err)
	}
	return stats, nil
}
