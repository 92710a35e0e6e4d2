package store

import "context"

// UpsertReportJob stores the daily report time for a chat, one row per chat.
func (s *Store) UpsertReportJob(ctx context.Context, chatID int64, hour, minute int) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO report_jobs (chat_id, hour, minute)
		VALUES ($1,$2,$3)
		ON CONFLICT (chat_id) DO UPDATE SET hour = EXCLUDED.hour, minute = EXCLUDED.minute
	`, chatID, hour, minute)
	return err
}

func (s *Store) DeleteReportJob(ctx context.Context, chatID int64) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM report_jobs WHERE chat_id = $1`, chatID)
	return err
}

// ListReportJobs returns every stored schedule, used to re-arm timers at startup.
func (s *Store) ListReportJobs(ctx context.Context) ([]ReportJob, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT chat_id, hour, minute FROM report_jobs ORDER BY chat_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ReportJob{}
	for rows.Next() {
		var j ReportJob
		if err := rows.Scan(&j.ChatID, &j.Hour, &j.Minute); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
