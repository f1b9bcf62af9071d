package store

const (
	StatusParsed = "parsed"
	StatusFailed = "failed"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS awr_reports (
		id                UUID PRIMARY KEY,
		filename          VARCHAR(255) NOT NULL,
		file_size         BIGINT,
		oracle_version    VARCHAR(50),
		db_name           VARCHAR(100),
		instance_name     VARCHAR(100),
		host_name         VARCHAR(100),
		snapshot_begin    TIMESTAMPTZ,
		snapshot_end      TIMESTAMPTZ,
		snapshot_interval INTEGER,
		status            VARCHAR(20) NOT NULL,
		error_message     TEXT,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_awr_reports_db_name ON awr_reports (db_name)`,
	`CREATE INDEX IF NOT EXISTS ix_awr_reports_snapshot_begin ON awr_reports (snapshot_begin)`,
	`CREATE TABLE IF NOT EXISTS performance_metrics (
		id              BIGSERIAL PRIMARY KEY,
		report_id       UUID NOT NULL REFERENCES awr_reports (id) ON DELETE CASCADE,
		metric_category VARCHAR(50) NOT NULL,
		metric_data     JSONB NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_performance_metrics_report_id ON performance_metrics (report_id)`,
	`CREATE INDEX IF NOT EXISTS ix_performance_metrics_data ON performance_metrics USING gin (metric_data)`,
	`CREATE TABLE IF NOT EXISTS diagnostic_results (
		id                BIGSERIAL PRIMARY KEY,
		report_id         UUID NOT NULL REFERENCES awr_reports (id) ON DELETE CASCADE,
		rule_id           VARCHAR(50) NOT NULL,
		severity          VARCHAR(20) NOT NULL,
		category          VARCHAR(50) NOT NULL,
		issue_title       VARCHAR(255) NOT NULL,
		issue_description TEXT NOT NULL,
		recommendation    TEXT NOT NULL,
		metric_values     JSONB,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_diagnostic_results_report_id ON diagnostic_results (report_id)`,
	`CREATE INDEX IF NOT EXISTS ix_diagnostic_results_severity ON diagnostic_results (severity)`,
}

const insertReport = `INSERT INTO awr_reports (
	id, filename, file_size, oracle_version, db_name, instance_name, host_name,
	snapshot_begin, snapshot_end, snapshot_interval, status, error_message
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const insertMetric = `INSERT INTO performance_metrics (report_id, metric_category, metric_data)
VALUES ($1, $2, $3)`

const insertResult = `INSERT INTO diagnostic_results (
	report_id, rule_id, severity, category, issue_title, issue_description,
	recommendation, metric_values
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
