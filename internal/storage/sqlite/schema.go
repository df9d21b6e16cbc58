package sqlite

const schema = `
-- Projects table
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    logo_url TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Sprints table
-- start_date/end_date are date-only (YYYY-MM-DD); they compare by calendar
-- date, not instant. "At most one active sprint per project" is enforced
-- procedurally by the lifecycle manager, not by a constraint here.
CREATE TABLE IF NOT EXISTS sprints (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    name TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sprints_project ON sprints(project_id);
CREATE INDEX IF NOT EXISTS idx_sprints_active ON sprints(project_id, is_active);

-- Issues table
CREATE TABLE IF NOT EXISTS issues (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    sprint_id TEXT,
    program_component TEXT NOT NULL DEFAULT '',
    sub_components TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    issue_type TEXT NOT NULL DEFAULT 'Bug',
    category TEXT NOT NULL DEFAULT 'Backlog',
    status TEXT NOT NULL DEFAULT 'Open',
    priority INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_id);
CREATE INDEX IF NOT EXISTS idx_issues_sprint ON issues(sprint_id);
CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status);

-- Issue logs table (append-only audit trail)
-- Entries are immutable once written and deliberately carry no foreign key
-- to issues: logs outlive their issue for audit purposes.
CREATE TABLE IF NOT EXISTS issue_logs (
    id TEXT PRIMARY KEY,
    issue_id TEXT NOT NULL,
    actor TEXT NOT NULL DEFAULT 'System',
    action TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    field_changed TEXT,
    old_value TEXT,
    new_value TEXT,
    timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_issue_logs_issue ON issue_logs(issue_id, timestamp);
`
