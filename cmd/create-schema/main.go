package main

import (
	"context"

	"jurisai-backend/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var tables = []struct {
	name string
	sql  string
}{
	{
		name: "matters",
		sql: `
CREATE TABLE IF NOT EXISTS matters (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    matter_reference VARCHAR(100) NOT NULL DEFAULT '',
    matter_name VARCHAR(255) NOT NULL,
    client_name VARCHAR(255) NOT NULL DEFAULT '',
    court VARCHAR(255) NOT NULL DEFAULT '',
    matter_type VARCHAR(50) NOT NULL DEFAULT 'Other',
    status VARCHAR(50) NOT NULL DEFAULT 'Active'
        CHECK (status IN ('Active', 'On Hold', 'Closed', 'Appeal Pending')),
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		name: "legal_authorities",
		sql: `
CREATE TABLE IF NOT EXISTS legal_authorities (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    matter_id UUID REFERENCES matters(id) ON DELETE SET NULL,
    title TEXT NOT NULL,
    citation TEXT NOT NULL DEFAULT '',
    court TEXT NOT NULL DEFAULT '',
    year VARCHAR(10) NOT NULL DEFAULT '',
    authority_type VARCHAR(50) NOT NULL DEFAULT 'Other',
    legal_principle TEXT NOT NULL DEFAULT '',
    relevance TEXT NOT NULL DEFAULT '',
    key_quotes TEXT[] NOT NULL DEFAULT '{}',
    tags TEXT[] NOT NULL DEFAULT '{}',
    validity VARCHAR(50) NOT NULL DEFAULT 'Active',
    url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		name: "legal_issues",
		sql: `
CREATE TABLE IF NOT EXISTS legal_issues (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    matter_id UUID NOT NULL REFERENCES matters(id) ON DELETE CASCADE,
    question TEXT NOT NULL,
    summary TEXT NOT NULL DEFAULT '',
    status VARCHAR(50) NOT NULL DEFAULT 'Open',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		name: "arguments",
		sql: `
CREATE TABLE IF NOT EXISTS arguments (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    matter_id UUID NOT NULL REFERENCES matters(id) ON DELETE CASCADE,
    version_number INTEGER NOT NULL CHECK (version_number > 0),
    position VARCHAR(50) NOT NULL,
    fact_pattern TEXT NOT NULL DEFAULT '',
    fact_expansions JSONB NOT NULL DEFAULT '{}'::jsonb,
    argument_text TEXT NOT NULL,
    authority_ids UUID[] NOT NULL DEFAULT '{}',
    status VARCHAR(50) NOT NULL DEFAULT 'Draft',
    parent_version_id UUID REFERENCES arguments(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (matter_id, version_number)
);`,
	},
	{
		name: "documents",
		sql: `
CREATE TABLE IF NOT EXISTS documents (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    matter_id UUID NOT NULL REFERENCES matters(id) ON DELETE CASCADE,
    document_type VARCHAR(100) NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    status VARCHAR(50) NOT NULL DEFAULT 'Draft',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		// ids are chosen by the service so the storage path can embed them
		name: "files",
		sql: `
CREATE TABLE IF NOT EXISTS files (
    id UUID PRIMARY KEY,
    matter_id UUID REFERENCES matters(id) ON DELETE SET NULL,
    filename VARCHAR(255) NOT NULL,
    mime_type VARCHAR(255) NOT NULL,
    size BIGINT NOT NULL,
    storage_path TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		name: "generation_runs",
		sql: `
CREATE TABLE IF NOT EXISTS generation_runs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    task VARCHAR(50) NOT NULL,
    matter_id UUID REFERENCES matters(id) ON DELETE SET NULL,
    session_id UUID,
    status VARCHAR(50) NOT NULL
        CHECK (status IN ('generating', 'succeeded', 'failed', 'discarded')),
    prompt_chars INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);`,
	},
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_matters_status ON matters(status);",
	"CREATE INDEX IF NOT EXISTS idx_matters_updated_at ON matters(updated_at DESC);",
	"CREATE INDEX IF NOT EXISTS idx_authorities_matter_id ON legal_authorities(matter_id);",
	"CREATE INDEX IF NOT EXISTS idx_authorities_created_at ON legal_authorities(created_at DESC);",
	"CREATE INDEX IF NOT EXISTS idx_issues_matter_id ON legal_issues(matter_id);",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_issues_matter_question ON legal_issues(matter_id, lower(question));",
	"CREATE INDEX IF NOT EXISTS idx_documents_matter_id ON documents(matter_id);",
	"CREATE INDEX IF NOT EXISTS idx_files_matter_id ON files(matter_id);",
	"CREATE INDEX IF NOT EXISTS idx_generation_runs_matter_id ON generation_runs(matter_id);",
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	for _, t := range tables {
		if _, err := pool.Exec(ctx, t.sql); err != nil {
			logger.Fatal("failed to create table", zap.String("table", t.name), zap.Error(err))
		}
		logger.Info("table ready", zap.String("table", t.name))
	}

	for _, sql := range indexes {
		if _, err := pool.Exec(ctx, sql); err != nil {
			logger.Warn("failed to create index", zap.String("sql", sql), zap.Error(err))
		}
	}

	logger.Info("schema created")
}
