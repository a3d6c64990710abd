package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Original schema: records keyed by (connection_id, tool_workflow_id)
			CREATE TABLE connections (
				id VARCHAR(255) PRIMARY KEY,
				user_id VARCHAR(255) NOT NULL,
				provider VARCHAR(50) NOT NULL,
				name VARCHAR(255),
				config JSONB DEFAULT '{}',
				last_synced_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_connections_user_id ON connections(user_id);
			CREATE INDEX idx_connections_provider ON connections(provider);

			CREATE TABLE workflow_records (
				id UUID PRIMARY KEY,
				connection_id VARCHAR(255) NOT NULL REFERENCES connections(id),
				user_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				active BOOLEAN NOT NULL DEFAULT false,
				tool_workflow_id VARCHAR(255),
				graph JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE UNIQUE INDEX idx_workflow_records_legacy_key
				ON workflow_records(connection_id, tool_workflow_id)
				WHERE tool_workflow_id IS NOT NULL;

			CREATE INDEX idx_workflow_records_connection_id ON workflow_records(connection_id);

			CREATE TABLE sync_logs (
				id UUID PRIMARY KEY,
				connection_id VARCHAR(255) NOT NULL REFERENCES connections(id),
				user_id VARCHAR(255) NOT NULL,
				status VARCHAR(20) NOT NULL CHECK (status IN ('SUCCESS', 'PARTIAL', 'ERROR')),
				workflows_count INT NOT NULL DEFAULT 0,
				error_message TEXT,
				synced_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_sync_logs_connection_id ON sync_logs(connection_id);
			CREATE INDEX idx_sync_logs_synced_at ON sync_logs(synced_at);
		`,
		2: `
			-- Migration 2: provider-scoped identity. Legacy rows keep their
			-- (connection_id, tool_workflow_id) key; the sync engine backfills
			-- provider and external_id on the next successful sync.
			ALTER TABLE workflow_records
				ADD COLUMN provider VARCHAR(50),
				ADD COLUMN external_id VARCHAR(255);

			CREATE UNIQUE INDEX idx_workflow_records_provider_key
				ON workflow_records(provider, external_id)
				WHERE provider IS NOT NULL AND external_id IS NOT NULL;

			CREATE INDEX idx_workflow_records_provider ON workflow_records(provider);
		`,
	}
}
