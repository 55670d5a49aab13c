// Package sql embeds the Postgres migrations and queries and the SQLite
// schema.
package sql

import (
	"embed"
)

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_run.sql
var RegisterRun string

//go:embed queries/lookup_run.sql
var LookupRun string

//go:embed queries/update_run_status.sql
var UpdateRunStatus string

//go:embed queries/finish_run.sql
var FinishRun string

//go:embed sqlite/schema.sql
var SQLiteSchema string

// SQLiteValuesTable is a CREATE TABLE template; %s is the quoted table name.
//
//go:embed sqlite/values_table.sql
var SQLiteValuesTable string
