package sql

import (
	"embed"
)

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/upsert_assessment.sql
var UpsertAssessment string

//go:embed queries/list_assessments.sql
var ListAssessments string

//go:embed queries/current_hashes.sql
var CurrentHashes string

//go:embed queries/lock_run_assessments.sql
var LockRunAssessments string

//go:embed queries/clear_current.sql
var ClearCurrent string

//go:embed queries/set_current.sql
var SetCurrent string

//go:embed queries/current_classification.sql
var CurrentClassification string

//go:embed queries/delete_run.sql
var DeleteRun string
