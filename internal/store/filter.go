package store

import "time"

// RecordFilter narrows ledger list queries. The date window is inclusive on
// both ends and compared by calendar date; zero Start/End means no date
// restriction. VisibleBases, when non-nil, restricts results to records
// scoped to those bases (the caller's visibility set).
type RecordFilter struct {
	Start           time.Time
	End             time.Time
	BaseID          string
	EquipmentTypeID string
	VisibleBases    []string
}

const dateLayout = "2006-01-02"

// dateClause appends an inclusive calendar-date window condition for column.
func (f RecordFilter) dateClause(column string, query *string, args *[]any) {
	if f.Start.IsZero() || f.End.IsZero() {
		return
	}
	*query += ` AND date(` + column + `) >= date(?) AND date(` + column + `) <= date(?)`
	*args = append(*args, f.Start.Format(dateLayout), f.End.Format(dateLayout))
}

// inClause appends an IN condition over ids for column. An empty id set
// matches nothing.
func inClause(column string, ids []string, query *string, args *[]any) {
	if len(ids) == 0 {
		*query += ` AND 1 = 0`
		return
	}
	*query += ` AND ` + column + ` IN (`
	for i, id := range ids {
		if i > 0 {
			*query += `, `
		}
		*query += `?`
		*args = append(*args, id)
	}
	*query += `)`
}
