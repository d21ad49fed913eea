// Package dashboard computes net-movement accounting metrics over the record
// store: opening/closing balances and a net-movement figure decomposed into
// purchases, transfers in and transfers out, with the underlying records
// itemized for drill-down.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	"quartermaster/internal/model"
	"quartermaster/internal/store"
)

// DefaultOpeningBalance is the baseline stock level used when no opening
// balance is configured. It is a constant, not derived from records predating
// the filter window.
const DefaultOpeningBalance = 10000

// PreconditionError reports a malformed filter, such as an inverted or
// missing date window. Computation fails fast rather than returning an
// empty-range result.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

func preconditionErrorf(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// Engine computes dashboard metrics. It holds no state beyond its
// configuration; Metrics is a pure function of the filter and the store
// contents.
type Engine struct {
	DB             *sql.DB
	OpeningBalance int
}

// NewEngine returns an engine with the default opening balance.
func NewEngine(db *sql.DB) *Engine {
	return &Engine{DB: db, OpeningBalance: DefaultOpeningBalance}
}

// Metrics computes the dashboard summary for the filter window. The window is
// inclusive on both ends by calendar date. With no base filter, a transfer
// appears in both the transfers-in and transfers-out lists: the global view
// has no directionality, and net movement reflects gross activity reconciled
// at the organization level.
func (e *Engine) Metrics(ctx context.Context, f model.Filter) (*model.DashboardMetrics, error) {
	if f.Start.IsZero() || f.End.IsZero() {
		return nil, preconditionErrorf("filter date range required")
	}
	if f.End.Before(f.Start) {
		return nil, preconditionErrorf("filter end date precedes start date")
	}

	rf := store.RecordFilter{
		Start:           f.Start,
		End:             f.End,
		BaseID:          f.BaseID,
		EquipmentTypeID: f.EquipmentTypeID,
		VisibleBases:    f.VisibleBases,
	}

	purchases, err := store.ListPurchases(ctx, e.DB, rf)
	if err != nil {
		return nil, err
	}
	transfersIn, err := store.ListTransfers(ctx, e.DB, rf, store.TransferInbound)
	if err != nil {
		return nil, err
	}
	transfersOut, err := store.ListTransfers(ctx, e.DB, rf, store.TransferOutbound)
	if err != nil {
		return nil, err
	}
	expenditures, err := store.ListExpenditures(ctx, e.DB, rf)
	if err != nil {
		return nil, err
	}
	assignments, err := store.ListAssignments(ctx, e.DB, rf)
	if err != nil {
		return nil, err
	}

	var totalPurchases int
	for _, p := range purchases {
		totalPurchases += p.Quantity
	}
	var totalTransfersIn int
	for _, t := range transfersIn {
		totalTransfersIn += t.Quantity
	}
	var totalTransfersOut int
	for _, t := range transfersOut {
		totalTransfersOut += t.Quantity
	}
	var totalExpended int
	for _, x := range expenditures {
		totalExpended += x.QuantityExpended
	}
	var assignedCount int
	for _, a := range assignments {
		if a.IsActive {
			assignedCount++
		}
	}

	netMovement := totalPurchases + totalTransfersIn - totalTransfersOut

	if purchases == nil {
		purchases = []model.Purchase{}
	}
	if transfersIn == nil {
		transfersIn = []model.Transfer{}
	}
	if transfersOut == nil {
		transfersOut = []model.Transfer{}
	}

	opening := e.OpeningBalance
	return &model.DashboardMetrics{
		OpeningBalance: opening,
		ClosingBalance: opening + netMovement - totalExpended,
		NetMovement:    netMovement,
		AssignedAssets: assignedCount,
		ExpendedAssets: totalExpended,
		NetMovementBreakdown: model.NetMovementBreakdown{
			Purchases:         purchases,
			TransfersIn:       transfersIn,
			TransfersOut:      transfersOut,
			TotalPurchases:    totalPurchases,
			TotalTransfersIn:  totalTransfersIn,
			TotalTransfersOut: totalTransfersOut,
			NetMovement:       netMovement,
		},
	}, nil
}
