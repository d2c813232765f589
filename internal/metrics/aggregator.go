// Package metrics computes the dashboard KPI snapshot. Two strategies are
// provided and must never be mixed: ComputeFromCases operates on cases that
// already embed their invoice (one round trip with a relational join), while
// ComputeFromRaw reconciles separately fetched cases, invoices and
// correspondents by id lookup. The decomposed strategy is the canonical one;
// the state store's FetchMetrics uses it exclusively, because the store
// cannot always produce the join in one round trip.
package metrics

import "github.com/assistravel/casedesk/internal/domain"

// Snapshot is the KPI bundle shown on the dashboard.
type Snapshot struct {
	ActiveCases                  int     `json:"casosActivos"`
	PendingBillingCases          int     `json:"casosPendientesFacturar"`
	TotalPendingFee              float64 `json:"feeTotalPendiente"`
	TotalEstimatedUSDCost        float64 `json:"costoUsdTotalEstimado"`
	TotalCorrespondents          int     `json:"totalCorresponsales"`
	CorrespondentsWithActiveCase int     `json:"corresponsalesConCasosActivos"`
}

// CaseFacts is the per-case slice of a decomposed metrics read.
type CaseFacts struct {
	ID              uint
	InternalStatus  domain.InternalStatus
	BillingStatus   domain.BillingStatus
	CorrespondentID uint
}

// InvoiceFacts is the per-invoice slice of a decomposed metrics read,
// keyed by case id in Raw.
type InvoiceFacts struct {
	HasInvoice bool
	Fee        float64
	CostUSD    float64
}

// Raw is the decomposed input shape: each collection is fetched on its own
// and reconciled here by id, so the aggregator works even when the store
// cannot embed relations.
type Raw struct {
	Cases            []CaseFacts
	InvoicesByCase   map[uint]InvoiceFacts
	CorrespondentIDs []uint
}

// ComputeFromRaw computes the snapshot with the decomposed strategy. The
// pending-billing count degrades to the single to-rebill predicate and the
// estimated USD cost sums over all invoices, because a reliable per-case
// join is not assumed here.
func ComputeFromRaw(raw *Raw) Snapshot {
	var snap Snapshot
	if raw == nil {
		return snap
	}

	activeCorrespondents := make(map[uint]struct{})
	for _, c := range raw.Cases {
		if c.InternalStatus == domain.StatusActivo {
			snap.ActiveCases++
			activeCorrespondents[c.CorrespondentID] = struct{}{}
		}
		if c.BillingStatus == domain.BillingRefacturar {
			snap.PendingBillingCases++
		}
		if inv, ok := raw.InvoicesByCase[c.ID]; ok {
			if !inv.HasInvoice {
				snap.TotalPendingFee += inv.Fee
			}
			snap.TotalEstimatedUSDCost += inv.CostUSD
		}
	}

	snap.TotalCorrespondents = len(raw.CorrespondentIDs)
	snap.CorrespondentsWithActiveCase = len(activeCorrespondents)
	return snap
}

// ComputeFromCases computes the snapshot with the joined strategy, over
// cases that already embed their invoice. The richer formulas apply: a case
// is pending billing when it has no issued invoice or is flagged to-rebill,
// and the estimated USD cost is restricted to active cases.
func ComputeFromCases(cases []domain.Case, totalCorrespondents int) Snapshot {
	var snap Snapshot

	activeCorrespondents := make(map[uint]struct{})
	for i := range cases {
		c := &cases[i]
		if c.InternalStatus == domain.StatusActivo {
			snap.ActiveCases++
			activeCorrespondents[c.CorrespondentID] = struct{}{}
			snap.TotalEstimatedUSDCost += c.EffectiveCostUSD()
		}
		hasIssuedInvoice := c.Invoice != nil && c.Invoice.HasInvoice
		if !hasIssuedInvoice || c.BillingStatus == domain.BillingRefacturar {
			snap.PendingBillingCases++
		}
		if !hasIssuedInvoice {
			snap.TotalPendingFee += c.EffectiveFee()
		}
	}

	snap.TotalCorrespondents = totalCorrespondents
	snap.CorrespondentsWithActiveCase = len(activeCorrespondents)
	return snap
}
