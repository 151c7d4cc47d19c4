package rollup

import (
	"fmt"
	"sort"

	"activation-metrics-service/internal/metrics/core/domain"

	"github.com/hashicorp/go-multierror"
)

// MetricKind says how a metric's per-period value is derived from the
// entity x period cells.
type MetricKind int

const (
	// KindPeriodTotal sums the measure over all entities in the period.
	KindPeriodTotal MetricKind = iota
	// KindActiveEntities counts entities with at least one event in the period.
	KindActiveEntities
	// KindRunningTotal sums every entity's running total at the end of the period.
	KindRunningTotal
	// KindPeriodDelta is PeriodDelta of the Base metric against its previous period.
	KindPeriodDelta
	// KindRatio is Base / Denominator x 100 for the same period; null when
	// the denominator is zero.
	KindRatio
)

// Derived reports whether the kind reads other metrics instead of cells.
func (k MetricKind) Derived() bool {
	return k == KindPeriodDelta || k == KindRatio
}

// MetricDefinition is one row of the catalog. Adding a metric to a report is
// adding a definition; there is no per-metric code.
type MetricDefinition struct {
	Name        string
	SortOrder   int
	Kind        MetricKind
	Measure     domain.Measure
	EventTypes  []string
	Base        string
	Denominator string
	Format      FormatRule
}

type Catalog []MetricDefinition

// Validate checks names are unique and that every reference resolves.
func (c Catalog) Validate() error {
	var result *multierror.Error

	byName := make(map[string]MetricDefinition, len(c))
	for _, def := range c {
		if def.Name == "" {
			result = multierror.Append(result, fmt.Errorf("metric with sort order %d has no name", def.SortOrder))
			continue
		}
		if _, dup := byName[def.Name]; dup {
			result = multierror.Append(result, fmt.Errorf("metric %q is defined twice", def.Name))
		}
		byName[def.Name] = def
	}

	for _, def := range c {
		switch def.Kind {
		case KindPeriodDelta:
			base, ok := byName[def.Base]
			switch {
			case !ok:
				result = multierror.Append(result, fmt.Errorf("metric %q: unknown base %q", def.Name, def.Base))
			case base.Kind == KindPeriodDelta:
				result = multierror.Append(result, fmt.Errorf("metric %q: base %q is itself a delta", def.Name, def.Base))
			}
			continue
		case KindRatio:
			for _, ref := range []string{def.Base, def.Denominator} {
				operand, ok := byName[ref]
				switch {
				case !ok:
					result = multierror.Append(result, fmt.Errorf("metric %q: unknown operand %q", def.Name, ref))
				case operand.Kind.Derived():
					result = multierror.Append(result, fmt.Errorf("metric %q: operand %q is not computed from cells", def.Name, ref))
				}
			}
			continue
		}
		if len(def.EventTypes) == 0 {
			result = multierror.Append(result, fmt.Errorf("metric %q selects no event types", def.Name))
		}
	}

	return result.ErrorOrNil()
}

// Sorted returns a copy ordered by sort order, then name.
func (c Catalog) Sorted() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// EventTypes is the sorted union of every event type the catalog reads.
func (c Catalog) EventTypes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, def := range c {
		for _, t := range def.EventTypes {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// Lookup finds a definition by name.
func (c Catalog) Lookup(name string) (MetricDefinition, bool) {
	for _, def := range c {
		if def.Name == name {
			return def, true
		}
	}
	return MetricDefinition{}, false
}

// Event types read by JourneyTenantActivity.
const (
	JourneyCreatedType = "create_journey"
	JourneyRunType     = "journey_run"
)

var (
	journeyCreated  = []string{JourneyCreatedType}
	journeyRun      = []string{JourneyRunType}
	campaignSend    = []string{"campaign_send", "segment_send"}
	paidMediaSend   = []string{"paid_media_send"}
	allSends        = union(campaignSend, paidMediaSend)
	ampsActivation  = []string{"amps_activation"}
	ampsCampaigns   = []string{"amps_campaigns"}
	ampsJourneys    = []string{"amps_journeys"}
	ampsOrchestrate = []string{"amps_orchestration"}
	ampsProfileAPI  = []string{"amps_profile_api"}
	ampsUsage       = union([]string{"amps"}, ampsActivation, ampsCampaigns, ampsJourneys, ampsOrchestrate, ampsProfileAPI)
	sourceConnector = []string{"create_source_connector"}
	destConnector   = []string{"create_destination_connector"}
	bidirConnector  = []string{"create_bidirectional_connector"}
	anyTenantAction = union(journeyCreated, journeyRun, allSends, ampsUsage, sourceConnector, destConnector, bidirConnector)
)

func union(sets ...[]string) []string {
	var out []string
	for _, set := range sets {
		out = append(out, set...)
	}
	return out
}

// DefaultCatalog is the activation dashboard's weekly metric set.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Journeys", SortOrder: 10, Kind: KindPeriodTotal, Measure: domain.MeasureCount, EventTypes: journeyCreated, Format: FormatInteger},
		{Name: "Total Journeys", SortOrder: 11, Kind: KindRunningTotal, Measure: domain.MeasureCount, EventTypes: journeyCreated, Format: FormatInteger},
		{Name: "Journey Adoption", SortOrder: 12, Kind: KindActiveEntities, EventTypes: journeyCreated, Format: FormatInteger},
		{Name: "Journey Runs", SortOrder: 13, Kind: KindPeriodTotal, Measure: domain.MeasureCount, EventTypes: journeyRun, Format: FormatThousands},
		{Name: "Journey Clients", SortOrder: 14, Kind: KindActiveEntities, EventTypes: journeyRun, Format: FormatInteger},

		{Name: "Campaign & Segment Sends", SortOrder: 20, Kind: KindPeriodTotal, Measure: domain.MeasureCount, EventTypes: campaignSend, Format: FormatCompact},
		{Name: "CS Tenants", SortOrder: 21, Kind: KindActiveEntities, EventTypes: campaignSend, Format: FormatInteger},
		{Name: "Campaign & Segment Rows Sent", SortOrder: 22, Kind: KindPeriodTotal, Measure: domain.MeasureSum, EventTypes: campaignSend, Format: FormatCompact},
		{Name: "Total Sends", SortOrder: 23, Kind: KindPeriodTotal, Measure: domain.MeasureCount, EventTypes: allSends, Format: FormatCompact},
		{Name: "Campaign & Segment %", SortOrder: 24, Kind: KindRatio, Base: "Campaign & Segment Sends", Denominator: "Total Sends", Format: FormatPercent},
		{Name: "All Tenants", SortOrder: 25, Kind: KindActiveEntities, EventTypes: anyTenantAction, Format: FormatInteger},
		{Name: "CS Tenants Percent", SortOrder: 26, Kind: KindRatio, Base: "CS Tenants", Denominator: "All Tenants", Format: FormatPercent},
		{Name: "Rows Sent", SortOrder: 27, Kind: KindPeriodTotal, Measure: domain.MeasureSum, EventTypes: allSends, Format: FormatCompact},

		{Name: "Paid Media Sends", SortOrder: 30, Kind: KindPeriodTotal, Measure: domain.MeasureCount, EventTypes: paidMediaSend, Format: FormatCompact},
		{Name: "Paid Media Tenants", SortOrder: 31, Kind: KindActiveEntities, EventTypes: paidMediaSend, Format: FormatInteger},
		{Name: "Paid Media Rows", SortOrder: 32, Kind: KindPeriodTotal, Measure: domain.MeasureSum, EventTypes: paidMediaSend, Format: FormatCompact},
		{Name: "Paid Media %", SortOrder: 33, Kind: KindRatio, Base: "Paid Media Tenants", Denominator: "All Tenants", Format: FormatPercent},

		{Name: "Amps - Total", SortOrder: 40, Kind: KindPeriodTotal, Measure: domain.MeasureSum, EventTypes: ampsUsage, Format: FormatTrillions},
		{Name: "Amps - Delta", SortOrder: 41, Kind: KindPeriodDelta, Base: "Amps - Total", Format: FormatPercent},
		{Name: "Amps - Cumulative", SortOrder: 42, Kind: KindRunningTotal, Measure: domain.MeasureSum, EventTypes: ampsUsage, Format: FormatCompact},
		{Name: "Amps - Activation", SortOrder: 43, Kind: KindPeriodTotal, Measure: domain.MeasureSum, EventTypes: ampsActivation, Format: FormatCompact},
		{Name: "Amps - Activation Delta", SortOrder: 44, Kind: KindPeriodDelta, Base: "Amps - Activation", Format: FormatPercent},
		{Name: "Amps - Campaigns", SortOrder: 45, Kind: KindPeriodTotal, Measure: domain.MeasureSum, EventTypes: ampsCampaigns, Format: FormatCompact},
		{Name: "Amps - Campaigns Delta", SortOrder: 46, Kind: KindPeriodDelta, Base: "Amps - Campaigns", Format: FormatPercent},
		{Name: "Amps - Journeys", SortOrder: 47, Kind: KindPeriodTotal, Measure: domain.MeasureSum, EventTypes: ampsJourneys, Format: FormatCompact},
		{Name: "Amps - Journeys Delta", SortOrder: 48, Kind: KindPeriodDelta, Base: "Amps - Journeys", Format: FormatPercent},
		{Name: "Amps - Orchestration", SortOrder: 49, Kind: KindPeriodTotal, Measure: domain.MeasureSum, EventTypes: ampsOrchestrate, Format: FormatCompact},
		{Name: "Amps - Orchestration Delta", SortOrder: 50, Kind: KindPeriodDelta, Base: "Amps - Orchestration", Format: FormatPercent},
		{Name: "Amps - Profile API", SortOrder: 51, Kind: KindPeriodTotal, Measure: domain.MeasureSum, EventTypes: ampsProfileAPI, Format: FormatCompact},
		{Name: "Amps - Profile API Delta", SortOrder: 52, Kind: KindPeriodDelta, Base: "Amps - Profile API", Format: FormatPercent},

		{Name: "Source Connectors", SortOrder: 60, Kind: KindRunningTotal, Measure: domain.MeasureCount, EventTypes: sourceConnector, Format: FormatInteger},
		{Name: "Destination Connectors", SortOrder: 61, Kind: KindRunningTotal, Measure: domain.MeasureCount, EventTypes: destConnector, Format: FormatInteger},
		{Name: "Bi-Directional Connectors", SortOrder: 62, Kind: KindRunningTotal, Measure: domain.MeasureCount, EventTypes: bidirConnector, Format: FormatInteger},
	}
}
