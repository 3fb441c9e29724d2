package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HostelMetrics counts dashboard usage per record kind.
type HostelMetrics struct {
	listViewed      metric.Int64Counter
	detailViewed    metric.Int64Counter
	mutations       metric.Int64Counter
	reportsExported metric.Int64Counter
	logins          metric.Int64Counter
}

func NewHostelMetrics(meter metric.Meter) (*HostelMetrics, error) {
	m := &HostelMetrics{}
	var err error

	if m.listViewed, err = meter.Int64Counter(
		"hostel.records.list_viewed",
		metric.WithDescription("Times a record list was viewed"),
		metric.WithUnit("{view}"),
	); err != nil {
		return nil, err
	}
	if m.detailViewed, err = meter.Int64Counter(
		"hostel.records.viewed",
		metric.WithDescription("Times a single record was viewed"),
		metric.WithUnit("{view}"),
	); err != nil {
		return nil, err
	}
	if m.mutations, err = meter.Int64Counter(
		"hostel.records.mutations",
		metric.WithDescription("Records created, updated or deleted"),
		metric.WithUnit("{record}"),
	); err != nil {
		return nil, err
	}
	if m.reportsExported, err = meter.Int64Counter(
		"hostel.reports.exported",
		metric.WithDescription("CSV reports exported"),
		metric.WithUnit("{report}"),
	); err != nil {
		return nil, err
	}
	if m.logins, err = meter.Int64Counter(
		"hostel.auth.logins",
		metric.WithDescription("Login attempts"),
		metric.WithUnit("{attempt}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *HostelMetrics) RecordListViewed(ctx context.Context, entity string) {
	if m != nil && m.listViewed != nil {
		m.listViewed.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
	}
}

func (m *HostelMetrics) RecordDetailViewed(ctx context.Context, entity string) {
	if m != nil && m.detailViewed != nil {
		m.detailViewed.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
	}
}

func (m *HostelMetrics) RecordMutation(ctx context.Context, entity, op string) {
	if m != nil && m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("entity", entity),
			attribute.String("operation", op),
		))
	}
}

func (m *HostelMetrics) RecordReportExported(ctx context.Context, report string) {
	if m != nil && m.reportsExported != nil {
		m.reportsExported.Add(ctx, 1, metric.WithAttributes(attribute.String("report", report)))
	}
}

func (m *HostelMetrics) RecordLogin(ctx context.Context, success bool) {
	if m != nil && m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
}
