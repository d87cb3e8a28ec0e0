package buyers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/resource"
	"github.com/sevadhara/console/internal/upstream"
)

// DefaultConcurrency bounds the summary fan-out when none is configured.
const DefaultConcurrency = 8

// ErrNothingDue is returned when a reminder is requested for a settled account.
var ErrNothingDue = errors.New("buyers: no outstanding amount")

// OutstandingRow pairs a buyer with its transaction summary. Failed is set
// when the summary could not be fetched and the zero values were used.
type OutstandingRow struct {
	Buyer   Buyer
	Summary Summary
	Failed  bool
}

// Report is the outstanding report for every buyer.
type Report struct {
	Rows        []OutstandingRow
	Totals      Summary
	Failed      int
	GeneratedAt time.Time
}

// Service adds the buyer-specific operations to the generic screen service.
type Service struct {
	*resource.Service[Buyer]
	api         *upstream.Client
	dispatcher  *notify.Dispatcher
	logger      *slog.Logger
	org         string
	concurrency int
	now         func() time.Time
}

// Config carries the optional collaborators of Service.
type Config struct {
	Dispatcher  *notify.Dispatcher
	Logger      *slog.Logger
	OrgName     string
	Concurrency int
}

// NewService wires the buyers service.
func NewService(screen *resource.Service[Buyer], api *upstream.Client, cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Service{
		Service:     screen,
		api:         api,
		dispatcher:  cfg.Dispatcher,
		logger:      cfg.Logger,
		org:         cfg.OrgName,
		concurrency: cfg.Concurrency,
		now:         time.Now,
	}
}

// Summary fetches one buyer's transaction summary.
func (s *Service) Summary(ctx context.Context, id string) (Summary, error) {
	var sum Summary
	if err := s.api.Get(ctx, "/api/buyers/"+url.PathEscape(id)+"/summary", nil, &sum); err != nil {
		return Summary{}, fmt.Errorf("buyer %s summary: %w", id, err)
	}
	return sum, nil
}

// Outstanding fetches every buyer's summary with at most the configured
// number of requests in flight. A failed summary leaves that row at zero
// values; cancelling ctx stops the remaining fetches. progress, when set, is
// called after each buyer completes.
func (s *Service) Outstanding(ctx context.Context, search string, progress func(done, total int)) (Report, error) {
	list, err := s.Search(ctx, search)
	if err != nil {
		return Report{}, err
	}
	rows := make([]OutstandingRow, len(list))
	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, b := range list {
		rows[i].Buyer = b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum, err := s.Summary(gctx, b.ID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn("buyer summary unavailable", slog.String("buyer", b.ID), slog.Any("error", err))
				rows[i].Failed = true
			} else {
				rows[i].Summary = sum
			}
			if progress != nil {
				mu.Lock()
				done++
				progress(done, len(list))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("outstanding report: %w", err)
	}

	report := Report{Rows: rows, GeneratedAt: s.now()}
	for _, row := range rows {
		report.Totals.Add(row.Summary)
		if row.Failed {
			report.Failed++
		}
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		return report.Rows[i].Summary.Outstanding > report.Rows[j].Summary.Outstanding
	})
	return report, nil
}

// OutstandingTable projects the report for export.
func OutstandingTable(report Report) export.Table {
	table := export.Table{
		Entity: "Buyer_Outstanding",
		Title:  "Buyer Outstanding",
		Columns: []export.Column{
			{Header: "Buyer", Width: 28, MaxLen: 40},
			{Header: "Mobile", Width: 14},
			{Header: "Total Milk (L)", Width: 14, Numeric: true},
			{Header: "Total Amount", Width: 14, Numeric: true},
			{Header: "Total Paid", Width: 14, Numeric: true},
			{Header: "Outstanding", Width: 14, Numeric: true},
		},
	}
	for _, row := range report.Rows {
		table.Rows = append(table.Rows, []string{
			row.Buyer.FullName,
			row.Buyer.MobileNumber,
			resource.Money(row.Summary.TotalMilk),
			resource.Money(row.Summary.TotalAmount),
			resource.Money(row.Summary.TotalPaid),
			resource.Money(row.Summary.Outstanding),
		})
	}
	table.Rows = append(table.Rows, []string{
		"Total", "",
		resource.Money(report.Totals.TotalMilk),
		resource.Money(report.Totals.TotalAmount),
		resource.Money(report.Totals.TotalPaid),
		resource.Money(report.Totals.Outstanding),
	})
	return table
}

// Remind sends the buyer a WhatsApp message with the current outstanding
// balance. The summary is preferred; the buyer record is the fallback.
func (s *Service) Remind(ctx context.Context, id string) (Buyer, error) {
	if s.dispatcher == nil {
		return Buyer{}, errors.New("buyers: whatsapp not configured")
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return Buyer{}, err
	}
	amount := b.OutstandingAmount
	if sum, err := s.Summary(ctx, id); err == nil {
		amount = sum.Outstanding
	} else {
		s.logger.Warn("reminder falls back to stored balance", slog.String("buyer", id), slog.Any("error", err))
	}
	if amount <= 0 {
		return b, ErrNothingDue
	}
	n := notify.Notification{Phone: b.MobileNumber, Text: notify.OutstandingReminder(s.org, b.FullName, amount)}
	key := "remind:buyer:" + id + ":" + s.now().Format("20060102")
	if err := s.dispatcher.Dispatch(ctx, n, key); err != nil {
		return b, err
	}
	return b, nil
}
