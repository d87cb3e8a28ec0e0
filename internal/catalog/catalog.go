// Package catalog assembles every console screen from the shared upstream
// client so the web server and the CLI see the same set of entities.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sevadhara/console/internal/buyers"
	"github.com/sevadhara/console/internal/dashboard"
	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/milk"
	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/payments"
	"github.com/sevadhara/console/internal/receipts"
	"github.com/sevadhara/console/internal/resource"
	"github.com/sevadhara/console/internal/sellers"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/staff"
	"github.com/sevadhara/console/internal/upstream"
	"github.com/sevadhara/console/internal/view"
)

// Deps are the collaborators shared by every screen. PDF, Dispatcher and
// Dashboard are optional.
type Deps struct {
	Logger      *slog.Logger
	API         *upstream.Client
	Validator   *validator.Validate
	PDF         export.PDFRenderer
	Dispatcher  *notify.Dispatcher
	Dashboard   *dashboard.Service
	OrgName     string
	Concurrency int
}

// Exportable is a screen whose records can be written out as a table.
type Exportable interface {
	Slug() string
	Title() string
	ExportTable(ctx context.Context, search string) (export.Table, error)
}

// Catalog holds one service per screen.
type Catalog struct {
	Buyers           *buyers.Service
	Sellers          *sellers.Service
	Receipts         []*receipts.Service
	MilkDistribution *resource.Service[milk.Distribution]
	MilkStore        *resource.Service[milk.Purchase]
	SellerPayments   *resource.Service[payments.SellerPayment]
	DairyPayments    *resource.Service[payments.DairyPayment]
	Attendance       *resource.Service[staff.Attendance]
	Leave            *resource.Service[staff.Leave]

	logger      *slog.Logger
	exportables []Exportable
}

// New builds every screen service.
func New(deps Deps) (*Catalog, error) {
	if deps.API == nil {
		return nil, fmt.Errorf("catalog: upstream client required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Validator == nil {
		deps.Validator = shared.NewValidator()
	}
	c := &Catalog{logger: deps.Logger}

	var renderer *receipts.Renderer
	if deps.PDF != nil {
		r, err := receipts.NewRenderer(deps.PDF, deps.OrgName)
		if err != nil {
			return nil, err
		}
		renderer = r
	}

	buyerScreen := screen(c, deps, buyers.Descriptor())
	c.Buyers = buyers.NewService(buyerScreen, deps.API, buyers.Config{
		Dispatcher:  deps.Dispatcher,
		Logger:      deps.Logger,
		OrgName:     deps.OrgName,
		Concurrency: deps.Concurrency,
	})
	c.Sellers = sellers.NewService(screen(c, deps, sellers.Descriptor()), deps.Dispatcher, deps.OrgName)
	for _, kind := range []receipts.Kind{receipts.KindDengidar, receipts.KindDirect, receipts.KindGoSeva} {
		c.Receipts = append(c.Receipts, receipts.NewService(screen(c, deps, receipts.Descriptor(kind)), renderer, deps.Dispatcher, deps.OrgName, deps.Logger))
	}
	c.MilkDistribution = screen(c, deps, milk.DistributionDescriptor())
	c.MilkStore = screen(c, deps, milk.StoreDescriptor())
	c.SellerPayments = screen(c, deps, payments.SellerDescriptor())
	c.DairyPayments = screen(c, deps, payments.DairyDescriptor())
	c.Attendance = screen(c, deps, staff.AttendanceDescriptor())
	c.Leave = screen(c, deps, staff.LeaveDescriptor())
	return c, nil
}

// screen creates the generic service for desc, hooks dashboard
// invalidation and records it as exportable.
func screen[T any](c *Catalog, deps Deps, desc *resource.Descriptor[T]) *resource.Service[T] {
	svc := resource.NewService(desc, deps.API, deps.Validator)
	if deps.Dashboard != nil {
		svc.OnChange(deps.Dashboard.Invalidate)
	}
	c.exportables = append(c.exportables, svc)
	return svc
}

// Slugs lists the exportable screens in navigation order.
func (c *Catalog) Slugs() []string {
	out := make([]string, 0, len(c.exportables))
	for _, e := range c.exportables {
		out = append(out, e.Slug())
	}
	return out
}

// Lookup finds the exportable screen named slug.
func (c *Catalog) Lookup(slug string) (Exportable, bool) {
	i := slices.IndexFunc(c.exportables, func(e Exportable) bool { return e.Slug() == slug })
	if i < 0 {
		return nil, false
	}
	return c.exportables[i], true
}

// Web carries the HTML collaborators needed to mount the screens.
type Web struct {
	Templates *view.Engine
	CSRF      *shared.CSRFManager
	Exporter  *export.Exporter
}

// Mount registers every screen under its base path.
func (c *Catalog) Mount(r chi.Router, w Web) {
	r.Route(c.Buyers.Descriptor().BasePath, buyers.NewHandler(c.logger, c.Buyers, w.Templates, w.CSRF, w.Exporter).MountRoutes)
	r.Route(c.Sellers.Descriptor().BasePath, sellers.NewHandler(c.logger, c.Sellers, w.Templates, w.CSRF, w.Exporter).MountRoutes)
	for _, svc := range c.Receipts {
		r.Route(svc.Descriptor().BasePath, receipts.NewHandler(c.logger, svc, w.Templates, w.CSRF, w.Exporter).MountRoutes)
	}
	mount(r, c, w, c.MilkDistribution)
	mount(r, c, w, c.MilkStore)
	mount(r, c, w, c.SellerPayments)
	mount(r, c, w, c.DairyPayments)
	mount(r, c, w, c.Attendance)
	mount(r, c, w, c.Leave)
}

func mount[T any](r chi.Router, c *Catalog, w Web, svc *resource.Service[T]) {
	r.Route(svc.Descriptor().BasePath, resource.NewHandler(c.logger, svc, w.Templates, w.CSRF, w.Exporter).MountRoutes)
}
