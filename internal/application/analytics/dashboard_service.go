package analytics

import (
	"context"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotDashboardOwner is returned when someone other than the owner changes a dashboard
var ErrNotDashboardOwner = shared.NewDomainError("NOT_DASHBOARD_OWNER", "Only the owner can change this dashboard")

// DashboardService manages dashboards and resolves their widget data
type DashboardService struct {
	txScope       TransactionScope
	dashboardRepo analytics.DashboardRepository
	kpiRepo       analytics.KPIRepository
	reportRepo    analytics.ReportRepository
	reports       *ReportService
	logger        *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	txScope TransactionScope,
	dashboardRepo analytics.DashboardRepository,
	kpiRepo analytics.KPIRepository,
	reportRepo analytics.ReportRepository,
	reports *ReportService,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		txScope:       txScope,
		dashboardRepo: dashboardRepo,
		kpiRepo:       kpiRepo,
		reportRepo:    reportRepo,
		reports:       reports,
		logger:        logger,
	}
}

// Create creates a dashboard owned by the caller
func (s *DashboardService) Create(ctx context.Context, tenantID, userID uuid.UUID, req DashboardRequest) (*DashboardResponse, error) {
	d, err := analytics.NewDashboard(tenantID, userID, req.Name, req.Description, req.IsShared, req.Widgets)
	if err != nil {
		return nil, err
	}
	if err := s.dashboardRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDashboardResponse(d)
	return &resp, nil
}

// GetByID retrieves a dashboard visible to the caller
func (s *DashboardService) GetByID(ctx context.Context, tenantID, userID, dashboardID uuid.UUID) (*DashboardResponse, error) {
	d, err := s.findVisible(ctx, tenantID, userID, dashboardID)
	if err != nil {
		return nil, err
	}
	resp := ToDashboardResponse(d)
	return &resp, nil
}

// List retrieves the caller's dashboards and the tenant's shared ones
func (s *DashboardService) List(ctx context.Context, tenantID, userID uuid.UUID, f DashboardListFilter) ([]DashboardResponse, int64, error) {
	filter := f.ToFilter()
	dashboards, err := s.dashboardRepo.FindVisible(ctx, tenantID, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.dashboardRepo.CountVisible(ctx, tenantID, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]DashboardResponse, len(dashboards))
	for i := range dashboards {
		out[i] = ToDashboardResponse(&dashboards[i])
	}
	return out, total, nil
}

// Update replaces the dashboard definition and its widgets
func (s *DashboardService) Update(ctx context.Context, tenantID, userID, dashboardID uuid.UUID, req DashboardRequest) (*DashboardResponse, error) {
	return s.mutate(ctx, tenantID, userID, dashboardID, func(d *analytics.Dashboard) error {
		return d.Update(req.Name, req.Description, req.IsShared, req.Widgets)
	})
}

// Delete archives the dashboard
func (s *DashboardService) Delete(ctx context.Context, tenantID, userID, dashboardID uuid.UUID) error {
	_, err := s.mutate(ctx, tenantID, userID, dashboardID, func(d *analytics.Dashboard) error {
		return d.Archive()
	})
	return err
}

// Clone copies a visible dashboard for the caller
func (s *DashboardService) Clone(ctx context.Context, tenantID, userID, dashboardID uuid.UUID) (*DashboardResponse, error) {
	d, err := s.findVisible(ctx, tenantID, userID, dashboardID)
	if err != nil {
		return nil, err
	}
	clone, err := d.Clone(userID)
	if err != nil {
		return nil, err
	}
	if err := s.dashboardRepo.Save(ctx, clone); err != nil {
		return nil, err
	}
	resp := ToDashboardResponse(clone)
	return &resp, nil
}

// SetDefault makes the dashboard the owner's only default
func (s *DashboardService) SetDefault(ctx context.Context, tenantID, userID, dashboardID uuid.UUID) (*DashboardResponse, error) {
	var d *analytics.Dashboard
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		d, err = repos.Dashboards().FindByIDForTenant(ctx, tenantID, dashboardID)
		if err != nil {
			return err
		}
		if !d.VisibleTo(userID) {
			return shared.ErrNotFound
		}
		if !d.CanEdit(userID) {
			return ErrNotDashboardOwner
		}
		if err := d.SetDefault(); err != nil {
			return err
		}
		if err := repos.Dashboards().ClearDefault(ctx, tenantID, d.OwnerID, d.ID); err != nil {
			return err
		}
		return repos.Dashboards().Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	resp := ToDashboardResponse(d)
	return &resp, nil
}

// Data resolves the current KPI values and the cached report results of each widget
func (s *DashboardService) Data(ctx context.Context, tenantID, userID, dashboardID uuid.UUID) (*DashboardDataResponse, error) {
	d, err := s.findVisible(ctx, tenantID, userID, dashboardID)
	if err != nil {
		return nil, err
	}

	var kpiIDs []uuid.UUID
	for _, w := range d.Widgets {
		if w.KPIID != nil {
			kpiIDs = append(kpiIDs, *w.KPIID)
		}
	}
	kpis := map[uuid.UUID]*analytics.KPI{}
	if len(kpiIDs) > 0 {
		found, err := s.kpiRepo.FindByIDs(ctx, tenantID, kpiIDs)
		if err != nil {
			return nil, err
		}
		for i := range found {
			kpis[found[i].ID] = &found[i]
		}
	}

	widgets := make([]WidgetData, len(d.Widgets))
	for i, w := range d.Widgets {
		data := WidgetData{WidgetID: w.ID, WidgetType: string(w.WidgetType), Title: w.Title}
		switch {
		case w.KPIID != nil:
			if k, ok := kpis[*w.KPIID]; ok {
				resp := ToKPIResponse(k)
				data.KPI = &resp
				data.Available = true
			}
		case w.ReportID != nil:
			data.Report = s.reportData(ctx, tenantID, *w.ReportID)
			data.Available = data.Report != nil
		default:
			data.Available = true
		}
		widgets[i] = data
	}

	return &DashboardDataResponse{Dashboard: ToDashboardResponse(d), Widgets: widgets}, nil
}

func (s *DashboardService) reportData(ctx context.Context, tenantID, reportID uuid.UUID) *analytics.ReportResult {
	report, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, reportID)
	if err != nil {
		if !shared.IsNotFound(err) {
			s.logger.Warn("failed to load dashboard report", zap.String("report_id", reportID.String()), zap.Error(err))
		}
		return nil
	}
	return s.reports.CachedResult(ctx, report)
}

func (s *DashboardService) findVisible(ctx context.Context, tenantID, userID, dashboardID uuid.UUID) (*analytics.Dashboard, error) {
	d, err := s.dashboardRepo.FindByIDForTenant(ctx, tenantID, dashboardID)
	if err != nil {
		return nil, err
	}
	if !d.VisibleTo(userID) {
		return nil, shared.ErrNotFound
	}
	return d, nil
}

func (s *DashboardService) mutate(ctx context.Context, tenantID, userID, dashboardID uuid.UUID, fn func(*analytics.Dashboard) error) (*DashboardResponse, error) {
	d, err := s.findVisible(ctx, tenantID, userID, dashboardID)
	if err != nil {
		return nil, err
	}
	if !d.CanEdit(userID) {
		return nil, ErrNotDashboardOwner
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := s.dashboardRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDashboardResponse(d)
	return &resp, nil
}
