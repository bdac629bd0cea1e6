package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrExportDisabled is returned when an export is requested without object storage
var ErrExportDisabled = shared.NewDomainError("EXPORT_DISABLED", "Report export is not enabled")

// ExportStorage keeps exported files and hands out time-limited download links
type ExportStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// ReportService manages saved reports and runs them through the result cache
type ReportService struct {
	reportRepo analytics.ReportRepository
	dataSource analytics.ReportDataSource
	cache      ResultCache
	cacheTTL   time.Duration
	storage    ExportStorage
	linkTTL    time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo analytics.ReportRepository,
	dataSource analytics.ReportDataSource,
	cache ResultCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		dataSource: dataSource,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// SetExportStorage enables CSV export to object storage
func (s *ReportService) SetExportStorage(storage ExportStorage, linkTTL time.Duration) {
	s.storage = storage
	s.linkTTL = linkTTL
}

// Create creates an active report
func (s *ReportService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateReportRequest) (*ReportResponse, error) {
	report, err := analytics.NewReport(tenantID, actorID, req.Name, req.Description,
		analytics.ReportType(req.ReportType), req.Parameters, analytics.Schedule(req.Schedule))
	if err != nil {
		return nil, err
	}
	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, err
	}
	resp := ToReportResponse(report)
	return &resp, nil
}

// GetByID retrieves a report
func (s *ReportService) GetByID(ctx context.Context, tenantID, reportID uuid.UUID) (*ReportResponse, error) {
	report, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, reportID)
	if err != nil {
		return nil, err
	}
	resp := ToReportResponse(report)
	return &resp, nil
}

// List retrieves reports with filtering and pagination
func (s *ReportService) List(ctx context.Context, tenantID uuid.UUID, f ReportListFilter) ([]ReportResponse, int64, error) {
	filter := f.ToFilter()
	reports, err := s.reportRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.reportRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return toReportResponses(reports), total, nil
}

// Due lists the active scheduled reports whose next run has passed
func (s *ReportService) Due(ctx context.Context, tenantID uuid.UUID) ([]ReportResponse, error) {
	reports, err := s.reportRepo.FindDue(ctx, tenantID, s.now())
	if err != nil {
		return nil, err
	}
	return toReportResponses(reports), nil
}

// Update changes a report definition
func (s *ReportService) Update(ctx context.Context, tenantID, reportID uuid.UUID, req UpdateReportRequest) (*ReportResponse, error) {
	return s.mutate(ctx, tenantID, reportID, func(r *analytics.Report) error {
		return r.Update(req.Name, req.Description, req.Parameters, analytics.Schedule(req.Schedule))
	})
}

// Archive retires a report
func (s *ReportService) Archive(ctx context.Context, tenantID, reportID uuid.UUID) (*ReportResponse, error) {
	return s.mutate(ctx, tenantID, reportID, func(r *analytics.Report) error {
		return r.Archive()
	})
}

// Delete archives the report; reports are never removed
func (s *ReportService) Delete(ctx context.Context, tenantID, reportID uuid.UUID) error {
	_, err := s.Archive(ctx, tenantID, reportID)
	return err
}

// Clone copies a report definition for the caller
func (s *ReportService) Clone(ctx context.Context, tenantID, reportID, actorID uuid.UUID) (*ReportResponse, error) {
	report, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, reportID)
	if err != nil {
		return nil, err
	}
	clone, err := report.Clone(actorID)
	if err != nil {
		return nil, err
	}
	if err := s.reportRepo.Save(ctx, clone); err != nil {
		return nil, err
	}
	resp := ToReportResponse(clone)
	return &resp, nil
}

// Run computes the report, serving it from the cache unless a refresh is requested,
// and records the run on the report
func (s *ReportService) Run(ctx context.Context, tenantID, reportID uuid.UUID, opts RunReportOptions) (*ReportRunResponse, error) {
	if opts.Export != "" && s.storage == nil {
		return nil, ErrExportDisabled
	}
	report, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != analytics.StatusActive {
		return nil, shared.InvalidTransition("run report", report.Status)
	}

	key := ReportCacheKey(report)
	var result *analytics.ReportResult
	cached := false
	if !opts.Refresh {
		result, cached = s.cachedResult(ctx, key)
	}
	if result == nil {
		result, err = s.dataSource.Run(ctx, tenantID, report.ReportType, report.Parameters)
		if err != nil {
			return nil, fmt.Errorf("run %s report: %w", report.ReportType, err)
		}
		s.storeResult(ctx, key, result)
	}

	if err := report.MarkRun(s.now()); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, err
	}

	resp := &ReportRunResponse{
		Report: ToReportResponse(report),
		Result: result,
		Cached: cached,
	}
	if opts.Export == "csv" {
		export, err := s.exportCSV(ctx, report, result)
		if err != nil {
			return nil, err
		}
		resp.Export = export
	}

	s.logger.Info("report run",
		zap.String("tenant_id", tenantID.String()),
		zap.String("report_id", report.ID.String()),
		zap.String("report_type", string(report.ReportType)),
		zap.Bool("cached", cached),
	)
	return resp, nil
}

// CachedResult returns the last cached result of a report, if any
func (s *ReportService) CachedResult(ctx context.Context, report *analytics.Report) *analytics.ReportResult {
	result, _ := s.cachedResult(ctx, ReportCacheKey(report))
	return result
}

func (s *ReportService) cachedResult(ctx context.Context, key CacheKey) (*analytics.ReportResult, bool) {
	data, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.String("cache_type", key.CacheType), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	var result analytics.ReportResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn("discarding unreadable cached report", zap.String("cache_type", key.CacheType), zap.Error(err))
		return nil, false
	}
	return &result, true
}

func (s *ReportService) storeResult(ctx context.Context, key CacheKey, result *analytics.ReportResult) {
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("report result not cacheable", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("cache_type", key.CacheType), zap.Error(err))
	}
}

func (s *ReportService) exportCSV(ctx context.Context, report *analytics.Report, result *analytics.ReportResult) (*ExportResponse, error) {
	data, err := ReportCSV(result)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("reports/%s/%s/%s.csv", report.TenantID, report.ID, s.now().UTC().Format("20060102T150405"))
	if err := s.storage.Upload(ctx, key, data, "text/csv"); err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.linkTTL)
	if err != nil {
		return nil, err
	}
	return &ExportResponse{Format: "csv", StorageKey: key, DownloadURL: url, ExpiresAt: expiresAt}, nil
}

func (s *ReportService) mutate(ctx context.Context, tenantID, reportID uuid.UUID, fn func(*analytics.Report) error) (*ReportResponse, error) {
	report, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, reportID)
	if err != nil {
		return nil, err
	}
	if err := fn(report); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, err
	}
	resp := ToReportResponse(report)
	return &resp, nil
}

// ReportCacheKey is where the result of a report's current parameters is cached
func ReportCacheKey(report *analytics.Report) CacheKey {
	return CacheKey{
		TenantID:  report.TenantID,
		CacheType: report.ReportType.CacheType(),
		Key:       ParamsHash(report.Parameters),
	}
}

// ReportCSV writes a report result as CSV: a header row of the columns, one row per result
// row and a final totals row when totals are present
func ReportCSV(result *analytics.ReportResult) ([]byte, error) {
	columns := result.Columns
	if len(columns) == 0 && len(result.Rows) > 0 {
		for col := range result.Rows[0] {
			columns = append(columns, col)
		}
		sort.Strings(columns)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for _, row := range result.Rows {
		if err := w.Write(csvRecord(columns, row)); err != nil {
			return nil, err
		}
	}
	if len(result.Totals) > 0 {
		record := csvRecord(columns, result.Totals)
		if len(record) > 0 && record[0] == "" {
			record[0] = "Total"
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRecord(columns []string, values map[string]any) []string {
	record := make([]string, len(columns))
	for i, col := range columns {
		if v, ok := values[col]; ok && v != nil {
			record[i] = fmt.Sprint(v)
		}
	}
	return record
}

func toReportResponses(reports []analytics.Report) []ReportResponse {
	out := make([]ReportResponse, len(reports))
	for i := range reports {
		out[i] = ToReportResponse(&reports[i])
	}
	return out
}
