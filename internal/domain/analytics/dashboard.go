package analytics

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// WidgetType selects how a widget renders
type WidgetType string

const (
	WidgetTypeKPI    WidgetType = "kpi"
	WidgetTypeChart  WidgetType = "chart"
	WidgetTypeTable  WidgetType = "table"
	WidgetTypeReport WidgetType = "report"
	WidgetTypeText   WidgetType = "text"
)

// IsValid checks if the widget type is valid
func (t WidgetType) IsValid() bool {
	switch t {
	case WidgetTypeKPI, WidgetTypeChart, WidgetTypeTable, WidgetTypeReport, WidgetTypeText:
		return true
	}
	return false
}

// Position places a widget on the dashboard grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Widget is one tile on a dashboard
type Widget struct {
	ID         uuid.UUID      `json:"id"`
	WidgetType WidgetType     `json:"widget_type"`
	Title      string         `json:"title"`
	KPIID      *uuid.UUID     `json:"kpi_id,omitempty"`
	ReportID   *uuid.UUID     `json:"report_id,omitempty"`
	Position   Position       `json:"position"`
	Config     map[string]any `json:"config,omitempty"`
}

// Dashboard is a user-owned layout of widgets, optionally shared with the tenant
type Dashboard struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	OwnerID     uuid.UUID
	IsDefault   bool
	IsShared    bool
	Status      RecordStatus
	Widgets     []Widget
}

// NewDashboard creates an active dashboard owned by ownerID
func NewDashboard(tenantID, ownerID uuid.UUID, name, description string, isShared bool, widgets []Widget) (*Dashboard, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("name", "Name is required")
	}
	d := &Dashboard{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Description:         description,
		OwnerID:             ownerID,
		IsShared:            isShared,
		Status:              StatusActive,
	}
	d.SetCreatedBy(ownerID)
	if err := d.setWidgets(widgets); err != nil {
		return nil, err
	}
	return d, nil
}

// Update changes the dashboard and replaces its widgets
func (d *Dashboard) Update(name, description string, isShared bool, widgets []Widget) error {
	if d.Status != StatusActive {
		return shared.InvalidTransition("update dashboard", d.Status)
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("name", "Name is required")
	}
	if err := d.setWidgets(widgets); err != nil {
		return err
	}
	d.Name = strings.TrimSpace(name)
	d.Description = description
	d.IsShared = isShared
	d.touch()
	return nil
}

func (d *Dashboard) setWidgets(widgets []Widget) error {
	v := &shared.ValidationError{}
	out := make([]Widget, 0, len(widgets))
	for _, w := range widgets {
		if !w.WidgetType.IsValid() {
			v.Add("widgets", "Invalid widget type "+string(w.WidgetType))
			continue
		}
		if w.WidgetType == WidgetTypeKPI && w.KPIID == nil {
			v.Add("widgets", "KPI widgets need a kpi_id")
		}
		if w.WidgetType == WidgetTypeReport && w.ReportID == nil {
			v.Add("widgets", "Report widgets need a report_id")
		}
		if w.ID == uuid.Nil {
			w.ID = uuid.New()
		}
		if w.Position.W <= 0 {
			w.Position.W = 1
		}
		if w.Position.H <= 0 {
			w.Position.H = 1
		}
		out = append(out, w)
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	d.Widgets = out
	return nil
}

// VisibleTo returns true for the owner, or anyone in the tenant when shared
func (d *Dashboard) VisibleTo(userID uuid.UUID) bool {
	return d.OwnerID == userID || d.IsShared
}

// CanEdit returns true only for the owner
func (d *Dashboard) CanEdit(userID uuid.UUID) bool {
	return d.OwnerID == userID
}

// SetDefault marks the dashboard as its owner's default. The caller unsets the others.
func (d *Dashboard) SetDefault() error {
	if d.Status != StatusActive {
		return shared.InvalidTransition("set default dashboard", d.Status)
	}
	d.IsDefault = true
	d.touch()
	return nil
}

// Archive retires the dashboard
func (d *Dashboard) Archive() error {
	if d.Status == StatusArchived {
		return shared.InvalidTransition("archive dashboard", d.Status)
	}
	d.Status = StatusArchived
	d.IsDefault = false
	d.touch()
	return nil
}

// Clone copies the dashboard for a new owner: not default, not shared
func (d *Dashboard) Clone(ownerID uuid.UUID) (*Dashboard, error) {
	widgets := make([]Widget, len(d.Widgets))
	for i, w := range d.Widgets {
		w.ID = uuid.New()
		if w.Config != nil {
			cfg := make(map[string]any, len(w.Config))
			for k, v := range w.Config {
				cfg[k] = v
			}
			w.Config = cfg
		}
		widgets[i] = w
	}
	return NewDashboard(d.TenantID, ownerID, d.Name+" (Copy)", d.Description, false, widgets)
}

func (d *Dashboard) touch() {
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}
