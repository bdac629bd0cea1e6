package accounts

import "strings"

// Role is the coarse permission group assigned to a user
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleAccountant Role = "accountant"
	RoleHR         Role = "hr"
	RoleSales      Role = "sales"
	RolePurchasing Role = "purchasing"
	RoleViewer     Role = "viewer"
)

// AllRoles returns every assignable role
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleAccountant, RoleHR, RoleSales, RolePurchasing, RoleViewer}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	for _, role := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// Resource names used to build permission codes in the form resource:action
const (
	ResourceUser                 = "user"
	ResourceOrganization         = "organization"
	ResourceInvoice              = "invoice"
	ResourcePayment              = "payment"
	ResourceBudget               = "budget"
	ResourceDepartment           = "department"
	ResourceEmployee             = "employee"
	ResourcePayroll              = "payroll"
	ResourceLeave                = "leave"
	ResourcePolicy               = "policy"
	ResourceSupplier             = "supplier"
	ResourcePurchaseOrder        = "purchase_order"
	ResourceProcurementRequest   = "procurement_request"
	ResourceSupplierPerformance  = "supplier_performance"
	ResourceClient               = "client"
	ResourceContact              = "contact"
	ResourceInteraction          = "interaction"
	ResourceReport               = "report"
	ResourceKPI                  = "kpi"
	ResourceKPIAlert             = "kpi_alert"
	ResourceDashboard            = "dashboard"
	ResourceAnalyticsEvent       = "analytics_event"
	PermissionAll                = "*"
	actionRead                   = "read"
	permissionWildcardActionPart = ":*"
)

var (
	financeResources    = []string{ResourceInvoice, ResourcePayment, ResourceBudget}
	hrResources         = []string{ResourceDepartment, ResourceEmployee, ResourcePayroll, ResourceLeave, ResourcePolicy}
	purchasingResources = []string{ResourceSupplier, ResourcePurchaseOrder, ResourceProcurementRequest, ResourceSupplierPerformance}
	salesResources      = []string{ResourceClient, ResourceContact, ResourceInteraction}
	analyticsResources  = []string{ResourceReport, ResourceKPI, ResourceKPIAlert, ResourceDashboard, ResourceAnalyticsEvent}
	accountResources    = []string{ResourceUser, ResourceOrganization}
)

func allResources() []string {
	all := make([]string, 0, 24)
	for _, group := range [][]string{accountResources, financeResources, hrResources, purchasingResources, salesResources, analyticsResources} {
		all = append(all, group...)
	}
	return all
}

func readOf(resources []string) []string {
	perms := make([]string, 0, len(resources))
	for _, r := range resources {
		perms = append(perms, r+":"+actionRead)
	}
	return perms
}

func fullOf(resources []string) []string {
	perms := make([]string, 0, len(resources))
	for _, r := range resources {
		perms = append(perms, r+permissionWildcardActionPart)
	}
	return perms
}

// Permissions returns the permission codes granted to the role.
// "resource:*" grants every action on the resource and "*" grants everything.
func (r Role) Permissions() []string {
	switch r {
	case RoleAdmin:
		return []string{PermissionAll}
	case RoleManager:
		perms := readOf(allResources())
		perms = append(perms, fullOf(purchasingResources)...)
		perms = append(perms, fullOf(salesResources)...)
		return append(perms, fullOf(analyticsResources)...)
	case RoleAccountant:
		perms := fullOf(financeResources)
		perms = append(perms, readOf(analyticsResources)...)
		return append(perms, readOf(salesResources)...)
	case RoleHR:
		return append(fullOf(hrResources), ResourceUser+":"+actionRead)
	case RoleSales:
		perms := fullOf(salesResources)
		return append(perms, ResourceInvoice+":"+actionRead, ResourcePayment+":"+actionRead)
	case RolePurchasing:
		return append(fullOf(purchasingResources), ResourceBudget+":"+actionRead)
	case RoleViewer:
		return readOf(allResources())
	default:
		return nil
	}
}

// PermissionGranted reports whether the required permission is covered by the granted set,
// honouring the "*" and "resource:*" wildcards.
func PermissionGranted(granted []string, required string) bool {
	resource := required
	if i := strings.IndexByte(required, ':'); i >= 0 {
		resource = required[:i]
	}
	for _, p := range granted {
		if p == PermissionAll || p == required || p == resource+permissionWildcardActionPart {
			return true
		}
	}
	return false
}
