package router

import (
	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/interfaces/http/handler"
	"github.com/erp/platform/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler exposed under /api/v1
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Organization *handler.OrganizationHandler

	Invoice *handler.InvoiceHandler
	Payment *handler.PaymentHandler
	Budget  *handler.BudgetHandler

	Department *handler.DepartmentHandler
	Employee   *handler.EmployeeHandler
	Payroll    *handler.PayrollHandler
	Leave      *handler.LeaveHandler
	Policy     *handler.PolicyHandler

	Supplier      *handler.SupplierHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Procurement   *handler.ProcurementHandler

	Client      *handler.ClientHandler
	Interaction *handler.InteractionHandler

	Report    *handler.ReportHandler
	KPI       *handler.KPIHandler
	Alert     *handler.AlertHandler
	Dashboard *handler.DashboardHandler
	Event     *handler.EventHandler
}

// Security holds the authentication chain shared by protected routes
type Security struct {
	// JWT authenticates from the Authorization header
	JWT gin.HandlerFunc
	// StreamJWT additionally accepts ?access_token= for browser WebSockets
	StreamJWT gin.HandlerFunc
	// Tenant resolves the tenant from the claims and rejects suspended organizations
	Tenant gin.HandlerFunc
	// AuthRateLimit throttles the public auth endpoints; nil disables it
	AuthRateLimit gin.HandlerFunc
	// Profiling labels CPU samples per route and tenant; nil disables it
	Profiling gin.HandlerFunc
}

func (s Security) chain(jwt gin.HandlerFunc) []gin.HandlerFunc {
	return []gin.HandlerFunc{jwt, s.Tenant, middleware.TracingAttributeInjector(), s.Profiling}
}

// RegisterAPI builds the route table of every module
func RegisterAPI(r *Router, h Handlers, sec Security) {
	r.Register(
		systemRoutes(h),
		publicAuthRoutes(h, sec),
		protectedRoutes(h, sec),
		streamRoutes(h, sec),
	)
}

func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.System.GetSystemInfo)
	g.GET("/ping", h.System.Ping)
	return g
}

func publicAuthRoutes(h Handlers, sec Security) *DomainGroup {
	g := NewDomainGroup("auth", "/auth").Use(sec.AuthRateLimit)
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.RefreshToken)
	g.POST("/password-reset", h.Auth.RequestPasswordReset)
	g.POST("/password-reset/confirm", h.Auth.ConfirmPasswordReset)
	g.POST("/verify-email", h.Auth.VerifyEmail)
	return g
}

func streamRoutes(h Handlers, sec Security) *DomainGroup {
	g := NewDomainGroup("stream", "/analytics").Use(sec.chain(sec.StreamJWT)...)
	g.GET("/alerts/stream", middleware.RequireResource(accounts.ResourceKPIAlert), h.Alert.Stream)
	return g
}

func protectedRoutes(h Handlers, sec Security) *DomainGroup {
	api := NewDomainGroup("protected", "").Use(sec.chain(sec.JWT)...)

	session := api.Group("session", "")
	session.POST("/auth/logout", h.Auth.Logout)
	session.POST("/auth/verify-email/resend", h.Auth.ResendVerification)
	session.GET("/me", h.Auth.GetMe)
	session.PUT("/me", h.Auth.UpdateMe)
	session.POST("/me/change-password", h.Auth.ChangePassword)

	accountRoutes(api, h)
	financeRoutes(api, h)
	hrRoutes(api, h)
	purchasingRoutes(api, h)
	salesRoutes(api, h)
	analyticsRoutes(api, h)
	return api
}

// resource opens a sub-group whose permission follows resource:action by HTTP method
func resource(parent *DomainGroup, name, prefix string) *DomainGroup {
	return parent.Group(name, prefix).Guard(name)
}

func accountRoutes(api *DomainGroup, h Handlers) {
	org := resource(api, accounts.ResourceOrganization, "/organization")
	org.GET("", h.Organization.Get)
	org.PUT("", middleware.RequireRole(accounts.RoleAdmin), h.Organization.Update)

	users := resource(api, accounts.ResourceUser, "/users")
	users.GET("", h.User.List)
	users.POST("", h.User.Create)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", h.User.Deactivate)
	users.POST("/:id/activate", h.User.Activate)
	users.POST("/:id/deactivate", h.User.Deactivate)
}

func financeRoutes(api *DomainGroup, h Handlers) {
	inv := resource(api, accounts.ResourceInvoice, "/invoices")
	inv.GET("", h.Invoice.List)
	inv.POST("", h.Invoice.Create)
	inv.POST("/mark-overdue", h.Invoice.MarkOverdue)
	inv.GET("/:id", h.Invoice.GetByID)
	inv.PUT("/:id", h.Invoice.Update)
	inv.DELETE("/:id", h.Invoice.Delete)
	inv.POST("/:id/items", h.Invoice.AddItem)
	inv.PUT("/:id/items/:itemId", h.Invoice.UpdateItem)
	inv.DELETE("/:id/items/:itemId", h.Invoice.RemoveItem)
	inv.POST("/:id/send", h.Invoice.Send)
	inv.POST("/:id/cancel", h.Invoice.Cancel)
	inv.POST("/:id/clone", h.Invoice.Clone)
	inv.GET("/:id/pdf", h.Invoice.PDF)
	inv.POST("/:id/payments", middleware.RequireResourceAction(accounts.ResourcePayment, middleware.ActionCreate), h.Invoice.RecordPayment)

	pay := resource(api, accounts.ResourcePayment, "/payments")
	pay.GET("", h.Payment.List)
	pay.POST("", h.Payment.Record)
	pay.GET("/:id", h.Payment.GetByID)

	bud := resource(api, accounts.ResourceBudget, "/budgets")
	bud.GET("", h.Budget.List)
	bud.POST("", h.Budget.Create)
	bud.GET("/:id", h.Budget.GetByID)
	bud.PUT("/:id", h.Budget.Update)
	bud.DELETE("/:id", h.Budget.Delete)
	bud.POST("/:id/items", h.Budget.AddItem)
	bud.PUT("/:id/items/:itemId", h.Budget.UpdateItem)
	bud.DELETE("/:id/items/:itemId", h.Budget.RemoveItem)
	bud.POST("/:id/approve", h.Budget.Approve)
	bud.POST("/:id/expenses", h.Budget.RecordExpense)
	bud.POST("/:id/close", h.Budget.Close)
}

func hrRoutes(api *DomainGroup, h Handlers) {
	dep := resource(api, accounts.ResourceDepartment, "/departments")
	dep.GET("", h.Department.List)
	dep.POST("", h.Department.Create)
	dep.GET("/:id", h.Department.GetByID)
	dep.PUT("/:id", h.Department.Update)
	dep.DELETE("/:id", h.Department.Delete)

	emp := resource(api, accounts.ResourceEmployee, "/employees")
	emp.GET("", h.Employee.List)
	emp.POST("", h.Employee.Create)
	emp.GET("/:id", h.Employee.GetByID)
	emp.PUT("/:id", h.Employee.Update)
	emp.DELETE("/:id", h.Employee.Delete)
	emp.POST("/:id/terminate", h.Employee.Terminate)
	emp.GET("/:id/leave-balance", middleware.RequireResourceAction(accounts.ResourceLeave, middleware.ActionRead), h.Employee.LeaveBalance)

	pr := resource(api, accounts.ResourcePayroll, "/payrolls")
	pr.GET("", h.Payroll.List)
	pr.POST("", h.Payroll.Create)
	pr.GET("/:id", h.Payroll.GetByID)
	pr.PUT("/:id", h.Payroll.Update)
	pr.POST("/:id/approve", h.Payroll.Approve)
	pr.POST("/:id/pay", h.Payroll.Pay)
	pr.POST("/:id/cancel", h.Payroll.Cancel)
	pr.DELETE("/:id", h.Payroll.Delete)

	lv := resource(api, accounts.ResourceLeave, "/leaves")
	lv.GET("", h.Leave.List)
	lv.POST("", h.Leave.Create)
	lv.GET("/:id", h.Leave.GetByID)
	lv.POST("/:id/approve", h.Leave.Approve)
	lv.POST("/:id/reject", h.Leave.Reject)
	lv.POST("/:id/cancel", h.Leave.Cancel)

	pol := resource(api, accounts.ResourcePolicy, "/policies")
	pol.GET("", h.Policy.List)
	pol.POST("", h.Policy.Create)
	pol.GET("/:id", h.Policy.GetByID)
	pol.PUT("/:id", h.Policy.Update)
	pol.DELETE("/:id", h.Policy.Delete)
	pol.POST("/:id/publish", h.Policy.Publish)
	pol.POST("/:id/archive", h.Policy.Archive)
	pol.POST("/:id/acknowledge", h.Policy.Acknowledge)
	pol.GET("/:id/acknowledgments", h.Policy.Acknowledgments)
}

func purchasingRoutes(api *DomainGroup, h Handlers) {
	sup := resource(api, accounts.ResourceSupplier, "/suppliers")
	sup.GET("", h.Supplier.List)
	sup.POST("", h.Supplier.Create)
	sup.GET("/:id", h.Supplier.GetByID)
	sup.PUT("/:id", h.Supplier.Update)
	sup.DELETE("/:id", h.Supplier.Delete)
	sup.POST("/:id/activate", h.Supplier.Activate)
	sup.POST("/:id/blacklist", h.Supplier.Blacklist)

	perf := sup.Group(accounts.ResourceSupplierPerformance, "/:id").Guard(accounts.ResourceSupplierPerformance)
	perf.GET("/evaluations", h.Supplier.Evaluations)
	perf.POST("/evaluations", h.Supplier.Evaluate)
	perf.GET("/evaluations/:evaluationId", h.Supplier.GetEvaluation)
	perf.GET("/performance/summary", h.Supplier.Summary)

	po := resource(api, accounts.ResourcePurchaseOrder, "/purchase-orders")
	po.GET("", h.PurchaseOrder.List)
	po.POST("", h.PurchaseOrder.Create)
	po.GET("/:id", h.PurchaseOrder.GetByID)
	po.PUT("/:id", h.PurchaseOrder.Update)
	po.DELETE("/:id", h.PurchaseOrder.Delete)
	po.POST("/:id/items", h.PurchaseOrder.AddItem)
	po.PUT("/:id/items/:itemId", h.PurchaseOrder.UpdateItem)
	po.DELETE("/:id/items/:itemId", h.PurchaseOrder.RemoveItem)
	po.POST("/:id/submit", h.PurchaseOrder.Submit)
	po.POST("/:id/approve", h.PurchaseOrder.Approve)
	po.POST("/:id/reject", h.PurchaseOrder.Reject)
	po.POST("/:id/receive", h.PurchaseOrder.Receive)
	po.POST("/:id/cancel", h.PurchaseOrder.Cancel)

	req := resource(api, accounts.ResourceProcurementRequest, "/procurement-requests")
	req.GET("", h.Procurement.List)
	req.POST("", h.Procurement.Create)
	req.GET("/:id", h.Procurement.GetByID)
	req.PUT("/:id", h.Procurement.Update)
	req.DELETE("/:id", h.Procurement.Delete)
	req.POST("/:id/submit", h.Procurement.Submit)
	req.POST("/:id/approve", h.Procurement.Approve)
	req.POST("/:id/reject", h.Procurement.Reject)
	req.POST("/:id/cancel", h.Procurement.Cancel)
	req.POST("/:id/convert", middleware.RequireResourceAction(accounts.ResourcePurchaseOrder, middleware.ActionCreate), h.Procurement.Convert)
}

func salesRoutes(api *DomainGroup, h Handlers) {
	cl := resource(api, accounts.ResourceClient, "/clients")
	cl.GET("", h.Client.List)
	cl.POST("", h.Client.Create)
	cl.GET("/:id", h.Client.GetByID)
	cl.PUT("/:id", h.Client.Update)
	cl.DELETE("/:id", h.Client.Delete)
	cl.POST("/:id/activate", h.Client.Activate)
	cl.POST("/:id/archive", h.Client.Archive)

	ct := cl.Group(accounts.ResourceContact, "/:id/contacts").Guard(accounts.ResourceContact)
	ct.GET("", h.Client.ListContacts)
	ct.POST("", h.Client.AddContact)
	ct.GET("/:contactId", h.Client.GetContact)
	ct.PUT("/:contactId", h.Client.UpdateContact)
	ct.DELETE("/:contactId", h.Client.DeleteContact)

	in := resource(api, accounts.ResourceInteraction, "/interactions")
	in.GET("", h.Interaction.List)
	in.POST("", h.Interaction.Create)
	in.GET("/:id", h.Interaction.GetByID)
	in.POST("/:id/remind", h.Interaction.Remind)
}

func analyticsRoutes(api *DomainGroup, h Handlers) {
	rep := resource(api, accounts.ResourceReport, "/reports")
	rep.GET("", h.Report.List)
	rep.POST("", h.Report.Create)
	rep.GET("/due", h.Report.Due)
	rep.GET("/:id", h.Report.GetByID)
	rep.PUT("/:id", h.Report.Update)
	rep.DELETE("/:id", h.Report.Delete)
	rep.POST("/:id/archive", h.Report.Archive)
	rep.POST("/:id/clone", h.Report.Clone)
	rep.POST("/:id/run", h.Report.Run)

	kpi := resource(api, accounts.ResourceKPI, "/kpis")
	kpi.GET("", h.KPI.List)
	kpi.POST("", h.KPI.Create)
	kpi.GET("/:id", h.KPI.GetByID)
	kpi.PUT("/:id", h.KPI.Update)
	kpi.DELETE("/:id", h.KPI.Delete)
	kpi.GET("/:id/measurements", h.KPI.Measurements)
	kpi.POST("/:id/measurements", h.KPI.RecordMeasurement)
	kpi.POST("/:id/calculate", h.KPI.Calculate)

	al := resource(api, accounts.ResourceKPIAlert, "/alerts")
	al.GET("", h.Alert.List)
	al.GET("/:id", h.Alert.GetByID)
	al.POST("/:id/acknowledge", h.Alert.Acknowledge)
	al.POST("/:id/resolve", h.Alert.Resolve)
	al.POST("/:id/dismiss", h.Alert.Dismiss)

	db := resource(api, accounts.ResourceDashboard, "/dashboards")
	db.GET("", h.Dashboard.List)
	db.POST("", h.Dashboard.Create)
	db.GET("/:id", h.Dashboard.GetByID)
	db.PUT("/:id", h.Dashboard.Update)
	db.DELETE("/:id", h.Dashboard.Delete)
	db.GET("/:id/data", h.Dashboard.Data)
	db.POST("/:id/clone", h.Dashboard.Clone)
	db.POST("/:id/set-default", h.Dashboard.SetDefault)

	ev := resource(api, accounts.ResourceAnalyticsEvent, "/events")
	ev.GET("", h.Event.List)
	ev.POST("", h.Event.Record)
	ev.GET("/summary", h.Event.Summary)
}
