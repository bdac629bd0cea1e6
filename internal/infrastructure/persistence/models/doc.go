// Package models holds the GORM row types behind the repositories. Domain
// aggregates carry no ORM tags; each file here pairs a row type with
// ToDomain/FromDomain mappers for one bounded context:
//
//   - base.go: BaseModel, AggregateModel, the tenant-scoped variants and JSONB helpers
//   - accounts.go: organizations, users, password reset and email verification tokens
//   - finance.go: invoices and payments, budgets with their line items
//   - hr.go: departments, employees, payrolls, leave requests, policies
//   - purchasing.go: suppliers, purchase orders, procurement requests
//   - sales.go: clients, contacts, interactions
//   - analytics.go: reports, KPIs with measurements and alerts, dashboards, analytics events
//
// Table layout is owned by the SQL migrations; these types never drive
// AutoMigrate.
package models
