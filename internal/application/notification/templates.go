package notification

const textSource = `
{{define "welcome"}}Hi {{.Name}},

Your organization {{.Organization}} is ready.

Please confirm your email address:
{{.VerifyURL}}
{{end}}
{{define "verification"}}Hi {{.Name}},

Please confirm your email address:
{{.VerifyURL}}
{{end}}
{{define "password_reset"}}Hi {{.Name}},

We received a request to reset your password. The link is valid for {{.Validity}}:
{{.ResetURL}}

If you did not ask for this, ignore this email.
{{end}}
{{define "invoice"}}Dear {{.ClientName}},

{{.Organization}} has issued invoice {{.Number}}.

Issue date: {{.IssueDate}}
Due date:   {{.DueDate}}
Total:      {{.Total}}
Balance:    {{.BalanceDue}}
{{if .PDFURL}}
Download: {{.PDFURL}}
{{end}}{{end}}
{{define "reminder"}}Hi {{.Name}},

This is a reminder of "{{.Subject}}" on {{.When}}{{if .Duration}} ({{.Duration}}){{end}}.
{{if .Description}}
{{.Description}}
{{end}}{{end}}
`

const htmlSource = `
{{define "welcome"}}<p>Hi {{.Name}},</p>
<p>Your organization <strong>{{.Organization}}</strong> is ready.</p>
<p><a href="{{.VerifyURL}}">Confirm your email address</a></p>{{end}}
{{define "verification"}}<p>Hi {{.Name}},</p>
<p><a href="{{.VerifyURL}}">Confirm your email address</a></p>{{end}}
{{define "password_reset"}}<p>Hi {{.Name}},</p>
<p>We received a request to reset your password. The link is valid for {{.Validity}}.</p>
<p><a href="{{.ResetURL}}">Reset password</a></p>
<p>If you did not ask for this, ignore this email.</p>{{end}}
{{define "invoice"}}<p>Dear {{.ClientName}},</p>
<p>{{.Organization}} has issued invoice <strong>{{.Number}}</strong>.</p>
<table>
<tr><td>Issue date</td><td>{{.IssueDate}}</td></tr>
<tr><td>Due date</td><td>{{.DueDate}}</td></tr>
<tr><td>Total</td><td>{{.Total}}</td></tr>
<tr><td>Balance due</td><td>{{.BalanceDue}}</td></tr>
</table>
{{if .PDFURL}}<p><a href="{{.PDFURL}}">Download PDF</a></p>{{end}}{{end}}
{{define "reminder"}}<p>Hi {{.Name}},</p>
<p>This is a reminder of <strong>{{.Subject}}</strong> on {{.When}}{{if .Duration}} ({{.Duration}}){{end}}.</p>
{{if .Description}}<p>{{.Description}}</p>{{end}}{{end}}
`
