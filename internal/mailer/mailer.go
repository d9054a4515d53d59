package mailer

import "embed"

const (
	FromName            = "ReviewDesk"
	maxRetries          = 3
	UserWelcomeTemplate = "user_invitation.tmpl"
	ReportReadyTemplate = "report_ready.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
