package slack

import "time"

const (
	defaultAPIBaseURL = "https://slack.com/api"
	postMessagePath   = "/chat.postMessage"

	ColorGood    = "#2EB67D"
	ColorWarning = "#ECB22E"
	ColorDanger  = "#E01E5A"
	ColorInfo    = "#36C5F0"

	MaxTextLength       = 3000
	MaxFieldValueLength = 2000
	MaxAttachmentFields = 20
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultRatePerSecond = 1.0
	DefaultBurst         = 3
	DefaultRetryCount    = 2
	DefaultRetryDelay    = 1 * time.Second

	limiterIdleTTL = 10 * time.Minute
)

const (
	UserAgent      = "adalert-srv/1.0"
	ReportBugTitle = "adalert-srv error report"
)
