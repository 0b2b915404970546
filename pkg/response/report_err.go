package response

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"adalert-srv/pkg/signature"
	"adalert-srv/pkg/slack"

	"github.com/gin-gonic/gin"
)

const reportTimeout = 10 * time.Second

// redactedHeaders are never copied into bug reports.
var redactedHeaders = map[string]bool{
	"Authorization":       true,
	"Cookie":              true,
	signature.Header:      true,
	"X-Adalert-Signature": true,
}

// sendReportAsync posts a bug report to the ops channel without blocking the request.
func sendReportAsync(s slack.ISlack, message string) {
	if s == nil || message == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()
		for _, msg := range splitMessage(message, ReportMaxMessageLen) {
			if err := s.ReportBug(ctx, msg); err != nil {
				// Standard log as fallback since we're in an async goroutine.
				log.Printf("pkg.response.sendReportAsync.ReportBug: %v\n", err)
			}
		}
	}()
}

// splitMessage splits a message into chunks of at most maxLen bytes, preferring line breaks.
func splitMessage(message string, maxLen int) []string {
	var chunks []string
	var current string
	for _, line := range strings.Split(message, "\n") {
		line += "\n"
		if len(current)+len(line) > maxLen {
			if current != "" {
				chunks = append(chunks, strings.TrimSuffix(current, "\n"))
				current = ""
			}
			for len(line) > maxLen {
				chunks = append(chunks, line[:maxLen])
				line = line[maxLen:]
			}
		}
		current += line
	}
	if current != "" {
		chunks = append(chunks, strings.TrimSuffix(current, "\n"))
	}
	return chunks
}

// buildInternalServerErrorDataForReportBug builds a formatted error report.
// The request body is restored so later handlers can still read it.
func buildInternalServerErrorDataForReportBug(c *gin.Context, errString string, backtrace []string) string {
	var sb strings.Builder
	sb.WriteString("================ ADALERT SERVICE ERROR ================\n")

	if c != nil && c.Request != nil {
		sb.WriteString(fmt.Sprintf("Route   : %s\n", c.Request.URL.Path))
		sb.WriteString(fmt.Sprintf("Method  : %s\n", c.Request.Method))
		sb.WriteString("-------------------------------------------------------\n")

		if len(c.Request.Header) > 0 {
			keys := make([]string, 0, len(c.Request.Header))
			for k := range c.Request.Header {
				if !redactedHeaders[k] {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			sb.WriteString("Headers :\n")
			for _, k := range keys {
				sb.WriteString(fmt.Sprintf("    %s: %s\n", k, strings.Join(c.Request.Header[k], ", ")))
			}
			sb.WriteString("-------------------------------------------------------\n")
		}

		if params := c.Request.URL.Query().Encode(); params != "" {
			sb.WriteString(fmt.Sprintf("Params  : %s\n", params))
		}

		if c.Request.Body != nil {
			bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, 8<<10))
			if err == nil {
				c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
				if len(bodyBytes) > 0 {
					sb.WriteString(fmt.Sprintf("Body    : %d bytes (not included)\n", len(bodyBytes)))
				}
			}
		}
	}

	sb.WriteString(fmt.Sprintf("Error   : %s\n", errString))

	if len(backtrace) > 0 {
		sb.WriteString("\nBacktrace:\n")
		for i, line := range backtrace {
			sb.WriteString(fmt.Sprintf("[%d]: %s\n", i, line))
		}
	}

	sb.WriteString("=======================================================\n")
	return sb.String()
}
