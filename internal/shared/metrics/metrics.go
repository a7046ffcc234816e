package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	emailsGeneratedTotal     atomic.Uint64
	resumesAnalyzedTotal     atomic.Uint64
	analysisParseFailedTotal atomic.Uint64
	notificationFailedTotal  atomic.Uint64
)

// IncEmailGenerated increments the generated-email counter.
func IncEmailGenerated() {
	emailsGeneratedTotal.Add(1)
}

// IncResumeAnalyzed increments the completed-analysis counter.
func IncResumeAnalyzed() {
	resumesAnalyzedTotal.Add(1)
}

// IncAnalysisParseFailed counts AI responses that failed schema parsing.
func IncAnalysisParseFailed() {
	analysisParseFailedTotal.Add(1)
}

// IncNotificationFailed counts swallowed notification errors.
func IncNotificationFailed() {
	notificationFailedTotal.Add(1)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "emails_generated_total", "Total emails generated", emailsGeneratedTotal.Load())
	writeCounter(&buf, "resumes_analyzed_total", "Total resumes analyzed", resumesAnalyzedTotal.Load())
	writeCounter(&buf, "analysis_parse_failed_total", "Total AI responses that failed parsing", analysisParseFailedTotal.Load())
	writeCounter(&buf, "notification_failed_total", "Total notification sends that failed", notificationFailedTotal.Load())
	return buf.String()
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}
