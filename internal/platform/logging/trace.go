package logging

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// version-traceid-parentid-flags, e.g.
// 00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-01
var traceparentRe = regexp.MustCompile(`^([0-9a-f]{2})-([0-9a-f]{32})-([0-9a-f]{16})-([0-9a-f]{2})$`)

// traceContext is a parsed W3C traceparent header.
type traceContext struct {
	traceID string
	spanID  string
	sampled bool
}

// parseTraceparent rejects version ff and all-zero IDs, which the W3C format
// reserves as invalid.
func parseTraceparent(header string) (traceContext, bool) {
	m := traceparentRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(header)))
	if m == nil || m[1] == "ff" {
		return traceContext{}, false
	}
	if strings.Trim(m[2], "0") == "" || strings.Trim(m[3], "0") == "" {
		return traceContext{}, false
	}
	flags, err := strconv.ParseUint(m[4], 16, 8)
	if err != nil {
		return traceContext{}, false
	}
	return traceContext{traceID: m[2], spanID: m[3], sampled: flags&0x01 == 1}, true
}

// resource is the Cloud Trace resource name within projectID.
func (tc traceContext) resource(projectID string) string {
	return "projects/" + projectID + "/traces/" + tc.traceID
}

// fields returns the Cloud Logging correlation fields. Without a project the
// trace cannot be linked and no fields are returned.
func (tc traceContext) fields(projectID string) []zap.Field {
	if projectID == "" {
		return nil
	}
	return []zap.Field{
		zap.String("logging.googleapis.com/trace", tc.resource(projectID)),
		zap.String("logging.googleapis.com/spanId", tc.spanID),
		zap.Bool("logging.googleapis.com/trace_sampled", tc.sampled),
	}
}

var projectID = sync.OnceValue(func() string {
	for _, key := range []string{"FIREBASE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
})
