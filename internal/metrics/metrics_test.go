package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordShapeOp(t *testing.T) {
	before := testutil.ToFloat64(ShapeOperationsTotal.WithLabelValues("Square", "create", "ok"))
	RecordShapeOp("Square", "create", nil)
	after := testutil.ToFloat64(ShapeOperationsTotal.WithLabelValues("Square", "create", "ok"))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}

	beforeErr := testutil.ToFloat64(ShapeOperationsTotal.WithLabelValues("Square", "create", "error"))
	RecordShapeOp("Square", "create", errors.New("boom"))
	if got := testutil.ToFloat64(ShapeOperationsTotal.WithLabelValues("Square", "create", "error")); got != beforeErr+1 {
		t.Errorf("expected error counter to increase, got %v", got)
	}
}

func TestObserveHTTP(t *testing.T) {
	ObserveHTTP(http.MethodGet, "", 404, 5*time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")); got < 1 {
		t.Errorf("expected unmatched route to be counted, got %v", got)
	}
}

func TestHandlerExposure(t *testing.T) {
	RecordFileSync("Rectangle", "in", nil)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler().ServeHTTP(recorder, req)

	body := recorder.Body.String()
	if !strings.Contains(body, "circle_file_sync_total") {
		t.Error("expected circle_file_sync_total metric to be present")
	}
	if !strings.Contains(body, `direction="in"`) {
		t.Error("expected direction label to be present")
	}
}
