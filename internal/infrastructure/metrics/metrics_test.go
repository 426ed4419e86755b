package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("queued"))
	RecordRequest("queued")
	assert.Equal(t, before+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("queued")))
}

func TestRecordMatchAndQueueMatches(t *testing.T) {
	direct := testutil.ToFloat64(MatchesTotal.WithLabelValues(PathDirect))
	queue := testutil.ToFloat64(MatchesTotal.WithLabelValues(PathQueue))

	RecordMatch(PathDirect, 66.67)
	RecordQueueMatches(3)
	RecordQueueMatches(0)

	assert.Equal(t, direct+1, testutil.ToFloat64(MatchesTotal.WithLabelValues(PathDirect)))
	assert.Equal(t, queue+3, testutil.ToFloat64(MatchesTotal.WithLabelValues(PathQueue)))
}

func TestWaitlistGaugeAndExpiry(t *testing.T) {
	SetWaitlistSize(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(WaitlistSize))

	before := testutil.ToFloat64(WaitlistExpiredTotal)
	RecordExpired(2)
	RecordExpired(-1)
	assert.Equal(t, before+2, testutil.ToFloat64(WaitlistExpiredTotal))
}

func TestRecordJobRun(t *testing.T) {
	before := testutil.ToFloat64(JobRunsTotal.WithLabelValues("process_waitlist", "failure"))
	RecordJobRun("process_waitlist", false, 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(JobRunsTotal.WithLabelValues("process_waitlist", "failure")))
}
