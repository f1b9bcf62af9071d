package awr

import (
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_LoadProfileRow(t *testing.T) {
	report, err := Parse(`<html><body>
<h3>Load Profile</h3>
<table>
<tr><th></th><th>Per Second</th><th>Per Transaction</th></tr>
<tr><td>DB CPU(s)</td><td>2.5</td><td>150.3</td></tr>
</table>
</body></html>`)
	require.NoError(t, err)

	assert.Equal(t, map[string]LoadProfileMetric{
		"DB CPU(s)": {PerSecond: 2.5, PerTxn: 150.3},
	}, report.LoadProfile)
	assert.Equal(t, DefaultVersion, report.Instance.Version)
}

func TestParse_MissingWaitEvents(t *testing.T) {
	report, err := Parse(`<html><body><p>Release 19.3.0.0.0</p></body></html>`)
	require.NoError(t, err)

	assert.NotNil(t, report.WaitEvents.Events)
	assert.Empty(t, report.WaitEvents.Events)
	assert.Empty(t, report.LoadProfile)
	assert.NotNil(t, report.MemoryStats)
	assert.NotNil(t, report.IOStats)
	assert.NotNil(t, report.InstanceEfficiency)
	assert.Equal(t, "19.3.0", report.Instance.Version)
}

func TestParse_UnsupportedVersion(t *testing.T) {
	report, err := Parse(`<html><body><p>Oracle9i Enterprise Edition Release 9.0.1.0.0</p></body></html>`)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
	assert.Contains(t, err.Error(), "9.0.1")
}

func TestParseReader_ReadFailure(t *testing.T) {
	boom := errors.New("boom")
	report, err := ParseReader(iotest.ErrReader(boom))
	require.Error(t, err)
	assert.Nil(t, report)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, boom)
}

func TestParse_EmptyDocument(t *testing.T) {
	report, err := Parse("")
	require.NoError(t, err)

	assert.Equal(t, DefaultVersion, report.Instance.Version)
	assert.Empty(t, report.LoadProfile)
	for _, rk := range report.TopSQL.Rankings() {
		assert.NotNil(t, rk.Rows, rk.Key)
	}
}

func TestParse_RankingsNeverExceedCap(t *testing.T) {
	r := loadFixture(t)
	for _, rk := range r.TopSQL.Rankings() {
		assert.LessOrEqual(t, len(rk.Rows), MaxTopSQL, rk.Key)
	}
}

func TestParse_NoNegativeValues(t *testing.T) {
	report, err := Parse(`<html><body>
<h3>Load Profile</h3>
<table>
<tr><th></th><th>Per Second</th><th>Per Transaction</th></tr>
<tr><td>Logons:</td><td>-3</td><td>n/a</td></tr>
</table>
<h3>Top 5 Timed Events</h3>
<table>
<tr><th>Event</th><th>Waits</th><th>Time(s)</th><th>Avg wait (ms)</th><th>% DB time</th></tr>
<tr><td>latch free</td><td>-1</td><td>NaN</td><td>Inf</td><td>-0.5</td></tr>
</table>
</body></html>`)
	require.NoError(t, err)

	assert.Equal(t, LoadProfileMetric{}, report.LoadProfile["Logons:"])
	require.Len(t, report.WaitEvents.Events, 1)
	assert.Equal(t, WaitEvent{Name: "latch free"}, report.WaitEvents.Events[0])
}
