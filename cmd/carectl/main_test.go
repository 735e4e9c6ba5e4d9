package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blaisecz/puppy-tracker/internal/calc"
	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventsYAML = `
name: Biscuit
timezone: UTC
home_date: 2024-03-01
events:
  - time: 2024-03-11T08:00:00Z
    type: coverage_gap
    end_time: 2024-03-11T09:00:00Z
  - time: 2024-03-11T22:30:00Z
    type: sleep
  - time: 2024-03-12T06:30:00Z
    type: wake
  - time: 2024-03-12T06:35:00Z
    type: pee
    location: outdoor
  - time: 2024-03-12T07:00:00Z
    type: meal
  - time: 2024-03-12T07:30:00Z
    type: walk
    location: outdoor
    duration_minutes: 30
  - time: 2024-03-12T09:00:00Z
    type: poop
    location: indoor
  - time: 2024-03-12T10:00:00Z
    type: pee
    location: outdoor
`

const strictScheduleYAML = `
mode: strict
day_start_hour: 7
day_end_hour: 21
slots:
  - label: Morning
    target_time: {hour: 7, minute: 30}
  - label: Lunch
    target_time: {hour: 13, minute: 0}
  - label: Evening
    target_time: {hour: 19, minute: 0}
`

const testNow = "2024-03-12T12:00:00Z"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return out, cmd.Execute()
}

func TestStatus(t *testing.T) {
	events := writeFile(t, "events.yaml", eventsYAML)

	out, err := run(t, "status", "--events", events, "--now", testNow)
	require.NoError(t, err)

	var view service.StatusView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, calc.SleepStateAwake, view.Sleep.Kind)
	assert.Equal(t, 330, view.Sleep.ElapsedMinutes)
	assert.Equal(t, 120, view.Potty.MinutesSinceLast)
	assert.Equal(t, calc.UrgencyOverdue, view.Potty.Urgency.Level)
	assert.Equal(t, 12, view.DaysHome)
	assert.Nil(t, view.ActiveCoverageGap)
}

func TestTimeline(t *testing.T) {
	events := writeFile(t, "events.yaml", eventsYAML)

	out, err := run(t, "timeline", "--events", events, "--now", testNow, "--date", "2024-03-12")
	require.NoError(t, err)

	var view service.TimelineView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, "2024-03-12", view.Date)
	require.NotEmpty(t, view.Blocks)
	assert.Equal(t, calc.BlockSleep, view.Blocks[0].Type)
	assert.Equal(t, 1, view.Summary.WalkCount)
	assert.Equal(t, 30, view.Summary.WalkMinutes)
	assert.Equal(t, 1, view.Summary.IndoorPottyCount)
}

func TestWalks_ScheduleOverride(t *testing.T) {
	events := writeFile(t, "events.yaml", eventsYAML)
	schedule := writeFile(t, "schedule.yaml", strictScheduleYAML)

	out, err := run(t, "walks", "--events", events, "--schedule", schedule, "--now", testNow)
	require.NoError(t, err)

	var view service.WalksView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, domain.WalkModeStrict, view.Mode)
	require.NotNil(t, view.Next)
	assert.Equal(t, "Lunch", view.Next.Label)
}

func TestStats(t *testing.T) {
	events := writeFile(t, "events.yaml", eventsYAML)

	out, err := run(t, "stats", "--events", events, "--now", testNow, "--window-days", "7")
	require.NoError(t, err)

	var view service.StatsView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, 7, view.WindowDays)
	assert.Equal(t, 1, view.CoverageGapCount)
	require.NotNil(t, view.Gaps)
	assert.Equal(t, 2, view.Gaps.Count)
}

func TestErrors(t *testing.T) {
	events := writeFile(t, "events.yaml", eventsYAML)
	badType := writeFile(t, "bad.yaml", "events:\n  - time: 2024-03-12T06:30:00Z\n    type: bark\n")
	badZone := writeFile(t, "zone.yaml", "timezone: Mars/Olympus\n")
	badSchedule := writeFile(t, "schedule.yaml", "mode: random\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing events", args: []string{"status"}, wantErr: "--events is required"},
		{name: "unknown event type", args: []string{"status", "--events", badType}, wantErr: "events[0].type"},
		{name: "unknown timezone", args: []string{"status", "--events", badZone}, wantErr: "unknown timezone"},
		{name: "bad schedule", args: []string{"walks", "--events", events, "--schedule", badSchedule}, wantErr: "walk schedule"},
		{name: "bad now", args: []string{"status", "--events", events, "--now", "noon"}, wantErr: "--now must be RFC3339"},
		{name: "bad date", args: []string{"timeline", "--events", events, "--date", "12/03/2024"}, wantErr: "YYYY-MM-DD"},
		{name: "window out of range", args: []string{"stats", "--events", events, "--window-days", "0"}, wantErr: "--window-days"},
		{name: "missing file", args: []string{"status", "--events", filepath.Join(t.TempDir(), "nope.yaml")}, wantErr: "nope.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
