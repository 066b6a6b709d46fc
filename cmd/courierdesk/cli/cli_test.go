package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierdesk/courierdesk/jobs"
)

func TestExplainCommandJSONGranted(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	exitCode := ExplainCommand(ExplainOptions{
		Role:         "partner",
		HasOwnFleet:  true,
		Capabilities: []string{"set_pricing"},
		JSONOutput:   true,
		Stdout:       stdout,
		Stderr:       stderr,
	})
	require.Zero(t, exitCode)
	require.Empty(t, stderr.String())

	var summary ExplainSummary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	assert.True(t, summary.Granted)
	assert.Equal(t, "granted", summary.Reason)
	assert.Equal(t, "fleet_partner", summary.Kind)
	assert.Contains(t, summary.Capabilities, "assign_drivers")
}

func TestExplainCommandDenied(t *testing.T) {
	stdout := new(bytes.Buffer)
	exitCode := ExplainCommand(ExplainOptions{
		Role:         "partner",
		Capabilities: []string{"set_pricing,assign_drivers"},
		Stdout:       stdout,
		Stderr:       new(bytes.Buffer),
	})
	assert.Equal(t, 10, exitCode)
	assert.Contains(t, stdout.String(), "DENIED (capability_denied)")
	assert.Contains(t, stdout.String(), "Business partner without delivery fleet")
}

func TestExplainCommandRoleAllowlist(t *testing.T) {
	stdout := new(bytes.Buffer)
	exitCode := ExplainCommand(ExplainOptions{
		Role:       "customer",
		Roles:      []string{"administrator", "partner"},
		JSONOutput: true,
		Stdout:     stdout,
		Stderr:     new(bytes.Buffer),
	})
	assert.Equal(t, 10, exitCode)

	var summary ExplainSummary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	assert.Equal(t, "role_denied", summary.Reason)
}

func TestExplainCommandRejectsUnknownValues(t *testing.T) {
	for name, opts := range map[string]ExplainOptions{
		"role":       {Role: "overlord"},
		"missing":    {},
		"capability": {Role: "driver", Capabilities: []string{"fly"}},
		"allow-role": {Role: "driver", Roles: []string{"owner"}},
		"subtype":    {Role: "partner", Subtype: "freelance"},
	} {
		stderr := new(bytes.Buffer)
		opts.Stdout = new(bytes.Buffer)
		opts.Stderr = stderr
		assert.Equal(t, 1, ExplainCommand(opts), name)
		assert.Contains(t, stderr.String(), "access explain:", name)
	}
}

func TestRunParsesFlags(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	exitCode := Run(context.Background(), []string{"access", "explain", "--role", "driver", "--subtype", "courier", "--cap", "create_orders", "--json"}, stdout, stderr)
	require.Zero(t, exitCode, stderr.String())

	var summary ExplainSummary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	assert.Equal(t, "independent_courier", summary.Kind)
}

func TestRunUnknownCommand(t *testing.T) {
	stderr := new(bytes.Buffer)
	assert.Equal(t, 1, Run(context.Background(), []string{"orders"}, new(bytes.Buffer), stderr))
	assert.Contains(t, stderr.String(), "usage:")

	assert.Equal(t, 1, Run(context.Background(), []string{"access", "explain", "--bogus"}, new(bytes.Buffer), new(bytes.Buffer)))
}

type fakeInspector struct {
	info    *asynq.QueueInfo
	err     error
	retries []*asynq.TaskInfo
	queue   string
}

func (f *fakeInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	f.queue = queue
	return f.info, f.err
}

func (f *fakeInspector) ListRetryTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error) {
	f.queue = queue
	return f.retries, f.err
}

func (f *fakeInspector) Close() error { return nil }

func TestInspectQueue(t *testing.T) {
	fake := &fakeInspector{info: &asynq.QueueInfo{Pending: 3, Retry: 1}}
	c := &JobsCLI{inspector: fake}

	stats, err := c.InspectQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jobs.QueueAudit, fake.queue)
	assert.Equal(t, QueueStats{Queue: jobs.QueueAudit, Pending: 3, Retry: 1}, stats)
}

func TestInspectQueueMissingQueue(t *testing.T) {
	c := &JobsCLI{inspector: &fakeInspector{err: asynq.ErrQueueNotFound}}
	stats, err := c.InspectQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, QueueStats{Queue: jobs.QueueAudit}, stats)
}

func TestJobsCommandOutputsJSON(t *testing.T) {
	fake := &fakeInspector{retries: []*asynq.TaskInfo{{ID: "t-1", Type: jobs.TaskAccessDenied, Retried: 2, LastErr: "db down"}}}
	c := &JobsCLI{inspector: fake}

	stdout := new(bytes.Buffer)
	require.Zero(t, jobsCommand(context.Background(), c, "retries", 5, stdout, new(bytes.Buffer)))

	var got []RetrySummary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "db down", got[0].LastErr)
}

func TestJobsCommandReportsErrors(t *testing.T) {
	c := &JobsCLI{inspector: &fakeInspector{err: errors.New("redis unreachable")}}
	stderr := new(bytes.Buffer)
	assert.Equal(t, 1, jobsCommand(context.Background(), c, "inspect", 0, new(bytes.Buffer), stderr))
	assert.Contains(t, stderr.String(), "redis unreachable")

	var nilCLI *JobsCLI
	_, err := nilCLI.InspectQueue(context.Background())
	assert.Error(t, err)
}
