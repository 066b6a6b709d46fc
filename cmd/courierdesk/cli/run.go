package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hibiken/asynq"
	"github.com/spf13/pflag"
)

const usage = `usage: courierdesk <command> [flags]

commands:
  access explain   evaluate an access check for a hypothetical actor
  jobs inspect     report the audit queue state
  jobs retries     list audit tasks waiting for retry
`

// Run dispatches a CLI invocation and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		_, _ = fmt.Fprint(stderr, usage)
		return 1
	}
	switch args[0] + " " + args[1] {
	case "access explain":
		return runExplain(args[2:], stdout, stderr)
	case "jobs inspect", "jobs retries":
		return runJobs(ctx, args[1], args[2:], stdout, stderr)
	default:
		_, _ = fmt.Fprint(stderr, usage)
		return 1
	}
}

func runExplain(args []string, stdout, stderr io.Writer) int {
	opts := ExplainOptions{Stdout: stdout, Stderr: stderr}
	fs := pflag.NewFlagSet("access explain", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Role, "role", "", "actor role")
	fs.BoolVar(&opts.HasOwnFleet, "fleet", false, "partner operates its own fleet")
	fs.StringVar(&opts.Subtype, "subtype", "", "partner subtype (business, courier, fleet)")
	fs.StringVar(&opts.Status, "status", "", "account status")
	fs.StringSliceVar(&opts.Capabilities, "cap", nil, "required capability, repeatable")
	fs.StringSliceVar(&opts.Roles, "allow-role", nil, "allowed role, repeatable")
	fs.BoolVar(&opts.RequireAll, "all", false, "require every capability instead of any")
	fs.BoolVar(&opts.JSONOutput, "json", false, "output as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	return ExplainCommand(opts)
}

func runJobs(ctx context.Context, sub string, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("jobs "+sub, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	redisAddr := fs.String("redis", envOr("REDIS_ADDR", "127.0.0.1:6379"), "redis address")
	size := fs.Int("size", 10, "page size for retries")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}

	c := NewJobsCLI(*redisAddr)
	defer func() { _ = c.Close() }()
	return jobsCommand(ctx, c, sub, *size, stdout, stderr)
}

func jobsCommand(ctx context.Context, c *JobsCLI, sub string, size int, stdout, stderr io.Writer) int {
	var out any
	var err error
	switch sub {
	case "inspect":
		out, err = c.InspectQueue(ctx)
	default:
		var tasks []*asynq.TaskInfo
		tasks, err = c.ListRetry(ctx, size)
		out = retrySummaries(tasks)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "jobs %s: %v\n", sub, err)
		return 1
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		_, _ = fmt.Fprintf(stderr, "jobs %s: encode json: %v\n", sub, err)
		return 1
	}
	return 0
}

// RetrySummary describes one audit task awaiting retry.
type RetrySummary struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Retried int    `json:"retried"`
	LastErr string `json:"last_error"`
	Payload string `json:"payload"`
}

func retrySummaries(tasks []*asynq.TaskInfo) []RetrySummary {
	out := make([]RetrySummary, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		out = append(out, RetrySummary{ID: t.ID, Type: t.Type, Retried: t.Retried, LastErr: t.LastErr, Payload: string(t.Payload)})
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
