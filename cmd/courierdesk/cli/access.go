package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/courierdesk/courierdesk/internal/access"
)

// ExplainOptions defines the flags of the access explain command.
type ExplainOptions struct {
	Role         string
	HasOwnFleet  bool
	Subtype      string
	Status       string
	Capabilities []string
	Roles        []string
	RequireAll   bool
	JSONOutput   bool
	Stdout       io.Writer
	Stderr       io.Writer
}

// ExplainSummary is the JSON form of an access decision.
type ExplainSummary struct {
	Granted      bool     `json:"granted"`
	Reason       string   `json:"reason"`
	Kind         string   `json:"kind"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// ExplainCommand evaluates an access check for a hypothetical actor. It exits
// 0 when access is granted, 10 when denied and 1 on bad input.
func ExplainCommand(opts ExplainOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	actor, err := access.NewActor("cli", opts.Role, opts.HasOwnFleet, opts.Subtype, opts.Status)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "access explain: %v\n", err)
		return 1
	}
	check := access.Options{RequireAll: opts.RequireAll}
	for _, raw := range splitList(opts.Capabilities) {
		c, err := access.ParseCapability(raw)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "access explain: %v\n", err)
			return 1
		}
		check.RequiredCapabilities = append(check.RequiredCapabilities, c)
	}
	for _, raw := range splitList(opts.Roles) {
		r, err := access.ParseRole(raw)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "access explain: %v\n", err)
			return 1
		}
		check.AllowedRoles = append(check.AllowedRoles, r)
	}

	decision := access.Explain(actor, check)
	summary := buildExplainSummary(actor, decision)
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(summary); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "access explain: encode json: %v\n", err)
			return 1
		}
	} else {
		renderExplainHuman(opts.Stdout, summary)
	}
	if !decision.Granted {
		return 10
	}
	return 0
}

func buildExplainSummary(actor *access.Actor, decision access.Decision) ExplainSummary {
	caps := access.Capabilities(actor)
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = string(c)
	}
	return ExplainSummary{
		Granted:      decision.Granted,
		Reason:       string(decision.Reason),
		Kind:         access.KindOf(actor).String(),
		Description:  access.DescribeRole(actor),
		Capabilities: names,
	}
}

func renderExplainHuman(out io.Writer, s ExplainSummary) {
	verdict := "DENIED"
	if s.Granted {
		verdict = "GRANTED"
	}
	_, _ = fmt.Fprintf(out, "%s (%s)\n", verdict, s.Reason)
	_, _ = fmt.Fprintf(out, "Actor: %s, %s\n", s.Kind, s.Description)
	if len(s.Capabilities) == 0 {
		_, _ = fmt.Fprintln(out, "Capabilities: none")
		return
	}
	_, _ = fmt.Fprintf(out, "Capabilities: %s\n", strings.Join(s.Capabilities, ", "))
}

// splitList accepts repeated flags as well as comma separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
