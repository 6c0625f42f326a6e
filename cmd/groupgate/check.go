package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/internal/cli"
)

var (
	checkGroups  []string
	checkExpand  bool
	checkRequire string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a membership requirement",
	Long: `Evaluate a membership requirement against a list of held groups.

The requirement is an expression over group names where & binds tighter
than |, for example:

  groupgate check --groups 0-staff --require '0-root | 0-staff & f-billing'

With --expand, each held group is resolved in the database and replaced
by its flattened closure before evaluation, matching how a capability
session would see it.

Exits 0 when the requirement holds and 4 when it does not.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parseRequirement(checkRequire)
		if err != nil {
			return cli.GeneralError("parsing requirement", err)
		}

		held := groupgate.NewGroupSet()
		if checkExpand {
			db, st, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			ctx := cmd.Context()
			for _, name := range checkGroups {
				g, err := st.GroupByName(ctx, name)
				if err != nil {
					return cli.GeneralError("resolving group", err)
				}
				closure, err := groupgate.Expand(ctx, st, g)
				if err != nil {
					return cli.GeneralError("expanding group", err)
				}
				held = held.Union(closure)
			}
		} else {
			for _, name := range checkGroups {
				g, err := groupgate.NewGroup(name, groupgate.TypeFeature, groupgate.WithName(name))
				if err != nil {
					return cli.GeneralError("building group", err)
				}
				held.Add(g)
			}
		}

		if err := groupgate.Require(held, req); err != nil {
			return cli.DeniedError("check", err)
		}

		printf("OK: %v\n", req)
		return nil
	},
}

// parseRequirement parses a two-level requirement expression: |-separated
// alternatives of &-separated group names.
func parseRequirement(expr string) (groupgate.Requirement, error) {
	var req groupgate.Requirement
	for _, alt := range strings.Split(expr, "|") {
		var conj groupgate.Requirement
		for _, term := range strings.Split(alt, "&") {
			name := strings.TrimSpace(term)
			if name == "" {
				return nil, fmt.Errorf("empty group name in %q", expr)
			}
			if conj == nil {
				conj = groupgate.HasGroup(name)
			} else {
				conj = groupgate.And(conj, groupgate.HasGroup(name))
			}
		}
		if req == nil {
			req = conj
		} else {
			req = groupgate.Or(req, conj)
		}
	}
	return req, nil
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkGroups, "groups", nil, "held group names")
	checkCmd.Flags().StringVar(&checkRequire, "require", "", "requirement expression")
	checkCmd.Flags().BoolVar(&checkExpand, "expand", false,
		"expand held groups through the database before evaluating")
	_ = checkCmd.MarkFlagRequired("require")
}
