package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/internal/cli"
)

var (
	groupType string
	groupName string
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups and membership edges",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <display-name>",
	Short: "Create a group",
	Long: `Create a group.

The group name is derived from the type code and the slugified display
name ("Widget Admins" with type f becomes "f-widget-admins") unless
--name overrides it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []groupgate.GroupOption
		if groupName != "" {
			opts = append(opts, groupgate.WithName(groupName))
		}

		g, err := groupgate.NewGroup(args[0], groupgate.GroupType(groupType), opts...)
		if err != nil {
			return cli.GeneralError("building group", err)
		}

		db, st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		created, err := st.CreateGroup(cmd.Context(), g)
		if err != nil {
			return cli.GeneralError("creating group", err)
		}

		printf("Created %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var groupAddMemberCmd = &cobra.Command{
	Use:   "add-member <group> <member-of>",
	Short: "Add a membership edge",
	Long: `Record that <group> is a member of <member-of>.

Members of <group> gain everything <member-of> grants, transitively.
Adding an existing edge is a no-op; cycles are allowed and expansion
still terminates.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editMembership(cmd, args, true)
	},
}

var groupRemoveMemberCmd = &cobra.Command{
	Use:   "remove-member <group> <member-of>",
	Short: "Remove a membership edge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editMembership(cmd, args, false)
	},
}

func editMembership(cmd *cobra.Command, args []string, add bool) error {
	db, st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()
	group, err := st.GroupByName(ctx, args[0])
	if err != nil {
		return cli.GeneralError("resolving group", err)
	}
	memberOf, err := st.GroupByName(ctx, args[1])
	if err != nil {
		return cli.GeneralError("resolving group", err)
	}

	if add {
		if err := st.AddMember(ctx, group, memberOf); err != nil {
			return cli.GeneralError("adding member", err)
		}
		printf("%s is now a member of %s\n", group.Name, memberOf.Name)
		return nil
	}

	if err := st.RemoveMember(ctx, group, memberOf); err != nil {
		return cli.GeneralError("removing member", err)
	}
	printf("%s is no longer a member of %s\n", group.Name, memberOf.Name)
	return nil
}

var expandCmd = &cobra.Command{
	Use:   "expand <group>",
	Short: "Print the flattened closure of a group",
	Long: `Print every group reachable from <group> through is-member-of edges,
including the group itself, one name per line in sorted order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		ctx := cmd.Context()
		start, err := st.GroupByName(ctx, args[0])
		if err != nil {
			return cli.GeneralError("resolving group", err)
		}

		maxDepth := cfg.Expand.MaxDepth
		if cmd.Flags().Changed("max-depth") {
			maxDepth, _ = cmd.Flags().GetInt("max-depth")
		}

		closure, err := groupgate.Expand(ctx, st, start, groupgate.WithMaxDepth(maxDepth))
		if err != nil {
			return cli.GeneralError("expanding group", err)
		}

		for _, name := range closure.Names() {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	groupCreateCmd.Flags().StringVarP(&groupType, "type", "t", string(groupgate.TypeFeature),
		"group type code: 0 (system), s (scope), f (feature), d (data)")
	groupCreateCmd.Flags().StringVar(&groupName, "name", "",
		"explicit group name, bypassing derivation")

	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupAddMemberCmd)
	groupCmd.AddCommand(groupRemoveMemberCmd)

	expandCmd.Flags().Int("max-depth", -1,
		"bound the walk to this many hops (negative: unbounded)")
}
