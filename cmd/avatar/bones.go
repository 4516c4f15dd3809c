package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-avatar/pkg/rig"
)

func newBonesCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "bones <asset>",
		Short: "Show how an avatar's skeleton binds to tracking regions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			root, err := rig.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s, err := rig.NewBinder(cfg.Avatar.Names).Bind(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Region", "Name", "Bone"}, bindingRows(s)))
			if all {
				fmt.Fprintln(out, renderTable([]string{"Bone", "Region"}, treeRows(s)))
			}
			fmt.Fprintln(out, renderTable([]string{"Mesh", "Targets"}, meshRows(s), 1))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every bone in the skeleton")

	return cmd
}

func bindingRows(s *rig.Session) [][]string {
	var rows [][]string
	for _, r := range rig.Regions {
		g := s.Group(r)
		for i, b := range g.Bones {
			rows = append(rows, []string{r.String(), g.Keys[i], b.Name})
		}
	}
	return rows
}

// treeRows lists every named bone with the region it was bound into.
func treeRows(s *rig.Session) [][]string {
	region := make(map[*rig.Node]string)
	for _, r := range rig.Regions {
		for _, b := range s.Group(r).Bones {
			region[b] = r.String()
		}
	}

	var rows [][]string
	s.Root.Walk(func(n *rig.Node) {
		if !n.Bone {
			return
		}
		rows = append(rows, []string{n.Name, region[n]})
	})
	return rows
}

func meshRows(s *rig.Session) [][]string {
	rows := make([][]string, 0, len(s.Meshes))
	for _, m := range s.Meshes {
		rows = append(rows, []string{m.Name, strconv.Itoa(len(m.Targets))})
	}
	return rows
}
