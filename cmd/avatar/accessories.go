package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-avatar/pkg/accessory"
	"github.com/teslashibe/go-avatar/pkg/store"
)

func newAccessoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "accessories [asset]",
		Short: "List saved accessory layouts",
		Long:  "Without an asset, lists the avatars that have saved accessories.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				avatars, err := st.Avatars(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, len(avatars))
				for i, a := range avatars {
					rows[i] = []string{a}
				}
				fmt.Fprintln(out, renderTable([]string{"Avatar"}, rows))
				return nil
			}

			items, err := st.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Bone", "Position", "Rotation", "Scale"}, accessoryRows(items)))
			return nil
		},
	}
}

func accessoryRows(items []accessory.Accessory) [][]string {
	rows := make([][]string, len(items))
	for i, a := range items {
		rows[i] = []string{
			a.ID,
			a.Name,
			a.BoneName,
			fmt.Sprintf("%.3g %.3g %.3g", a.Position[0], a.Position[1], a.Position[2]),
			fmt.Sprintf("%.3g %.3g %.3g", a.Rotation[0], a.Rotation[1], a.Rotation[2]),
			fmt.Sprintf("%.3g %.3g %.3g", a.Scale[0], a.Scale[1], a.Scale[2]),
		}
	}
	return rows
}
