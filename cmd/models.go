package main

import (
	"encoding/json"
	"sort"

	"github.com/spf13/cobra"
)

func newModelsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Print the models available to the configured AI key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			models, err := newAIClient(cfg, log).ListModels(cmd.Context())
			if err != nil {
				return err
			}
			sort.SliceStable(models, func(i, j int) bool { return models[i].Name < models[j].Name })

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(models)
		},
	}
}
