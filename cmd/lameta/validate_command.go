package main

import (
	"github.com/spf13/cobra"

	"lameta/internal/config"
	"lameta/internal/validator"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var modeValidator string
	var namespace string
	var ignoreFiles bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate an RO-Crate directory or ro-crate-metadata.json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := validator.OptionsFromConfig(cfg, ctx.log())
			if cmd.Flags().Changed("mode-validator") {
				mv := modeValidator
				if mv != "" {
					if mv, err = config.ExpandPath(mv); err != nil {
						return err
					}
				}
				opts.ModeValidator = mv
			}
			if cmd.Flags().Changed("namespace") {
				opts.Namespace = namespace
			}
			opts.IgnoreFiles = ignoreFiles

			result := validator.Validate(cmd.Context(), args[0], opts)

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, result); err != nil {
					return err
				}
			} else {
				validator.WriteReport(out, result, shouldColorize(out))
			}
			if !result.Success {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modeValidator, "mode-validator", "", "Profile mode file or URL passed to the external validator")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Namespace for the external validator's temporary repository")
	cmd.Flags().BoolVar(&ignoreFiles, "ignore-files", false, "Skip checks that referenced files exist")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
