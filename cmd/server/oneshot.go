package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"miseai/internal/domain/entity"

	"github.com/spf13/cobra"
)

func newGenerateCmd(envFiles *[]string) *cobra.Command {
	var (
		prompt     string
		recipeType string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate recipes once and print the result as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), *envFiles)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.generator.Generate(cmd.Context(), entity.GenerationRequest{Prompt: prompt, RecipeType: recipeType})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "what to cook, e.g. \"Give me 5 desserts\"")
	cmd.Flags().StringVar(&recipeType, "type", entity.DefaultRecipeType, "recipe type tag")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func newOCRCmd(envFiles *[]string) *cobra.Command {
	var structure bool
	cmd := &cobra.Command{
		Use:   "ocr <file>",
		Short: "Extract text from an image or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *envFiles)
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := a.extractor.Extract(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			if !structure || doc.Text == "" {
				return printJSON(cmd, doc)
			}

			res, err := a.structurer.Structure(cmd.Context(), doc.Text)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().BoolVar(&structure, "structure", false, "also structure the text into ingredients and steps")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
