package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"chordsuggest/backend/internal/chords"
	"chordsuggest/backend/internal/config"
	"chordsuggest/backend/internal/embedding"
)

type options struct {
	modelPath string
	format    string
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	defaultModel := os.Getenv("MODEL_PATH")
	if defaultModel == "" {
		defaultModel = config.DefaultModelPath
	}

	rootCmd := &cobra.Command{
		Use:           "chordctl",
		Short:         "Inspect a chord embedding model offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVarP(&opts.modelPath, "model", "m", defaultModel, "Path to the word2vec model file")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "auto", "Model format: auto, binary or text")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print vocabulary size, sample chords and vector size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			info := svc.Info()
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"vocab_size":    info.VocabSize,
				"sample_chords": info.SampleChords,
				"vector_size":   info.VectorSize,
				"status":        "success",
			})
		},
	}

	suggestCmd := &cobra.Command{
		Use:   "suggest [chord]",
		Short: "List the chords closest to a chord",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("num")
			chord := ""
			if len(args) == 1 {
				chord = args[0]
			}
			svc, err := opts.service()
			if err != nil {
				return err
			}
			suggestions, err := svc.Suggest(chord, count)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"suggestions": suggestions,
				"status":      "success",
			})
		},
	}
	suggestCmd.Flags().IntP("num", "n", chords.DefaultSuggestionCount, "Number of suggestions")

	similarityCmd := &cobra.Command{
		Use:   "similarity <chord1> <chord2>",
		Short: "Print the cosine similarity between two chords",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			similarity, err := svc.Similarity(args[0], args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"similarity": similarity,
				"status":     "success",
			})
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert <output>",
		Short: "Rewrite the model in another word2vec layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetString("to")
			target, err := embedding.ParseFormat(to)
			if err != nil {
				return err
			}
			if target == embedding.FormatAuto {
				return fmt.Errorf("--to must be 'binary' or 'text'")
			}
			model, err := opts.load()
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := embedding.Encode(f, model, target); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d chords to %s (%s)\n", model.Len(), args[0], target)
			return nil
		},
	}
	convertCmd.Flags().String("to", "text", "Output format: binary or text")

	rootCmd.AddCommand(infoCmd, suggestCmd, similarityCmd, convertCmd)
	return rootCmd
}

func (o *options) load() (*embedding.Model, error) {
	format, err := embedding.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	return embedding.Load(o.modelPath, format)
}

func (o *options) service() (*chords.Service, error) {
	model, err := o.load()
	if err != nil {
		return nil, err
	}
	return chords.NewService(model, nil), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
