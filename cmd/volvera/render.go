package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/pdf"

	"github.com/spf13/cobra"
)

var renderFlags = struct {
	lang string
	out  string
}{}

func renderTemplateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render-template",
		Short: "Render the blank partnership contract to a file",
		Run: func(cmd *cobra.Command, args []string) {
			renderer := newRenderer(config.Cfg, slog.Default())
			res, err := renderer.Render(cmd.Context(), pdf.Input{Language: renderFlags.lang})
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			out := renderFlags.out
			if out == "" {
				out = res.Filename
			} else if info, err := os.Stat(out); err == nil && info.IsDir() {
				out = filepath.Join(out, res.Filename)
			}
			if err := os.WriteFile(out, res.Bytes, 0o644); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println(out)
			if res.FontFallback {
				slog.Warn("RTL font was not loaded, text rendered with the Latin fallback", "lang", res.Language)
			}
		},
	}
	cmd.Flags().StringVar(&renderFlags.lang, "lang", pdf.LangEN, "contract language: en, fa or ps")
	cmd.Flags().StringVarP(&renderFlags.out, "out", "o", "", "output file or directory")
	return cmd
}
