package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glslt-go/glslt"
	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/internal/glsltio"
	"github.com/glslt-go/glslt/internal/glsltlog"
)

var (
	outputPath  string
	includeDirs []string
	keepFns     []string
	prefix      string
	quiet       bool
	verbosity   int
)

func main() {
	cmd := &cobra.Command{
		Use:          "glslt [flags] file...",
		Short:        "GLSL template compiler",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringArrayVarP(&includeDirs, "include", "I", nil, "system include search path (repeatable)")
	cmd.Flags().StringArrayVarP(&keepFns, "keep-fns", "K", nil, "wanted root function name; enables minifying mode (repeatable)")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "override the generated-identifier prefix")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "quiet mode")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "verbose mode, repeat to increase")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := glsltlog.New(quiet, verbosity)
	defer logger.Sync()

	tu, err := glsltio.LoadFiles(args, includeDirs)
	if err != nil {
		if !errors.Is(err, glsltio.ErrEmptyInput) {
			logger.Error("failed to load input", zap.Error(err))
			return err
		}
		logger.Warn("input translation unit is empty")
	}

	var opts []glslt.Option
	if prefix != "" {
		opts = append(opts, glslt.WithPrefix(prefix))
	}

	var out *glsl.TranslationUnit
	if len(keepFns) == 0 {
		out, err = glslt.Transform(tu, opts...)
	} else {
		out, err = glslt.TransformMin(tu, keepFns, opts...)
	}
	if err != nil {
		logger.Error("transform failed", zap.Error(err))
		return err
	}

	rendered := glsl.Sprint(out)

	if outputPath == "" {
		fmt.Print(rendered)
		return nil
	}
	return os.WriteFile(outputPath, []byte(rendered), 0o666)
}
