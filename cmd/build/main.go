package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/3-lines-studio/glyph"
	"github.com/3-lines-studio/glyph/internal/build"
	"github.com/3-lines-studio/glyph/internal/cli"
)

func main() {
	outDir := flag.String("out", "", "write generated modules under this directory instead of next to each input")
	rawQuery := flag.String("query", "", "loader configuration, e.g. '?svgo=false' or '?{svgo: {removeComments: false}}'")
	watch := flag.Bool("watch", false, "stay running and rebuild files as they change")
	flag.Parse()

	output := cli.NewOutput()

	if flag.NArg() != 1 {
		output.PrintHeader("Glyph Build")
		output.PrintError("Missing source directory argument")
		fmt.Println()
		output.PrintStep("Usage: glyph-build [flags] <dir>")
		output.PrintStep("Example: glyph-build -out dist ./assets/icons")
		os.Exit(1)
	}

	root := flag.Arg(0)
	service := build.NewService(glyph.New(), output, *rawQuery, *outDir)

	output.PrintHeader("Glyph Build")
	output.PrintStep("Scanning %s for markup files...", root)

	results, err := service.Build(root)
	if err != nil {
		output.PrintError("%v", err)
		os.Exit(1)
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			output.PrintError("%s", result.Path)
			continue
		}
		output.PrintFile(result.OutPath)
	}

	output.PrintSuccess("Generated %d component(s)", len(results)-failed)
	if failed > 0 {
		output.PrintError("%d file(s) failed", failed)
		if !*watch {
			os.Exit(1)
		}
	}

	if *watch {
		output.PrintStep("Watching %s for changes...", root)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := service.Watch(ctx, root); err != nil && ctx.Err() == nil {
			output.PrintError("%v", err)
			os.Exit(1)
		}
	}

	output.PrintDone("Build completed")
}
