// Command xlsxwrite converts a JSON or YAML table document into an .xlsx file.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adnsv/go-xlsxwrite/xl"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Error("xlsxwrite failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "xlsxwrite",
		Usage:     "Convert a JSON or YAML table document into a spreadsheet",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Value:   "-",
				Usage:   `Input document, "-" reads stdin`,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   `Output .xlsx file, "-" writes to stdout`,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Input format (json or yaml), detected from the input file extension by default",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Write the unpacked package parts into this directory instead of an archive",
			},
			&cli.StringFlag{
				Name:  "font-family",
				Usage: "Default font family",
			},
			&cli.Float64Flag{
				Name:  "font-size",
				Usage: "Default font size",
			},
			&cli.StringFlag{
				Name:  "date-format",
				Usage: "Number format of date cells without one",
			},
			&cli.StringFlag{
				Name:  "orientation",
				Usage: "Page orientation of every sheet (portrait or landscape)",
			},
			&cli.IntFlag{
				Name:  "sticky-rows",
				Usage: "Number of frozen rows on every sheet",
			},
			&cli.IntFlag{
				Name:  "sticky-columns",
				Usage: "Number of frozen columns on every sheet",
			},
			&cli.StringFlag{
				Name:  "app-name",
				Value: "xlsxwrite",
				Usage: "Application name recorded in the document properties",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log debug output to stderr",
			},
		},
		Action: runConvert,
	}
}

func runConvert(ctx *cli.Context) error {
	log := logrus.New()
	log.SetOutput(ctx.App.ErrWriter)
	if ctx.Bool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}

	input := ctx.String("input")
	format := ctx.String("format")
	if format == "" {
		format = formatFromPath(input)
	}

	blob, err := readInput(ctx.App.Reader, input)
	if err != nil {
		return err
	}
	doc, err := decodeDocument(blob, format)
	if err != nil {
		return err
	}

	applyFlags(ctx, doc)

	wb, err := doc.workbook()
	if err != nil {
		return err
	}
	wb.AppName = ctx.String("app-name")
	wb.Logger = log

	p, err := xl.Assemble(wb)
	if err != nil {
		return err
	}

	if dir := ctx.String("dir"); dir != "" {
		log.WithField("dir", dir).Debug("writing unpacked package")
		return p.WriteTo(xl.NewDirStorage(dir))
	}

	output := ctx.String("output")
	if output == "-" {
		return p.WriteZip(ctx.App.Writer)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	err = p.WriteZip(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.WithError(err).WithField("file", output).Warn("removing incomplete output")
		os.Remove(output)
		return err
	}
	log.WithField("file", output).Debug("workbook written")
	return nil
}

// applyFlags lets command line settings override the document.
func applyFlags(ctx *cli.Context, doc *document) {
	if ctx.IsSet("font-family") {
		doc.FontFamily = ctx.String("font-family")
	}
	if ctx.IsSet("font-size") {
		doc.FontSize = ctx.Float64("font-size")
	}
	if ctx.IsSet("date-format") {
		doc.DateFormat = ctx.String("date-format")
	}
	for i := range doc.Sheets {
		sd := &doc.Sheets[i]
		if ctx.IsSet("orientation") {
			sd.Orientation = ctx.String("orientation")
		}
		if ctx.IsSet("sticky-rows") {
			sd.StickyRows = ctx.Int("sticky-rows")
		}
		if ctx.IsSet("sticky-columns") {
			sd.StickyColumns = ctx.Int("sticky-columns")
		}
	}
}

func formatFromPath(fn string) string {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func readInput(stdin io.Reader, fn string) ([]byte, error) {
	if fn == "-" {
		return io.ReadAll(stdin)
	}
	blob, err := os.ReadFile(fn)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return blob, nil
}
