// Package main provides the CLI entry point for sheetpeek-go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/output"
	"golang.org/x/term"
)

var (
	planPath  string
	sheetName string
	noPause   bool
	noDisplay bool
	viewerCmd string
	outDir    string
	asJSON    bool
	pretty    bool
	foldWidth bool
	trimSpace bool
	rawValues bool
	password  string
	verbose   bool
)

var log = logrus.New()

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetpeek",
		Short: "Inspect cells and anchored images of an Excel workbook",
		Long: `sheetpeek-go opens an xlsx workbook, reads cell values, fetches images
anchored to cells and shows them, pausing for the operator between steps.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&sheetName, "sheet", "", "Sheet name (default: active sheet)")
	pf.BoolVar(&foldWidth, "fold-width", false, "Fold full-width characters in string values")
	pf.BoolVar(&trimSpace, "trim", false, "Trim whitespace around string values")
	pf.BoolVar(&rawValues, "raw", false, "Read stored values without number formats")
	pf.StringVar(&password, "password", "", "Password for an encrypted workbook")
	pf.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	inspectCmd := &cobra.Command{
		Use:   "inspect [input.xlsx]",
		Short: "Run an inspection plan (default: the L1001 sequence)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().StringVarP(&planPath, "plan", "p", "", "YAML plan file")
	inspectCmd.Flags().BoolVar(&noPause, "no-pause", false, "Do not wait for the operator at pause steps")
	inspectCmd.Flags().BoolVar(&noDisplay, "no-display", false, "Fetch images without opening a viewer")
	inspectCmd.Flags().StringVar(&viewerCmd, "viewer", "", "Image viewer command ({} is replaced by the file)")
	inspectCmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to save fetched images")
	inspectCmd.Flags().BoolVar(&asJSON, "json", false, "Print the run report as JSON")

	cellCmd := &cobra.Command{
		Use:   "cell input.xlsx (REF | ROW COL)",
		Short: "Print one cell value",
		Args:  cobra.RangeArgs(2, 3),
		RunE:  runCell,
	}
	cellCmd.Flags().BoolVar(&asJSON, "json", false, "Print the cell as JSON")

	imageCmd := &cobra.Command{
		Use:   "image input.xlsx REF",
		Short: "Fetch and display the image anchored at a cell",
		Args:  cobra.ExactArgs(2),
		RunE:  runImage,
	}
	imageCmd.Flags().StringVar(&viewerCmd, "viewer", "", "Image viewer command ({} is replaced by the file)")
	imageCmd.Flags().StringVarP(&outDir, "out", "o", "", "Save the image to this directory instead of displaying it")

	imagesCmd := &cobra.Command{
		Use:   "images input.xlsx",
		Short: "List anchored images as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runImages,
	}

	rootCmd.AddCommand(inspectCmd, cellCmd, imageCmd, imagesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
}

func openOptions() sheetpeek.Options {
	return sheetpeek.Options{
		Password:  password,
		RawValues: rawValues,
		FoldWidth: foldWidth,
		TrimSpace: trimSpace,
	}
}

// openSheet opens the workbook and selects the --sheet or active sheet.
func openSheet(path string) (*sheetpeek.Workbook, *sheetpeek.Sheet, error) {
	wb, err := sheetpeek.Open(path, openOptions())
	if err != nil {
		return nil, nil, err
	}
	if sheetName == "" {
		return wb, wb.ActiveSheet(), nil
	}
	sheet, err := wb.Sheet(sheetName)
	if err != nil {
		wb.Close()
		return nil, nil, err
	}
	return wb, sheet, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	plan := sheetpeek.DefaultPlan()
	if planPath != "" {
		p, err := sheetpeek.LoadPlan(planPath)
		if err != nil {
			return err
		}
		plan = p
	}
	if sheetName != "" {
		plan.Sheet = sheetName
	}

	inputPath := plan.File
	if len(args) == 1 {
		inputPath = args[0]
	}
	if inputPath == "" {
		inputPath = sheetpeek.DefaultFile
	}

	wb, err := sheetpeek.Open(inputPath, openOptions())
	if err != nil {
		return err
	}
	defer wb.Close()

	viewer := newViewer()
	runner := &sheetpeek.Runner{
		Viewer: viewer,
		Pauser: sheetpeek.NopPauser{},
		Log:    log,
		OutDir: outDir,
	}
	if !noPause {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			log.Warn("stdin is not a terminal; pauses resume on each input line")
		}
		runner.Pauser = sheetpeek.NewStdinPauser(os.Stdin, os.Stderr)
		// without pauses viewer files are kept; a viewer may still be opening them
		if sv, ok := viewer.(*sheetpeek.SystemViewer); ok {
			defer sv.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, runErr := runner.Run(ctx, wb, plan)
	if asJSON && report != nil {
		jsonData, err := output.ToJSON(report, pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Println(string(jsonData))
	}
	if runErr != nil {
		return fmt.Errorf("inspection failed: %w", runErr)
	}
	return nil
}

func runCell(cmd *cobra.Command, args []string) error {
	wb, sheet, err := openSheet(args[0])
	if err != nil {
		return err
	}
	defer wb.Close()

	var c models.Cell
	if len(args) == 3 {
		row, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid row %q", args[1])
		}
		col, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid column %q", args[2])
		}
		c, err = sheet.Cell(row, col)
		if err != nil {
			return err
		}
	} else {
		c, err = sheet.CellAt(args[1])
		if err != nil {
			return err
		}
	}

	if asJSON {
		jsonData, err := output.CellToJSON(&c, pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Println(string(jsonData))
		return nil
	}
	fmt.Println(c.Raw)
	return nil
}

func runImage(cmd *cobra.Command, args []string) error {
	wb, sheet, err := openSheet(args[0])
	if err != nil {
		return err
	}
	defer wb.Close()

	loader, err := sheetpeek.NewImageLoader(sheet)
	if err != nil {
		return err
	}
	img, err := loader.Get(args[1])
	if err != nil {
		return err
	}

	if outDir != "" {
		path, err := img.Save(outDir)
		if err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		fmt.Println(path)
		return nil
	}
	return img.Show(cmd.Context(), newViewer())
}

func runImages(cmd *cobra.Command, args []string) error {
	wb, sheet, err := openSheet(args[0])
	if err != nil {
		return err
	}
	defer wb.Close()

	loader, err := sheetpeek.NewImageLoader(sheet)
	if err != nil {
		return err
	}
	infos, err := loader.List()
	if err != nil {
		return err
	}

	jsonData, err := output.ImagesToJSON(infos, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

func newViewer() sheetpeek.Viewer {
	if noDisplay {
		return sheetpeek.NopViewer{}
	}
	return &sheetpeek.SystemViewer{Command: viewerCmd, Log: log}
}
