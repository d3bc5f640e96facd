package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tagsnap/tagsnap/internal/cli"
	"github.com/tagsnap/tagsnap/internal/common"
	"github.com/tagsnap/tagsnap/internal/model"
	"github.com/tagsnap/tagsnap/internal/overlay"
	"github.com/tagsnap/tagsnap/internal/rates"
	"github.com/tagsnap/tagsnap/internal/tui"
	"github.com/tagsnap/tagsnap/internal/workflow"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a price tag, receipt, or menu photo",
		Long: `Scan reads a photographed price in one shot: detection, currency
resolution, conversion, and a styled result panel. The scan is saved to
the local history unless --no-save is given.`,
		RunE: runScan,
	}

	cmd.Flags().StringP("image", "i", "", "path to the captured image (required)")
	cmd.Flags().StringP("mode", "m", "tag", "document kind: tag, receipt, or menu")
	cmd.Flags().StringP("target", "t", "", "target currency code (default from config)")
	cmd.Flags().StringArrayP("label", "l", nil, "label(s) to attach to the saved scan")
	cmd.Flags().String("location", "", "where the purchase was made")
	cmd.Flags().String("trip", "", "trip to group the scan under")
	cmd.Flags().Bool("compare", false, "look up alternative offers after conversion")
	cmd.Flags().Bool("no-save", false, "do not record the scan in the history")
	cmd.Flags().Bool("plain", false, "plain text prompts instead of the interactive picker")
	cmd.Flags().Bool("watch", false, "sample the image path periodically and suggest captures; a directory means newest file wins")
	cmd.Flags().Duration("interval", 2*time.Second, "sampling interval for --watch")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	interrupts := cli.NewInterruptHandler(cmd.OutOrStdout())
	ctx := interrupts.HandleInterrupts(cmd.Context(), true)

	imagePath, _ := cmd.Flags().GetString("image")
	modeFlag, _ := cmd.Flags().GetString("mode")
	mode := model.DetectMode(modeFlag)
	if !mode.Valid() {
		return common.NewUserError(fmt.Sprintf("unknown mode %q, use tag, receipt, or menu", modeFlag), nil)
	}

	target, _ := cmd.Flags().GetString("target")
	if target == "" {
		target = defaultTarget()
	}

	detector, err := initVision()
	if err != nil {
		return err
	}
	rateClient := initRates()
	defer rateClient.Close()
	comparer, err := initCompare()
	if err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		interval, _ := cmd.Flags().GetDuration("interval")
		return runWatch(ctx, detector, imagePath, mode, interval)
	}

	image, err := os.ReadFile(imagePath) // #nosec G304
	if err != nil {
		return common.NewUserError(fmt.Sprintf("could not read image %s", imagePath), err)
	}

	w := workflow.New(detector, rateClient, comparer, workflow.Config{
		DefaultTarget: target,
		Mode:          mode,
	})
	if err := w.GetStarted(); err != nil {
		return err
	}

	if err := captureWithSpinner(ctx, w, image); err != nil {
		// Currency selection is a pause, not a failure.
		if w.Stage() != workflow.StageCurrencySelect {
			return err
		}
	}

	if w.Stage() == workflow.StageCurrencySelect {
		plain, _ := cmd.Flags().GetBool("plain")
		if err := resolveCurrencies(ctx, w, target, plain); err != nil {
			return err
		}
	}

	session := w.Session()
	if session.Converted == nil {
		return fmt.Errorf("scan finished without a converted price in stage %s", session.Stage)
	}

	var comparisons []model.Comparison
	if doCompare, _ := cmd.Flags().GetBool("compare"); doCompare {
		if err := w.OpenComparison(ctx); err == nil {
			comparisons = w.Session().Comparisons
			_ = w.CloseComparison()
		}
	}

	detection := session.Detection
	panel := overlay.Panel{
		ProductName: detection.ProductName,
		Original:    *session.Original,
		Converted:   *session.Converted,
		Rate:        session.Rate,
		Items:       detection.Items,
		Comparisons: comparisons,
		LayoutKey:   string(mode),
	}
	fmt.Fprintln(cmd.OutOrStdout(), panel.Render())

	if noSave, _ := cmd.Flags().GetBool("no-save"); noSave {
		return nil
	}

	labels, _ := cmd.Flags().GetStringArray("label")
	location, _ := cmd.Flags().GetString("location")
	trip, _ := cmd.Flags().GetString("trip")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	purchase := &model.Purchase{
		Date:        time.Now(),
		ProductName: detection.ProductName,
		ImagePath:   imagePath,
		Location:    location,
		TripName:    trip,
		DocType:     mode,
		Labels:      labels,
		Items:       detection.Items,
		Original:    *session.Original,
		Converted:   *session.Converted,
	}
	if purchase.ProductName == "" {
		purchase.ProductName = "Unnamed scan"
	}
	if err := store.SavePurchase(ctx, purchase); err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Saved to history as "+purchase.ID))
	return nil
}

// captureWithSpinner runs the capture while showing an indeterminate
// spinner on stderr.
func captureWithSpinner(ctx context.Context, w *workflow.Workflow, image []byte) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("[cyan]Reading the price tag...[reset]"),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan error, 1)
	go func() {
		done <- w.Capture(ctx, image)
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			return err
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

// resolveCurrencies asks the user for source and target currencies and
// resumes the paused scan.
func resolveCurrencies(ctx context.Context, w *workflow.Workflow, target string, plain bool) error {
	options := rates.SupportedFallbackCurrencies()

	var source string
	var err error
	if plain {
		prompter := cli.NewCurrencyPrompter(os.Stdin, os.Stdout)
		source, err = prompter.Prompt(ctx, "Currency on the tag", "", options)
		if err == nil {
			target, err = prompter.Prompt(ctx, "Convert into", target, options)
		}
	} else {
		source, err = tui.SelectCurrency(ctx, "Which currency is on the tag?", options, "")
		if err == nil {
			target, err = tui.SelectCurrency(ctx, "Convert into which currency?", options, target)
		}
	}
	if err != nil {
		if errors.Is(err, tui.ErrPickerCanceled) {
			return common.NewUserError("scan canceled during currency selection", err)
		}
		return err
	}

	return w.ConfirmCurrencies(ctx, source, target)
}

// runWatch periodically re-reads the image path and prints capture
// suggestions, mimicking a live camera feed. A directory path samples
// its newest file, so dropping fresh frames into it works like a feed.
func runWatch(ctx context.Context, detector workflow.Detector, imagePath string, mode model.DetectMode, interval time.Duration) error {
	fmt.Println(cli.FormatInfo(fmt.Sprintf("Watching %s every %s, ctrl-c to stop", imagePath, interval)))

	sampler := workflow.NewSampler(detector, workflow.SamplerConfig{
		Mode:     mode,
		Interval: interval,
	}, func(s workflow.Suggestion) {
		price := cli.FormatMoney(model.Money{Amount: s.Price, Currency: s.Currency})
		fmt.Println(cli.FormatSuccess(fmt.Sprintf(
			"Looks like %s at %s (confidence %.0f%%), run scan to capture",
			s.ProductName, price, s.Confidence*100)))
	})

	sampler.Run(ctx, func(context.Context) ([]byte, error) {
		return readFrame(imagePath)
	})
	return nil
}

// readFrame reads the frame at path; for a directory it picks the most
// recently modified regular file.
func readFrame(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return os.ReadFile(path) // #nosec G304
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var newest string
	var newestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || fi.ModTime().After(newestTime) {
			newest = entry.Name()
			newestTime = fi.ModTime()
		}
	}
	if newest == "" {
		return nil, fmt.Errorf("no frames in %s", path)
	}

	return os.ReadFile(filepath.Join(path, newest)) // #nosec G304
}
