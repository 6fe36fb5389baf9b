package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

func newClassifyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <image>",
		Short: "Classify the hands in an image file",
		Long:  "classify runs hand tracking on one image and prints the gesture description of every confident hand as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := c.load()
			if err != nil {
				return err
			}
			defer log.Sync()

			d, err := app.NewDetector(cfg, log.Sugar())
			if err != nil {
				return err
			}
			defer d.Close()

			frame := gocv.IMRead(args[0], gocv.IMReadColor)
			defer frame.Close()
			if frame.Empty() {
				return fmt.Errorf("read image %s: unreadable or empty", args[0])
			}

			hands, err := gesture.NewRecognizer(d, cfg.Detector.MinConfidence).Describe(&frame)
			if err != nil {
				return fmt.Errorf("classify %s: %w", args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(hands)
		},
	}
	return cmd
}
