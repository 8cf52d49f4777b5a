package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cristianadrielbraun/qrlogo/internal/config"
	"github.com/cristianadrielbraun/qrlogo/internal/encoder"
	"github.com/cristianadrielbraun/qrlogo/internal/handlers"
	"github.com/cristianadrielbraun/qrlogo/internal/logging"
	"github.com/cristianadrielbraun/qrlogo/internal/logo"
	"github.com/cristianadrielbraun/qrlogo/internal/render"
	"github.com/cristianadrielbraun/qrlogo/internal/scan"
	"github.com/cristianadrielbraun/qrlogo/internal/session"
)

var version = "v0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "qrlogo",
		Short:        "QR codes with a circular logo in the middle",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the web editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	})

	var ro renderOptions
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Write a QR code PNG, optionally with a logo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ro.applyDefaults(cmd, cfg)
			return runRender(ro)
		},
	}
	f := renderCmd.Flags()
	f.StringVarP(&ro.Text, "text", "t", "", "Text to encode (required)")
	f.StringVarP(&ro.Out, "out", "o", "qr-code.png", "Output PNG path")
	f.StringVar(&ro.Logo, "logo", "", "Logo image to place in the centre")
	f.IntVar(&ro.LogoPercent, "logo-size", 20, "Logo diameter as a percentage of the width (10-40)")
	f.StringVar(&ro.ECC, "ecc", "medium", "Error correction: low, medium, quartile, high")
	f.IntVar(&ro.Scale, "scale", render.DefaultScale, "Pixels per module")
	f.IntVar(&ro.Border, "border", render.DefaultBorder, "Quiet zone width in modules")
	f.StringVar(&ro.Encoder, "encoder", "skip2", "Encoder backend")
	f.StringVar(&ro.Filter, "filter", "lanczos", "Logo resampling filter")
	_ = renderCmd.MarkFlagRequired("text")
	root.AddCommand(renderCmd)

	root.AddCommand(&cobra.Command{
		Use:   "scan [file]",
		Short: "Decode the QR code in an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := scan.File(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qrlogo %s\n", version)
		},
	})
	return root
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	enc, err := encoder.New(cfg.Render.Encoder)
	if err != nil {
		return err
	}
	filter, err := render.ParseFilter(cfg.Render.Filter)
	if err != nil {
		return err
	}
	comp := render.NewCompositor(filter)
	fraction := cfg.LogoFraction()
	store := session.NewStore(cfg.Session.TTL.Duration, func() *render.Surface {
		s := render.NewSurface(cfg.Render.Scale, cfg.Render.Border, render.WithCompositor(comp))
		s.SetSizeFraction(fraction)
		return s
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx, cfg.Session.SweepInterval.Duration)

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Gin(log))
	r.MaxMultipartMemory = cfg.Upload.MaxBytes + 1<<20
	handlers.New(log, enc, store, cfg).Register(r)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("qrlogo listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}
	return nil
}

type renderOptions struct {
	Text        string
	Out         string
	Logo        string
	LogoPercent int
	ECC         string
	Scale       int
	Border      int
	Encoder     string
	Filter      string
	MaxBytes    int64
}

// applyDefaults fills every flag the user did not set from cfg.
func (o *renderOptions) applyDefaults(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if !set("logo-size") {
		o.LogoPercent = cfg.Render.LogoPercent
	}
	if !set("ecc") {
		o.ECC = cfg.Render.ECC
	}
	if !set("scale") {
		o.Scale = cfg.Render.Scale
	}
	if !set("border") {
		o.Border = cfg.Render.Border
	}
	if !set("encoder") {
		o.Encoder = cfg.Render.Encoder
	}
	if !set("filter") {
		o.Filter = cfg.Render.Filter
	}
	o.MaxBytes = cfg.Upload.MaxBytes
}

// runRender encodes o.Text, composites the logo if any and writes the PNG.
// The logo is decoded while the symbol is being encoded.
func runRender(o renderOptions) error {
	if o.Scale < 1 || o.Border < 0 {
		return errors.Errorf("invalid geometry scale=%d border=%d", o.Scale, o.Border)
	}
	level, err := encoder.ParseLevel(o.ECC)
	if err != nil {
		return err
	}
	enc, err := encoder.New(o.Encoder)
	if err != nil {
		return err
	}
	filter, err := render.ParseFilter(o.Filter)
	if err != nil {
		return err
	}

	var pending <-chan logo.Result
	if o.Logo != "" {
		data, err := os.ReadFile(o.Logo)
		if err != nil {
			return errors.Wrap(err, "failed to read logo")
		}
		pending = logo.Async(data, o.MaxBytes)
	}

	surface := render.NewSurface(o.Scale, o.Border, render.WithCompositor(render.NewCompositor(filter)))
	surface.SetSizeFraction(render.PercentToFraction(o.LogoPercent))

	req := encoder.DefaultRequest([]byte(o.Text))
	req.Level = level
	if err := surface.Encode(enc, req); err != nil {
		return err
	}
	if pending != nil {
		res := <-pending
		if res.Err != nil {
			return res.Err
		}
		surface.SetLogo(res.Image)
	}

	data, err := render.Export(surface.Final())
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(o.Out, data, 0o644), "failed to write output")
}
