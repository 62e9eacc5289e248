package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/posterdrop/internal/access"
	"github.com/phrazzld/posterdrop/internal/dataurl"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/platform/logger"
	"github.com/spf13/cobra"
)

var (
	errPosterFailed = errors.New("poster generation failed")
	errVideosFailed = errors.New("video generation failed")
)

type generateOptions struct {
	image       string
	slogan      string
	setSlogan   bool
	aspectRatio string
	locations   []string
	posterOut   string
	videosDir   string
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a poster and location videos for one product image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			log, err := logger.SetupWithWriter(cfg.Server, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			app, err := newApplication(cfg, log, ctx.services)
			if err != nil {
				return err
			}
			defer app.cleanup()

			opts.setSlogan = cmd.Flags().Changed("slogan")
			return app.generate(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.image, "image", "i", "", "Product image (PNG, JPEG or WEBP)")
	flags.StringVarP(&opts.slogan, "slogan", "s", "", "Poster slogan (default from config)")
	flags.StringVarP(&opts.aspectRatio, "aspect-ratio", "r", "", "Poster aspect ratio: 1:1, 16:9, 9:16, 4:3 or 3:4")
	flags.StringArrayVarP(&opts.locations, "location", "l", nil, "Location to render a video for; repeatable (default from config)")
	flags.StringVarP(&opts.posterOut, "poster-out", "o", "", "Write the generated poster to this file")
	flags.StringVarP(&opts.videosDir, "videos-dir", "d", "", "Download every completed video into this directory")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

// generate runs the whole workflow headless: select a key, upload, generate
// the poster, fan out to every location and print the results. With
// videosDir set, completed videos are downloaded as well.
func (app *application) generate(ctx context.Context, opts generateOptions, out io.Writer) error {
	svc := app.workflow

	if err := app.gate.Request(ctx); err != nil {
		return fmt.Errorf("no API key available (set llm.gemini_api_key or %s): %w", fallbackKeyEnv, err)
	}

	file, err := os.Open(opts.image)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	uploadErr := svc.Upload(ctx, file)
	_ = file.Close()
	if uploadErr != nil {
		return fmt.Errorf("failed to load %s: %w", opts.image, uploadErr)
	}

	if opts.setSlogan {
		if err := svc.EditSlogan(opts.slogan); err != nil {
			return err
		}
	}
	if opts.aspectRatio != "" {
		if err := svc.SelectAspectRatio(opts.aspectRatio); err != nil {
			return err
		}
	}
	if len(opts.locations) > 0 {
		if err := app.replacePrompts(opts.locations); err != nil {
			return err
		}
	}

	if err := svc.GeneratePoster(ctx); err != nil {
		return err
	}
	svc.Wait()

	state, err := svc.State()
	if err != nil {
		return err
	}
	if state.GeneratedPoster == "" {
		return fmt.Errorf("%w: %s", errPosterFailed, state.Error)
	}

	if opts.posterOut != "" {
		data, err := dataurl.Decode(state.GeneratedPoster)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.posterOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write poster: %w", err)
		}
		fmt.Fprintf(out, "Poster written to %s\n", opts.posterOut)
	}

	if _, err := svc.GenerateVideos(ctx); err != nil {
		return err
	}
	svc.Wait()

	state, err = svc.State()
	if errors.Is(err, access.ErrAccessDenied) {
		// A rejected key closes the gate mid-batch.
		return fmt.Errorf("%w: the API key was rejected, select a new one", errVideosFailed)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderVideoTable(state.GeneratedVideos))

	var downloadErr error
	if opts.videosDir != "" {
		downloadErr = app.downloadVideos(ctx, state.GeneratedVideos, opts.videosDir, out)
	}

	failed := 0
	for _, v := range state.GeneratedVideos {
		if v.Status == domain.VideoStatusFailed {
			failed++
		}
	}
	if failed > 0 {
		return errors.Join(
			fmt.Errorf("%w: %d of %d videos failed: %s", errVideosFailed, failed, len(state.GeneratedVideos), state.Error),
			downloadErr,
		)
	}
	return downloadErr
}

// replacePrompts swaps the default location list for locations.
func (app *application) replacePrompts(locations []string) error {
	state, err := app.workflow.State()
	if err != nil {
		return err
	}
	for _, prompt := range state.LocationPrompts {
		if err := app.workflow.RemovePrompt(prompt); err != nil {
			return err
		}
	}
	for _, prompt := range locations {
		if err := app.workflow.AddPrompt(prompt); err != nil {
			return err
		}
	}
	return nil
}
