package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"pngread/config"
	"pngread/logging"
	"pngread/oops"
	"pngread/perf"
	"pngread/pngDecoder"
	"pngread/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	outputPath   string
	outputFormat string
	logLevel     string
)

var rootCommand = &cobra.Command{
	Use:          "pngread <input.png>",
	Short:        "Decode an 8-bit PNG into raw pixels",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return decodeFile(args[0], outputPath, strings.ToLower(outputFormat))
	},
}

func init() {
	rootCommand.Flags().StringVarP(&outputPath, "output", "o", "out.raw", "File to write the decoded pixels to")
	rootCommand.Flags().StringVarP(&outputFormat, "format", "f", "raw", "Output format: raw, ppm or bmp")
	rootCommand.Flags().StringVar(&logLevel, "log-level", "", "Log level (overrides "+config.LogLevelEnv+")")
	rootCommand.Flags().BoolVar(&config.Config.ShowTimings, "timings", false, "Log how long each decode stage took")

	rootCommand.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return oops.New(err, "bad %s", config.LogLevelEnv)
		}
		if logLevel != "" {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return oops.New(err, "bad --log-level")
			}
			config.Config.LogLevel = level
		}
		logging.SetLevel(config.Config.LogLevel)
		return nil
	}
}

var writers = map[string]func(io.Writer, *pngDecoder.Image) error{
	"raw": func(w io.Writer, img *pngDecoder.Image) error { return utils.WriteRaw(w, img) },
	"ppm": func(w io.Writer, img *pngDecoder.Image) error { return utils.WritePPM(w, img.ToImage()) },
	"bmp": func(w io.Writer, img *pngDecoder.Image) error { return utils.WriteBMP(w, img.ToImage()) },
}

func decodeFile(input, output, format string) error {
	write, ok := writers[format]
	if !ok {
		return fmt.Errorf("unknown output format %q", format)
	}

	file, err := os.Open(input)
	if err != nil {
		return oops.New(err, "failed to open input")
	}
	defer file.Close()

	var dp *perf.DecodePerf
	if config.Config.ShowTimings {
		dp = perf.MakeNewDecodePerf(input)
	}
	img, err := pngDecoder.DecodeWithPerf(file, dp)
	dp.EndDecode()
	if dp != nil {
		logging.Info().EmbedObject(dp).Msg("Decode timings")
	}
	if err != nil {
		logging.Error().Err(err).Str("kind", pngDecoder.KindOf(err).String()).Str("input", input).Msg("Failed to decode PNG")
		return err
	}

	logging.Info().
		Int("width", img.Width()).
		Int("height", img.Height()).
		Int("bytesPerPixel", img.BytesPerPixel()).
		Stringer("colorType", img.ColorType()).
		Msg("Decoded PNG")

	out, err := os.Create(output)
	if err != nil {
		return oops.New(err, "failed to create output")
	}
	defer out.Close()

	if err := write(out, img); err != nil {
		return oops.New(err, "failed to write %s", output)
	}
	if err := out.Close(); err != nil {
		return oops.New(err, "failed to close %s", output)
	}

	logging.Info().Str("output", output).Str("format", format).Msg("Wrote pixels")
	return nil
}

func main() {
	defer logging.LogPanics(nil)
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
