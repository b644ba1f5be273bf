package main

import (
	"os"
	"path/filepath"

	"github.com/geoforge/geoedit/internal/export"
	"github.com/geoforge/geoedit/internal/logger"
	"github.com/geoforge/geoedit/internal/pipeline"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input   string   `short:"i" long:"input"       env:"INPUT_FILE"  description:"Input dataset (.zip shapefile bundle or .geojson)" required:"true"`
	Merge   []string `short:"m" long:"merge"       description:"Drawn-geometry GeoJSON file(s) to append, in order"`
	Format  string   `short:"f" long:"format"      description:"Output format" choice:"geojson" choice:"shapefile" default:"geojson"`
	OutDir  string   `short:"o" long:"out-dir"     description:"Output directory" default:"."`
	Scratch string   `long:"scratch-dir" env:"SCRATCH_DIR" description:"Scratch directory for extraction and export"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	target, err := export.ParseFormat(opts.Format)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid output format")
	}

	raw, err := os.ReadFile(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.Input).Msg("Failed to read input file")
	}

	p := &pipeline.Pipeline{ScratchDir: opts.Scratch}

	ds, err := p.Load(raw, opts.Input)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.Input).Msg("Failed to load dataset")
	}

	for _, path := range opts.Merge {
		drawn, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to read drawn-geometry file")
		}

		added, err := p.MergeDrawn(ds, drawn)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to merge drawn geometries")
		}

		log.Info().Str("path", path).Int("appended", added).Msg("Drawn geometries merged")
	}

	res, err := p.Export(ds, target)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	outPath := filepath.Join(opts.OutDir, res.Filename)
	if err := os.WriteFile(outPath, res.Data, 0644); err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("Failed to write output file")
	}

	log.Info().
		Str("path", outPath).
		Str("mimetype", res.MimeType).
		Int("bytes", len(res.Data)).
		Int("features", ds.FeatureCount()).
		Msg("Export written")
}
