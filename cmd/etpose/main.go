// Command etpose runs a pose-prediction head over a synthetic test image and
// prints the estimated coordinates. It exists to smoke-test the forward path
// and to show how the pieces wire together.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/siddhantmittal7/equivariant-transformers/coords"
	"github.com/siddhantmittal7/equivariant-transformers/pose"
	"github.com/siddhantmittal7/equivariant-transformers/tensor"
)

func main() {
	var (
		size      = flag.Int("size", 33, "input image side length")
		features  = flag.Int("features", 32, "feature channels of the head")
		kernel    = flag.Int("kernel", 5, "convolution kernel size (odd)")
		periodicU = flag.Bool("periodic-u", true, "treat the width axis as wrapping")
		periodicV = flag.Bool("periodic-v", false, "treat the height axis as wrapping")
		row       = flag.Int("row", -1, "bright pixel row (default: center)")
		col       = flag.Int("col", -1, "bright pixel column (default: center)")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if *row < 0 {
		*row = *size / 2
	}
	if *col < 0 {
		*col = *size / 2
	}

	img := tensor.Zeros(tensor.Shape{1, 1, *size, *size})
	img.Set(1, 0, 0, *row, *col)

	head, err := pose.NewEquivariantPosePredictor(pose.EquivariantConfig{
		InChannels: 1,
		Features:   *features,
		KernelSize: *kernel,
		Strides:    [2]int{1, 1},
		PeriodicU:  *periodicU,
		PeriodicV:  *periodicV,
		ReturnU:    true,
		ReturnV:    true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build pose predictor")
	}

	log.Info().
		Int("size", *size).
		Int("row", *row).
		Int("col", *col).
		Bool("periodic_u", *periodicU).
		Bool("periodic_v", *periodicV).
		Msg("Running forward pass")

	start := time.Now()
	res, err := head.Forward(img)
	if err != nil {
		log.Fatal().Err(err).Msg("Forward pass failed")
	}
	u := res.Poses[0].Data()[0]
	v := res.Poses[1].Data()[0]
	log.Info().
		Float64("u", u).
		Float64("v", v).
		Int("bins_u", res.Heatmaps[0].Dim(-1)).
		Int("bins_v", res.Heatmaps[1].Dim(-1)).
		Str("elapsed", time.Since(start).String()).
		Msg("Pose estimated")

	grid, err := coords.IdentityGrid(*size, *size)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build grid")
	}
	batched, err := grid.Reshape(1, *size, *size, 2)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to batch grid")
	}
	shift := coords.Shift{U: res.Poses[0], V: res.Poses[1], WrapU: *periodicU, WrapV: *periodicV}
	if _, err := shift.Apply(batched); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply transform")
	}
	log.Info().Msg("Transform applied to identity grid")
}
