package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/cfoust/rando/pkg/assets"
	"github.com/cfoust/rando/pkg/config"
	"github.com/cfoust/rando/pkg/history"
	"github.com/cfoust/rando/pkg/rando"
	"github.com/cfoust/rando/pkg/report"
	"github.com/cfoust/rando/pkg/textures"
	"github.com/cfoust/rando/pkg/version"
	"github.com/cfoust/rando/pkg/world"
	"github.com/cfoust/rando/pkg/xex"

	C "github.com/cfoust/rando/pkg/game/constants"

	"github.com/go-redis/redis/v9"
	"github.com/rs/zerolog/log"
)

// Digests of the files as they were before patching
type inputs struct {
	archive    string
	executable string
}

func loadModel(config *config.Config) (*world.Model, error) {
	if config.Paths.Levels == "" {
		return world.Default(), nil
	}
	return world.Load(config.Paths.Levels)
}

func loadLayout(config *config.Config) (*xex.Layout, error) {
	if config.Paths.Layout == "" {
		return xex.DefaultLayout(), nil
	}
	return xex.LoadLayout(config.Paths.Layout)
}

// shuffleEntities shuffles actors and sprites together when the config mixes
// them, and in separate passes otherwise.
func shuffleEntities(randomizer *rando.Randomizer, config *config.Config, spoiler *report.Spoiler) error {
	actors := config.Actors()
	sprites := config.Sprites()

	type selection struct {
		actors  []C.ActorID
		sprites []C.SpriteID
	}

	passes := []selection{{actors, sprites}}
	if !config.Entities.Mix {
		passes = []selection{{actors: actors}, {sprites: sprites}}
	}

	for _, pass := range passes {
		if len(pass.actors) == 0 && len(pass.sprites) == 0 {
			continue
		}

		shuffled, err := randomizer.ShuffleEntities(pass.actors, pass.sprites)
		if err != nil {
			return err
		}
		spoiler.AddEntities(randomizer.Model(), shuffled)
	}

	return nil
}

func publish(ctx context.Context, config *config.Config, spoiler *report.Spoiler) error {
	stores := make([]report.Store, 0)

	if config.Report.Directory != "" {
		stores = append(stores, report.FSStore(config.Report.Directory))
	}

	if config.Report.Redis != "" {
		client := redis.NewClient(&redis.Options{
			Addr: config.Report.Redis,
		})
		defer client.Close()
		stores = append(stores, report.NewRedisStore(client, report.SPOILER_EXPIRY))
	}

	if len(stores) == 0 {
		return nil
	}

	err := report.Publish(ctx, spoiler, stores...)
	if err != nil {
		return err
	}

	log.Info().Stringer("key", spoiler.Key()).Int("stores", len(stores)).Msg("published spoiler")
	return nil
}

func record(config *config.Config, inputs inputs, spoiler *report.Spoiler) error {
	if config.History == "" {
		return nil
	}

	db, err := history.InitDB(config.History)
	if err != nil {
		return fmt.Errorf("could not open history %s: %w", config.History, err)
	}

	run := history.Run{
		Seed:       spoiler.Seed,
		Created:    spoiler.Created,
		Version:    spoiler.Version,
		Archive:    inputs.archive,
		Executable: inputs.executable,
		Output:     config.Paths.Output,
		Spoiler:    spoiler.Key().String(),
	}

	for _, slot := range spoiler.Slots {
		run.Placements = append(run.Placements, &history.Placement{
			Slot:  slot.Slot,
			Level: slot.Level,
		})
	}

	return history.Record(db, &run)
}

func randomizeCommand(configs []string) error {
	ctx := context.Background()

	config, err := config.Process(configs)
	if err != nil {
		return err
	}

	mapOptions, err := config.Maps()
	if err != nil {
		return err
	}

	model, err := loadModel(config)
	if err != nil {
		return err
	}

	table, err := assets.LoadTable(config.Paths.Table)
	if err != nil {
		return err
	}

	var in inputs
	archiveData, err := os.ReadFile(config.Paths.Archive)
	if err != nil {
		return fmt.Errorf("could not read archive %s: %w", config.Paths.Archive, err)
	}
	in.archive = history.Digest(archiveData)

	archive, err := assets.Load(archiveData, table, assets.Options{Maps: mapOptions})
	if err != nil {
		return err
	}

	var image *xex.Image
	if config.Paths.Executable != "" {
		layout, err := loadLayout(config)
		if err != nil {
			return err
		}

		// Fail before anything is shuffled
		if config.Moves {
			if err := layout.CanUnlockMoves(); err != nil {
				return fmt.Errorf("cannot unlock moves: %w", err)
			}
		}

		image, err = xex.FromFile(config.Paths.Executable, layout)
		if err != nil {
			return err
		}
		in.executable = history.Digest(image.Bytes())
	}

	var textureTable *textures.Table
	if config.Paths.Textures != "" {
		textureTable, err = textures.Load(config.Paths.Textures, textures.DB360_TEXTURES)
		if err != nil {
			return err
		}
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info().Int64("seed", seed).Msg("randomizing")

	randomizer := rando.New(
		model,
		archive,
		textureTable,
		image,
		rand.New(rand.NewSource(seed)),
		config.Options(),
	)

	settings, err := config.Settings()
	if err != nil {
		return err
	}

	spoiler := report.New(seed, settings, version.Version)

	if config.Worlds {
		worlds, err := randomizer.ShuffleWorlds()
		if err != nil {
			return err
		}
		spoiler.SetWorlds(model, worlds)
	}

	if removed := config.Removed(); len(removed) > 0 {
		count, err := randomizer.RemoveActors(removed)
		if err != nil {
			return err
		}
		spoiler.RemovedActors = count
	}

	err = shuffleEntities(randomizer, config, spoiler)
	if err != nil {
		return err
	}

	if config.Moves {
		err = randomizer.UnlockMoves()
		if err != nil {
			return err
		}
		spoiler.Moves = true
	}

	if len(config.NoteDoors) > 0 {
		err = randomizer.UnlockNoteDoors(config.NoteDoors)
		if err != nil {
			return err
		}
		spoiler.NoteDoors = config.NoteDoors
	}

	output := config.Paths.Output
	err = os.MkdirAll(output, 0755)
	if err != nil {
		return fmt.Errorf("could not create output directory %s: %w", output, err)
	}

	err = archive.ToFile(filepath.Join(output, filepath.Base(config.Paths.Archive)))
	if err != nil {
		return err
	}

	if image != nil {
		err = image.ToFile(filepath.Join(output, filepath.Base(config.Paths.Executable)))
		if err != nil {
			return err
		}
	}

	if textureTable != nil {
		err = textureTable.Save(filepath.Join(output, filepath.Base(config.Paths.Textures)))
		if err != nil {
			return err
		}
	}

	log.Info().Str("output", output).Msg("wrote randomized files")

	err = publish(ctx, config, spoiler)
	if err != nil {
		return err
	}

	return record(config, in, spoiler)
}
