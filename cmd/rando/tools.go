package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cfoust/rando/pkg/assets"
	"github.com/cfoust/rando/pkg/config"
	"github.com/cfoust/rando/pkg/history"
	"github.com/cfoust/rando/pkg/report"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-redis/redis/v9"
	"github.com/rs/zerolog/log"
)

func readArchive(flags ArchiveFlags, path string) ([]byte, *assets.Table, assets.Options, error) {
	generation := config.Config{Generation: flags.Generation}
	mapOptions, err := generation.Maps()
	if err != nil {
		return nil, nil, assets.Options{}, err
	}

	table, err := assets.LoadTable(flags.Table)
	if err != nil {
		return nil, nil, assets.Options{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, assets.Options{}, fmt.Errorf("could not read archive %s: %w", path, err)
	}

	return data, table, assets.Options{Maps: mapOptions}, nil
}

func verifyCommand(flags ArchiveFlags, path string) error {
	data, table, options, err := readArchive(flags, path)
	if err != nil {
		return err
	}

	report, err := assets.Verify(data, table, options)
	if err != nil {
		return err
	}

	for _, mismatch := range report.Mismatches {
		log.Warn().Msg(mismatch.String())
	}

	if !report.Ok() {
		return fmt.Errorf(
			"%d of %d entries did not survive re-encoding",
			len(report.Mismatches),
			report.Entries,
		)
	}

	log.Info().Int("entries", report.Entries).Msg("archive round-trips")
	return nil
}

func indexCommand(flags ArchiveFlags, path string, out string) error {
	data, table, _, err := readArchive(flags, path)
	if err != nil {
		return err
	}

	index, err := assets.BuildIndex(data, table)
	if err != nil {
		return err
	}

	encoded, err := index.Marshal()
	if err != nil {
		return err
	}

	err = assets.WriteBytes(encoded, out)
	if err != nil {
		return fmt.Errorf("could not write index %s: %w", out, err)
	}

	log.Info().Int("entries", len(index.Entries)).Str("out", out).Msg("wrote index")
	return nil
}

func dumpCommand(flags ArchiveFlags, path string, ordinal uint16) error {
	data, table, options, err := readArchive(flags, path)
	if err != nil {
		return err
	}

	archive, err := assets.Load(data, table, options)
	if err != nil {
		return err
	}

	asset, err := archive.Get(assets.Ordinal(ordinal))
	if err != nil {
		return err
	}

	spew.Dump(asset)
	return nil
}

func historyCommand(path string, seed *int64, limit int) error {
	db, err := history.InitDB(path)
	if err != nil {
		return err
	}

	var runs []history.Run
	if seed != nil {
		runs, err = history.BySeed(db, *seed)
	} else {
		runs, err = history.Recent(db, limit)
	}
	if err != nil {
		return err
	}

	for _, run := range runs {
		fmt.Printf(
			"%s seed=%d version=%s archive=%s executable=%s spoiler=%s\n",
			run.Created.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Version,
			run.Archive,
			run.Executable,
			run.Spoiler,
		)
		for _, placement := range run.Placements {
			fmt.Printf("  %s -> %s\n", placement.Slot, placement.Level)
		}
	}

	return nil
}

func spoilerCommand(seed int64, directory string, address string) error {
	var store report.Store
	switch {
	case directory != "":
		store = report.FSStore(directory)
	case address != "":
		client := redis.NewClient(&redis.Options{
			Addr: address,
		})
		defer client.Close()
		store = report.NewRedisStore(client, report.SPOILER_EXPIRY)
	default:
		return fmt.Errorf("spoiler needs --directory or --redis")
	}

	spoiler, err := report.Latest(context.Background(), store, seed)
	if err == report.Missing {
		return fmt.Errorf("no spoiler for seed %d", seed)
	}
	if err != nil {
		return err
	}

	data, err := spoiler.Marshal()
	if err != nil {
		return err
	}

	os.Stdout.Write(data)
	return nil
}
