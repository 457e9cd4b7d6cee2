package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/eric-ce/mapmeasure/internal/api"
	"github.com/eric-ce/mapmeasure/internal/config"
	"github.com/eric-ce/mapmeasure/internal/export"
	"github.com/eric-ce/mapmeasure/internal/store"
)

// runExport reads every completed group from the configured store, writes a
// GeoJSON file, and uploads it when an API key is configured.
func runExport(sceneName string) error {
	backend, err := store.NewStore(config.GetStorageConfig(), Logger)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer backend.Close()

	groups := backend.GetAllGroups()
	if len(groups) == 0 {
		Logger.Info("Nothing to export, store is empty")
		return nil
	}

	w := export.NewWriter(export.Config{
		OutputDir:      viper.GetString("export.outputDir"),
		CompressOutput: viper.GetBool("export.compress"),
	})
	path, err := w.Write(sceneName, groups)
	if err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	Logger.Info("Export written", "path", path, "groups", len(groups))

	if OTelProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := OTelProvider.Flush(ctx); err != nil {
			Logger.Warn("Log flush before upload failed", "error", err)
		}
		cancel()
	}

	apiKey := viper.GetString("api.apiKey")
	if apiKey == "" {
		return nil
	}

	client := api.New(viper.GetString("api.serverUrl"), apiKey)
	if err := client.Healthcheck(); err != nil {
		return fmt.Errorf("measurement server unreachable: %w", err)
	}
	if err := client.Upload(path, api.ExportMetadata{
		SceneName:  sceneName,
		Mode:       "mixed",
		GroupCount: len(groups),
		Tag:        viper.GetString("export.tag"),
	}); err != nil {
		return fmt.Errorf("upload export: %w", err)
	}
	Logger.Info("Export uploaded", "server", viper.GetString("api.serverUrl"))
	return nil
}
