package main

import (
	"context"
	"embed"
	"log"

	"github.com/chazu/roomkit/pkg/config"
	"github.com/chazu/roomkit/pkg/persist"
	"github.com/chazu/roomkit/pkg/store"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var repo store.Repository
	sqlite, err := openRepository(cfg.DBPath)
	if err != nil {
		log.Printf("opening %s failed, designs will not be saved: %v", cfg.DBPath, err)
	} else {
		defer sqlite.Close()
		repo = sqlite
	}

	app := NewApp(cfg, repo)

	err = wails.Run(&options.App{
		Title:  "Room Designer",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup:  app.startup,
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatalf("wails: %v", err)
	}
}

func openRepository(path string) (*persist.SQLite, error) {
	db, err := persist.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	repo := persist.NewSQLite(db)
	if err := repo.Init(context.Background()); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}
