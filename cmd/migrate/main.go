// migrate aplica o revierte el esquema de PostgreSQL con las migraciones embebidas.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down [pasos]
//	go run ./cmd/migrate version
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/bmvdigital/pos-feria-2026/internal/infrastructure/postgres"
	"github.com/bmvdigital/pos-feria-2026/pkg/config"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	url := cfg.DB.ConnectionString()

	switch cmd {
	case "up":
		if err := postgres.MigrateUp(url); err != nil {
			log.Fatal().Err(err).Msg("migrate up")
		}
		log.Info().Msg("migraciones aplicadas")
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil {
				log.Fatal().Str("steps", os.Args[2]).Msg("pasos inválidos")
			}
		}
		if err := postgres.MigrateDown(url, steps); err != nil {
			log.Fatal().Err(err).Msg("migrate down")
		}
		log.Info().Int("steps", steps).Msg("migraciones revertidas")
	case "version":
		v, dirty, err := postgres.MigrationVersion(url)
		if err != nil {
			log.Fatal().Err(err).Msg("migrate version")
		}
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión del esquema")
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (up|down [pasos]|version)\n", cmd)
		os.Exit(2)
	}
}
