// seed_catalog carga en PostgreSQL almacenes, productos o clientes desde CSV (UTF-8 o Latin-1).
// Cada alta pasa por su caso de uso: los productos y almacenes inicializan stock en cero
// y cada registro queda en bitácora como actor Sistema.
//
// Uso: go run ./cmd/seed_catalog <almacenes|productos|clientes> ruta/archivo.csv
// Conviene cargar almacenes antes que productos.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bmvdigital/pos-feria-2026/internal/application/credit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/usecase"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/ledger"
	"github.com/bmvdigital/pos-feria-2026/internal/infrastructure/catalogcsv"
	"github.com/bmvdigital/pos-feria-2026/internal/infrastructure/postgres"
	"github.com/bmvdigital/pos-feria-2026/pkg/config"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog <almacenes|productos|clientes> archivo.csv")
		os.Exit(2)
	}
	kind, csvPath := os.Args[1], os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	reads := postgres.NewRepos(pool)
	actor := entity.NewActor(entity.RoleSystem, "seed_catalog")

	// create da de alta la fila i; devuelve el nombre para el log.
	var (
		total  int
		create func(i int) (string, error)
	)
	switch kind {
	case "almacenes":
		rows, err := catalogcsv.ReadWarehouses(f)
		if err != nil {
			log.Fatal().Err(err).Str("path", csvPath).Msg("leer almacenes")
		}
		uc := usecase.NewWarehouseUseCase(txRunner, reads, log)
		total = len(rows)
		create = func(i int) (string, error) {
			_, err := uc.Create(ctx, actor, rows[i])
			return rows[i].Name, err
		}
	case "productos":
		rows, err := catalogcsv.ReadProducts(f)
		if err != nil {
			log.Fatal().Err(err).Str("path", csvPath).Msg("leer productos")
		}
		uc := usecase.NewProductUseCase(txRunner, reads, log)
		total = len(rows)
		create = func(i int) (string, error) {
			_, err := uc.Create(ctx, actor, rows[i])
			return rows[i].Name, err
		}
	case "clientes":
		rows, err := catalogcsv.ReadClients(f)
		if err != nil {
			log.Fatal().Err(err).Str("path", csvPath).Msg("leer clientes")
		}
		uc := credit.NewCreditUseCase(txRunner, reads, ledger.DefaultPolicy(), log)
		total = len(rows)
		create = func(i int) (string, error) {
			_, err := uc.RegisterClient(ctx, actor, rows[i])
			return rows[i].Name, err
		}
	default:
		log.Fatal().Str("kind", kind).Msg("tipo de catálogo desconocido (almacenes|productos|clientes)")
	}

	created, skipped := 0, 0
	for i := 0; i < total; i++ {
		name, err := create(i)
		switch {
		case err == nil:
			created++
			log.Debug().Str("name", name).Msg("registro creado")
		case errors.Is(err, domain.ErrConstraintViolation), errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAmount):
			skipped++
			log.Warn().Err(err).Str("name", name).Msg("registro omitido")
		default:
			log.Fatal().Err(err).Str("name", name).Msg("alta de registro")
		}
	}
	log.Info().Str("kind", kind).Int("created", created).Int("skipped", skipped).Str("path", csvPath).Msg("catálogo cargado")
}
