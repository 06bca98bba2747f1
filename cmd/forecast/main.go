// cmd/forecast/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/kiranakart/forecast/internal/cache"
	"github.com/kiranakart/forecast/internal/calendar"
	"github.com/kiranakart/forecast/internal/domain"
	"github.com/kiranakart/forecast/internal/drive"
	"github.com/kiranakart/forecast/internal/forecast"
	"github.com/kiranakart/forecast/internal/reorder"
	"github.com/kiranakart/forecast/internal/repository"
	"github.com/kiranakart/forecast/internal/repository/postgres"
	"github.com/kiranakart/forecast/internal/service"
	"github.com/kiranakart/forecast/internal/storage"
)

func newCSVFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "csv",
		Usage:   "Path to the sales history CSV file",
		Value:   "./data/kirana_sales_data.csv",
		EnvVars: []string{"APP_SALES_CSV_PATH"},
	}
}

func newModelsDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "models-dir",
		Usage:   "Directory containing the saved model artifacts",
		Value:   "./data/models",
		EnvVars: []string{"MODELS_DIR"},
	}
}

func newDaysFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "days",
		Usage: "Forecast horizon in days (1-30)",
		Value: 7,
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "forecast",
		Usage: "Run demand forecasts and reorder planning from the command line",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate a demand forecast from a sales CSV",
				Flags: []cli.Flag{
					newCSVFlag(),
					newModelsDirFlag(),
					newDaysFlag(),
				},
				Action: runGenerate,
			},
			{
				Name:  "reorder",
				Usage: "Produce reorder recommendations from a forecast",
				Flags: []cli.Flag{
					newCSVFlag(),
					newModelsDirFlag(),
					newDaysFlag(),
					&cli.StringFlag{
						Name:  "stock-file",
						Usage: "JSON file mapping product name to current stock",
					},
					&cli.IntFlag{
						Name:  "safety-stock",
						Usage: "Safety stock units added to the reorder target",
						Value: reorder.DefaultSafetyStock,
					},
					&cli.IntFlag{
						Name:  "lead-time",
						Usage: "Supplier lead time in days",
						Value: reorder.DefaultLeadTimeDays,
					},
				},
				Action: runReorder,
			},
			{
				Name:  "import",
				Usage: "Import sales history into the database",
				Flags: []cli.Flag{
					newCSVFlag(),
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					&cli.BoolFlag{
						Name:  "from-drive",
						Usage: "Fetch the latest sales export from Google Drive first",
					},
					&cli.StringFlag{
						Name:    "drive-folder",
						Usage:   "Google Drive folder path holding sales exports",
						EnvVars: []string{"DRIVE_FOLDER_PATH"},
					},
					&cli.StringFlag{
						Name:    "credentials-file",
						Usage:   "Path to the Google service account credentials JSON",
						EnvVars: []string{"DRIVE_CREDENTIALS_FILE"},
					},
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory downloaded exports are written to",
						Value:   "./data",
						EnvVars: []string{"APP_DATA_DIR"},
					},
				},
				Action: runImport,
			},
			{
				Name:  "models",
				Usage: "Move model artifacts between the local directory and the bucket",
				Subcommands: []*cli.Command{
					{
						Name:   "push",
						Usage:  "Upload local model artifacts to the bucket",
						Flags:  append([]cli.Flag{newModelsDirFlag()}, bucketFlags()...),
						Action: runModelsPush,
					},
					{
						Name:   "pull",
						Usage:  "Download model artifacts from the bucket",
						Flags:  append([]cli.Flag{newModelsDirFlag()}, bucketFlags()...),
						Action: runModelsPull,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func bucketFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "bucket",
			Usage:    "S3-compatible bucket holding the model artifacts",
			Required: true,
			EnvVars:  []string{"MODELS_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "Object storage endpoint",
			EnvVars: []string{"MODELS_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "access-key",
			Usage:   "Object storage access key",
			EnvVars: []string{"MODELS_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:    "secret-key",
			Usage:   "Object storage secret key",
			EnvVars: []string{"MODELS_SECRET_KEY"},
		},
		&cli.StringFlag{
			Name:    "prefix",
			Usage:   "Key prefix the artifacts live under in the bucket",
			Value:   "saved_models",
			EnvVars: []string{"MODELS_PREFIX"},
		},
		&cli.BoolFlag{
			Name:    "use-ssl",
			Usage:   "Use TLS when talking to the object storage endpoint",
			Value:   true,
			EnvVars: []string{"MODELS_USE_SSL"},
		},
	}
}

func newBucketStore(c *cli.Context) (*storage.MinioClient, error) {
	return storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  c.String("endpoint"),
		AccessKey: c.String("access-key"),
		SecretKey: c.String("secret-key"),
		Bucket:    c.String("bucket"),
		UseSSL:    c.Bool("use-ssl"),
	})
}

func runModelsPush(c *cli.Context) error {
	local, err := storage.NewLocalStore(c.String("models-dir"))
	if err != nil {
		return err
	}
	remote, err := newBucketStore(c)
	if err != nil {
		return err
	}

	copied, err := storage.CopyAll(c.Context, local, remote, "", c.String("prefix"))
	if err != nil {
		return err
	}
	log.Printf("Pushed %d artifacts to bucket %s\n", copied, c.String("bucket"))
	return nil
}

func runModelsPull(c *cli.Context) error {
	remote, err := newBucketStore(c)
	if err != nil {
		return err
	}

	written, err := storage.DownloadAll(c.Context, remote, c.String("prefix"), c.String("models-dir"))
	if err != nil {
		return err
	}
	log.Printf("Pulled %d artifacts into %s\n", written, c.String("models-dir"))
	return nil
}

func newLocalService(c *cli.Context) (*service.ForecastService, error) {
	repo := repository.NewCSVSalesRepository(c.String("csv"))

	store, err := storage.NewLocalStore(c.String("models-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to open models directory: %w", err)
	}

	engine := forecast.NewEngine(calendar.NewOracle(time.Now().UnixNano()))
	svc := service.NewForecastService(repo, store, "", cache.NewNoopForecastCache(), engine)

	if err := svc.Reload(c.Context); err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}
	return svc, nil
}

func runGenerate(c *cli.Context) error {
	svc, err := newLocalService(c)
	if err != nil {
		return err
	}

	result, err := svc.GenerateForecast(c.Context, c.Int("days"))
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runReorder(c *cli.Context) error {
	svc, err := newLocalService(c)
	if err != nil {
		return err
	}

	var stock domain.StockLevels
	if path := c.String("stock-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read stock file: %w", err)
		}
		if err := json.Unmarshal(data, &stock); err != nil {
			return fmt.Errorf("failed to parse stock file %s: %w", path, err)
		}
	}

	result, err := svc.RecommendReorders(c.Context, c.Int("days"), stock, c.Int("safety-stock"), c.Int("lead-time"))
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runImport(c *cli.Context) error {
	csvPath := c.String("csv")

	if c.Bool("from-drive") {
		path, err := fetchDriveExport(c)
		if err != nil {
			return err
		}
		csvPath = path
	}

	records, err := repository.NewCSVSalesRepository(csvPath).GetSalesHistory(c.Context)
	if err != nil {
		return err
	}

	db, err := postgres.NewDBFromURL(c.String("db-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.NewSalesRepository(db).InsertSales(c.Context, records); err != nil {
		return err
	}

	log.Printf("Imported %d sales records from %s\n", len(records), csvPath)
	return nil
}

func fetchDriveExport(c *cli.Context) (string, error) {
	credsPath := c.String("credentials-file")
	if credsPath == "" {
		return "", fmt.Errorf("--credentials-file is required with --from-drive")
	}
	folder := c.String("drive-folder")
	if folder == "" {
		return "", fmt.Errorf("--drive-folder is required with --from-drive")
	}

	creds, err := os.ReadFile(credsPath)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}

	svc, err := drive.NewService(string(creds))
	if err != nil {
		return "", err
	}
	return drive.FetchLatestSalesExport(svc, folder, c.String("data-dir"))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
