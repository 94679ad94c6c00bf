package main

import (
	"context"
	"fmt"

	"github.com/consentvault/consent-keeper/internal/adapter"
	"github.com/consentvault/consent-keeper/internal/chain"
	"github.com/consentvault/consent-keeper/internal/config"
	"github.com/consentvault/consent-keeper/internal/crypto"
	chiHTTP "github.com/consentvault/consent-keeper/internal/handler/http"
	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/server"
	"github.com/consentvault/consent-keeper/internal/service"
	"github.com/consentvault/consent-keeper/internal/store"
	"github.com/consentvault/consent-keeper/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("consent-keeper")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	encryptor, err := crypto.NewFieldEncryptor(cfg.App.MasterKey, cfg.App.KDFIterations)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating field encryptor")
	}

	evidenceChain, err := chain.New(cfg.Storage.ChainFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening evidence chain")
	}

	submissions, err := store.NewFileSubmissionStorage(cfg.Storage.DataDir, cfg.Storage.ShredPasses, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating submission storage")
	}

	ctx := context.Background()

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to evidence database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error migrating evidence database")
	}

	storages := store.Storages{
		Submissions: submissions,
		Grants:      store.NewGrantRepository(db, log),
		Challenges:  store.NewMemoryChallengeStorage(),
		Bundles:     store.NewBundleRepository(db, log),
	}

	var tsa adapter.TimestampAuthority
	if cfg.Timestamp.URL != "" {
		tsa, err = adapter.NewHTTPTimestampAuthority(cfg.Timestamp, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating timestamp authority client")
		}
	} else {
		log.Warn().Msg("no timestamp authority configured, bundles will carry degraded local timestamps")
	}

	notice, err := adapter.NewStaticNoticeProvider(cfg.Notice)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating notice provider")
	}

	services := service.NewServices(storages, service.Dependencies{
		Encryptor:    encryptor,
		Chain:        evidenceChain,
		Timestamper:  tsa,
		Notifier:     adapter.NewLogNotifier(log),
		NoticeSource: notice,
	}, cfg, log)

	workersCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	workers.New(
		workers.NewRetentionWorker(services.SubmissionService, cfg.Workers.RetentionSweepInterval, log),
		workers.NewGrantWorker(services.TokenService, cfg.Workers.GrantSweepInterval, log),
	).Run(workersCtx)

	srv, err := server.NewServer(chiHTTP.NewHandler(services, log), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
