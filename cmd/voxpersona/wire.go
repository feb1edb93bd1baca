package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/kbukum/voxpersona/audio"
	"github.com/kbukum/voxpersona/bootstrap"
	"github.com/kbukum/voxpersona/database"
	"github.com/kbukum/voxpersona/llm"
	"github.com/kbukum/voxpersona/llm/ollama"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/media"
	"github.com/kbukum/voxpersona/observability"
	"github.com/kbukum/voxpersona/persona"
	"github.com/kbukum/voxpersona/pipeline"
	"github.com/kbukum/voxpersona/process"
	"github.com/kbukum/voxpersona/server"
	"github.com/kbukum/voxpersona/server/handler"
	"github.com/kbukum/voxpersona/settings"
	"github.com/kbukum/voxpersona/store"
	"github.com/kbukum/voxpersona/transcription"
	"github.com/kbukum/voxpersona/transcription/openai"
	"github.com/kbukum/voxpersona/transcription/whisper"
	"github.com/kbukum/voxpersona/translation"
	"github.com/kbukum/voxpersona/translation/google"
	"github.com/kbukum/voxpersona/translation/libretranslate"
	"github.com/kbukum/voxpersona/version"
)

var _ pipeline.Prober = (*media.Extractor)(nil)

// backends are the external services a run talks to.
type backends struct {
	stt        transcription.Provider
	translator *translation.Translator
	personas   *persona.Pool
	llm        persona.Source
}

func newBackends(cfg *Config, log *logger.Logger) (*backends, error) {
	sttReg := transcription.NewRegistry()
	sttReg.RegisterFactory(whisper.ProviderName, whisper.Factory)
	sttReg.RegisterFactory(openai.ProviderName, openai.Factory)
	stt, err := sttReg.Create(cfg.Transcription.Provider, cfg.Transcription.Options)
	if err != nil {
		return nil, fmt.Errorf("transcription provider: %w", err)
	}
	b := &backends{stt: stt}

	if cfg.Translation.Provider != translationDisabled {
		mtReg := translation.NewRegistry()
		mtReg.RegisterFactory(google.ProviderName, google.Factory)
		mtReg.RegisterFactory(libretranslate.ProviderName, libretranslate.Factory)
		mt, err := mtReg.Create(cfg.Translation.Provider, cfg.Translation.Options)
		if err != nil {
			return nil, fmt.Errorf("translation provider: %w", err)
		}
		b.translator = translation.NewTranslator(mt, cfg.Translation.Translator, log)
	}

	llmReg := llm.NewRegistry()
	llmReg.RegisterFactory(ollama.ProviderName, ollama.Factory)
	if _, err := llmReg.Create(cfg.LLM.Provider, cfg.LLM.Options); err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	b.llm = func(baseURL string) (llm.Provider, error) {
		opts := maps.Clone(cfg.LLM.Options)
		if opts == nil {
			opts = make(map[string]any)
		}
		if baseURL != "" {
			opts["base_url"] = baseURL
		}
		return llmReg.Create(cfg.LLM.Provider, opts)
	}
	b.personas = persona.NewPool(b.llm, cfg.LLM.Persona, log)
	return b, nil
}

// wire registers the infrastructure components and the callback that builds
// the application on top of them.
func wire(ctx context.Context, app *bootstrap.App[*Config]) error {
	cfg, log := app.Cfg, app.Logger

	shutdown, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(bootstrap.Hook(shutdown))

	pipelineMetrics, err := observability.NewPipelineMetrics(observability.Meter())
	if err != nil {
		return err
	}
	httpMetrics, err := observability.NewHTTPMetrics(observability.Meter())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SettingsPath), 0o755); err != nil {
		return fmt.Errorf("settings dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Media.TempDir, 0o755); err != nil {
		return fmt.Errorf("media temp dir: %w", err)
	}
	prefs, err := settings.Open(cfg.SettingsPath, log)
	if err != nil {
		return err
	}

	be, err := newBackends(cfg, log)
	if err != nil {
		return err
	}

	db := database.NewComponent(cfg.Database, log).WithMigrations(func(ctx context.Context, d *database.DB) error {
		if err := store.Migrate(ctx, d); err != nil {
			return err
		}
		v, err := store.SchemaVersion(ctx, d)
		if err != nil {
			return err
		}
		log.Info("Schema up to date", logger.Fields("schema_version", v, "driver", d.Driver()))
		return nil
	})
	if err := app.RegisterComponent(db); err != nil {
		return err
	}
	if err := app.RegisterComponent(newSettingsWatcher(prefs, log)); err != nil {
		return err
	}
	if err := app.RegisterComponent(newBackendCheck("ffmpeg", func(context.Context) bool {
		return process.Available(cfg.Media.FFmpegBinary) && process.Available(cfg.Media.FFprobeBinary)
	})); err != nil {
		return err
	}
	if err := app.RegisterComponent(newBackendCheck("transcription", func(ctx context.Context) bool {
		return be.stt.IsAvailable(ctx)
	})); err != nil {
		return err
	}
	if be.translator != nil {
		if err := app.RegisterComponent(newBackendCheck("translation", func(ctx context.Context) bool {
			return be.translator.Provider().IsAvailable(ctx)
		})); err != nil {
			return err
		}
	}
	if err := app.RegisterComponent(newBackendCheck("llm", func(ctx context.Context) bool {
		p, err := be.llm(prefs.Current().APIBase)
		return err == nil && p.IsAvailable(ctx)
	})); err != nil {
		return err
	}

	app.OnReady(func(context.Context) error {
		log.Info("Serving API", logger.Fields(
			"addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			"base_path", handler.BasePath,
		))
		return nil
	})

	app.OnConfigure(func(ctx context.Context, app *bootstrap.App[*Config]) error {
		st := store.New(db.DB(), log)

		deps := pipeline.Deps{
			Extractor: media.NewExtractor(cfg.Media, process.Exec{}, log),
			Chunker:   audio.NewChunker(log),
			Engine:    transcription.NewEngine(be.stt, cfg.Transcription.Engine, log),
			Personas:  be.personas,
			Store:     st,
			Metrics:   pipelineMetrics,
		}
		var translator pipeline.Translator
		if be.translator != nil {
			deps.Translator = be.translator
			translator = be.translator
		}
		orch := pipeline.NewOrchestrator(deps, cfg.Pipeline, log)
		svc := pipeline.NewService(orch, st, prefs, translator, be.personas, log)

		srv := server.New(cfg.Server, log)
		srv.ApplyMiddleware(httpMetrics)
		handler.New(handler.Options{
			Service:        svc,
			Settings:       prefs,
			Health:         app.Components.HealthAll,
			UploadDir:      cfg.Media.TempDir,
			MaxUploadBytes: cfg.Media.MaxUploadBytes,
			ServiceName:    app.Name,
			Version:        version.Get(app.Version).Version,
			Log:            log,
		}).Register(srv.Engine())

		return app.RegisterComponent(server.NewComponent(srv))
	})
	return nil
}
