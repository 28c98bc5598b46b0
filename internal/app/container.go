// Package app wires application services to infrastructure adapters.
package app

import (
	"context"
	"time"

	"codehelper/internal/application/dispatch"
	"codehelper/internal/application/doctor"
	"codehelper/internal/application/project"
	"codehelper/internal/domain"
	"codehelper/internal/infrastructure/ai"
	"codehelper/internal/infrastructure/cache"
	"codehelper/internal/infrastructure/config"
	"codehelper/internal/infrastructure/executor"
	"codehelper/internal/infrastructure/history"
	"codehelper/internal/infrastructure/security"
	"codehelper/internal/infrastructure/workspace"
	"codehelper/internal/pkg/filesystem"
	"codehelper/internal/pkg/logger"
	"codehelper/internal/ports"
)

// Options tunes container construction.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// Container holds the dependency graph. Chat-backed services are built
// on demand so file operation commands never require a credential.
type Container struct {
	Config         domain.Config
	ConfigLoader   *config.FileLoader
	ConfigProvider ports.ConfigProvider
	Logger         *logger.ZapLogger
	Safety         *security.Filter
	Executor       ports.CommandExecutor
	Writer         *workspace.Writer
	Files          ports.FileManager
	HistoryStore   ports.HistoryRepository
	CacheStore     ports.CacheRepository
	Factory        ports.ProviderFactory
	DoctorService  *doctor.Service

	chatClients map[string]ports.ChatClient
}

// BuildContainer constructs the dependency graph from configuration.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(opts.Verbose, filesystem.ExpandPath(cfg.Logging.File))

	filter, err := security.NewFilter(cfg.Safety.RulesFile)
	if err != nil {
		log.Warn("safety rules file unusable, loading defaults", map[string]interface{}{
			"path":  cfg.Safety.RulesFile,
			"error": err.Error(),
		})
		filter, err = security.NewFilter("")
		if err != nil {
			return nil, err
		}
	}

	var historyStore ports.HistoryRepository
	if cfg.History.Enabled {
		historyStore = history.NewSQLiteStore("")
	}

	cacheStore := cache.NewFileCache("",
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		cfg.Cache.MaxEntries,
	)

	c := &Container{
		Config:         cfg,
		ConfigLoader:   cfgLoader,
		ConfigProvider: cfgLoader,
		Logger:         log,
		Safety:         filter,
		Executor:       executor.NewLocal(""),
		Writer:         workspace.NewWriter(cfg.Workspace.DataDir),
		Files:          workspace.NewManager(),
		HistoryStore:   historyStore,
		CacheStore:     cacheStore,
		Factory:        ai.NewFactory(),
		chatClients:    make(map[string]ports.ChatClient),
	}
	c.DoctorService = &doctor.Service{
		ConfigProvider: cfgLoader,
		Safety:         filter,
	}
	return c, nil
}

// ChatClient resolves the model definition for modelName (empty means the
// configured default) and builds a provider client for it. Construction
// fails when the credential environment variable is unset, which is the
// startup preflight for every model-backed mode. Clients are memoized per
// model name.
func (c *Container) ChatClient(modelName string) (ports.ChatClient, error) {
	model, err := c.Config.ResolveModel(modelName)
	if err != nil {
		return nil, err
	}
	if client, ok := c.chatClients[model.Name]; ok {
		return client, nil
	}

	client, err := c.Factory.ForModel(model)
	if err != nil {
		return nil, err
	}
	if c.Config.Cache.Enabled {
		client = ai.NewCachedClient(client, c.CacheStore, c.Logger)
	}
	c.chatClients[model.Name] = client
	return client, nil
}

// Dispatcher builds the request dispatcher around a chat client for the
// given model override.
func (c *Container) Dispatcher(modelName string) (*dispatch.Service, error) {
	client, err := c.ChatClient(modelName)
	if err != nil {
		return nil, err
	}
	return &dispatch.Service{
		Chat:           client,
		Safety:         c.Safety,
		Executor:       c.Executor,
		Writer:         c.Writer,
		Installer:      c.projectService(client),
		History:        c.HistoryStore,
		Logger:         c.Logger,
		SafetyEnabled:  c.Config.Safety.Enabled,
		ModelName:      client.Model().Name,
		CommandTimeout: time.Duration(c.Config.Preferences.TimeoutSeconds) * time.Second,
	}, nil
}

// ProjectService builds the project workflow for the given model override.
func (c *Container) ProjectService(modelName string) (*project.Service, error) {
	client, err := c.ChatClient(modelName)
	if err != nil {
		return nil, err
	}
	return c.projectService(client), nil
}

func (c *Container) projectService(client ports.ChatClient) *project.Service {
	return &project.Service{
		Chat:     client,
		Executor: c.Executor,
		Writer:   c.Writer,
		Logger:   c.Logger,
		Settings: c.Config.Installer,
		WorkDir:  c.Writer.Dir(),
	}
}
