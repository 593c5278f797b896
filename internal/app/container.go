// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/history"
	"github.com/runoshun/schedule/internal/infra/config"
	"github.com/runoshun/schedule/internal/infra/crypto"
	"github.com/runoshun/schedule/internal/infra/csvstore"
	"github.com/runoshun/schedule/internal/infra/gitstore"
	"github.com/runoshun/schedule/internal/infra/jsonstore"
	"github.com/runoshun/schedule/internal/infra/logging"
	"github.com/runoshun/schedule/internal/manager"
	"github.com/runoshun/schedule/internal/server"
	"github.com/runoshun/schedule/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	DataDir   string // Data directory (.schedule)
	StorePath string // Board file, or repository path for the git store
}

// Container provides dependency injection for the application.
// It holds all port implementations and builds the board manager.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store            domain.BoardStore       // nil for the git store before a repository exists
	StoreInitializer domain.StoreInitializer // nil for the git store before a repository exists
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager

	// Pointer fields
	AppConfig *domain.Config
	Logger    *logging.Logger
	Slog      *slog.Logger
	Location  *time.Location // Zone for parsing and storing start times

	// Configuration
	Config Config
}

// New creates a Container for the given data directory.
// A missing or unreadable config falls back to defaults.
func New(dataDir string) (*Container, error) {
	dataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}

	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		appConfig = domain.NewDefaultConfig()
	}
	return newContainer(dataDir, appConfig, configLoader, config.NewManager(dataDir))
}

// NewWithConfig creates a Container from an already loaded configuration.
// Config files are looked up below globalConfDir instead of the user config home.
func NewWithConfig(dataDir, globalConfDir string, appConfig *domain.Config) (*Container, error) {
	return newContainer(dataDir, appConfig,
		config.NewLoaderWithGlobalDir(dataDir, globalConfDir),
		config.NewManagerWithGlobalDir(dataDir, globalConfDir))
}

func newContainer(dataDir string, appConfig *domain.Config, loader domain.ConfigLoader, cm domain.ConfigManager) (*Container, error) {
	loc, err := appConfig.Location()
	if err != nil {
		return nil, err
	}
	logger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level))
	c := &Container{
		ConfigLoader:  loader,
		ConfigManager: cm,
		AppConfig:     appConfig,
		Location:      loc,
		Logger:        logger,
		Slog: slog.New(slog.NewTextHandler(logger.Writer(), &slog.HandlerOptions{
			Level: logging.ParseLevel(appConfig.Log.Level),
		})),
		Config: Config{
			DataDir:   dataDir,
			StorePath: appConfig.StorePath(dataDir),
		},
	}
	if err := c.openStore(false); err != nil {
		return nil, err
	}
	return c, nil
}

// openStore binds the store selected by the configuration.
// With create set, the git store initializes a bare repository if none is found.
func (c *Container) openStore(create bool) error {
	switch c.AppConfig.Store.Type {
	case domain.StoreJSON, "":
		s := jsonstore.New(c.Config.StorePath)
		c.Store, c.StoreInitializer = s, s
	case domain.StoreCSV:
		s := csvstore.New(c.Config.StorePath).WithLocation(c.Location)
		c.Store, c.StoreInitializer = s, s
	case domain.StoreGit:
		open := gitstore.Open
		if create {
			open = gitstore.Create
		}
		s, err := open(c.Config.StorePath, c.AppConfig.Store.Namespace)
		if errors.Is(err, domain.ErrNotInitialized) {
			c.Store, c.StoreInitializer = nil, nil
			return nil
		}
		if err != nil {
			return err
		}
		if c.AppConfig.Store.Encrypt {
			enc, err := c.encryptor(create)
			if errors.Is(err, os.ErrNotExist) {
				c.Store, c.StoreInitializer = nil, nil
				return nil
			}
			if err != nil {
				return err
			}
			s.WithEncryptor(enc)
		}
		c.Store, c.StoreInitializer = s, s
	default:
		return fmt.Errorf("%w: unknown store type %q", domain.ErrValidation, c.AppConfig.Store.Type)
	}
	return nil
}

// encryptor reads the board key from the data directory.
// With create set, a missing key is generated.
func (c *Container) encryptor(create bool) (*crypto.Encryptor, error) {
	path := filepath.Join(c.Config.DataDir, domain.KeyFileName)
	var key string
	var err error
	if create {
		key, _, err = crypto.LoadOrCreateKey(path)
	} else {
		key, err = crypto.ReadKey(path)
	}
	if err != nil {
		return nil, err
	}
	return crypto.NewEncryptor(key)
}

// InitStore creates an empty board if none exists.
// Returns true if a new board was created.
func (c *Container) InitStore() (bool, error) {
	if c.StoreInitializer == nil {
		if err := c.openStore(true); err != nil {
			return false, err
		}
	}
	return c.StoreInitializer.Initialize()
}

// initializerFunc adapts a function to domain.StoreInitializer.
type initializerFunc func() (bool, error)

func (f initializerFunc) Initialize() (bool, error) { return f() }

// InitBoardUseCase returns a new InitBoard use case.
// The store is opened lazily so the git store can create its repository.
func (c *Container) InitBoardUseCase() *usecase.InitBoard {
	return usecase.NewInitBoard(initializerFunc(c.InitStore))
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// Board loads the stored board into a Manager that writes every change back.
func (c *Container) Board() (*manager.Manager, error) {
	if c.Store == nil {
		return nil, domain.ErrNotInitialized
	}
	snap, err := c.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}

	m := manager.New(c.Logger).WithHistory(history.New(c.AppConfig.History.Limit))
	m.Restore(snap)
	return m.WithStore(c.Store), nil
}

// Server returns an HTTP server for m logging requests to the global log.
func (c *Container) Server(m *manager.Manager) *server.Server {
	return server.New(m, c.Slog).WithLocation(c.Location)
}

// Close releases open log files.
func (c *Container) Close() error {
	return c.Logger.Close()
}
