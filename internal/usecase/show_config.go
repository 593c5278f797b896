package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/runoshun/schedule/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct{}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	EffectiveConfig *domain.Config    // Defaults merged with both files
	GlobalConfig    domain.ConfigInfo // Global config file info
	LocalConfig     domain.ConfigInfo // Data directory config file info
}

// ShowConfig reports which config files exist and the merged result.
type ShowConfig struct {
	configManager domain.ConfigManager
	configLoader  domain.ConfigLoader
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configManager domain.ConfigManager, configLoader domain.ConfigLoader) *ShowConfig {
	return &ShowConfig{
		configManager: configManager,
		configLoader:  configLoader,
	}
}

// Execute loads the effective configuration and checks both file locations.
func (uc *ShowConfig) Execute(_ context.Context, _ ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &ShowConfigOutput{
		EffectiveConfig: cfg,
		GlobalConfig:    configInfo(uc.configManager.GlobalConfigPath()),
		LocalConfig:     configInfo(uc.configManager.LocalConfigPath()),
	}, nil
}

func configInfo(path string) domain.ConfigInfo {
	if path == "" {
		return domain.ConfigInfo{}
	}
	_, err := os.Stat(path)
	return domain.ConfigInfo{Path: path, Exists: err == nil}
}
