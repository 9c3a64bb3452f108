package configmanager

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"github.com/devantler-tech/k3d-action/pkg/fsutil"
	"github.com/devantler-tech/k3d-action/pkg/utils/notify"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// ConfigFlag names the flag pointing at an explicit config file.
	ConfigFlag = "config"
	// EnvFileFlag names the flag pointing at a dotenv file.
	EnvFileFlag = "env-file"

	defaultConfigName = "k3d-action"
	maxPort           = 65535
)

// Manager loads v1alpha1.ClusterRequest values through viper.
type Manager struct {
	Viper  *viper.Viper
	Writer io.Writer

	config       *v1alpha1.ClusterRequest
	configLoaded bool
}

// NewManager creates a manager with defaults and environment bindings in place.
func NewManager(writer io.Writer) *Manager {
	if writer == nil {
		writer = io.Discard
	}

	return &Manager{
		Viper:  InitializeViper(),
		Writer: writer,
	}
}

// NewCommandManager creates a manager bound to the flags of cmd. The flags are
// registered on the command as a side effect.
func NewCommandManager(cmd *cobra.Command) *Manager {
	manager := NewManager(cmd.ErrOrStderr())
	AddFlags(cmd.Flags())

	err := manager.Viper.BindPFlags(cmd.Flags())
	if err != nil {
		// BindPFlags only fails on a nil flag set.
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	return manager
}

// InitializeViper returns a viper instance with defaults, environment bindings and
// config file search paths.
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()

	viperInstance.SetConfigName(defaultConfigName)
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath(".")

	for _, setting := range settings {
		viperInstance.SetDefault(setting.key, setting.defaultValue)

		if setting.env != "" {
			// BindEnv only fails without a key.
			_ = viperInstance.BindEnv(setting.key, setting.env)
		}
	}

	return viperInstance
}

// Load resolves the request. The result is cached after the first successful load.
// Loaded files are reported on the manager's writer.
func (m *Manager) Load() (*v1alpha1.ClusterRequest, error) {
	if m.configLoaded {
		return m.config, nil
	}

	err := m.loadEnvFile()
	if err != nil {
		return nil, err
	}

	err = m.readConfig()
	if err != nil {
		return nil, err
	}

	request, err := m.decode()
	if err != nil {
		return nil, err
	}

	m.config = request
	m.configLoaded = true

	return m.config, nil
}

func (m *Manager) loadEnvFile() error {
	path, err := fsutil.ExpandHomePath(m.Viper.GetString(EnvFileFlag))
	if err != nil {
		return v1alpha1.NewConfigurationError(err)
	}

	if path == "" {
		return nil
	}

	// Load never overrides variables that are already set.
	err = godotenv.Load(path)
	if err != nil {
		return v1alpha1.NewConfigurationError(fmt.Errorf("failed to load env file %q: %w", path, err))
	}

	notify.Infof(m.Writer, "loaded environment from %s", path)

	return nil
}

func (m *Manager) readConfig() error {
	path, err := fsutil.ExpandHomePath(m.Viper.GetString(ConfigFlag))
	if err != nil {
		return v1alpha1.NewConfigurationError(err)
	}

	if path != "" {
		m.Viper.SetConfigFile(path)
	}

	err = m.Viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil
		}

		return v1alpha1.NewConfigurationError(fmt.Errorf("failed to read config file: %w", err))
	}

	notify.Infof(m.Writer, "using config file %s", m.Viper.ConfigFileUsed())

	return nil
}

func (m *Manager) decode() (*v1alpha1.ClusterRequest, error) {
	err := m.validatePort()
	if err != nil {
		return nil, err
	}

	request := v1alpha1.NewClusterRequest()

	err = m.Viper.Unmarshal(&request, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			enableFlagDecodeHook(),
		)
	})
	if err != nil {
		return nil, v1alpha1.NewConfigurationError(
			fmt.Errorf("failed to unmarshal configuration: %w", err),
		)
	}

	request.Name = strings.TrimSpace(request.Name)

	if request.Readiness.Interval <= 0 {
		request.Readiness.Interval = v1alpha1.DefaultReadinessInterval
	}

	return &request, nil
}

func (m *Manager) validatePort() error {
	raw := strings.TrimSpace(m.Viper.GetString("registry-port"))

	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > maxPort {
		return v1alpha1.NewConfigurationError(fmt.Errorf("%w: %q", v1alpha1.ErrInvalidRegistryPort, raw))
	}

	return nil
}
