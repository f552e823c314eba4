package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telekom/mail-dispatcher/pkg/config"
	"github.com/telekom/mail-dispatcher/pkg/mail"
	"github.com/telekom/mail-dispatcher/pkg/mailctl/output"
	"github.com/telekom/mail-dispatcher/pkg/system"
)

type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
	// Logger overrides the logger built from --debug.
	Logger *zap.Logger
	// TransportFactory overrides the gomail transport.
	TransportFactory mail.TransportFactory
}

type runtimeState struct {
	configPath       string
	cfg              *config.Config
	outputFormat     string
	debug            bool
	writer           io.Writer
	logger           *zap.Logger
	transportFactory mail.TransportFactory
	components       *mail.Components
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   os.Getenv(config.ConfigPathEnv),
		OutputWriter: os.Stdout,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{
		configPath:       cfg.ConfigPath,
		writer:           cfg.OutputWriter,
		logger:           cfg.Logger,
		transportFactory: cfg.TransportFactory,
	}

	root := &cobra.Command{
		Use:   "mailctl",
		Short: "Tenant-aware mail dispatcher CLI",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.outputFormat == "" {
				rt.outputFormat = os.Getenv("MAILCTL_OUTPUT")
			}
			if !rt.debug {
				rt.debug = strings.EqualFold(os.Getenv("MAILCTL_DEBUG"), "true")
			}
			if rt.logger == nil {
				logger, err := system.NewLogger(rt.debug)
				if err != nil {
					return err
				}
				rt.logger = logger
			}

			// Skip config loading for commands that don't need it
			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			return rt.EnsureConfigLoaded()
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file")
	root.PersistentFlags().StringVarP(&rt.outputFormat, "output", "o", "", "Output format: table, json, yaml")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "Enable debug logging")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewSendCommand(),
		NewTenantsCommand(),
		NewCibaCommand(),
		NewCompletionCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) OutputFormat() (output.Format, error) {
	return output.ParseFormat(rt.outputFormat)
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) Logger() *zap.SugaredLogger {
	if rt.logger == nil {
		return zap.NewNop().Sugar()
	}
	return rt.logger.Sugar()
}

func (rt *runtimeState) EnsureConfigLoaded() error {
	if rt.cfg != nil {
		return nil
	}
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	rt.cfg = &cfg
	return nil
}

// Components builds the dispatcher from the loaded config on first use.
func (rt *runtimeState) Components() (*mail.Components, error) {
	if rt.components != nil {
		return rt.components, nil
	}
	if err := rt.EnsureConfigLoaded(); err != nil {
		return nil, err
	}
	c, err := mail.NewFromConfig(*rt.cfg, rt.Logger())
	if err != nil {
		return nil, err
	}
	if rt.transportFactory != nil {
		c.Dispatcher.WithTransportFactory(rt.transportFactory)
	}
	rt.components = c
	return c, nil
}
