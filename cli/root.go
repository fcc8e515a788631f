// Package cli implements the hfscout command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sammcj/hfscout/config"
	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/explorer"
	"github.com/sammcj/hfscout/huggingface"
	"github.com/sammcj/hfscout/logging"
	"github.com/sammcj/hfscout/styles"
	"github.com/sammcj/hfscout/utils"
)

var (
	cliVersion   = "dev"
	cliBuildDate = "unknown"
	cliGitCommit = "unknown"
)

type RootCommand struct {
	cmd       *cobra.Command
	flags     *viper.Viper
	cfg       config.Config
	cfgPath   string
	client    *huggingface.Client
	explorer  *explorer.Explorer
	events    *core.EventBus
	opts      *OutputOptions
	formatStr string
}

func NewRootCommand() *RootCommand {
	root := &RootCommand{
		flags:  viper.New(),
		opts:   NewOutputOptions(),
		events: core.NewEventBus(),
	}

	cmd := &cobra.Command{
		Use:   "hfscout",
		Short: "hfscout - Hugging Face model explorer",
		Long: `hfscout inspects models on the Hugging Face Hub and answers deployment questions:
how much memory a model needs, whether its license allows your use, how production
ready it is, what the cheaper or better alternatives are and which models fit a
set of requirements.`,
		PersistentPreRunE: root.persistentPreRunE,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pflags := cmd.PersistentFlags()

	pflags.StringVarP(&root.formatStr, "output", "o", "table", "Output format (table, json, yaml)")
	pflags.BoolVarP(&root.opts.Quiet, "quiet", "q", false, "Suppress output")
	pflags.String("config", "", "Config file path (default: ~/.config/hfscout/config.json)")
	pflags.String("token", "", "Hugging Face access token (overrides config and HF_TOKEN)")
	pflags.String("api-url", "", "Hugging Face API base URL")
	pflags.String("log-level", "", "Log level (debug, info, warn, error)")
	pflags.StringSlice("pool", nil, "Model IDs to compare against instead of the curated pool")

	root.flags.BindPFlag("config", pflags.Lookup("config"))
	root.flags.BindPFlag("hf_token", pflags.Lookup("token"))
	root.flags.BindPFlag("hf_api_url", pflags.Lookup("api-url"))
	root.flags.BindPFlag("log_level", pflags.Lookup("log-level"))
	root.flags.BindPFlag("pool", pflags.Lookup("pool"))

	root.cmd = cmd

	root.addSubCommands()

	return root
}

func (r *RootCommand) persistentPreRunE(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(r.formatStr)
	if err != nil {
		return err
	}
	r.opts.Format = format

	r.cfgPath = utils.ExpandHome(r.flags.GetString("config"))
	if r.cfgPath == "" {
		r.cfgPath = utils.GetConfigPath()
	}
	r.cfg, err = config.LoadConfigFrom(r.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags only override the config when given
	if r.flags.IsSet("hf_token") {
		r.cfg.HFToken = r.flags.GetString("hf_token")
	}
	if r.flags.IsSet("hf_api_url") {
		r.cfg.HFAPIURL = r.flags.GetString("hf_api_url")
	}
	if r.flags.IsSet("log_level") {
		r.cfg.LogLevel = r.flags.GetString("log_level")
	}

	if err := logging.Init(r.cfg.LogLevel, r.cfg.LogFilePath); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logging.DebugLogger.Printf("Loaded config from %s\n", r.cfgPath)

	theme, err := config.LoadThemeFrom(filepath.Join(filepath.Dir(r.cfgPath), "themes"), r.cfg.Theme)
	if err != nil {
		logging.ErrorLogger.Printf("Failed to load theme %s: %v\n", r.cfg.Theme, err)
		fallback := config.DarkNeonTheme
		theme = &fallback
	}
	styles.InitTheme(theme)

	r.client = huggingface.NewClient(r.cfg.HFAPIURL, r.cfg.HFToken)
	r.explorer = explorer.New(r.client, explorer.Options{
		Concurrency: r.cfg.PoolConcurrency,
		PoolIDs:     r.flags.GetStringSlice("pool"),
		Events:      r.events,
	})

	return nil
}

func (r *RootCommand) addSubCommands() {
	r.cmd.AddCommand(NewVersionCommand(r))
	r.cmd.AddCommand(NewInspectCommand(r))
	r.cmd.AddCommand(NewReportCommand(r))
	r.cmd.AddCommand(NewCompatibilityCommand(r))
	r.cmd.AddCommand(NewScoreCommand(r))
	r.cmd.AddCommand(NewLicenseCommand(r))
	r.cmd.AddCommand(NewAlternativesCommand(r))
	r.cmd.AddCommand(NewRecommendCommand(r))
	r.cmd.AddCommand(NewWizardCommand(r))
	r.cmd.AddCommand(NewCompareCommand(r))
	r.cmd.AddCommand(NewQuantCommand(r))
	r.cmd.AddCommand(NewHardwareCommand(r))
	r.cmd.AddCommand(NewPoolCommand(r))
	r.cmd.AddCommand(NewSearchCommand(r))
	r.cmd.AddCommand(NewTrendingCommand(r))
	r.cmd.AddCommand(NewServeCommand(r))
}

func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

func (r *RootCommand) Config() config.Config {
	return r.cfg
}

func (r *RootCommand) Explorer() *explorer.Explorer {
	return r.explorer
}

func (r *RootCommand) Client() *huggingface.Client {
	return r.client
}

func (r *RootCommand) OutputOptions() *OutputOptions {
	return r.opts
}

func (r *RootCommand) SetOutputWriter(w io.Writer) {
	r.opts.Writer = w
}

func (r *RootCommand) SetErrorWriter(w io.Writer) {
	r.opts.Err = w
}

func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the command tree, printing any failure through PrintError
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if err != nil {
		PrintError(err, r.opts)
	}
	return err
}

func Execute() {
	root := NewRootCommand()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func SetVersion(version, buildDate, gitCommit string) {
	cliVersion = version
	cliBuildDate = buildDate
	cliGitCommit = gitCommit
}

func GetVersion() string {
	return cliVersion
}
