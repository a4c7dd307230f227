package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	gemini "github.com/bububa/gemini-go"
)

const defaultModel = "gemini-1.5-flash"

var (
	rootCmd = &cobra.Command{
		Use:               "gemini",
		Short:             "Talk to the Gemini API from the command line",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
	cfgFile string
)

var WrappedStdin io.Reader = os.Stdin
var WrappedStdout io.Writer = os.Stdout
var WrappedStderr io.Writer = os.Stderr

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("api-key", "", "API key, defaults to $GEMINI_API_KEY")
	flags.StringP("model", "m", defaultModel, "model name")
	flags.String("base-url", gemini.DefaultBaseURL, "API host")
	flags.Duration("timeout", gemini.DefaultTimeout, "request timeout")
	flags.Int("max-retries", gemini.DefaultMaxRetries, "retries for undecodable JSON replies")
	flags.BoolP("verbose", "v", false, "log requests and responses")
	for _, name := range []string{"api-key", "model", "base-url", "timeout", "max-retries", "verbose"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	viper.SetEnvPrefix("GEMINI")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	}
	return nil
}

func newClient() (*gemini.Client, error) {
	opts := []gemini.Option{
		gemini.WithAPIKey(viper.GetString("api-key")),
		gemini.WithBaseURL(viper.GetString("base-url")),
		gemini.WithTimeout(viper.GetDuration("timeout")),
		gemini.WithMaxRetries(viper.GetInt("max-retries")),
	}
	if viper.GetBool("verbose") {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, gemini.WithLogger(logger), gemini.WithVerbose())
	}
	return gemini.New(opts...)
}

func modelFlag() string {
	return viper.GetString("model")
}

func WriteStdout(fmtStr string, args ...any) {
	fmt.Fprintf(WrappedStdout, fmtStr, args...)
}

func WriteStderr(fmtStr string, args ...any) {
	fmt.Fprintf(WrappedStderr, fmtStr, args...)
}

// Execute executes the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
