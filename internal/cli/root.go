// Package cli implements the nah-machine CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcliao/nah-machine/internal/catalog"
	"github.com/rcliao/nah-machine/internal/config"
	"github.com/rcliao/nah-machine/internal/gateway"
	"github.com/rcliao/nah-machine/internal/gemini"
	"github.com/rcliao/nah-machine/internal/logger"
	"github.com/rcliao/nah-machine/internal/machine"
	"github.com/rcliao/nah-machine/internal/store"
)

var (
	cfgFile    string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "nah-machine",
	Short: "Reasons to say no, on demand",
	Long:  "Fetch a reason to say no, keep the good ones in liked/saved collections, and have an AI write more like them.",
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := RootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file path (optional)")
	pf.StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	pf.String("store", "sqlite", "Store driver: sqlite, file, redis or memory")
	pf.StringP("db", "d", "", "Store path (default: $NAH_STORE_PATH or ~/.nah-machine/state.db)")
	pf.String("key", "", "Storage key the state is saved under")
	pf.String("source", "catalog", "Reason source: catalog or remote")
	pf.Bool("professional", false, "Enable the professional category")
	pf.String("log-level", "info", "Logging level: debug, info, warn or error")
	pf.String("log-mode", "dev", "Logging mode: dev or prod")

	_ = viper.BindPFlag("store.driver", pf.Lookup("store"))
	_ = viper.BindPFlag("store.path", pf.Lookup("db"))
	_ = viper.BindPFlag("store.key", pf.Lookup("key"))
	_ = viper.BindPFlag("gateway.source", pf.Lookup("source"))
	_ = viper.BindPFlag("catalog.professional", pf.Lookup("professional"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.mode", pf.Lookup("log-mode"))
}

func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)
	if err := config.ReadFile(v, cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

func loadConfig() config.Config {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		exitErr("config", err)
	}
	return cfg
}

func newLogger(cfg config.Config) *logger.Logger {
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		exitErr("logger", err)
	}
	return log
}

func openCatalog(cfg config.Config) *catalog.Catalog {
	cat, err := catalog.Load(catalog.Options{Professional: cfg.Catalog.Professional})
	if err != nil {
		exitErr("load catalog", err)
	}
	return cat
}

func openStore(ctx context.Context, cfg config.Config, log *logger.Logger) (*store.Store, error) {
	backend, err := store.OpenBackend(ctx, store.BackendConfig{
		Driver:    cfg.Store.Driver,
		Path:      cfg.Store.Path,
		RedisAddr: cfg.Store.RedisAddr,
		RedisDB:   cfg.Store.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, backend, store.WithKey(cfg.Store.Key), store.WithLogger(log.With("service", "store")))
	if err != nil {
		backend.Close()
		return nil, err
	}
	return s, nil
}

func newGateway(cfg config.Config, cat *catalog.Catalog, log *logger.Logger) *gateway.Gateway {
	var src gateway.Source = gateway.CatalogSource{Catalog: cat}
	if cfg.Gateway.Source == "remote" {
		src = gateway.NewRemoteSource(cfg.Gateway.RemoteURL, cfg.Gateway.Timeout)
	}

	var gen gateway.Generator
	if cfg.Gemini.APIKey != "" {
		client, err := gemini.New(gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.Gemini.Timeout,
		})
		if err != nil {
			exitErr("gemini", err)
		}
		gen = client
	}
	return gateway.New(src, gen, log)
}

// app bundles everything a command needs. Close releases the store.
type app struct {
	cfg     config.Config
	log     *logger.Logger
	catalog *catalog.Catalog
	store   *store.Store
	machine *machine.Machine
}

func openApp(cmd *cobra.Command) *app {
	cfg := loadConfig()
	log := newLogger(cfg)
	cat := openCatalog(cfg)

	s, err := openStore(cmd.Context(), cfg, log)
	if err != nil {
		exitErr("open store", err)
	}
	return &app{
		cfg:     cfg,
		log:     log,
		catalog: cat,
		store:   s,
		machine: machine.New(s, newGateway(cfg, cat, log), log),
	}
}

func (a *app) Close() {
	a.store.Close()
	a.log.Sync()
}

func textOutput() bool {
	return strings.EqualFold(formatFlag, "text")
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
