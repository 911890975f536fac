package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse/config"
	"github.com/bookverse/bookverse/database"
	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/server"
	"github.com/bookverse/bookverse/storage"
	"github.com/bookverse/bookverse/store"
	"github.com/bookverse/bookverse/version"
	"github.com/bookverse/bookverse/worker"
)

const (
	greetingBanner = `
██████   ██████   ██████  ██   ██ ██    ██ ███████ ██████  ███████ ███████
██   ██ ██    ██ ██    ██ ██  ██  ██    ██ ██      ██   ██ ██      ██
██████  ██    ██ ██    ██ █████   ██    ██ █████   ██████  ███████ █████
██   ██ ██    ██ ██    ██ ██  ██   ██  ██  ██      ██   ██      ██ ██
██████   ██████   ██████  ██   ██   ████   ███████ ██   ██ ███████ ███████
`
)

var (
	configFile string
	host       string
	port       int
	data       string

	rootCmd = &cobra.Command{
		Use:     "bookverse",
		Short:   "BookVerse is a digital book platform server",
		Version: version.GetCurrentVersion(),
		Run: func(cmd *cobra.Command, args []string) {
			config.GetDefaultOptions()
			if configFile != "" {
				if _, err := config.ParseFile(configFile); err != nil {
					fmt.Println("Error parsing config file:", err)
					os.Exit(1)
				}
			}
			// Flags override both defaults and file.
			if host != "" {
				config.Opts.Host = host
			}
			if port != 0 {
				config.Opts.Port = port
			}
			if data != "" {
				config.Opts.Data = data
			}
			if _, err := config.ResolveDataDir(); err != nil {
				fmt.Println("Error loading config:", err)
				os.Exit(1)
			}

			log.Logger = log.NewLogger()
			defer log.Logger.Sync()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			db, err := database.NewDB()
			if err != nil {
				log.Error("Error connecting to database", zap.Error(err))
				return
			}
			defer db.Close()
			if err := database.Migrate(ctx, db); err != nil {
				log.Error("Error migrating database", zap.Error(err))
				return
			}

			s := store.NewStore(db)
			if err := s.Ping(); err != nil {
				log.Error("Error pinging database", zap.Error(err))
				return
			}

			localStorage := storage.NewLocalStorage()
			pool := worker.NewJanitorPool(s, localStorage, config.Opts.WorkerPoolSize)

			httpServer, err := server.StartServer(s, pool, localStorage)
			if err != nil {
				log.Error("Error starting server", zap.Error(err))
				return
			}

			fmt.Print(greetingBanner)
			log.Info("Server started",
				zap.String("host", config.Opts.Host),
				zap.Int("port", config.Opts.Port),
				zap.String("data", config.Opts.Data))

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			log.Info("Shutting down server")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down server", zap.Error(err))
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "host to listen on")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "port to listen on")
	rootCmd.PersistentFlags().StringVar(&data, "data", "", "data directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
