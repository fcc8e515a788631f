package cli

import (
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sammcj/hfscout/config"
	"github.com/sammcj/hfscout/httpapi"
	"github.com/sammcj/hfscout/logging"
	"github.com/sammcj/hfscout/utils"
)

func NewServeCommand(root *RootCommand) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the explorer as a JSON HTTP API",
		Long: `Serves model lookups, scores, alternatives, recommendations and search over HTTP,
with Prometheus metrics on /metrics. Changes to the CORS origins and default
recommendation count in the config file apply without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.Config()
			if listen == "" {
				listen = cfg.ListenAddress
			}
			if !utils.IsLocalhost(listen) {
				logging.InfoLogger.Printf("Listening on non-loopback address %s\n", listen)
			}

			httpapi.SetLogger(log.Logger)

			h := newReloadableHandler(func(c config.Config) http.Handler {
				return httpapi.NewMux(root.Explorer(), root.Client(), httpapi.Options{
					CORSOrigins: c.CORSOrigins,
					DefaultTopN: c.DefaultTopN,
				})
			}, cfg)

			if err := config.Watch(root.cfgPath, h.reload); err != nil {
				logging.ErrorLogger.Printf("Failed to watch config: %v\n", err)
			}

			return httpapi.ListenAndServe(cmd.Context(), listen, h)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default: listen_address from config)")

	return cmd
}

// reloadableHandler rebuilds its handler whenever the config changes
type reloadableHandler struct {
	build   func(config.Config) http.Handler
	current atomic.Pointer[http.Handler]
}

func newReloadableHandler(build func(config.Config) http.Handler, cfg config.Config) *reloadableHandler {
	h := &reloadableHandler{build: build}
	next := build(cfg)
	h.current.Store(&next)
	return h
}

func (h *reloadableHandler) reload(cfg config.Config, err error) {
	if err != nil {
		logging.ErrorLogger.Printf("Ignoring invalid config change: %v\n", err)
		return
	}
	next := h.build(cfg)
	h.current.Store(&next)
	logging.InfoLogger.Println("Reloaded HTTP settings from config")
}

func (h *reloadableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*h.current.Load()).ServeHTTP(w, r)
}
