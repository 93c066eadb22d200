// Command cubeworld-server runs the authoritative world simulation and
// the websocket transport that replicates it to connected clients.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/onuse/cubeworld/config"
	"github.com/onuse/cubeworld/cubesphere"
	"github.com/onuse/cubeworld/interest"
	"github.com/onuse/cubeworld/metrics"
	"github.com/onuse/cubeworld/netserver"
	"github.com/onuse/cubeworld/session"
	"github.com/onuse/cubeworld/streaming"
	"github.com/onuse/cubeworld/voxel"
	"github.com/onuse/cubeworld/world"
)

var (
	// Version is set at build time via -ldflags.
	Version = "dev"

	settingsPath string
)

var rootCmd = &cobra.Command{
	Use:           "cubeworld-server",
	Short:         "Cubeworld authoritative world server",
	Long:          "Runs the authoritative voxel-planet simulation and serves it to clients over websocket.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the websocket world server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cubeworld-server", Version)
	},
}

func init() {
	serveCmd.Flags().StringVar(&settingsPath, "config", "settings.yaml", "path to a YAML settings override file")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println("cubeworld-server:", err)
		os.Exit(1)
	}
}

func runServer() error {
	settings, err := config.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if settings.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwtSecret must be set in %s", settingsPath)
	}

	w := world.New()
	repl := world.NewReplicationServer()
	interestSys := interest.New()
	replicationSet := world.NewReplicationSet()
	world.Register[session.PlayerState](replicationSet, "PlayerState")
	tokens := session.NewTokenIssuer([]byte(settings.Auth.JWTSecret), time.Duration(settings.Auth.TokenTTLMs)*time.Millisecond)
	sessions := session.NewManager(w, repl, interestSys, settings.Grace, tokens)
	reg := metrics.NewRegistry()

	chunkStore := voxel.NewChunkManager()
	chunkProvider := func(addr cubesphere.ChunkAddress) ([]byte, bool) {
		chunk := chunkStore.Chunk(addr)
		if chunk == nil {
			return nil, false
		}
		data, err := chunk.Marshal()
		if err != nil {
			return nil, false
		}
		return data, true
	}

	hub := netserver.NewHub(w, repl, interestSys, sessions, replicationSet, streaming.ChunkDataProvider(chunkProvider), reg)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Registry, promhttp.HandlerOpts{}))

	tickInterval := time.Second / time.Duration(settings.Server.TickRate)
	go runTickLoop(hub, tickInterval)

	addr := fmt.Sprintf(":%d", settings.Server.Port)
	log.Printf("cubeworld-server: listening on %s (tick rate %dHz)", addr, settings.Server.TickRate)
	return http.ListenAndServe(addr, mux)
}

// runTickLoop drives Hub.Tick at the configured rate, mirroring the
// teacher's simulationLoop ticker pattern.
func runTickLoop(hub *netserver.Hub, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var tick uint64
	start := time.Now()
	for range ticker.C {
		tick++
		worldTime := time.Since(start).Seconds()
		hub.Tick(tick, worldTime, nil)
	}
}
